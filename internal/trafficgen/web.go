// Copyright 2025 EURECOM
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Contributors:
//   Giulio CAROTA
//   Thomas DU
//   Adlen KSENTINI

package trafficgen

import "time"

// WebTraffic alternates browsing bursts, paced at the burst bitrate, with
// silent reading periods.
type WebTraffic struct {
	BurstDuration time.Duration
	IdleDuration  time.Duration

	pacer     *PeriodicTraffic
	periodEnd time.Duration
	inBurst   bool
}

func NewWebTraffic(bitrate float64, pktSize int, burst, idle time.Duration) *WebTraffic {
	w := &WebTraffic{
		BurstDuration: burst,
		IdleDuration:  idle,
		pacer:         NewVideoTraffic(bitrate, pktSize),
	}
	w.Reset()
	return w
}

func (w *WebTraffic) NextPacket(now time.Duration) *Packet {
	if now >= w.periodEnd {
		w.inBurst = !w.inBurst
		if w.inBurst {
			w.periodEnd = now + w.BurstDuration
		} else {
			w.periodEnd = now + w.IdleDuration
		}
	}
	if !w.inBurst {
		return nil
	}
	return w.pacer.NextPacket(now)
}

// Reset opens with an idle period that ends at time zero, so the first call starts a burst.
func (w *WebTraffic) Reset() {
	w.pacer.Reset()
	w.periodEnd = 0
	w.inBurst = false
}
