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

// PeriodicTraffic sends fixed-size packets at a constant simulated interval.
// The first packet leaves one interval after time zero.
type PeriodicTraffic struct {
	PacketSize int
	Interval   time.Duration

	lastPacketTime time.Duration
}

func NewPeriodicTraffic(pktSize int, interval time.Duration) *PeriodicTraffic {
	return &PeriodicTraffic{
		PacketSize: pktSize,
		Interval:   interval,
	}
}

// NewIoTTraffic models a sensor reporting once per heartbeat.
func NewIoTTraffic(pktSize int, heartbeat time.Duration) *PeriodicTraffic {
	return NewPeriodicTraffic(pktSize, heartbeat)
}

// NewVideoTraffic models a constant bitrate stream cut into pktSize packets.
func NewVideoTraffic(bitrate float64, pktSize int) *PeriodicTraffic {
	pktPerSec := bitrate / float64(pktSize*8)
	return NewPeriodicTraffic(pktSize, time.Duration(1e9/pktPerSec))
}

// NewVoIPTraffic models a voice codec sending pktRate packets per second.
func NewVoIPTraffic(pktSize int, pktRate float64) *PeriodicTraffic {
	return NewPeriodicTraffic(pktSize, time.Duration(1e9/pktRate))
}

func (p *PeriodicTraffic) NextPacket(now time.Duration) *Packet {
	if now-p.lastPacketTime < p.Interval {
		return nil
	}
	p.lastPacketTime = now
	return &Packet{SizeBytes: p.PacketSize, Timestamp: now}
}

func (p *PeriodicTraffic) Reset() {
	p.lastPacketTime = 0
}
