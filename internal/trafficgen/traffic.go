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

// Package trafficgen provides workload generators that run on the simulated
// clock. Each emitted packet becomes a data request whose burst lasts as long
// as the packet takes to send over the configured link.
package trafficgen

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Packet represents a network packet emitted by a traffic generator
type Packet struct {
	SizeBytes int           // Packet size in bytes
	Timestamp time.Duration // Simulated time when generated
}

// TrafficGenerator defines the interface for all traffic generators
type TrafficGenerator interface {
	NextPacket(now time.Duration) *Packet
	// Reset rewinds the generator to simulated time zero.
	Reset()
}

const DefaultLinkBitrate = 10e6

// BurstDuration is the airtime of a packet on a link of linkBitrate bits/s, rounded up
// to whole ticks and never shorter than one tick.
func BurstDuration(pkt *Packet, linkBitrate float64) time.Duration {
	if linkBitrate <= 0 {
		linkBitrate = DefaultLinkBitrate
	}
	ms := math.Ceil(float64(pkt.SizeBytes*8) * 1000 / linkBitrate)
	return time.Duration(max(ms, 1)) * time.Millisecond
}

// NewGenerator builds one of the named workloads with its default parameters.
// An empty name or "none" returns a nil generator.
func NewGenerator(name string) (TrafficGenerator, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return nil, nil
	case "web":
		return NewWebTraffic(2e6, 1200, 6*time.Second, 10*time.Second), nil
	case "video":
		return NewVideoTraffic(8e6, 1300), nil
	case "iot":
		return NewIoTTraffic(1000, 15*time.Second), nil
	case "sip":
		return NewVoIPTraffic(600, 50), nil
	case "markov":
		return NewMarkovTraffic(400, 20*time.Millisecond, 2*time.Second, 200*time.Millisecond, 1), nil
	}
	return nil, fmt.Errorf("unknown workload %q", name)
}
