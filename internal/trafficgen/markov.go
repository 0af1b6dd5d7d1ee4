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

import (
	"math/rand/v2"
	"time"
)

type sourceState int

const (
	silent sourceState = iota
	active
)

type transition struct {
	To          sourceState
	Probability float64
}

// MarkovTraffic is an on/off source driven by a two-state Markov chain
// stepped once per call. While active it sends a packet every PacketInterval.
type MarkovTraffic struct {
	PacketSize     int
	PacketInterval time.Duration

	transitions map[sourceState][]transition
	seed        uint64
	rng         *rand.Rand
	state       sourceState
	lastPacket  time.Duration
}

// NewMarkovTraffic builds a source whose silent and active periods have the
// given mean lengths, in calls (one per simulated millisecond).
func NewMarkovTraffic(pktSize int, interval time.Duration, meanSilence, meanActivity time.Duration, seed uint64) *MarkovTraffic {
	toActive := 1 / float64(max(meanSilence.Milliseconds(), 1))
	toSilent := 1 / float64(max(meanActivity.Milliseconds(), 1))
	m := &MarkovTraffic{
		PacketSize:     pktSize,
		PacketInterval: interval,
		transitions: map[sourceState][]transition{
			silent: {
				{To: active, Probability: toActive},
				{To: silent, Probability: 1 - toActive},
			},
			active: {
				{To: silent, Probability: toSilent},
				{To: active, Probability: 1 - toSilent},
			},
		},
		seed: seed,
	}
	m.Reset()
	return m
}

func (m *MarkovTraffic) nextState() sourceState {
	rnd := m.rng.Float64()
	cumulative := 0.0
	for _, t := range m.transitions[m.state] {
		cumulative += t.Probability
		if rnd < cumulative {
			return t.To
		}
	}
	return m.state
}

func (m *MarkovTraffic) NextPacket(now time.Duration) *Packet {
	previous := m.state
	m.state = m.nextState()
	if m.state != active {
		return nil
	}
	// the first packet of an active period leaves immediately
	if previous != active || now-m.lastPacket >= m.PacketInterval {
		m.lastPacket = now
		return &Packet{SizeBytes: m.PacketSize, Timestamp: now}
	}
	return nil
}

// Reset reseeds the chain, so a reset source replays the same sequence.
func (m *MarkovTraffic) Reset() {
	m.rng = rand.New(rand.NewPCG(m.seed, m.seed))
	m.state = silent
	m.lastPacket = 0
}
