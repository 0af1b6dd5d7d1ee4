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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countPackets drives a generator one simulated millisecond at a time.
func countPackets(gen TrafficGenerator, until time.Duration) []time.Duration {
	var stamps []time.Duration
	for now := time.Duration(0); now < until; now += time.Millisecond {
		if pkt := gen.NextPacket(now); pkt != nil {
			stamps = append(stamps, pkt.Timestamp)
		}
	}
	return stamps
}

func TestIoTTrafficHeartbeat(t *testing.T) {
	gen := NewIoTTraffic(1000, 15*time.Second)
	stamps := countPackets(gen, 61*time.Second)
	assert.Equal(t, []time.Duration{15 * time.Second, 30 * time.Second, 45 * time.Second, 60 * time.Second}, stamps)
}

func TestVoIPTrafficRate(t *testing.T) {
	gen := NewVoIPTraffic(600, 50)
	stamps := countPackets(gen, time.Second)
	require.Len(t, stamps, 49)
	assert.Equal(t, 20*time.Millisecond, stamps[1]-stamps[0])
}

func TestVideoTrafficIsNearlyContinuous(t *testing.T) {
	gen := NewVideoTraffic(8e6, 1300)
	stamps := countPackets(gen, 100*time.Millisecond)
	assert.Len(t, stamps, 49)
}

func TestWebTrafficAlternatesBurstAndIdle(t *testing.T) {
	gen := NewWebTraffic(2e6, 1200, 1*time.Second, 2*time.Second)
	stamps := countPackets(gen, 4*time.Second)
	require.NotEmpty(t, stamps)

	var second []time.Duration
	for _, ts := range stamps {
		inFirstBurst := ts < time.Second
		inSecondBurst := ts >= 3*time.Second
		assert.True(t, inFirstBurst || inSecondBurst, "packet at %s falls in an idle period", ts)
		if inSecondBurst {
			second = append(second, ts)
		}
	}
	// periods last exactly their configured length
	require.NotEmpty(t, second)
	assert.Equal(t, 3*time.Second, second[0])
	assert.Less(t, stamps[len(stamps)-1], 4*time.Second)
}

func TestGeneratorReset(t *testing.T) {
	for _, name := range []string{"web", "video", "iot", "sip", "markov"} {
		t.Run(name, func(t *testing.T) {
			gen, err := NewGenerator(name)
			require.NoError(t, err)
			first := countPackets(gen, 40*time.Second)
			gen.Reset()
			assert.Equal(t, first, countPackets(gen, 40*time.Second))
		})
	}
}

func TestMarkovTrafficAlternates(t *testing.T) {
	gen := NewMarkovTraffic(400, 20*time.Millisecond, time.Second, 200*time.Millisecond, 7)
	stamps := countPackets(gen, 60*time.Second)

	require.NotEmpty(t, stamps)
	// silent most of the time
	assert.Less(t, len(stamps), int(60*time.Second/(20*time.Millisecond)))

	same := NewMarkovTraffic(400, 20*time.Millisecond, time.Second, 200*time.Millisecond, 7)
	assert.Equal(t, stamps, countPackets(same, 60*time.Second))
}

func TestNewGenerator(t *testing.T) {
	gen, err := NewGenerator("none")
	assert.NoError(t, err)
	assert.Nil(t, gen)

	_, err = NewGenerator("ftp")
	assert.Error(t, err)
}

func TestBurstDuration(t *testing.T) {
	assert.Equal(t, 1*time.Millisecond, BurstDuration(&Packet{SizeBytes: 100}, 10e6))
	assert.Equal(t, 2*time.Millisecond, BurstDuration(&Packet{SizeBytes: 1300}, 10e6))
	assert.Equal(t, 800*time.Millisecond, BurstDuration(&Packet{SizeBytes: 100000}, 1e6))
	assert.Equal(t, 1*time.Millisecond, BurstDuration(&Packet{SizeBytes: 1000}, 0))
}
