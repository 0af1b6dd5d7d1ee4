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

package rrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

func sampleAt(ms int) models.HistorySample {
	return models.HistorySample{Time: float64(ms) / 1000.0, State: models.Connected}
}

func TestHistoryEvictsTenPercentWhenFull(t *testing.T) {
	h := NewHistory(100)
	for i := 0; i < 100; i++ {
		h.Push(sampleAt(i))
	}
	require.Equal(t, 100, h.Len())

	h.Push(sampleAt(100))
	assert.Equal(t, 91, h.Len())

	all := h.Window(1.0, 10)
	assert.InDelta(t, 0.010, all[0].Time, 1e-12, "oldest ten samples dropped")
	assert.InDelta(t, 0.100, all[len(all)-1].Time, 1e-12)

	// no further eviction until full again
	for i := 101; i < 110; i++ {
		h.Push(sampleAt(i))
	}
	assert.Equal(t, 100, h.Len())
}

func TestHistorySmallCapacityEvictsAtLeastOne(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Push(sampleAt(i))
	}
	all := h.Window(1, 10)
	require.Len(t, all, 3)
	assert.InDelta(t, 0.002, all[0].Time, 1e-12)
}

func TestHistoryWindow(t *testing.T) {
	h := NewHistory(10000)
	for i := 0; i < 3000; i++ {
		h.Push(sampleAt(i))
	}

	tests := []struct {
		name   string
		window float64
		want   int
	}{
		{"one second", 1.0, 1000},
		{"half second", 0.5, 500},
		{"longer than run", 60, 3000},
		{"zero", 0, 0},
		{"negative", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, h.Window(3.0, tt.window), tt.want)
		})
	}
}

func TestHistoryWindowEmpty(t *testing.T) {
	h := NewHistory(10)
	got := h.Window(0, 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHistoryWindowIsACopy(t *testing.T) {
	h := NewHistory(10)
	h.Push(sampleAt(0))
	got := h.Window(0.001, 1)
	got[0].State = models.Idle
	assert.Equal(t, models.Connected, h.Window(0.001, 1)[0].State)
}

func TestEngineHistoryBounded(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.HistoryCapacity = 1000
	e := NewEngine(cfg)
	tickN(e, 1001)

	assert.Equal(t, 901, e.history.Len())
	assert.Len(t, e.GetHistory(100), 901)
	assert.Equal(t, int64(1001), e.Clock(), "eviction never touches the clock")
}

func TestNewHistoryDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultHistoryCapacity, NewHistory(0).Capacity())
}
