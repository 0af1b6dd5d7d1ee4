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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

func TestEventLogKeepsMostRecent(t *testing.T) {
	l := NewEventLog(3)
	for i := 0; i < 5; i++ {
		l.Append(float64(i), fmt.Sprintf("event %d", i))
	}

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "event 2", entries[0].Message)
	assert.Equal(t, "event 4", entries[2].Message)
	assert.Equal(t, 4.0, entries[2].Timestamp)
}

func TestEventLogEntriesIsACopy(t *testing.T) {
	l := NewEventLog(10)
	l.Append(0.5, "original")

	entries := l.Entries()
	entries[0].Message = "tampered"
	_ = append(entries, entries[0])

	again := l.Entries()
	require.Len(t, again, 1)
	assert.Equal(t, "original", again[0].Message)
}

func TestEventLogClear(t *testing.T) {
	l := NewEventLog(0)
	l.Append(0, "x")
	l.Clear()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Entries())
	assert.Equal(t, DefaultEventLogCapacity, l.capacity)
}

func TestEngineEventLogBounded(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.EventLogCapacity = 5
	e := NewEngine(cfg)
	for i := 0; i < 20; i++ {
		e.TriggerPaging()
		e.Tick()
	}
	assert.Len(t, e.GetEventLog(), 5)
}

func TestThresholdRegistry(t *testing.T) {
	assert.Equal(t, Thresholds{Short: 10000, Long: 20000}, ThresholdsFor(models.Streaming))
	assert.Equal(t, Thresholds{Short: 200, Long: 5000}, ThresholdsFor(models.IoT))
}
