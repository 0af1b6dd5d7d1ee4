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
	"github.com/gammazero/deque"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

const DefaultEventLogCapacity = 100

// EventLog keeps the most recent timestamped event descriptions.
// Not safe for concurrent use.
type EventLog struct {
	entries  deque.Deque[models.EventLogEntry]
	capacity int
}

func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventLogCapacity
	}
	l := &EventLog{capacity: capacity}
	l.entries.Grow(capacity)
	return l
}

func (l *EventLog) Append(timestamp float64, message string) {
	l.entries.PushBack(models.EventLogEntry{Timestamp: timestamp, Message: message})
	for l.entries.Len() > l.capacity {
		l.entries.PopFront()
	}
}

// Entries returns the log oldest first. The slice is owned by the caller.
func (l *EventLog) Entries() []models.EventLogEntry {
	out := make([]models.EventLogEntry, l.entries.Len())
	for i := range out {
		out[i] = l.entries.At(i)
	}
	return out
}

func (l *EventLog) Len() int {
	return l.entries.Len()
}

func (l *EventLog) Clear() {
	l.entries.Clear()
}
