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
	"sort"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

const DefaultHistoryCapacity = 10000

// History is a bounded trace of per-tick samples.
// When full, the oldest tenth is dropped in a single shift instead of one sample per tick.
// Not safe for concurrent use.
type History struct {
	samples  []models.HistorySample
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		samples:  make([]models.HistorySample, 0, capacity),
		capacity: capacity,
	}
}

func (h *History) Push(sample models.HistorySample) {
	if len(h.samples) >= h.capacity {
		trim := max(h.capacity/10, 1)
		n := copy(h.samples, h.samples[trim:])
		h.samples = h.samples[:n]
	}
	h.samples = append(h.samples, sample)
}

// Window returns a copy of the trailing samples with Time >= now-windowSeconds.
// Sample times are non-decreasing, so the cut point is found by binary search.
func (h *History) Window(now, windowSeconds float64) []models.HistorySample {
	cutoff := now - windowSeconds
	start := sort.Search(len(h.samples), func(i int) bool {
		return h.samples[i].Time >= cutoff
	})
	out := make([]models.HistorySample, len(h.samples)-start)
	copy(out, h.samples[start:])
	return out
}

func (h *History) Len() int {
	return len(h.samples)
}

func (h *History) Capacity() int {
	return h.capacity
}

func (h *History) Clear() {
	h.samples = h.samples[:0]
}
