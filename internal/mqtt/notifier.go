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

package mqtt

import (
	"log"
	"sync"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

const DefaultNotifierQueue = 64

// Notifier turns driver snapshots into state change events. Observe never
// blocks: events are handed to a worker and dropped when its queue is full.
type Notifier struct {
	publisher Publisher
	simId     string

	mu        sync.Mutex
	observed  bool
	closed    bool
	lastState models.RRCState
	lastCount int64
	dropped   int64
	queue     chan StateChangeEvent
	done      chan struct{}
	closeOnce sync.Once
}

func NewNotifier(publisher Publisher, simId string, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = DefaultNotifierQueue
	}
	n := &Notifier{
		publisher: publisher,
		simId:     simId,
		queue:     make(chan StateChangeEvent, queueSize),
		done:      make(chan struct{}),
	}
	go n.run()
	return n
}

// Observe is meant to be registered as a driver subscriber.
func (n *Notifier) Observe(snap models.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	changed := !n.observed || snap.State != n.lastState || snap.TransitionCount != n.lastCount
	if !changed {
		return
	}
	from := n.lastState
	if !n.observed {
		from = snap.State
	}
	n.observed = true
	n.lastState = snap.State
	n.lastCount = snap.TransitionCount

	event := StateChangeEvent{
		SimulationId:    n.simId,
		ElapsedSeconds:  snap.ElapsedSeconds,
		From:            from,
		To:              snap.State,
		Profile:         snap.Profile,
		TransitionCount: snap.TransitionCount,
		TotalEnergy:     snap.TotalEnergy,
	}
	select {
	case n.queue <- event:
	default:
		n.dropped++
		if n.dropped == 1 || n.dropped%100 == 0 {
			log.Printf("[%s] mqtt queue full, %d events dropped", n.simId, n.dropped)
		}
	}
}

// Dropped returns the number of events discarded because the queue was full.
func (n *Notifier) Dropped() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

// Close drains the queue and stops the worker. The publisher is left open.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		n.closed = true
		close(n.queue)
		n.mu.Unlock()
		<-n.done
	})
}

func (n *Notifier) run() {
	defer close(n.done)
	for event := range n.queue {
		if err := n.publisher.Publish(event); err != nil {
			log.Printf("[%s] could not publish state change: %v", n.simId, err)
		}
	}
}
