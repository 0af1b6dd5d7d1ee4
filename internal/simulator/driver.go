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

package simulator

import (
	"context"
	"log"
	"sync"
	"time"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/components/rrc"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/trafficgen"
)

type DriverStatus string

const (
	DriverStopped DriverStatus = "STOPPED"
	DriverRunning DriverStatus = "RUNNING"
)

const (
	DefaultTicksPerBatch = 10
	DefaultBatchPeriod   = 10 * time.Millisecond
	DefaultHistoryWindow = 10.0
)

type DriverConfig struct {
	TicksPerBatch int
	BatchPeriod   time.Duration
	HistoryWindow float64 // seconds of history carried by each snapshot
	LinkBitrate   float64 // bits/s used to turn workload packets into bursts
}

// Subscriber receives one snapshot per batch, on the driver goroutine.
// It must return quickly: the driver does not time it out.
type Subscriber func(snap models.Snapshot)

type SubscriptionId uint64

type subscription struct {
	id SubscriptionId
	fn Subscriber
}

// Driver owns an Engine and is its only writer. It ticks the engine in batches
// on a wall-clock period and serialises every command against the batches, so
// a command always lands between two ticks.
type Driver struct {
	engineMutex sync.Mutex
	engine      *rrc.Engine
	workload    trafficgen.TrafficGenerator
	traffic     models.TrafficStats
	config      DriverConfig

	status DriverStatus
	cancel context.CancelFunc

	subMutex    sync.RWMutex
	subscribers []subscription
	nextSubId   SubscriptionId
}

func NewDriver(engine *rrc.Engine, cfg DriverConfig) *Driver {
	if cfg.TicksPerBatch <= 0 {
		cfg.TicksPerBatch = DefaultTicksPerBatch
	}
	if cfg.BatchPeriod <= 0 {
		cfg.BatchPeriod = DefaultBatchPeriod
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if cfg.LinkBitrate <= 0 {
		cfg.LinkBitrate = trafficgen.DefaultLinkBitrate
	}
	return &Driver{
		engine: engine,
		config: cfg,
		status: DriverStopped,
	}
}

// SetWorkload attaches a traffic generator consulted before every tick. nil detaches it.
func (d *Driver) SetWorkload(gen trafficgen.TrafficGenerator) {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()
	d.workload = gen
}

// Start begins batched ticking. Calling it while running does nothing.
func (d *Driver) Start() {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()

	if d.status == DriverRunning {
		return
	}
	var ctx context.Context
	ctx, d.cancel = context.WithCancel(context.Background())
	d.status = DriverRunning
	go d.loop(ctx)
}

// Stop prevents further batches. A batch already running completes first;
// once Stop returns no new tick is executed. Calling it while stopped does nothing.
func (d *Driver) Stop() {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()

	if d.status == DriverStopped {
		return
	}
	d.cancel()
	d.status = DriverStopped
}

func (d *Driver) Status() DriverStatus {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()
	return d.status
}

func (d *Driver) loop(ctx context.Context) {
	ticker := time.NewTicker(d.config.BatchPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !d.runBatch(ctx) {
				return
			}
		}
	}
}

// RunBatch executes one batch synchronously and notifies subscribers.
// It lets callers step the simulation without wall-clock pacing.
func (d *Driver) RunBatch() models.Snapshot {
	snap, _ := d.batch(context.Background())
	d.notify(snap)
	return snap
}

func (d *Driver) runBatch(ctx context.Context) bool {
	snap, ok := d.batch(ctx)
	if !ok {
		return false
	}
	d.notify(snap)
	return true
}

func (d *Driver) batch(ctx context.Context) (models.Snapshot, bool) {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()

	if ctx.Err() != nil {
		return models.Snapshot{}, false
	}
	for i := 0; i < d.config.TicksPerBatch; i++ {
		d.step()
	}
	return d.snapshot(), true
}

func (d *Driver) step() {
	if d.workload != nil {
		now := time.Duration(d.engine.Clock()) * time.Millisecond
		if pkt := d.workload.NextPacket(now); pkt != nil {
			burst := trafficgen.BurstDuration(pkt, d.config.LinkBitrate)
			d.engine.TriggerDataRequest(burst.Milliseconds())
			d.traffic.NewPacket(int64(pkt.SizeBytes), burst, now)
		}
	}
	d.engine.Tick()
}

func (d *Driver) snapshot() models.Snapshot {
	snap := d.engine.Snapshot(d.config.HistoryWindow)
	snap.Traffic = d.traffic
	return snap
}

func (d *Driver) notify(snap models.Snapshot) {
	d.subMutex.RLock()
	subs := make([]subscription, len(d.subscribers))
	copy(subs, d.subscribers)
	d.subMutex.RUnlock()

	for _, s := range subs {
		s.fn(snap)
	}
}

// Subscribe registers fn for one snapshot per batch and returns its handle.
func (d *Driver) Subscribe(fn Subscriber) SubscriptionId {
	d.subMutex.Lock()
	defer d.subMutex.Unlock()

	d.nextSubId++
	d.subscribers = append(d.subscribers, subscription{id: d.nextSubId, fn: fn})
	return d.nextSubId
}

// Unsubscribe removes a subscription. It reports false for unknown handles.
func (d *Driver) Unsubscribe(id SubscriptionId) bool {
	d.subMutex.Lock()
	defer d.subMutex.Unlock()

	for i, s := range d.subscribers {
		if s.id == id {
			d.subscribers = append(d.subscribers[:i], d.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Driver) TriggerDataRequest(durationMs int64) {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()
	d.engine.TriggerDataRequest(durationMs)
}

func (d *Driver) TriggerPaging() {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()
	d.engine.TriggerPaging()
}

func (d *Driver) SetTrafficProfile(profile models.TrafficProfile) error {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()
	return d.engine.SetTrafficProfile(profile)
}

// Reset rewinds the engine, the attached workload and the traffic accounting.
// The running/stopped status is left unchanged.
func (d *Driver) Reset() {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()

	d.engine.Reset()
	d.traffic = models.TrafficStats{}
	if d.workload != nil {
		d.workload.Reset()
	}
	log.Printf("simulation reset, profile %s", d.engine.Profile())
}

func (d *Driver) GetState() models.Snapshot {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()
	return d.snapshot()
}

func (d *Driver) GetHistory(windowSeconds float64) []models.HistorySample {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()
	return d.engine.GetHistory(windowSeconds)
}

func (d *Driver) GetEventLog() []models.EventLogEntry {
	d.engineMutex.Lock()
	defer d.engineMutex.Unlock()
	return d.engine.GetEventLog()
}
