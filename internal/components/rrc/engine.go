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

// Package rrc implements the UE-side RRC state machine as a 1 ms step function.
//
// The Engine owns the IDLE/CONNECTED/INACTIVE state, the two inactivity timers
// selected by the traffic profile, energy and per-state duration accounting and
// the bounded history and event log. It is not safe for concurrent use: all
// calls, ticks and commands alike, must come from a single writer.
package rrc

import (
	"fmt"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

type EngineConfig struct {
	HistoryCapacity  int
	EventLogCapacity int
	// RetainProfileOnReset keeps the last selected traffic profile across Reset.
	// When false, Reset returns to models.DefaultTrafficProfile.
	RetainProfileOnReset bool
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HistoryCapacity:  DefaultHistoryCapacity,
		EventLogCapacity: DefaultEventLogCapacity,
	}
}

type Engine struct {
	config EngineConfig

	state      models.RRCState
	profile    models.TrafficProfile
	thresholds Thresholds

	// timers, in ticks
	inactivityTimer     int64
	longInactivityTimer int64
	clock               int64

	// one-shot inputs, cleared at the end of every tick
	dataRequestPending bool
	pagingPending      bool

	dataActive           bool
	dataBurstRemainingMs int64

	// metrics
	totalEnergy     int64
	stateDurations  [3]int64
	transitionCount int64

	history  *History
	eventLog *EventLog
}

func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		config:   cfg,
		history:  NewHistory(cfg.HistoryCapacity),
		eventLog: NewEventLog(cfg.EventLogCapacity),
	}
	e.restoreDefaults(models.DefaultTrafficProfile)
	return e
}

func (e *Engine) restoreDefaults(profile models.TrafficProfile) {
	e.state = models.Idle
	e.profile = profile
	e.thresholds = ThresholdsFor(profile)
	e.inactivityTimer = 0
	e.longInactivityTimer = 0
	e.clock = 0
	e.dataRequestPending = false
	e.pagingPending = false
	e.dataActive = false
	e.dataBurstRemainingMs = 0
	e.totalEnergy = 0
	e.stateDurations = [3]int64{}
	e.transitionCount = 0
	e.history.Clear()
	e.eventLog.Clear()
}

// Tick advances the simulation by exactly one millisecond. It never fails.
func (e *Engine) Tick() {
	prev := e.state

	// 1. timers, against the pre-transition state and last tick's activity
	if prev == models.Connected && !e.dataActive {
		e.inactivityTimer++
	} else {
		e.inactivityTimer = 0
	}
	if prev == models.Inactive {
		e.longInactivityTimer++
	} else {
		e.longInactivityTimer = 0
	}

	// 2. burst countdown
	if e.dataBurstRemainingMs > 0 {
		e.dataBurstRemainingMs--
		e.dataActive = true
	} else {
		e.dataActive = false
	}

	// 3. guards, first satisfied wins
	next, reason := e.evaluateGuards(prev)

	// 4. commit
	if next != prev {
		e.state = next
		e.transitionCount++
		e.logEvent(fmt.Sprintf("%s -> %s (%s)", prev, next, reason))
	}
	if e.state != models.Connected || e.dataActive {
		e.inactivityTimer = 0
	}
	if e.state != models.Inactive {
		e.longInactivityTimer = 0
	}

	// 5. energy and 6. duration, keyed by the post-transition state
	e.totalEnergy += Power(e.state)
	e.stateDurations[e.state]++

	// 7. history
	e.history.Push(models.HistorySample{
		Time:   e.seconds(),
		State:  e.state,
		Active: e.dataActive || e.dataRequestPending,
	})

	// 8. consume one-shot inputs
	e.dataRequestPending = false
	e.pagingPending = false
	e.clock++
}

func (e *Engine) evaluateGuards(current models.RRCState) (models.RRCState, string) {
	switch current {
	case models.Idle:
		if e.dataRequestPending {
			return models.Connected, "trigger: data"
		}
		if e.pagingPending {
			return models.Connected, "trigger: paging"
		}
	case models.Connected:
		if e.inactivityTimer >= e.thresholds.Short && !e.dataActive {
			return models.Inactive, fmt.Sprintf("inactivity: %dms", e.inactivityTimer)
		}
	case models.Inactive:
		// paging does not resume an inactive UE
		if e.dataRequestPending {
			return models.Connected, "fast resume"
		}
		if e.longInactivityTimer >= e.thresholds.Long {
			return models.Idle, fmt.Sprintf("long inactivity: %dms", e.longInactivityTimer)
		}
	}
	return current, ""
}

// TriggerDataRequest raises the data request input for the next tick and arms
// a burst of durationMs ticks. A non-positive duration still raises the request.
func (e *Engine) TriggerDataRequest(durationMs int64) {
	e.dataRequestPending = true
	e.dataBurstRemainingMs = max(durationMs, 0)
	e.logEvent(fmt.Sprintf("data request triggered (burst: %dms)", durationMs))
}

// TriggerPaging raises the paging input for the next tick. Only IDLE reacts to it.
func (e *Engine) TriggerPaging() {
	e.pagingPending = true
	e.logEvent("paging request triggered")
}

// SetTrafficProfile swaps the threshold pair. Accumulated timers are kept as
// they are and compared against the new thresholds from the next tick on.
func (e *Engine) SetTrafficProfile(profile models.TrafficProfile) error {
	if !profile.Valid() {
		return &models.ConfigurationError{
			Field: "traffic profile",
			Value: profile.String(),
			Err:   models.ErrUnknownTrafficProfile,
		}
	}
	e.profile = profile
	e.thresholds = ThresholdsFor(profile)
	e.logEvent(fmt.Sprintf("traffic profile: %s (CONNECTED->INACTIVE: %dms, INACTIVE->IDLE: %dms)",
		profile, e.thresholds.Short, e.thresholds.Long))
	return nil
}

// Reset restores construction defaults and empties history and event log.
func (e *Engine) Reset() {
	profile := models.DefaultTrafficProfile
	if e.config.RetainProfileOnReset {
		profile = e.profile
	}
	e.restoreDefaults(profile)
}

func (e *Engine) State() models.RRCState {
	return e.state
}

func (e *Engine) Profile() models.TrafficProfile {
	return e.profile
}

// Clock is the number of ticks executed since construction or the last reset.
func (e *Engine) Clock() int64 {
	return e.clock
}

// Snapshot copies every externally relevant field, including the trailing
// windowSeconds of history.
func (e *Engine) Snapshot(windowSeconds float64) models.Snapshot {
	durations := make(map[models.RRCState]int64, len(models.AllStates))
	for _, s := range models.AllStates {
		durations[s] = e.stateDurations[s]
	}
	return models.Snapshot{
		State:                   e.state,
		Clock:                   e.clock,
		ElapsedSeconds:          e.seconds(),
		TotalEnergy:             e.totalEnergy,
		InactivityTimer:         e.inactivityTimer,
		LongInactivityTimer:     e.longInactivityTimer,
		InactivityThreshold:     e.thresholds.Short,
		LongInactivityThreshold: e.thresholds.Long,
		Profile:                 e.profile,
		ProfileName:             e.profile.String(),
		DataActive:              e.dataActive,
		TransitionCount:         e.transitionCount,
		StateDurations:          durations,
		History:                 e.GetHistory(windowSeconds),
	}
}

// GetHistory returns the samples of the last windowSeconds of simulated time.
func (e *Engine) GetHistory(windowSeconds float64) []models.HistorySample {
	return e.history.Window(e.seconds(), windowSeconds)
}

func (e *Engine) GetEventLog() []models.EventLogEntry {
	return e.eventLog.Entries()
}

func (e *Engine) seconds() float64 {
	return float64(e.clock) / 1000.0
}

func (e *Engine) logEvent(message string) {
	e.eventLog.Append(e.seconds(), message)
}
