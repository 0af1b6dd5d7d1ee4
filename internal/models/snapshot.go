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

package models

// HistorySample is one tick of the state trace kept for plotting and replay.
type HistorySample struct {
	Time   float64  `json:"time"` // seconds
	State  RRCState `json:"state"`
	Active bool     `json:"active"` // data active or data request pending during the tick
}

type EventLogEntry struct {
	Timestamp float64 `json:"timestamp"` // seconds
	Message   string  `json:"message"`
}

// Snapshot is a point-in-time copy of the engine.
// It shares no memory with the engine and is safe to keep after further ticks.
type Snapshot struct {
	State                   RRCState           `json:"state"`
	Clock                   int64              `json:"clock"`
	ElapsedSeconds          float64            `json:"elapsedSeconds"`
	TotalEnergy             int64              `json:"totalEnergy"`
	InactivityTimer         int64              `json:"inactivityTimer"`
	LongInactivityTimer     int64              `json:"longInactivityTimer"`
	InactivityThreshold     int64              `json:"inactivityThreshold"`
	LongInactivityThreshold int64              `json:"longInactivityThreshold"`
	Profile                 TrafficProfile     `json:"profile"`
	ProfileName             string             `json:"profileName"`
	DataActive              bool               `json:"dataActive"`
	TransitionCount         int64              `json:"transitionCount"`
	StateDurations          map[RRCState]int64 `json:"stateDurations"`
	History                 []HistorySample    `json:"history"`
	Traffic                 TrafficStats       `json:"traffic"`
}
