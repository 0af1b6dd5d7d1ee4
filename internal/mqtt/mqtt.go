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

// Package mqtt publishes RRC state changes of a running simulation.
package mqtt

import (
	"encoding/json"
	"fmt"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

// TopicPrefix is the root of every topic this package publishes on.
const TopicPrefix = "rrcsim"

// Topic returns the state topic of a simulation.
func Topic(simId string) string {
	return fmt.Sprintf("%s/%s/state", TopicPrefix, simId)
}

// Publisher publishes state change events.
type Publisher interface {
	// Publish sends one event to the broker. A failure must not stop the simulation.
	Publish(event StateChangeEvent) error

	// Close disconnects from the broker.
	Close() error
}

// StateChangeEvent is emitted when the observed RRC state differs from the previous observation.
type StateChangeEvent struct {
	SimulationId    string
	ElapsedSeconds  float64
	From            models.RRCState
	To              models.RRCState
	Profile         models.TrafficProfile
	TransitionCount int64
	TotalEnergy     int64
}

// Payload is the JSON document published for a StateChangeEvent.
type Payload struct {
	SimulationId    string  `json:"simulationId"`
	ElapsedSeconds  float64 `json:"elapsedSeconds"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Profile         string  `json:"profile"`
	TransitionCount int64   `json:"transitionCount"`
	TotalEnergy     int64   `json:"totalEnergy"`
}

func FormatPayload(event StateChangeEvent) ([]byte, error) {
	return json.Marshal(Payload{
		SimulationId:    event.SimulationId,
		ElapsedSeconds:  event.ElapsedSeconds,
		From:            event.From.String(),
		To:              event.To.String(),
		Profile:         event.Profile.String(),
		TransitionCount: event.TransitionCount,
		TotalEnergy:     event.TotalEnergy,
	})
}
