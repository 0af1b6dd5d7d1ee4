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

import (
	"errors"
	"fmt"
	"strings"
)

type RRCState int

const (
	Idle      RRCState = iota // no connection, lowest power
	Connected                 // data transfer, full power
	Inactive                  // suspended context, fast resume possible
)

// AllStates lists the modeled RRC states in code order.
var AllStates = []RRCState{Idle, Connected, Inactive}

func (s RRCState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Connected:
		return "CONNECTED"
	case Inactive:
		return "INACTIVE"
	}
	return fmt.Sprintf("RRCState(%d)", int(s))
}

func (s RRCState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RRCState) UnmarshalText(text []byte) error {
	for _, st := range AllStates {
		if strings.EqualFold(st.String(), string(text)) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown rrc state %q", string(text))
}

type TrafficProfile int

const (
	Streaming TrafficProfile = iota // long sessions, infrequent transitions
	IoT                             // short bursts, frequent sleep
)

var AllProfiles = []TrafficProfile{Streaming, IoT}

// DefaultTrafficProfile is the profile a fresh engine starts with.
const DefaultTrafficProfile = IoT

var ErrUnknownTrafficProfile = errors.New("unknown traffic profile")

// ConfigurationError reports a rejected configuration value at a command boundary.
type ConfigurationError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (p TrafficProfile) Valid() bool {
	return p == Streaming || p == IoT
}

func (p TrafficProfile) String() string {
	switch p {
	case Streaming:
		return "STREAMING"
	case IoT:
		return "IOT"
	}
	return fmt.Sprintf("TrafficProfile(%d)", int(p))
}

// ParseTrafficProfile accepts the profile names case-insensitively ("Streaming", "iot", ...).
func ParseTrafficProfile(name string) (TrafficProfile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "streaming":
		return Streaming, nil
	case "iot":
		return IoT, nil
	}
	return 0, &ConfigurationError{Field: "traffic profile", Value: name, Err: ErrUnknownTrafficProfile}
}

func (p TrafficProfile) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, &ConfigurationError{Field: "traffic profile", Value: p.String(), Err: ErrUnknownTrafficProfile}
	}
	return []byte(p.String()), nil
}

func (p *TrafficProfile) UnmarshalText(text []byte) error {
	parsed, err := ParseTrafficProfile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
