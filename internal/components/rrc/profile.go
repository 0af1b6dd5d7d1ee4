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
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

// Thresholds holds the two inactivity timer expiries of a traffic profile, in ticks (ms).
type Thresholds struct {
	Short int64 // CONNECTED -> INACTIVE
	Long  int64 // INACTIVE -> IDLE
}

var thresholds = map[models.TrafficProfile]Thresholds{
	models.Streaming: {Short: 10000, Long: 20000}, // 10s / 20s, long sessions
	models.IoT:       {Short: 200, Long: 5000},    // 200ms / 5s, sleep quickly after a burst
}

// Power draw per tick of each state, in arbitrary energy units.
var powerDraw = map[models.RRCState]int64{
	models.Idle:      0,
	models.Connected: 100,
	models.Inactive:  10,
}

// ThresholdsFor looks up the timer pair of a profile.
// Profiles are validated at the command boundary, so the lookup never fails.
func ThresholdsFor(profile models.TrafficProfile) Thresholds {
	return thresholds[profile]
}

func Power(state models.RRCState) int64 {
	return powerDraw[state]
}
