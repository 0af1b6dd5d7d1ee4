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
	"github.com/giuliocarot0/gitc"
)

// Message types exchanged between the OAM northbound and a simulation task.
const (
	DataRequestCmdType gitc.MessageType = iota
	PagingCmdType
	SetProfileCmdType
	ResetCmdType
)

type DataRequestCmd struct {
	DurationMs int64 `json:"durationMs"`
}

type PagingCmd struct {
}

type SetProfileCmd struct {
	Profile TrafficProfile `json:"profile"`
}

type ResetCmd struct {
}
