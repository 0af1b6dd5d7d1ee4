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
	"fmt"
	"time"
)

// TrafficStats accounts for the workload injected into a simulation.
// Times are simulated, measured from the start of the run.
type TrafficStats struct {
	NumOfPackets   int64         `json:"packets"`
	TotalBytes     int64         `json:"bytes"`
	NumOfBursts    int64         `json:"bursts"`
	BurstTime      time.Duration `json:"burstTime"`
	LastPacketTime time.Duration `json:"lastPacketTime"`
	LastPacketSize int64         `json:"lastPacketSize"`
}

func (stats *TrafficStats) NewPacket(size int64, burst time.Duration, timestamp time.Duration) {
	stats.NumOfPackets++
	stats.NumOfBursts++
	stats.TotalBytes += size
	stats.BurstTime += burst
	stats.LastPacketSize = size
	stats.LastPacketTime = timestamp
}

// AvgBitrate is the mean offered load in bits per simulated second up to now.
func (stats *TrafficStats) AvgBitrate(now time.Duration) float64 {
	if now <= 0 {
		return 0
	}
	return float64(stats.TotalBytes*8) / now.Seconds()
}

func (stats *TrafficStats) Dumps() string {
	return fmt.Sprintf("Packets:    %d,\nBytes:      %d,\nBursts:     %d,\nBurst time: %s,\n",
		stats.NumOfPackets, stats.TotalBytes, stats.NumOfBursts, stats.BurstTime)
}
