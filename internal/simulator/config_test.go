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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/components/rrc"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

const sampleConfig = `
httpVersion: 2
oamPort: 18081
metricsPort: 19090
initOnStartup: true
watchConfig: true
mqtt:
  enabled: true
  broker: tcp://localhost:1883
simulationProfile:
  trafficProfile: streaming
  retainProfileOnReset: true
  ticksPerBatch: 20
  workload: iot
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, uint16(2), cfg.HttpVersion)
	assert.Equal(t, uint16(18081), cfg.OamPort)
	assert.True(t, cfg.WatchConfig)
	require.NotNil(t, cfg.Mqtt)
	assert.Equal(t, "tcp://localhost:1883", cfg.Mqtt.Broker)

	sim := cfg.SimConfig
	require.NotNil(t, sim)
	profile, err := sim.Profile()
	require.NoError(t, err)
	assert.Equal(t, models.Streaming, profile)
	assert.Equal(t, 20, sim.TicksPerBatch)
	assert.Equal(t, "iot", sim.Workload)

	// defaults fill what the file leaves out
	assert.Equal(t, 10, sim.BatchPeriodMs)
	assert.Equal(t, rrc.DefaultHistoryCapacity, sim.HistoryCapacity)
	assert.Equal(t, rrc.DefaultEventLogCapacity, sim.EventLogCapacity)
	assert.Equal(t, DefaultHistoryWindow, sim.HistoryWindowSeconds)

	assert.True(t, sim.engineConfig().RetainProfileOnReset)
	assert.Equal(t, 10*time.Millisecond, sim.driverConfig().BatchPeriod)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, uint16(1), cfg.HttpVersion)
	assert.Equal(t, uint16(8081), cfg.OamPort)
	assert.Equal(t, uint16(9090), cfg.MetricsPort)
	assert.Nil(t, cfg.SimConfig)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"init without profile", "initOnStartup: true"},
		{"unknown traffic profile", "simulationProfile:\n  trafficProfile: GAMING"},
		{"unknown workload", "simulationProfile:\n  workload: torrent"},
		{"mqtt without broker", "mqtt:\n  enabled: true"},
		{"malformed yaml", "oamPort: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseConfigUnknownProfileIsConfigurationError(t *testing.T) {
	_, err := ParseConfig([]byte("simulationProfile:\n  trafficProfile: GAMING"))
	var cfgErr *models.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, models.ErrUnknownTrafficProfile)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rrcsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(18081), cfg.OamPort)

	_, err = InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigDumps(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)
	dump := cfg.Dumps()
	assert.Contains(t, dump, "oamPort: 18081")
	assert.Contains(t, dump, "trafficProfile: streaming")
}
