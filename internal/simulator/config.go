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
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/components/rrc"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/trafficgen"
)

type AppConfig struct {
	HttpVersion   uint16      `yaml:"httpVersion"`
	OamPort       uint16      `yaml:"oamPort"`
	MetricsPort   uint16      `yaml:"metricsPort"`
	InitOnStartup bool        `yaml:"initOnStartup"`
	WatchConfig   bool        `yaml:"watchConfig"`
	Mqtt          *MqttConfig `yaml:"mqtt,omitempty"`
	/* Custom configuration parameters */
	SimConfig *SimulationConfig `yaml:"simulationProfile"`
}

type MqttConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientId string `yaml:"clientId"`
}

type SimulationConfig struct {
	TrafficProfile       string  `yaml:"trafficProfile" json:"trafficProfile"`
	RetainProfileOnReset bool    `yaml:"retainProfileOnReset" json:"retainProfileOnReset"`
	TicksPerBatch        int     `yaml:"ticksPerBatch" json:"ticksPerBatch"`
	BatchPeriodMs        int     `yaml:"batchPeriodMs" json:"batchPeriodMs"`
	HistoryCapacity      int     `yaml:"historyCapacity" json:"historyCapacity"`
	EventLogCapacity     int     `yaml:"eventLogCapacity" json:"eventLogCapacity"`
	HistoryWindowSeconds float64 `yaml:"historyWindowSeconds" json:"historyWindowSeconds"`
	Workload             string  `yaml:"workload" json:"workload"`
	LinkBitrate          float64 `yaml:"linkBitrate" json:"linkBitrate"`
	AutoStart            bool    `yaml:"autoStart" json:"autoStart"`
}

func InitConfig(configPath string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}
	return ParseConfig(yamlFile)
}

func ParseConfig(data []byte) (*AppConfig, error) {
	cfg := AppConfig{
		HttpVersion: 1,
		OamPort:     8081,
		MetricsPort: 9090,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if cfg.InitOnStartup && cfg.SimConfig == nil {
		return nil, fmt.Errorf("when initializing from startup, simulation profile must be defined in config file")
	}
	if cfg.SimConfig != nil {
		cfg.SimConfig.ApplyDefaults()
		if err := cfg.SimConfig.Validate(); err != nil {
			return nil, err
		}
	}
	if cfg.Mqtt != nil && cfg.Mqtt.Enabled && cfg.Mqtt.Broker == "" {
		return nil, fmt.Errorf("mqtt is enabled but no broker is configured")
	}
	return &cfg, nil
}

// ApplyDefaults fills every zero field with its reference value.
func (sc *SimulationConfig) ApplyDefaults() {
	if sc.TrafficProfile == "" {
		sc.TrafficProfile = models.DefaultTrafficProfile.String()
	}
	if sc.TicksPerBatch <= 0 {
		sc.TicksPerBatch = DefaultTicksPerBatch
	}
	if sc.BatchPeriodMs <= 0 {
		sc.BatchPeriodMs = int(DefaultBatchPeriod / time.Millisecond)
	}
	if sc.HistoryCapacity <= 0 {
		sc.HistoryCapacity = rrc.DefaultHistoryCapacity
	}
	if sc.EventLogCapacity <= 0 {
		sc.EventLogCapacity = rrc.DefaultEventLogCapacity
	}
	if sc.HistoryWindowSeconds <= 0 {
		sc.HistoryWindowSeconds = DefaultHistoryWindow
	}
	if sc.LinkBitrate <= 0 {
		sc.LinkBitrate = trafficgen.DefaultLinkBitrate
	}
}

func (sc *SimulationConfig) Validate() error {
	if _, err := sc.Profile(); err != nil {
		return err
	}
	if _, err := trafficgen.NewGenerator(sc.Workload); err != nil {
		return &models.ConfigurationError{Field: "workload", Value: sc.Workload, Err: err}
	}
	return nil
}

func (sc *SimulationConfig) Profile() (models.TrafficProfile, error) {
	return models.ParseTrafficProfile(sc.TrafficProfile)
}

func (sc *SimulationConfig) engineConfig() rrc.EngineConfig {
	return rrc.EngineConfig{
		HistoryCapacity:      sc.HistoryCapacity,
		EventLogCapacity:     sc.EventLogCapacity,
		RetainProfileOnReset: sc.RetainProfileOnReset,
	}
}

func (sc *SimulationConfig) driverConfig() DriverConfig {
	return DriverConfig{
		TicksPerBatch: sc.TicksPerBatch,
		BatchPeriod:   time.Duration(sc.BatchPeriodMs) * time.Millisecond,
		HistoryWindow: sc.HistoryWindowSeconds,
		LinkBitrate:   sc.LinkBitrate,
	}
}

func (cfg *AppConfig) Dumps() string {
	d, err := yaml.Marshal(&cfg)
	if err != nil {
		log.Printf("could not dump config: %v", err)
		return ""
	}
	return string(d)
}
