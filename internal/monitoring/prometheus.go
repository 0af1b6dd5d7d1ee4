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

package monitoring

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

var (
	RRCState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rrc_state",
			Help: "1 for the current RRC state of the simulated UE, 0 otherwise",
		},
		[]string{"simulationId", "state"},
	)

	EnergyTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rrc_energy_total",
			Help: "Energy consumed since the start of the run, in power units x ticks",
		},
		[]string{"simulationId"},
	)

	Transitions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rrc_transitions",
			Help: "Number of RRC state transitions since the start of the run",
		},
		[]string{"simulationId"},
	)

	StateDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rrc_state_duration_seconds",
			Help: "Simulated time spent in each RRC state",
		},
		[]string{"simulationId", "state"},
	)

	Timers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rrc_timer_ms",
			Help: "Current value of the inactivity timers",
		},
		[]string{"simulationId", "timer"},
	)

	WorkloadBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rrc_workload_bytes_total",
			Help: "Bytes offered by the attached workload since the start of the run",
		},
		[]string{"simulationId"},
	)
)

func init() {
	prometheus.MustRegister(RRCState, EnergyTotal, Transitions, StateDuration, Timers, WorkloadBytes)
}

// ObserveSnapshot exports a driver snapshot. It is cheap enough to run as a driver subscriber.
func ObserveSnapshot(simId string, snap models.Snapshot) {
	for _, state := range models.AllStates {
		active := 0.0
		if snap.State == state {
			active = 1
		}
		RRCState.WithLabelValues(simId, state.String()).Set(active)
		StateDuration.WithLabelValues(simId, state.String()).Set(float64(snap.StateDurations[state]) / 1000.0)
	}
	EnergyTotal.WithLabelValues(simId).Set(float64(snap.TotalEnergy))
	Transitions.WithLabelValues(simId).Set(float64(snap.TransitionCount))
	Timers.WithLabelValues(simId, "inactivity").Set(float64(snap.InactivityTimer))
	Timers.WithLabelValues(simId, "long_inactivity").Set(float64(snap.LongInactivityTimer))
	WorkloadBytes.WithLabelValues(simId).Set(float64(snap.Traffic.TotalBytes))
}

// ForgetSimulation drops every series of a simulation that no longer exists.
func ForgetSimulation(simId string) {
	labels := prometheus.Labels{"simulationId": simId}
	for _, vec := range []*prometheus.GaugeVec{RRCState, EnergyTotal, Transitions, StateDuration, Timers, WorkloadBytes} {
		vec.DeletePartialMatch(labels)
	}
}

func StartMetricsServer(port uint16) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	log.Printf("starting prometheus metrics server on :%d", port)
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("could not start metrics server: %s", err.Error())
		}
	}()
	return server
}
