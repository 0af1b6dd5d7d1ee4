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
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/monitoring"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/mqtt"
)

/* Simulation Controller code */

type SimulationStatus string

const (
	CONFIGURED SimulationStatus = "CONFIGURED"
	STARTED    SimulationStatus = "STARTED"
	STOPPED    SimulationStatus = "STOPPED"
	ERROR      SimulationStatus = "ERROR"
)

var (
	ErrNoInstance      = errors.New("please configure the simulation via /configure")
	ErrInstanceRunning = errors.New("could not initialize the simulation instance, please stop the current instance")
)

type SimulationStatusResponse struct {
	Status       SimulationStatus `json:"status"`
	SimulationId string           `json:"simulationId,omitempty"`
}

type RrcSimulatorApp struct {
	currentInstance *SimulationInstance
	status          SimulationStatus
	instanceMutex   sync.RWMutex
	server          *http.Server
	metricsServer   *http.Server
	wg              sync.WaitGroup
	ctx             context.Context
	config          *AppConfig
	publisher       mqtt.Publisher
	notifier        *mqtt.Notifier
	subscriptions   []SubscriptionId
}

func NewRrcSimulatorApp(config *AppConfig) *RrcSimulatorApp {
	return &RrcSimulatorApp{
		status: STOPPED,
		config: config,
	}
}

// SetPublisher attaches an MQTT publisher to every instance configured afterwards.
func (app *RrcSimulatorApp) SetPublisher(publisher mqtt.Publisher) {
	app.instanceMutex.Lock()
	defer app.instanceMutex.Unlock()
	app.publisher = publisher
}

func (app *RrcSimulatorApp) InitNewSimulation(config *SimulationConfig) error {
	if config == nil {
		return fmt.Errorf("no configuration provided, could not initialize")
	}

	app.instanceMutex.Lock()
	defer app.instanceMutex.Unlock()

	if app.currentInstance != nil && app.status == STARTED {
		return ErrInstanceRunning
	}

	instance, err := NewSimulationInstance(config)
	if err != nil {
		return err
	}
	if err := instance.InitSimulationInstance(); err != nil {
		return err
	}

	app.releaseInstance()
	app.currentInstance = instance
	app.attachObservers(instance)
	app.status = CONFIGURED
	return nil
}

// attachObservers wires metrics and state change notifications to the driver.
// Callers hold instanceMutex.
func (app *RrcSimulatorApp) attachObservers(instance *SimulationInstance) {
	simId := instance.SimulationId()
	app.subscriptions = append(app.subscriptions, instance.Driver.Subscribe(func(snap models.Snapshot) {
		monitoring.ObserveSnapshot(simId, snap)
	}))
	if app.publisher != nil {
		app.notifier = mqtt.NewNotifier(app.publisher, simId, mqtt.DefaultNotifierQueue)
		app.subscriptions = append(app.subscriptions, instance.Driver.Subscribe(app.notifier.Observe))
	}
}

// releaseInstance detaches observers from the current instance, if any, and releases it.
// Callers hold instanceMutex.
func (app *RrcSimulatorApp) releaseInstance() {
	if app.currentInstance == nil {
		return
	}
	for _, id := range app.subscriptions {
		app.currentInstance.Driver.Unsubscribe(id)
	}
	app.subscriptions = nil
	if app.notifier != nil {
		app.notifier.Close()
		app.notifier = nil
	}
	monitoring.ForgetSimulation(app.currentInstance.SimulationId())
	if err := app.currentInstance.Release(); err != nil {
		log.Printf("[%s] %v", app.currentInstance.SimulationId(), err)
	}
	app.currentInstance = nil
}

func (app *RrcSimulatorApp) StartSimulation() error {
	app.instanceMutex.Lock()
	defer app.instanceMutex.Unlock()

	if app.currentInstance == nil {
		return ErrNoInstance
	}
	if app.status == STARTED {
		return nil
	}

	if err := app.currentInstance.Start(); err != nil {
		app.status = ERROR
		return fmt.Errorf("could not start the simulation instance: %w", err)
	}

	app.status = STARTED
	return nil
}

func (app *RrcSimulatorApp) GetCurrentSimulationStatus() SimulationStatusResponse {
	app.instanceMutex.RLock()
	defer app.instanceMutex.RUnlock()

	resp := SimulationStatusResponse{Status: app.status}
	if app.currentInstance != nil {
		resp.SimulationId = app.currentInstance.SimulationId()
	}
	return resp
}

// CurrentInstance returns the configured instance or ErrNoInstance.
func (app *RrcSimulatorApp) CurrentInstance() (*SimulationInstance, error) {
	app.instanceMutex.RLock()
	defer app.instanceMutex.RUnlock()

	if app.currentInstance == nil {
		return nil, ErrNoInstance
	}
	return app.currentInstance, nil
}

func (app *RrcSimulatorApp) StopSimulation() error {
	app.instanceMutex.Lock()
	defer app.instanceMutex.Unlock()

	if app.currentInstance == nil {
		return ErrNoInstance
	}

	if app.status == STARTED {
		if err := app.currentInstance.Stop(); err != nil {
			return fmt.Errorf("could not stop the simulation instance: %w", err)
		}
	}

	// keep the instance so it can be resumed
	app.status = STOPPED
	return nil
}

// ApplyConfig takes a reloaded configuration. Only the traffic profile is
// applied live, every other simulation parameter needs a new /configure.
func (app *RrcSimulatorApp) ApplyConfig(config *AppConfig) {
	app.instanceMutex.Lock()
	app.config.SimConfig = config.SimConfig
	instance := app.currentInstance
	app.instanceMutex.Unlock()

	if config.SimConfig == nil || instance == nil {
		return
	}
	profile, err := config.SimConfig.Profile()
	if err != nil {
		log.Printf("ignoring reloaded profile: %v", err)
		return
	}
	if err := instance.Dispatch(models.SetProfileCmdType, &models.SetProfileCmd{Profile: profile}); err != nil {
		log.Printf("could not apply reloaded profile: %v", err)
		return
	}
	log.Printf("config reloaded, traffic profile %s", profile)
}

func (app *RrcSimulatorApp) Run(configPath string) {

	var cancel context.CancelFunc
	app.ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	log.Printf("running config: \n%s", app.config.Dumps())

	if app.config.InitOnStartup {
		log.Printf("bootstraping simulation instance")
		if err := app.InitNewSimulation(app.config.SimConfig); err != nil {
			log.Fatalf("could not initialize the simulator on startup: %v", err)
		}
		if app.config.SimConfig.AutoStart {
			if err := app.StartSimulation(); err != nil {
				log.Fatalf("could not start the simulator on startup: %v", err)
			}
		}
	}

	app.startHttpServer()
	app.metricsServer = monitoring.StartMetricsServer(app.config.MetricsPort)

	if app.config.WatchConfig && configPath != "" {
		if err := WatchConfig(app.ctx, configPath, app.ApplyConfig); err != nil {
			log.Printf("config hot reload disabled: %v", err)
		}
	}

	app.wg.Add(1)
	go app.listenShutdownEvent()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Printf("terminating...")

	cancel()
	app.wg.Wait()
}

func (app *RrcSimulatorApp) listenShutdownEvent() {
	defer app.wg.Done()

	<-app.ctx.Done()
	_ = app.StopSimulation()
	app.stopHttpServer()

	app.instanceMutex.Lock()
	app.releaseInstance()
	publisher := app.publisher
	app.instanceMutex.Unlock()
	if publisher != nil {
		_ = publisher.Close()
	}
}
