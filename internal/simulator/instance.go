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
	"sync"

	"github.com/giuliocarot0/gitc"
	"github.com/google/uuid"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/components/rrc"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/trafficgen"
)

/* Simulation Instance Code */

const oamTaskName = "OAM"

var (
	oamTaskOnce sync.Once
	oamTaskErr  error
)

// startOamTask registers the northbound as a gitc task so instances can address it.
func startOamTask() error {
	oamTaskOnce.Do(func() {
		oamTaskErr = gitc.StartTask(oamTaskName, func(msg gitc.Message) {
			log.Printf("OAM: ignoring message type %d from %s", msg.Type, msg.From)
		}, 16)
	})
	return oamTaskErr
}

// SimulationInstance is one independent engine with its driver. Commands from
// the northbound reach it as gitc messages addressed to its own task.
type SimulationInstance struct {
	Driver   *Driver
	config   *SimulationConfig
	simId    string
	taskName string
}

func NewSimulationInstance(config *SimulationConfig) (*SimulationInstance, error) {
	if config == nil {
		return nil, fmt.Errorf("no simulation profile provided")
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	simId := uuid.NewString()
	engine := rrc.NewEngine(config.engineConfig())

	return &SimulationInstance{
		Driver:   NewDriver(engine, config.driverConfig()),
		config:   config,
		simId:    simId,
		taskName: "RRC-" + simId,
	}, nil
}

func (n *SimulationInstance) InitSimulationInstance() error {
	profile, err := n.config.Profile()
	if err != nil {
		return err
	}
	if err := n.Driver.SetTrafficProfile(profile); err != nil {
		return err
	}

	workload, err := trafficgen.NewGenerator(n.config.Workload)
	if err != nil {
		return err
	}
	if workload != nil {
		n.Driver.SetWorkload(workload)
		log.Printf("[%s] attached %s workload", n.simId, n.config.Workload)
	}

	if err := startOamTask(); err != nil {
		return fmt.Errorf("could not start oam task: %w", err)
	}
	if err := gitc.StartTask(n.taskName, n.handleCommand, 1024); err != nil {
		return fmt.Errorf("could not start command task: %w", err)
	}
	log.Printf("[%s] initialized, profile %s", n.simId, profile)
	return nil
}

func (n *SimulationInstance) Start() error {
	log.Printf("[%s] starting simulation", n.simId)
	n.Driver.Start()
	return nil
}

func (n *SimulationInstance) Stop() error {
	n.Driver.Stop()
	log.Printf("[%s] stopped simulation at %.3fs", n.simId, n.Driver.GetState().ElapsedSeconds)
	return nil
}

// Release stops the driver and removes the command task. Commands dispatched
// afterwards fail instead of queueing on a dead instance.
func (n *SimulationInstance) Release() error {
	n.Driver.Stop()
	if err := gitc.StopTask(n.taskName); err != nil {
		return fmt.Errorf("could not stop command task: %w", err)
	}
	log.Printf("[%s] released", n.simId)
	return nil
}

func (n *SimulationInstance) SimulationId() string {
	return n.simId
}

// Dispatch queues a command for the instance task.
func (n *SimulationInstance) Dispatch(msgType gitc.MessageType, payload any) error {
	return gitc.Send(oamTaskName, n.taskName, msgType, payload)
}

func (n *SimulationInstance) handleCommand(msg gitc.Message) {
	switch msg.Type {
	case models.DataRequestCmdType:
		cmd := msg.Payload.(*models.DataRequestCmd)
		n.Driver.TriggerDataRequest(cmd.DurationMs)
	case models.PagingCmdType:
		n.Driver.TriggerPaging()
	case models.SetProfileCmdType:
		cmd := msg.Payload.(*models.SetProfileCmd)
		if err := n.Driver.SetTrafficProfile(cmd.Profile); err != nil {
			log.Printf("[%s] rejected profile change: %v", n.simId, err)
		}
	case models.ResetCmdType:
		n.Driver.Reset()
	default:
		log.Printf("[%s] unknown command type %d from %s", n.simId, msg.Type, msg.From)
	}
}
