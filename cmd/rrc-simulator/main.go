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

package main

import (
	"flag"
	"log"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/mqtt"
	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/simulator"
)

func main() {
	configPath := flag.String("config", "config/rrcsim.yaml", "path to the simulator configuration file")
	flag.Parse()

	config, err := simulator.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	app := simulator.NewRrcSimulatorApp(config)

	if config.Mqtt != nil && config.Mqtt.Enabled {
		publisher, err := mqtt.NewRealPublisher(config.Mqtt.Broker, config.Mqtt.ClientId)
		if err != nil {
			// state change notifications are optional, keep simulating without them
			log.Printf("mqtt disabled: %v", err)
		} else {
			app.SetPublisher(publisher)
		}
	}

	app.Run(*configPath)
}
