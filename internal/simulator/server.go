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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/giuliocarot0/gitc"
	"github.com/gorilla/mux"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

const apiRoot = "/rrc-simulator/v1"

type DataRequestBody struct {
	DurationMs int64 `json:"durationMs"`
}

type ProfileBody struct {
	Profile string `json:"profile"`
}

type ProfileResponse struct {
	Profile                 models.TrafficProfile `json:"profile"`
	InactivityThreshold     int64                 `json:"inactivityThreshold"`
	LongInactivityThreshold int64                 `json:"longInactivityThreshold"`
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("could not encode response: %v", err)
	}
}

// decodeBody decodes an optional JSON body. It reports false when the body is empty.
func decodeBody(r *http.Request, v any) (bool, error) {
	if r.Body == nil {
		return false, nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func errorStatus(err error) int {
	var cfgErr *models.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoInstance), errors.Is(err, ErrInstanceRunning):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (app *RrcSimulatorApp) handleInitSimulation(w http.ResponseWriter, r *http.Request) {
	config := &SimulationConfig{}

	found, err := decodeBody(r, config)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !found {
		app.instanceMutex.RLock()
		fileConfig := app.config.SimConfig
		app.instanceMutex.RUnlock()
		if fileConfig == nil {
			http.Error(w, "Missing request body", http.StatusBadRequest)
			return
		}
		copied := *fileConfig
		config = &copied
	}

	if err := app.InitNewSimulation(config); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJson(w, http.StatusOK, app.GetCurrentSimulationStatus())
}

func (app *RrcSimulatorApp) handleStartSimulation(w http.ResponseWriter, r *http.Request) {
	if err := app.StartSimulation(); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJson(w, http.StatusOK, app.GetCurrentSimulationStatus())
}

func (app *RrcSimulatorApp) handleStatusSimulation(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, app.GetCurrentSimulationStatus())
}

func (app *RrcSimulatorApp) handleStopSimulation(w http.ResponseWriter, r *http.Request) {
	if err := app.StopSimulation(); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJson(w, http.StatusOK, app.GetCurrentSimulationStatus())
}

// dispatch queues a command on the current instance and answers 202.
func (app *RrcSimulatorApp) dispatch(w http.ResponseWriter, msgType gitc.MessageType, payload any) {
	instance, err := app.CurrentInstance()
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	if err := instance.Dispatch(msgType, payload); err != nil {
		http.Error(w, fmt.Sprintf("could not dispatch command: %v", err), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (app *RrcSimulatorApp) handleReset(w http.ResponseWriter, r *http.Request) {
	app.dispatch(w, models.ResetCmdType, &models.ResetCmd{})
}

func (app *RrcSimulatorApp) handlePaging(w http.ResponseWriter, r *http.Request) {
	app.dispatch(w, models.PagingCmdType, &models.PagingCmd{})
}

func (app *RrcSimulatorApp) handleDataRequest(w http.ResponseWriter, r *http.Request) {
	body := DataRequestBody{}
	if _, err := decodeBody(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	app.dispatch(w, models.DataRequestCmdType, &models.DataRequestCmd{DurationMs: body.DurationMs})
}

func (app *RrcSimulatorApp) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	body := ProfileBody{}
	found, err := decodeBody(r, &body)
	if err != nil || !found {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	profile, err := models.ParseTrafficProfile(body.Profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	app.dispatch(w, models.SetProfileCmdType, &models.SetProfileCmd{Profile: profile})
}

func (app *RrcSimulatorApp) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	instance, err := app.CurrentInstance()
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	snap := instance.Driver.GetState()
	writeJson(w, http.StatusOK, ProfileResponse{
		Profile:                 snap.Profile,
		InactivityThreshold:     snap.InactivityThreshold,
		LongInactivityThreshold: snap.LongInactivityThreshold,
	})
}

func (app *RrcSimulatorApp) handleGetState(w http.ResponseWriter, r *http.Request) {
	instance, err := app.CurrentInstance()
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJson(w, http.StatusOK, instance.Driver.GetState())
}

func (app *RrcSimulatorApp) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	instance, err := app.CurrentInstance()
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	window := DefaultHistoryWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err = strconv.ParseFloat(raw, 64)
		if err != nil || window <= 0 {
			http.Error(w, "window must be a positive number of seconds", http.StatusBadRequest)
			return
		}
	}
	writeJson(w, http.StatusOK, instance.Driver.GetHistory(window))
}

func (app *RrcSimulatorApp) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	instance, err := app.CurrentInstance()
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJson(w, http.StatusOK, instance.Driver.GetEventLog())
}

func (app *RrcSimulatorApp) router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc(apiRoot+"/configure", app.handleInitSimulation).Methods(http.MethodPost)
	router.HandleFunc(apiRoot+"/start", app.handleStartSimulation).Methods(http.MethodPost)
	router.HandleFunc(apiRoot+"/stop", app.handleStopSimulation).Methods(http.MethodPost)
	router.HandleFunc(apiRoot+"/status", app.handleStatusSimulation).Methods(http.MethodGet)

	router.HandleFunc(apiRoot+"/reset", app.handleReset).Methods(http.MethodPost)
	router.HandleFunc(apiRoot+"/data-request", app.handleDataRequest).Methods(http.MethodPost)
	router.HandleFunc(apiRoot+"/paging", app.handlePaging).Methods(http.MethodPost)
	router.HandleFunc(apiRoot+"/profile", app.handleSetProfile).Methods(http.MethodPut)
	router.HandleFunc(apiRoot+"/profile", app.handleGetProfile).Methods(http.MethodGet)

	router.HandleFunc(apiRoot+"/state", app.handleGetState).Methods(http.MethodGet)
	router.HandleFunc(apiRoot+"/history", app.handleGetHistory).Methods(http.MethodGet)
	router.HandleFunc(apiRoot+"/events", app.handleGetEvents).Methods(http.MethodGet)
	return router
}

func (app *RrcSimulatorApp) startHttpServer() {
	app.wg.Add(1)

	var handler http.Handler = app.router()
	if app.config.HttpVersion == 2 {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}
	app.server = &http.Server{Addr: fmt.Sprintf(":%d", app.config.OamPort), Handler: handler}

	go func() {
		defer app.wg.Done()

		log.Printf("serving simulation api on :%d (http/%d)", app.config.OamPort, app.config.HttpVersion)
		// always returns error. ErrServerClosed on graceful close
		if err := app.server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
}

func (app *RrcSimulatorApp) stopHttpServer() {
	if app.server != nil {
		if err := app.server.Close(); err != nil {
			log.Printf("could not stop oam server: %v", err)
		}
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Close(); err != nil {
			log.Printf("could not stop metrics server: %v", err)
		}
	}
}
