// Package web serves a small status surface over HTTP.
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"caseta2mqtt/zigbee"
)

type Config struct {
	Address string `yaml:"address" envconfig:"WEB_ADDRESS"`
}

type groupStatus struct {
	Brightness *int      `json:"brightness,omitempty"`
	State      string    `json:"state,omitempty"`
	Scene      *string   `json:"scene,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Server struct {
	states *zigbee.StateManager
}

func NewServer(states *zigbee.StateManager) *Server {
	return &Server{states: states}
}

// Router exposes /health and /groups.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/groups", s.groupsHandler).Methods(http.MethodGet)

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "ok"}`))
}

func (s *Server) groupsHandler(w http.ResponseWriter, _ *http.Request) {
	statuses := make(map[string]groupStatus)
	for name, state := range s.states.Snapshot() {
		status := groupStatus{
			State:     string(state.State),
			UpdatedAt: state.UpdatedAt,
		}
		if state.Brightness != nil {
			brightness := int(*state.Brightness)
			status.Brightness = &brightness
		}
		if state.Scene != nil {
			scene := state.Scene.Name
			status.Scene = &scene
		}
		statuses[name] = status
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		log.Println(err)
	}
}
