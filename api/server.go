// Package api exposes the HTTP surface of the game server: the
// websocket game endpoint, the map catalog and a few internal routes
// for inspecting live games.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"ticketgame/game/config"
	"ticketgame/game/engine"
	"ticketgame/game/session"
	"ticketgame/transport/websocket"
)

// Server routes HTTP requests to the game.
type Server struct {
	registry *session.Registry
	maps     *config.Manager
	ws       *websocket.Handler
	router   *mux.Router
	log      zerolog.Logger
}

// NewServer wires the routes.
func NewServer(registry *session.Registry, maps *config.Manager, ws *websocket.Handler, log zerolog.Logger) *Server {
	s := &Server{
		registry: registry,
		maps:     maps,
		ws:       ws,
		router:   mux.NewRouter(),
		log:      log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/game/{id}/ws", s.handleGameSocket)
	s.router.HandleFunc("/maps", s.handleListMaps).Methods("GET")
	s.router.HandleFunc("/maps/{name}", s.handleGetMap).Methods("GET")

	internal := s.router.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/games", s.handleListGames).Methods("GET")
	internal.HandleFunc("/game/{id}", s.handleGetGame).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleGameSocket(w http.ResponseWriter, r *http.Request) {
	id := engine.GameID(mux.Vars(r)["id"])
	s.ws.ServeGame(w, r, id)
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	infos, err := s.maps.List()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list maps")
		respondError(w, http.StatusInternalServerError, "failed to list maps")
		return
	}
	respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	gameMap, err := s.maps.Map(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, gameMap)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"games": s.registry.List()})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := engine.GameID(mux.Vars(r)["id"])
	room, ok := s.registry.Room(id)
	if !ok {
		respondError(w, http.StatusNotFound, "no such game")
		return
	}
	state, ok := room.Snapshot()
	if !ok {
		respondError(w, http.StatusGone, "game is shutting down")
		return
	}
	respondJSON(w, http.StatusOK, state)
}
