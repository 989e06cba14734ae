package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/inconshreveable/log15"
	"github.com/spf13/cast"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/config"
	"github.com/wricardo/mcp-training/foodchain/game/engine"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
	"github.com/wricardo/mcp-training/foodchain/game/service"
	"github.com/wricardo/mcp-training/foodchain/game/session"
	"github.com/wricardo/mcp-training/foodchain/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	logger  log15.Logger
}

// NewServer creates a new API server. hub may be nil when no live renderers
// are served.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  log15.New("component", "api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game state and queries
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/action", s.handleGetCurrentAction).Methods("GET")
	api.HandleFunc("/sessions/{id}/log", s.handleGetLog).Methods("GET")
	api.HandleFunc("/sessions/{id}/board", s.handleRenderBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/restaurant-positions", s.handleRestaurantPositions).Methods("GET")
	api.HandleFunc("/sessions/{id}/drink-sources", s.handleDrinkSources).Methods("GET")
	api.HandleFunc("/sessions/{id}/houses", s.handleHousesInRange).Methods("GET")

	// Setup
	api.HandleFunc("/sessions/{id}/restaurant", s.handlePlaceRestaurant).Methods("POST")
	api.HandleFunc("/sessions/{id}/restaurant/pass", s.handlePassRestaurant).Methods("POST")
	api.HandleFunc("/sessions/{id}/reserve", s.handleSelectReserve).Methods("POST")

	// Restructuring
	api.HandleFunc("/sessions/{id}/structure", s.handleSubmitStructure).Methods("POST")
	api.HandleFunc("/sessions/{id}/structure/finish", s.handleFinishRestructuring).Methods("POST")

	// Working 9-5
	api.HandleFunc("/sessions/{id}/work", s.handleExecuteWork).Methods("POST")
	api.HandleFunc("/sessions/{id}/campaign", s.handlePlaceCampaign).Methods("POST")
	api.HandleFunc("/sessions/{id}/campaign/auto", s.handleAutoCampaign).Methods("POST")
	api.HandleFunc("/sessions/{id}/house/auto", s.handleAutoHouse).Methods("POST")
	api.HandleFunc("/sessions/{id}/garden/auto", s.handleAutoGarden).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrade through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service and storage errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRejected):
		return http.StatusConflict
	case errors.Is(err, service.ErrBadRequest),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, session.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, config.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionAlreadyExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	respondError(w, status, err.Error())
}

// rejectedResponse is the body of a 409: the error next to the unchanged
// state and the action the game still waits for.
type rejectedResponse struct {
	Error string `json:"error"`
	*service.ActionResult
}

// respondAction writes the outcome of a mutating call and pushes successful
// results to websocket clients.
func (s *Server) respondAction(w http.ResponseWriter, sessionID string, result *service.ActionResult, err error) {
	if err != nil {
		if errors.Is(err, service.ErrRejected) && result != nil {
			respondJSON(w, http.StatusConflict, rejectedResponse{Error: err.Error(), ActionResult: result})
			return
		}
		s.respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastState(sessionID, result.GameState)
		if len(result.Events) > 0 {
			s.hub.BroadcastEvent(sessionID, websocket.EventGameEvents, result.Events)
		}
	}
	if result.GameState != nil && result.GameState.GameOver {
		s.logger.Info("game over", "session", sessionID, "round", result.GameState.Round)
	}
	respondJSON(w, http.StatusOK, result)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrBadRequest, name)
	}
	return v, nil
}

type playerRequest struct {
	Player int `json:"player"`
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	info, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default: "desc")
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if l, err := queryInt(r, "limit", 0); err == nil && l > 0 && l < len(sessions) {
		sessions = sessions[:l]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Query Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetCurrentAction(w http.ResponseWriter, r *http.Request) {
	action, err := s.service.GetCurrentAction(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, action)
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	opts := service.LogOptions{Page: 1, Limit: 20, Order: "desc"}

	if p, err := queryInt(r, "page", 1); err == nil && p > 0 {
		opts.Page = p
	}
	if l, err := queryInt(r, "limit", 20); err == nil && l > 0 {
		opts.Limit = l
	}
	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	logPage, err := s.service.GetLog(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logPage)
}

func (s *Server) handleRenderBoard(w http.ResponseWriter, r *http.Request) {
	rendered, err := s.service.RenderBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rendered))
}

func (s *Server) handleRestaurantPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.service.ValidRestaurantPositions(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(positions),
		"positions": positions,
	})
}

func (s *Server) handleDrinkSources(w http.ResponseWriter, r *http.Request) {
	var query service.DrinkQuery
	var err error
	if query.Row, err = queryInt(r, "row", 0); err != nil {
		s.respondServiceError(w, err)
		return
	}
	if query.Col, err = queryInt(r, "col", 0); err != nil {
		s.respondServiceError(w, err)
		return
	}
	if query.Range, err = queryInt(r, "range", 0); err != nil {
		s.respondServiceError(w, err)
		return
	}
	query.Route = rules.RouteType(r.URL.Query().Get("route"))

	sources, err := s.service.DrinkSources(r.Context(), mux.Vars(r)["id"], query)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(sources),
		"sources": sources,
	})
}

func (s *Server) handleHousesInRange(w http.ResponseWriter, r *http.Request) {
	row, err := queryInt(r, "row", 0)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	col, err := queryInt(r, "col", 0)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	maxRange, err := queryInt(r, "range", 0)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	houses, err := s.service.HousesInRange(r.Context(), mux.Vars(r)["id"], row, col, maxRange)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(houses),
		"houses": houses,
	})
}

// Setup Handlers

func (s *Server) handlePlaceRestaurant(w http.ResponseWriter, r *http.Request) {
	var req service.RestaurantRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.PlaceRestaurant(r.Context(), sessionID, req)
	s.respondAction(w, sessionID, result, err)
}

func (s *Server) handlePassRestaurant(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.PassRestaurant(r.Context(), sessionID, req.Player)
	s.respondAction(w, sessionID, result, err)
}

func (s *Server) handleSelectReserve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player int `json:"player"`
		Amount int `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.SelectReserveCard(r.Context(), sessionID, req.Player, req.Amount)
	s.respondAction(w, sessionID, result, err)
}

// Restructuring Handlers

func (s *Server) handleSubmitStructure(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player    int              `json:"player"`
		Structure engine.Structure `json:"structure"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.SubmitStructure(r.Context(), sessionID, req.Player, req.Structure)
	s.respondAction(w, sessionID, result, err)
}

func (s *Server) handleFinishRestructuring(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.FinishRestructuring(r.Context(), sessionID)
	s.respondAction(w, sessionID, result, err)
}

// Working Handlers

func (s *Server) handleExecuteWork(w http.ResponseWriter, r *http.Request) {
	var req service.WorkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.ExecuteWork(r.Context(), sessionID, req)
	s.respondAction(w, sessionID, result, err)
}

func (s *Server) handlePlaceCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player int `json:"player"`
		engine.CampaignPlacement
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Direction == "" {
		req.Direction = board.DirectionRow
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.PlaceCampaign(r.Context(), sessionID, req.Player, req.CampaignPlacement)
	s.respondAction(w, sessionID, result, err)
}

func (s *Server) handleAutoCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player  int                `json:"player"`
		Type    rules.CampaignType `json:"type"`
		Product rules.Product      `json:"product"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.AutoPlaceCampaign(r.Context(), sessionID, req.Player, req.Type, req.Product)
	s.respondAction(w, sessionID, result, err)
}

func (s *Server) handleAutoHouse(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.AutoPlaceHouse(r.Context(), sessionID, req.Player)
	s.respondAction(w, sessionID, result, err)
}

func (s *Server) handleAutoGarden(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sessionID := mux.Vars(r)["id"]
	result, err := s.service.AutoPlaceGarden(r.Context(), sessionID, req.Player)
	s.respondAction(w, sessionID, result, err)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.service.LoadConfig(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id"`
		engine.GameConfig
	}
	if !decodeBody(w, r, &req) {
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(req.Name)), " ", "_")
	}
	if configID == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), configID, &req.GameConfig); err != nil {
		s.respondServiceError(w, fmt.Errorf("failed to save config: %w", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": strings.TrimSuffix(strings.TrimSuffix(configID, ".json"), ".yaml"),
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "live updates are disabled")
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session parameter required")
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, "Invalid session")
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
