package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/inconshreveable/log15"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/engine"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
	"github.com/wricardo/mcp-training/foodchain/telemetry"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   log15.Logger
	tracer   trace.Tracer
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   log15.New("component", "service"),
		tracer:   telemetry.Tracer("service"),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateSession",
		trace.WithAttributes(attribute.String("config", configName)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			span.RecordError(err)
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create(ctx, "", config)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", session.ID))
	s.logger.Info("session created", "session", session.ID, "config", config.Name, "players", config.Players)

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}
	return s.sessionInfo(session, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session, s.getConfigID(session.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", "session", sessionID)
	return nil
}

// mutate runs one engine operation under the service lock and reports the
// log lines and state changes it produced. A rejected operation returns the
// unchanged state together with ErrRejected. The returned state is a copy
// taken under the lock.
func (s *gameServiceImpl) mutate(ctx context.Context, op, sessionID string, fn func(e *engine.GameEngine) bool) (*ActionResult, error) {
	_, span := s.tracer.Start(ctx, "service."+op,
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	logStart, phase, round := len(state.Log), state.Phase, state.Round

	ok := fn(sess.Engine)

	result := &ActionResult{
		Success:       ok,
		GameState:     state.Clone(),
		Message:       state.Message,
		Events:        collectEvents(state, logStart, phase, round),
		CurrentAction: currentAction(sess.Engine),
	}
	span.SetAttributes(
		attribute.Bool("success", ok),
		attribute.String("phase", string(state.Phase)),
		attribute.Int("round", state.Round),
	)
	if !ok {
		result.Message = fmt.Sprintf("%s rejected in phase %s", op, state.Phase)
		s.logger.Debug("action rejected", "session", sessionID, "op", op, "phase", state.Phase, "player", state.CurrentPlayer)
		return result, fmt.Errorf("%s: %w", op, ErrRejected)
	}
	if n := len(state.Log); n > logStart {
		result.Message = state.Log[n-1].Message
	}
	s.logger.Debug("action applied", "session", sessionID, "op", op, "events", len(result.Events))
	return result, nil
}

func collectEvents(state *engine.GameState, logStart int, phase rules.Phase, round int) []GameEvent {
	now := time.Now()
	events := []GameEvent{}
	for _, entry := range state.Log[logStart:] {
		events = append(events, GameEvent{
			Type:      "log",
			Message:   entry.Message,
			Round:     entry.Round,
			Phase:     entry.Phase,
			Timestamp: time.UnixMilli(entry.Timestamp),
		})
	}
	if state.Round != round {
		events = append(events, GameEvent{
			Type:      "round",
			Message:   fmt.Sprintf("Round %d", state.Round),
			Round:     state.Round,
			Phase:     state.Phase,
			Timestamp: now,
		})
	}
	if state.Phase != phase {
		events = append(events, GameEvent{
			Type:      "phase",
			Message:   fmt.Sprintf("Phase changed from %s to %s", phase, state.Phase),
			Round:     state.Round,
			Phase:     state.Phase,
			Timestamp: now,
		})
	}
	if state.GameOver && phase != rules.PhaseGameOver {
		msg := "Game over"
		if state.Winner != nil {
			msg = fmt.Sprintf("Game over! %s wins", state.Players[*state.Winner].Name)
		}
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   msg,
			Round:     state.Round,
			Phase:     state.Phase,
			Timestamp: now,
		})
	}
	return events
}

func currentAction(e *engine.GameEngine) *CurrentAction {
	state := e.GetState()
	p := e.CurrentPlayer()
	action := &CurrentAction{
		Phase:      state.Phase,
		Round:      state.Round,
		Player:     p.ID,
		PlayerName: p.Name,
		GameOver:   state.GameOver,
	}
	if work := e.CurrentWorkAction(); work != nil {
		w := *work
		action.Work = &w
		action.Remaining = len(state.WorkingActions) - state.WorkingStep
	}
	return action
}

// PlaceRestaurant places a restaurant during setup or for a pending
// place_restaurant action
func (s *gameServiceImpl) PlaceRestaurant(ctx context.Context, sessionID string, req RestaurantRequest) (*ActionResult, error) {
	return s.mutate(ctx, "PlaceRestaurant", sessionID, func(e *engine.GameEngine) bool {
		return e.PlaceRestaurant(req.Player, req.Row, req.Col, req.Corner)
	})
}

// PassRestaurant declines the setup restaurant placement
func (s *gameServiceImpl) PassRestaurant(ctx context.Context, sessionID string, player int) (*ActionResult, error) {
	return s.mutate(ctx, "PassRestaurant", sessionID, func(e *engine.GameEngine) bool {
		return e.PassRestaurant(player)
	})
}

// SelectReserveCard picks the player's reserve card
func (s *gameServiceImpl) SelectReserveCard(ctx context.Context, sessionID string, player, amount int) (*ActionResult, error) {
	return s.mutate(ctx, "SelectReserveCard", sessionID, func(e *engine.GameEngine) bool {
		return e.SelectReserveCard(player, amount)
	})
}

// SubmitStructure sets the player's structure for the round
func (s *gameServiceImpl) SubmitStructure(ctx context.Context, sessionID string, player int, structure engine.Structure) (*ActionResult, error) {
	return s.mutate(ctx, "SubmitStructure", sessionID, func(e *engine.GameEngine) bool {
		return e.SubmitStructure(player, structure)
	})
}

// FinishRestructuring closes restructuring for players who have not submitted
func (s *gameServiceImpl) FinishRestructuring(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.mutate(ctx, "FinishRestructuring", sessionID, func(e *engine.GameEngine) bool {
		return e.FinishRestructuring()
	})
}

// ExecuteWork answers the pending work action
func (s *gameServiceImpl) ExecuteWork(ctx context.Context, sessionID string, req WorkRequest) (*ActionResult, error) {
	input, err := toWorkInput(req)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "ExecuteWork", sessionID, func(e *engine.GameEngine) bool {
		return e.ExecuteWork(req.Player, input)
	})
}

// toWorkInput converts a transport request into the engine's work input.
func toWorkInput(req WorkRequest) (engine.WorkInput, error) {
	switch strings.ToLower(strings.TrimSpace(req.Kind)) {
	case "hire", "recruit":
		if req.Employee == "" {
			return nil, fmt.Errorf("%w: hire needs an employee", ErrBadRequest)
		}
		return engine.Hire{Employee: req.Employee}, nil
	case "skip", "":
		return engine.Skip{}, nil
	case "produce":
		if req.Product == "" {
			return nil, fmt.Errorf("%w: produce needs a product", ErrBadRequest)
		}
		return engine.ProduceFood{Food: req.Product}, nil
	case "buy_drink", "buy":
		if req.Product == "" {
			return nil, fmt.Errorf("%w: buy_drink needs a product", ErrBadRequest)
		}
		return engine.BuyDrink{Drink: req.Product}, nil
	case "train":
		if req.Card == "" || req.To == "" {
			return nil, fmt.Errorf("%w: train needs a card and a target type", ErrBadRequest)
		}
		return engine.Train{Card: req.Card, To: req.To}, nil
	case "placed":
		return engine.Placed{}, nil
	}
	return nil, fmt.Errorf("%w: unknown work kind %q", ErrBadRequest, req.Kind)
}

// PlaceCampaign places a campaign for the pending campaign action
func (s *gameServiceImpl) PlaceCampaign(ctx context.Context, sessionID string, player int, placement engine.CampaignPlacement) (*ActionResult, error) {
	return s.mutate(ctx, "PlaceCampaign", sessionID, func(e *engine.GameEngine) bool {
		return e.PlaceCampaign(player, placement)
	})
}

// AutoPlaceCampaign places a campaign on the best reachable site
func (s *gameServiceImpl) AutoPlaceCampaign(ctx context.Context, sessionID string, player int, kind rules.CampaignType, product rules.Product) (*ActionResult, error) {
	return s.mutate(ctx, "AutoPlaceCampaign", sessionID, func(e *engine.GameEngine) bool {
		return e.AutoPlaceCampaign(player, kind, product)
	})
}

// AutoPlaceHouse builds a house with a garden for the pending place_house action
func (s *gameServiceImpl) AutoPlaceHouse(ctx context.Context, sessionID string, player int) (*ActionResult, error) {
	return s.mutate(ctx, "AutoPlaceHouse", sessionID, func(e *engine.GameEngine) bool {
		return e.AutoPlaceHouse(player)
	})
}

// AutoPlaceGarden adds a garden for the pending place_house action
func (s *gameServiceImpl) AutoPlaceGarden(ctx context.Context, sessionID string, player int) (*ActionResult, error) {
	return s.mutate(ctx, "AutoPlaceGarden", sessionID, func(e *engine.GameEngine) bool {
		return e.AutoPlaceGarden(player)
	})
}

// withSession runs a read-only query against a session's engine.
func (s *gameServiceImpl) withSession(sessionID string, fn func(e *engine.GameEngine)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	fn(sess.Engine)
	return nil
}

// GetGameState returns a snapshot of the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	var state *engine.GameState
	err := s.withSession(sessionID, func(e *engine.GameEngine) {
		state = e.GetState().Clone()
	})
	return state, err
}

// GetCurrentAction reports what the game is waiting for
func (s *gameServiceImpl) GetCurrentAction(ctx context.Context, sessionID string) (*CurrentAction, error) {
	var action *CurrentAction
	err := s.withSession(sessionID, func(e *engine.GameEngine) {
		action = currentAction(e)
	})
	return action, err
}

// RenderBoard returns the ASCII rendering of the session's board
func (s *gameServiceImpl) RenderBoard(ctx context.Context, sessionID string) (string, error) {
	var out string
	err := s.withSession(sessionID, func(e *engine.GameEngine) {
		out = e.GetState().Map.String()
	})
	return out, err
}

// ValidRestaurantPositions lists legal restaurant footprints
func (s *gameServiceImpl) ValidRestaurantPositions(ctx context.Context, sessionID string) ([]board.RestaurantPosition, error) {
	var positions []board.RestaurantPosition
	err := s.withSession(sessionID, func(e *engine.GameEngine) {
		positions = e.ValidRestaurantPositions()
	})
	if positions == nil {
		positions = []board.RestaurantPosition{}
	}
	return positions, err
}

// DrinkSources lists the drink sources reachable from a cell
func (s *gameServiceImpl) DrinkSources(ctx context.Context, sessionID string, query DrinkQuery) ([]board.DrinkSource, error) {
	route := query.Route
	if route == "" {
		route = rules.RouteRoad
	}
	if route != rules.RouteRoad && route != rules.RouteFly {
		return nil, fmt.Errorf("%w: unknown route %q", ErrBadRequest, query.Route)
	}
	if query.Range < 0 {
		return nil, fmt.Errorf("%w: range must not be negative", ErrBadRequest)
	}

	var sources []board.DrinkSource
	err := s.withSession(sessionID, func(e *engine.GameEngine) {
		sources = e.DrinkSources(query.Row, query.Col, query.Range, route)
	})
	if sources == nil {
		sources = []board.DrinkSource{}
	}
	return sources, err
}

// HousesInRange lists the houses reachable over roads from a cell
func (s *gameServiceImpl) HousesInRange(ctx context.Context, sessionID string, row, col, maxRange int) ([]board.HouseDistance, error) {
	if maxRange < 0 {
		return nil, fmt.Errorf("%w: range must not be negative", ErrBadRequest)
	}
	var houses []board.HouseDistance
	err := s.withSession(sessionID, func(e *engine.GameEngine) {
		houses = e.HousesInRange(row, col, maxRange)
		for i, hd := range houses {
			house := *hd.House
			house.Demand = slices.Clone(hd.House.Demand)
			houses[i].House = &house
		}
	})
	if houses == nil {
		houses = []board.HouseDistance{}
	}
	return houses, err
}

// GetLog retrieves paginated game log entries
func (s *gameServiceImpl) GetLog(ctx context.Context, sessionID string, opts LogOptions) (*LogResponse, error) {
	var history []engine.LogEntry
	if err := s.withSession(sessionID, func(e *engine.GameEngine) {
		history = append(history, e.Log()...)
	}); err != nil {
		return nil, err
	}
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	entries := []engine.LogEntry{}
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			entries = append(entries, history[i])
		}
	} else if start < total {
		entries = history[start:end]
	}

	return &LogResponse{
		Entries:     entries,
		Total:       total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns all available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
