package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/engine"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
	"github.com/wricardo/mcp-training/foodchain/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(ctx context.Context, id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(ctx, config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func createTestConfig() *engine.GameConfig {
	config := &engine.GameConfig{
		Name:        "test",
		Description: "Test configuration",
		Players:     2,
		Seed:        1,
		Layout: []string{
			"..........",
			"....B.....",
			"##########",
			"....H.L...",
			"..........",
			"..........",
			"..........",
			"..........",
			"..H.......",
			".........S",
		},
	}
	config.Messages.Welcome = "Welcome to test!"
	return config
}

func NewMockConfigManager() *MockConfigManager {
	defaultConfig := createTestConfig()
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test":    defaultConfig,
			"default": defaultConfig,
		},
		saved: make(map[string]*engine.GameConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			Players:     config.Players,
			FixedLayout: len(config.Layout) > 0,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T) (service.GameService, string) {
	t.Helper()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, info.ID
}

// playSetup places both restaurants and picks reserve cards, leaving the
// session at Restructuring of round 1.
func playSetup(t *testing.T, svc service.GameService, id string) {
	t.Helper()
	ctx := context.Background()
	steps := []func() (*service.ActionResult, error){
		func() (*service.ActionResult, error) {
			return svc.PlaceRestaurant(ctx, id, service.RestaurantRequest{Player: 1, Row: 0, Col: 7, Corner: board.Corner{DR: 1, DC: 1}})
		},
		func() (*service.ActionResult, error) {
			return svc.PlaceRestaurant(ctx, id, service.RestaurantRequest{Player: 0, Row: 0, Col: 0, Corner: board.Corner{DR: 1, DC: 0}})
		},
		func() (*service.ActionResult, error) { return svc.SelectReserveCard(ctx, id, 0, 100) },
		func() (*service.ActionResult, error) { return svc.SelectReserveCard(ctx, id, 1, 200) },
	}
	for i, step := range steps {
		if _, err := step(); err != nil {
			t.Fatalf("setup step %d failed: %v", i, err)
		}
	}
}

func hasEvent(events []service.GameEvent, typ, fragment string) bool {
	for _, ev := range events {
		if ev.Type == typ && strings.Contains(ev.Message, fragment) {
			return true
		}
	}
	return false
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	tests := []struct {
		name       string
		configName string
		wantErr    bool
	}{
		{"create with default config", "", false},
		{"create with specific config", "test", false},
		{"create with invalid config", "nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !strings.Contains(err.Error(), "Available configs") {
					t.Errorf("Expected available configs in error, got %v", err)
				}
				return
			}
			if session == nil || session.GameState == nil {
				t.Fatal("CreateSession() returned nil session")
			}
			if session.GameState.Phase != rules.PhaseSetupPlaceRestaurant {
				t.Errorf("New session should start in setup, got %s", session.GameState.Phase)
			}
		})
	}
}

func TestGameService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	info, err := svc.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if info.ID != id || info.ConfigName == "" {
		t.Errorf("Unexpected session info: %+v", info)
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("Expected one session, got %d (%v)", len(sessions), err)
	}

	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, id); err == nil {
		t.Error("Expected error for deleted session")
	}
	if _, err := svc.GetGameState(ctx, id); err == nil {
		t.Error("Expected error for state of deleted session")
	}
}

func TestGameService_SetupFlow(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	result, err := svc.PlaceRestaurant(ctx, id, service.RestaurantRequest{Player: 0, Row: 0, Col: 0, Corner: board.Corner{DR: 1, DC: 0}})
	if !errors.Is(err, service.ErrRejected) {
		t.Fatalf("Player 0 placing first should be rejected, got %v", err)
	}
	if result == nil || result.Success {
		t.Fatal("Rejected action should still report a failed result")
	}
	if result.CurrentAction == nil || result.CurrentAction.Player != 1 {
		t.Errorf("Expected player 1 to be waited on, got %+v", result.CurrentAction)
	}

	result, err = svc.PlaceRestaurant(ctx, id, service.RestaurantRequest{Player: 1, Row: 0, Col: 7, Corner: board.Corner{DR: 1, DC: 1}})
	if err != nil {
		t.Fatalf("Placement failed: %v", err)
	}
	if !result.Success || !hasEvent(result.Events, "log", "") {
		t.Errorf("Expected success with log events, got %+v", result)
	}

	result, err = svc.PlaceRestaurant(ctx, id, service.RestaurantRequest{Player: 0, Row: 0, Col: 0, Corner: board.Corner{DR: 1, DC: 0}})
	if err != nil {
		t.Fatalf("Placement failed: %v", err)
	}
	if !hasEvent(result.Events, "phase", string(rules.PhaseSetupReserveCard)) {
		t.Errorf("Expected phase change event, got %+v", result.Events)
	}

	if _, err := svc.SelectReserveCard(ctx, id, 0, 150); !errors.Is(err, service.ErrRejected) {
		t.Errorf("Unknown reserve amount should be rejected, got %v", err)
	}
	svc.SelectReserveCard(ctx, id, 0, 100)
	result, err = svc.SelectReserveCard(ctx, id, 1, 300)
	if err != nil {
		t.Fatalf("Reserve selection failed: %v", err)
	}
	if !hasEvent(result.Events, "round", "Round 1") {
		t.Errorf("Expected round event, got %+v", result.Events)
	}
	if result.GameState.Phase != rules.PhaseRestructuring {
		t.Errorf("Expected restructuring, got %s", result.GameState.Phase)
	}
}

func TestGameService_PassRestaurant(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	if _, err := svc.PassRestaurant(ctx, id, 1); err != nil {
		t.Fatalf("Pass failed: %v", err)
	}
	action, err := svc.GetCurrentAction(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if action.Player != 0 || action.Phase != rules.PhaseSetupPlaceRestaurant {
		t.Errorf("Expected player 0 to place next, got %+v", action)
	}
}

func TestGameService_WorkingFlow(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)
	playSetup(t, svc, id)

	if _, err := svc.SubmitStructure(ctx, id, 0, engine.Structure{CEO: []engine.CardID{"missing"}}); !errors.Is(err, service.ErrRejected) {
		t.Errorf("Unknown card should be rejected, got %v", err)
	}

	result, err := svc.FinishRestructuring(ctx, id)
	if err != nil {
		t.Fatalf("FinishRestructuring failed: %v", err)
	}
	if result.GameState.Phase != rules.PhaseWorking {
		t.Fatalf("Expected working phase, got %s", result.GameState.Phase)
	}
	action := result.CurrentAction
	if action == nil || action.Work == nil || action.Work.Type != rules.ActionCEORecruit {
		t.Fatalf("Expected pending CEO recruit, got %+v", action)
	}
	if action.Remaining != 1 {
		t.Errorf("Expected 1 remaining action, got %d", action.Remaining)
	}

	if _, err := svc.ExecuteWork(ctx, id, service.WorkRequest{Player: action.Player, Kind: "teleport"}); !errors.Is(err, service.ErrBadRequest) {
		t.Errorf("Unknown kind should be a bad request, got %v", err)
	}
	if _, err := svc.ExecuteWork(ctx, id, service.WorkRequest{Player: action.Player, Kind: "hire"}); !errors.Is(err, service.ErrBadRequest) {
		t.Errorf("Hire without employee should be a bad request, got %v", err)
	}
	if _, err := svc.ExecuteWork(ctx, id, service.WorkRequest{Player: action.Player, Kind: "hire", Employee: rules.BurgerCook}); !errors.Is(err, service.ErrRejected) {
		t.Errorf("Hiring a non entry-level employee should be rejected, got %v", err)
	}

	result, err = svc.ExecuteWork(ctx, id, service.WorkRequest{Player: action.Player, Kind: "hire", Employee: rules.Waitress})
	if err != nil {
		t.Fatalf("Hire failed: %v", err)
	}
	hirer := result.GameState.Players[action.Player]
	if len(hirer.Cards) != 2 {
		t.Errorf("Expected CEO and a waitress, got %d cards", len(hirer.Cards))
	}

	next := result.CurrentAction
	if next.Player == action.Player {
		t.Fatalf("Expected the other player to act next")
	}
	result, err = svc.ExecuteWork(ctx, id, service.WorkRequest{Player: next.Player, Kind: "skip"})
	if err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	if result.GameState.Round != 2 || result.GameState.Phase != rules.PhaseRestructuring {
		t.Errorf("Expected round 2 restructuring, got round %d %s", result.GameState.Round, result.GameState.Phase)
	}
	for _, typ := range []string{"log", "round", "phase"} {
		if !hasEvent(result.Events, typ, "") {
			t.Errorf("Expected a %s event after the round cascade", typ)
		}
	}
}

func TestGameService_PlacementRejectedOutsideWorking(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	calls := map[string]func() (*service.ActionResult, error){
		"campaign": func() (*service.ActionResult, error) {
			return svc.PlaceCampaign(ctx, id, 1, engine.CampaignPlacement{Type: rules.Billboard, Product: rules.Burger, Row: 1, Col: 1})
		},
		"auto campaign": func() (*service.ActionResult, error) {
			return svc.AutoPlaceCampaign(ctx, id, 1, rules.Mailbox, rules.Pizza)
		},
		"house":   func() (*service.ActionResult, error) { return svc.AutoPlaceHouse(ctx, id, 1) },
		"garden":  func() (*service.ActionResult, error) { return svc.AutoPlaceGarden(ctx, id, 1) },
		"finish":  func() (*service.ActionResult, error) { return svc.FinishRestructuring(ctx, id) },
		"reserve": func() (*service.ActionResult, error) { return svc.SelectReserveCard(ctx, id, 1, 100) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			result, err := call()
			if !errors.Is(err, service.ErrRejected) {
				t.Errorf("Expected ErrRejected, got %v", err)
			}
			if result == nil || result.Success || result.GameState.Phase != rules.PhaseSetupPlaceRestaurant {
				t.Errorf("Rejected action must leave the state unchanged")
			}
		})
	}
}

func TestGameService_Queries(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	positions, err := svc.ValidRestaurantPositions(ctx, id)
	if err != nil || len(positions) == 0 {
		t.Fatalf("Expected restaurant positions, got %d (%v)", len(positions), err)
	}

	sources, err := svc.DrinkSources(ctx, id, service.DrinkQuery{Row: 2, Col: 4, Range: 3})
	if err != nil {
		t.Fatalf("DrinkSources failed: %v", err)
	}
	foundBeer := false
	for _, s := range sources {
		if s.Type == rules.Beer {
			foundBeer = true
		}
	}
	if !foundBeer {
		t.Errorf("Expected beer next to the road, got %+v", sources)
	}
	if _, err := svc.DrinkSources(ctx, id, service.DrinkQuery{Route: "teleport"}); !errors.Is(err, service.ErrBadRequest) {
		t.Errorf("Expected bad request for unknown route, got %v", err)
	}

	houses, err := svc.HousesInRange(ctx, id, 2, 4, 5)
	if err != nil || len(houses) == 0 {
		t.Errorf("Expected a house in range, got %+v (%v)", houses, err)
	}
	if _, err := svc.HousesInRange(ctx, id, 2, 4, -1); !errors.Is(err, service.ErrBadRequest) {
		t.Errorf("Expected bad request for negative range, got %v", err)
	}

	rendered, err := svc.RenderBoard(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(rendered), "\n"); len(lines) != 10 {
		t.Errorf("Expected 10 rendered rows, got %d", len(lines))
	}

	if _, err := svc.ValidRestaurantPositions(ctx, "nonexistent"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestGameService_GetLog(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)
	playSetup(t, svc, id)

	state, _ := svc.GetGameState(ctx, id)
	total := len(state.Log)
	if total < 3 {
		t.Fatalf("Expected several log entries, got %d", total)
	}

	page, err := svc.GetLog(ctx, id, service.LogOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != total || page.Page != 1 || page.PageSize != 20 {
		t.Errorf("Unexpected defaults: %+v", page)
	}
	if page.Entries[0].Message != state.Log[total-1].Message {
		t.Error("Default order should be newest first")
	}

	page, err = svc.GetLog(ctx, id, service.LogOptions{Page: 2, Limit: 2, Order: "asc"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Entries) != 2 || page.Entries[0].Message != state.Log[2].Message {
		t.Errorf("Unexpected second ascending page: %+v", page.Entries)
	}
	if !page.HasPrevious || page.TotalPages != (total+1)/2 {
		t.Errorf("Unexpected pagination: %+v", page)
	}

	page, _ = svc.GetLog(ctx, id, service.LogOptions{Page: 99, Limit: 500})
	if page.PageSize != 100 || len(page.Entries) != 0 || page.HasNext {
		t.Errorf("Out of range page should be empty, got %+v", page)
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d (%v)", len(configs), err)
	}
	config, err := svc.LoadConfig(ctx, "test")
	if err != nil || config.Name != "test" {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	invalid := createTestConfig()
	invalid.Players = 7
	if err := svc.SaveConfig(ctx, "bad", invalid); err == nil {
		t.Error("Expected invalid config to be refused")
	}
	if err := svc.SaveConfig(ctx, "copy", createTestConfig()); err != nil {
		t.Errorf("SaveConfig failed: %v", err)
	}
}

func TestGameService_StateSnapshotsAreDetached(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)
	playSetup(t, svc, id)

	before, err := svc.GetGameState(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	round, logLen := before.Round, len(before.Log)

	if _, err := svc.FinishRestructuring(ctx, id); err != nil {
		t.Fatalf("FinishRestructuring failed: %v", err)
	}
	if before.Round != round || len(before.Log) != logLen || before.Phase != rules.PhaseRestructuring {
		t.Errorf("Earlier snapshot changed after an action: round %d phase %s log %d", before.Round, before.Phase, len(before.Log))
	}

	// Writes to a snapshot never reach the session
	before.Players[0].Food[rules.Burger] = 9
	before.EmployeeSupply[rules.Waitress] = 0
	after, _ := svc.GetGameState(ctx, id)
	if after.Players[0].Food[rules.Burger] == 9 || after.EmployeeSupply[rules.Waitress] == 0 {
		t.Error("Snapshot writes leaked into the live game")
	}
}

// TestGameService_ConcurrentReadsDuringPlay encodes snapshots on one
// goroutine while another plays rounds. Run with -race.
func TestGameService_ConcurrentReadsDuringPlay(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)
	playSetup(t, svc, id)

	done := make(chan struct{})
	readerErr := make(chan error, 1)
	go func() {
		defer close(readerErr)
		for {
			select {
			case <-done:
				return
			default:
			}
			state, err := svc.GetGameState(ctx, id)
			if err != nil {
				readerErr <- err
				return
			}
			if _, err := json.Marshal(state); err != nil {
				readerErr <- err
				return
			}
			if action, err := svc.GetCurrentAction(ctx, id); err == nil {
				json.Marshal(action)
			}
		}
	}()

	var results []*service.ActionResult
	for step := 0; step < 200; step++ {
		action, err := svc.GetCurrentAction(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if action.Round > 6 || action.GameOver {
			break
		}
		var result *service.ActionResult
		switch action.Phase {
		case rules.PhaseRestructuring:
			result, err = svc.FinishRestructuring(ctx, id)
		case rules.PhaseWorking:
			result, err = svc.ExecuteWork(ctx, id, service.WorkRequest{Player: action.Player, Kind: "skip"})
		default:
			t.Fatalf("Unexpected phase %s", action.Phase)
		}
		if err != nil {
			t.Fatalf("step %d failed: %v", step, err)
		}
		results = append(results, result)
	}
	close(done)
	if err := <-readerErr; err != nil {
		t.Fatalf("Reader failed: %v", err)
	}

	// Earlier results keep the state they were produced with
	if len(results) < 2 {
		t.Fatalf("Expected several actions, got %d", len(results))
	}
	if first, last := results[0].GameState, results[len(results)-1].GameState; first.Round >= last.Round {
		t.Errorf("Expected rounds to advance between results, got %d and %d", first.Round, last.Round)
	}
	for _, result := range results {
		if _, err := json.Marshal(result); err != nil {
			t.Fatalf("Result does not encode: %v", err)
		}
	}
}
