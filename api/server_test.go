package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/foodchain/game/config"
	"github.com/wricardo/mcp-training/foodchain/game/engine"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
	"github.com/wricardo/mcp-training/foodchain/game/service"
	"github.com/wricardo/mcp-training/foodchain/game/session"
	"github.com/wricardo/mcp-training/foodchain/transport/websocket"
)

// MockGameService overrides single operations; calls to anything else panic
// through the nil embedded interface.
type MockGameService struct {
	service.GameService
	GetGameStateFunc func(ctx context.Context, sessionID string) (*engine.GameState, error)
	ListSessionsFunc func(ctx context.Context) ([]*service.SessionInfo, error)
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	return m.GetGameStateFunc(ctx, sessionID)
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	return m.ListSessionsFunc(ctx)
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

// setupTestServer wires the real service stack against a temporary preset
// directory holding a single "test" preset.
func setupTestServer(t *testing.T, hub *websocket.Hub) *Server {
	t.Helper()
	dir := t.TempDir()
	data, err := json.Marshal(createTestConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "test.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	configs, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	return NewServer(service.NewGameService(session.NewManager(), configs), hub)
}

func makeRequest(server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	return rr
}

func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to parse response %q: %v", rr.Body.String(), err)
	}
}

func createSession(t *testing.T, server *Server) string {
	t.Helper()
	rr := makeRequest(server, "POST", "/api/sessions", map[string]string{"config_id": "test"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var info service.SessionInfo
	parseResponse(t, rr, &info)
	return info.ID
}

func playSetup(t *testing.T, server *Server, id string) {
	t.Helper()
	steps := []struct {
		path string
		body interface{}
	}{
		{"/restaurant", map[string]interface{}{"player": 1, "row": 0, "col": 7, "corner": map[string]int{"dr": 1, "dc": 1}}},
		{"/restaurant", map[string]interface{}{"player": 0, "row": 0, "col": 0, "corner": map[string]int{"dr": 1, "dc": 0}}},
		{"/reserve", map[string]int{"player": 0, "amount": 100}},
		{"/reserve", map[string]int{"player": 1, "amount": 200}},
	}
	for i, step := range steps {
		rr := makeRequest(server, "POST", "/api/sessions/"+id+step.path, step.body)
		if rr.Code != http.StatusOK {
			t.Fatalf("setup step %d: expected 200, got %d: %s", i, rr.Code, rr.Body.String())
		}
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, nil)
	rr := makeRequest(server, "GET", "/api/health", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var body map[string]string
	parseResponse(t, rr, &body)
	if body["status"] != "healthy" {
		t.Errorf("Unexpected health body: %v", body)
	}
}

func TestCreateSession(t *testing.T) {
	server := setupTestServer(t, nil)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"by config id", map[string]string{"config_id": "test"}, http.StatusCreated},
		{"by deprecated name", map[string]string{"config_name": "test"}, http.StatusCreated},
		{"default config", nil, http.StatusCreated},
		{"unknown config", map[string]string{"config_id": "nope"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := makeRequest(server, "POST", "/api/sessions", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}
			var info service.SessionInfo
			parseResponse(t, rr, &info)
			if info.ID == "" || info.GameState == nil {
				t.Errorf("Expected session with state, got %+v", info)
			}
			if info.GameState.Phase != rules.PhaseSetupPlaceRestaurant {
				t.Errorf("Expected setup phase, got %s", info.GameState.Phase)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	server := setupTestServer(t, nil)
	id := createSession(t, server)

	rr := makeRequest(server, "GET", "/api/sessions/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	rr = makeRequest(server, "GET", "/api/sessions", nil)
	var list struct {
		Count    int                    `json:"count"`
		Total    int                    `json:"total"`
		Sessions []*service.SessionInfo `json:"sessions"`
		Sort     string                 `json:"sort"`
	}
	parseResponse(t, rr, &list)
	if list.Count != 1 || list.Total != 1 || list.Sort != "accessed" {
		t.Errorf("Unexpected session list: %+v", list)
	}

	rr = makeRequest(server, "DELETE", "/api/sessions/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", rr.Code)
	}

	for _, path := range []string{"/api/sessions/" + id, "/api/sessions/" + id + "/state"} {
		if rr := makeRequest(server, "GET", path, nil); rr.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", path, rr.Code)
		}
	}
	if rr := makeRequest(server, "DELETE", "/api/sessions/"+id, nil); rr.Code != http.StatusNotFound {
		t.Errorf("Second delete should be 404, got %d", rr.Code)
	}
}

func TestListSessionsSortAndLimit(t *testing.T) {
	now := time.Now()
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now},
				{ID: "new", CreatedAt: now, LastAccessedAt: now.Add(-time.Hour)},
				{ID: "mid", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
			}, nil
		},
	}
	server := NewServer(mock, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"old", "new", "mid"}},
		{"?sort=created", []string{"new", "mid", "old"}},
		{"?sort=created&order=asc", []string{"old", "mid", "new"}},
		{"?sort=created&limit=1", []string{"new"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := makeRequest(server, "GET", "/api/sessions"+tt.query, nil)
			var list struct {
				Sessions []*service.SessionInfo `json:"sessions"`
				Total    int                    `json:"total"`
			}
			parseResponse(t, rr, &list)
			if list.Total != 3 {
				t.Errorf("Expected total 3, got %d", list.Total)
			}
			var got []string
			for _, s := range list.Sessions {
				got = append(got, s.ID)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSetupAndWorkingFlow(t *testing.T) {
	server := setupTestServer(t, nil)
	id := createSession(t, server)
	playSetup(t, server, id)

	rr := makeRequest(server, "POST", "/api/sessions/"+id+"/structure/finish", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result service.ActionResult
	parseResponse(t, rr, &result)
	if result.GameState.Phase != rules.PhaseWorking || result.CurrentAction == nil || result.CurrentAction.Work == nil {
		t.Fatalf("Expected a pending work action, got %+v", result.CurrentAction)
	}
	player := result.CurrentAction.Player

	rr = makeRequest(server, "GET", "/api/sessions/"+id+"/action", nil)
	var action service.CurrentAction
	parseResponse(t, rr, &action)
	if action.Work.Type != rules.ActionCEORecruit || action.Player != player {
		t.Errorf("Unexpected current action: %+v", action)
	}

	rr = makeRequest(server, "POST", "/api/sessions/"+id+"/work", map[string]interface{}{
		"player": player, "kind": "hire", "employee": rules.Waitress,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Hire: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	parseResponse(t, rr, &result)
	if len(result.GameState.Players[player].Cards) != 2 {
		t.Errorf("Expected CEO and waitress, got %d cards", len(result.GameState.Players[player].Cards))
	}
	if len(result.Events) == 0 {
		t.Error("Expected events for the hire")
	}
}

func TestRejectedActionReturnsConflict(t *testing.T) {
	server := setupTestServer(t, nil)
	id := createSession(t, server)

	// Player 1 places first in a two-player game
	rr := makeRequest(server, "POST", "/api/sessions/"+id+"/restaurant", map[string]interface{}{
		"player": 0, "row": 0, "col": 0, "corner": map[string]int{"dr": 1, "dc": 0},
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Error     string            `json:"error"`
		Success   bool              `json:"success"`
		GameState *engine.GameState `json:"game_state"`
	}
	parseResponse(t, rr, &body)
	if body.Error == "" || body.Success {
		t.Errorf("Expected an error without success, got %+v", body)
	}
	if body.GameState == nil || body.GameState.Phase != rules.PhaseSetupPlaceRestaurant {
		t.Error("Rejected response should carry the unchanged state")
	}
}

func TestBadRequests(t *testing.T) {
	server := setupTestServer(t, nil)
	id := createSession(t, server)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"malformed body", "POST", "/api/sessions/" + id + "/restaurant", "{not json"},
		{"unknown work kind", "POST", "/api/sessions/" + id + "/work", `{"player":1,"kind":"teleport"}`},
		{"non-numeric row", "GET", "/api/sessions/" + id + "/drink-sources?row=x&col=1&range=2", ""},
		{"non-numeric range", "GET", "/api/sessions/" + id + "/houses?row=1&col=1&range=far", ""},
		{"bad route", "GET", "/api/sessions/" + id + "/drink-sources?row=2&col=4&range=2&route=boat", ""},
		{"invalid session id", "GET", "/api/sessions/bad%20id/state", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, req)
			if rr.Code != http.StatusBadRequest && rr.Code != http.StatusNotFound {
				t.Errorf("Expected a client error, got %d: %s", rr.Code, rr.Body.String())
			}
			if tt.name != "invalid session id" && rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestQueries(t *testing.T) {
	server := setupTestServer(t, nil)
	id := createSession(t, server)

	rr := makeRequest(server, "GET", "/api/sessions/"+id+"/board", nil)
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("Expected plain text board, got %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
	if rows := strings.Split(strings.TrimRight(rr.Body.String(), "\n"), "\n"); len(rows) != 10 {
		t.Errorf("Expected 10 board rows, got %d", len(rows))
	}

	rr = makeRequest(server, "GET", "/api/sessions/"+id+"/restaurant-positions", nil)
	var positions struct {
		Count int `json:"count"`
	}
	parseResponse(t, rr, &positions)
	if positions.Count == 0 {
		t.Error("Expected restaurant positions on a fresh map")
	}

	rr = makeRequest(server, "GET", "/api/sessions/"+id+"/drink-sources?row=2&col=4&range=3", nil)
	var drinks struct {
		Count   int `json:"count"`
		Sources []struct {
			Type rules.Product `json:"type"`
		} `json:"sources"`
	}
	parseResponse(t, rr, &drinks)
	found := false
	for _, s := range drinks.Sources {
		if s.Type == rules.Beer {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected beer within range, got %s", rr.Body.String())
	}

	rr = makeRequest(server, "GET", "/api/sessions/"+id+"/houses?row=2&col=4&range=5", nil)
	var houses struct {
		Count int `json:"count"`
	}
	parseResponse(t, rr, &houses)
	if houses.Count == 0 {
		t.Errorf("Expected houses in range, got %s", rr.Body.String())
	}
}

func TestGetLog(t *testing.T) {
	server := setupTestServer(t, nil)
	id := createSession(t, server)
	playSetup(t, server, id)

	rr := makeRequest(server, "GET", "/api/sessions/"+id+"/log?limit=2&order=asc", nil)
	var page service.LogResponse
	parseResponse(t, rr, &page)
	if len(page.Entries) != 2 || page.PageSize != 2 || !page.HasNext {
		t.Errorf("Unexpected log page: %+v", page)
	}
	if !strings.Contains(page.Entries[0].Message, "Game started") {
		t.Errorf("Ascending log should start with the game start, got %q", page.Entries[0].Message)
	}
}

func TestConfigs(t *testing.T) {
	server := setupTestServer(t, nil)

	rr := makeRequest(server, "GET", "/api/configs", nil)
	var configs []*service.ConfigInfo
	parseResponse(t, rr, &configs)
	if len(configs) != 1 || configs[0].ConfigID != "test" || !configs[0].FixedLayout {
		t.Fatalf("Unexpected configs: %s", rr.Body.String())
	}

	if rr := makeRequest(server, "GET", "/api/configs/test", nil); rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for known config, got %d", rr.Code)
	}
	if rr := makeRequest(server, "GET", "/api/configs/missing", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing config, got %d", rr.Code)
	}

	newConfig := createTestConfig()
	newConfig.Name = "Family Night"
	newConfig.Players = 3
	newConfig.Layout = nil
	rr = makeRequest(server, "POST", "/api/configs", newConfig)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created map[string]string
	parseResponse(t, rr, &created)
	if created["config_id"] != "family_night" {
		t.Errorf("Expected derived config id, got %v", created)
	}

	invalid := createTestConfig()
	invalid.Players = 9
	if rr := makeRequest(server, "POST", "/api/configs", invalid); rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid config, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("place: %w", service.ErrRejected), http.StatusConflict},
		{fmt.Errorf("work: %w", service.ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("save: %w", config.ErrInvalidConfig), http.StatusBadRequest},
		{session.ErrInvalidSessionID, http.StatusBadRequest},
		{fmt.Errorf("get: %w", session.ErrSessionNotFound), http.StatusNotFound},
		{fmt.Errorf("load: %w", config.ErrConfigNotFound), http.StatusNotFound},
		{session.ErrSessionAlreadyExists, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestInternalErrorResponse(t *testing.T) {
	mock := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			return nil, errors.New("engine exploded")
		},
	}
	server := NewServer(mock, nil)

	rr := makeRequest(server, "GET", "/api/sessions/abc/state", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	var body map[string]string
	parseResponse(t, rr, &body)
	if body["error"] != "engine exploded" {
		t.Errorf("Unexpected error body: %v", body)
	}
}

func TestWebSocketValidation(t *testing.T) {
	server := setupTestServer(t, websocket.NewHub())

	if rr := makeRequest(server, "GET", "/ws", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without session, got %d", rr.Code)
	}
	if rr := makeRequest(server, "GET", "/ws?session=ghost", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rr.Code)
	}

	disabled := setupTestServer(t, nil)
	if rr := makeRequest(disabled, "GET", "/ws?session=x", nil); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a hub, got %d", rr.Code)
	}
}

func TestActionsBroadcastToWebSocket(t *testing.T) {
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := setupTestServer(t, hub)
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	id := createSession(t, server)
	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws?session=" + id
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(id) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("Client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rr := makeRequest(server, "POST", "/api/sessions/"+id+"/restaurant/pass", map[string]int{"player": 1})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	var message websocket.Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatal(err)
	}
	if message.Event != websocket.EventStateUpdate || message.GameState == nil || message.GameState.CurrentPlayer != 0 {
		t.Errorf("Unexpected broadcast: %s", data)
	}

	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read events: %v", err)
	}
	if !strings.Contains(string(data), websocket.EventGameEvents) {
		t.Errorf("Expected game events broadcast, got %s", data)
	}
}
