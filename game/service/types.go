package service

import (
	"errors"
	"time"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/engine"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

var (
	// ErrRejected is returned when the engine refuses an action: wrong
	// phase, wrong player or an illegal choice. The game state is unchanged.
	ErrRejected = errors.New("action rejected")
	// ErrBadRequest is returned for payloads that cannot be turned into an
	// engine call at all.
	ErrBadRequest = errors.New("bad request")
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the outcome of a mutating game operation
type ActionResult struct {
	Success       bool              `json:"success"`
	GameState     *engine.GameState `json:"game_state"`
	Message       string            `json:"message"`
	Events        []GameEvent       `json:"events,omitempty"`
	CurrentAction *CurrentAction    `json:"current_action,omitempty"`
}

// GameEvent is a game log line or a state change produced by one operation
type GameEvent struct {
	Type      string      `json:"type"` // "log", "phase", "round", "game_over"
	Message   string      `json:"message"`
	Round     int         `json:"round"`
	Phase     rules.Phase `json:"phase"`
	Timestamp time.Time   `json:"timestamp"`
}

// CurrentAction describes whose turn it is and what the game waits for
type CurrentAction struct {
	Phase      rules.Phase        `json:"phase"`
	Round      int                `json:"round"`
	Player     int                `json:"player"`
	PlayerName string             `json:"player_name"`
	Work       *engine.WorkAction `json:"work,omitempty"`
	Remaining  int                `json:"remaining,omitempty"`
	GameOver   bool               `json:"game_over"`
}

// RestaurantRequest places a restaurant during setup or for a
// place_restaurant work action.
type RestaurantRequest struct {
	Player int          `json:"player"`
	Row    int          `json:"row"`
	Col    int          `json:"col"`
	Corner board.Corner `json:"corner"`
}

// WorkRequest answers the pending work action. Kind selects the input:
// hire, skip, produce, buy_drink, train or placed.
type WorkRequest struct {
	Player   int              `json:"player"`
	Kind     string           `json:"kind"`
	Employee rules.EmployeeID `json:"employee,omitempty"`
	Product  rules.Product    `json:"product,omitempty"`
	Card     engine.CardID    `json:"card,omitempty"`
	To       rules.EmployeeID `json:"to,omitempty"`
}

// DrinkQuery searches for drink sources from a cell
type DrinkQuery struct {
	Row   int             `json:"row"`
	Col   int             `json:"col"`
	Range int             `json:"range"`
	Route rules.RouteType `json:"route"`
}

// LogOptions configures game log retrieval
type LogOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// LogResponse contains a page of the game log
type LogResponse struct {
	Entries     []engine.LogEntry `json:"entries"`
	Total       int               `json:"total"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	TotalPages  int               `json:"total_pages"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Players     int    `json:"players"`
	Intro       bool   `json:"intro"`
	FixedLayout bool   `json:"fixed_layout"`
}
