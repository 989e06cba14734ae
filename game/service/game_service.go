package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/engine"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Setup
	PlaceRestaurant(ctx context.Context, sessionID string, req RestaurantRequest) (*ActionResult, error)
	PassRestaurant(ctx context.Context, sessionID string, player int) (*ActionResult, error)
	SelectReserveCard(ctx context.Context, sessionID string, player, amount int) (*ActionResult, error)

	// Restructuring
	SubmitStructure(ctx context.Context, sessionID string, player int, structure engine.Structure) (*ActionResult, error)
	FinishRestructuring(ctx context.Context, sessionID string) (*ActionResult, error)

	// Working 9-5
	ExecuteWork(ctx context.Context, sessionID string, req WorkRequest) (*ActionResult, error)
	PlaceCampaign(ctx context.Context, sessionID string, player int, placement engine.CampaignPlacement) (*ActionResult, error)
	AutoPlaceCampaign(ctx context.Context, sessionID string, player int, kind rules.CampaignType, product rules.Product) (*ActionResult, error)
	AutoPlaceHouse(ctx context.Context, sessionID string, player int) (*ActionResult, error)
	AutoPlaceGarden(ctx context.Context, sessionID string, player int) (*ActionResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetCurrentAction(ctx context.Context, sessionID string) (*CurrentAction, error)
	GetLog(ctx context.Context, sessionID string, opts LogOptions) (*LogResponse, error)
	RenderBoard(ctx context.Context, sessionID string) (string, error)

	// Board queries
	ValidRestaurantPositions(ctx context.Context, sessionID string) ([]board.RestaurantPosition, error)
	DrinkSources(ctx context.Context, sessionID string, query DrinkQuery) ([]board.DrinkSource, error)
	HousesInRange(ctx context.Context, sessionID string, row, col, maxRange int) ([]board.HouseDistance, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(ctx context.Context, id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
