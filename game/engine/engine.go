package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/inconshreveable/log15"
	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	GetState() *GameState
	GetConfig() *GameConfig
	IsGameOver() bool
	Winner() *Player
	CurrentPlayer() *Player
	Log() []LogEntry

	// Setup
	PlaceRestaurant(player, row, col int, corner board.Corner) bool
	PassRestaurant(player int) bool
	SelectReserveCard(player, amount int) bool

	// Restructuring
	SubmitStructure(player int, s Structure) bool
	FinishRestructuring() bool

	// Working
	CurrentWorkAction() *WorkAction
	ExecuteWork(player int, input WorkInput) bool
	SkipWork(player int) bool
	PlaceCampaign(player int, placement CampaignPlacement) bool
	AutoPlaceCampaign(player int, kind rules.CampaignType, product rules.Product) bool
	AutoPlaceHouse(player int) bool
	AutoPlaceGarden(player int) bool

	// Board queries
	ValidRestaurantPositions() []board.RestaurantPosition
	DrinkSources(row, col, maxRange int, route rules.RouteType) []board.DrinkSource
	HousesInRange(row, col, maxRange int) []board.HouseDistance
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	logger log15.Logger
}

// NewEngine creates a new game from the provided configuration. A config
// without a layout gets a generated map.
func NewEngine(ctx context.Context, config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var (
		m   *board.Map
		err error
	)
	if len(config.Layout) > 0 {
		m, err = board.Parse(config.Layout)
	} else {
		m, err = board.NewGenerator(rng).Generate(ctx, config.Players)
	}
	if err != nil {
		return nil, fmt.Errorf("build map: %w", err)
	}

	return newGameEngine(config, m), nil
}

func newGameEngine(config *GameConfig, m *board.Map) *GameEngine {
	n := config.Players
	bank := rules.BankPerPlayer * n
	if config.Intro {
		bank = rules.IntroBankPerPlayer * n
	}

	state := &GameState{
		ConfigName:     config.Name,
		PlayerCount:    n,
		Intro:          config.Intro,
		Phase:          rules.PhaseSetupPlaceRestaurant,
		CurrentPlayer:  n - 1,
		TurnOrder:      make([]int, n),
		Bank:           bank,
		CEOSlots:       rules.StartingCEOSlots,
		Map:            m,
		EmployeeSupply: rules.InitialSupply(),
		Log:            []LogEntry{},
		Message:        config.Messages.Welcome,
		WorkingActions: []WorkAction{},
		SetupPlaced:    map[int]bool{},
		SetupPassed:    map[int]bool{},
		Submitted:      map[int]bool{},
	}
	for i := range state.TurnOrder {
		state.TurnOrder[i] = i
	}
	for _, ms := range rules.Milestones {
		state.Milestones = append(state.Milestones, &MilestoneState{Milestone: ms, Available: !config.Intro})
	}
	for i := 0; i < n; i++ {
		ceo := &Card{ID: newCardID(), Type: rules.CEO}
		state.Players = append(state.Players, &Player{
			ID:             i,
			Name:           rules.PlayerNames[i],
			CEOCard:        ceo.ID,
			Cards:          []*Card{ceo},
			Beach:          []CardID{},
			Restaurants:    []*board.Restaurant{},
			Food:           map[rules.Product]int{},
			Drinks:         map[rules.Product]int{},
			Freezer:        map[rules.Product]int{},
			Milestones:     []rules.MilestoneID{},
			BusyMarketeers: []CardID{},
		})
	}

	e := &GameEngine{
		state:  state,
		config: config,
		logger: log15.New("component", "engine", "config", config.Name),
	}
	e.log("Game started with %d players. Bank: $%d", n, bank)
	return e
}

func newCardID() CardID {
	return CardID(uuid.NewString())
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// GetConfig returns the configuration the game was created from
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// Winner returns the winning player once the game is over
func (e *GameEngine) Winner() *Player {
	if e.state.Winner == nil {
		return nil
	}
	return e.state.Players[*e.state.Winner]
}

// CurrentPlayer returns the player expected to act next
func (e *GameEngine) CurrentPlayer() *Player {
	return e.state.Players[e.state.CurrentPlayer]
}

// Log returns the game log
func (e *GameEngine) Log() []LogEntry {
	return e.state.Log
}

// ValidRestaurantPositions returns every legal restaurant footprint
func (e *GameEngine) ValidRestaurantPositions() []board.RestaurantPosition {
	return e.state.Map.ValidRestaurantPositions()
}

// DrinkSources lists drink sources reachable from a cell
func (e *GameEngine) DrinkSources(row, col, maxRange int, route rules.RouteType) []board.DrinkSource {
	return e.state.Map.FindDrinkSources(board.Position{Row: row, Col: col}, maxRange, route)
}

// HousesInRange lists houses reachable from a cell over roads
func (e *GameEngine) HousesInRange(row, col, maxRange int) []board.HouseDistance {
	return e.state.Map.FindHousesInRange(board.Position{Row: row, Col: col}, maxRange)
}

func (e *GameEngine) log(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.state.Log = append(e.state.Log, LogEntry{
		Round:     e.state.Round,
		Phase:     e.state.Phase,
		Message:   msg,
		Timestamp: time.Now().UnixMilli(),
	})
	e.logger.Debug(msg, "round", e.state.Round, "phase", e.state.Phase)
}

func (e *GameEngine) enterPhase(next rules.Phase) {
	if !e.state.Phase.CanTransitionTo(next) {
		e.logger.Warn("unexpected phase transition", "from", e.state.Phase, "to", next)
	}
	e.state.Phase = next
}

// player returns the player with index id, or nil.
func (e *GameEngine) player(id int) *Player {
	if id < 0 || id >= len(e.state.Players) {
		return nil
	}
	return e.state.Players[id]
}

// isTurn reports whether id may act in the given phase.
func (e *GameEngine) isTurn(id int, phase rules.Phase) bool {
	return !e.state.GameOver && e.state.Phase == phase && e.state.CurrentPlayer == id
}

// Card returns the owned card with the given id, or nil.
func (p *Player) Card(id CardID) *Card {
	for _, c := range p.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// HasMilestone reports whether the player holds the milestone.
func (p *Player) HasMilestone(id rules.MilestoneID) bool {
	for _, m := range p.Milestones {
		if m == id {
			return true
		}
	}
	return false
}

// IsBusy reports whether the card is running a campaign.
func (p *Player) IsBusy(id CardID) bool {
	return containsCard(p.BusyMarketeers, id)
}

// OnBeach reports whether the card is on the beach.
func (p *Player) OnBeach(id CardID) bool {
	return containsCard(p.Beach, id)
}

// StructureCards returns the cards currently working in the structure, CEO
// excluded.
func (p *Player) StructureCards() []*Card {
	var cards []*Card
	for _, id := range p.Structure.Cards() {
		if c := p.Card(id); c != nil {
			cards = append(cards, c)
		}
	}
	return cards
}

// countInStructure counts structure cards of type t.
func (p *Player) countInStructure(t rules.EmployeeID) int {
	n := 0
	for _, c := range p.StructureCards() {
		if c.Type == t {
			n++
		}
	}
	return n
}

func (p *Player) hasInStructure(types ...rules.EmployeeID) bool {
	for _, t := range types {
		if p.countInStructure(t) > 0 {
			return true
		}
	}
	return false
}

// removeCard drops a card from the player's cards, beach, structure and
// busy list.
func (p *Player) removeCard(id CardID) {
	kept := p.Cards[:0]
	for _, c := range p.Cards {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	p.Cards = kept
	p.Beach = withoutCard(p.Beach, id)
	p.BusyMarketeers = withoutCard(p.BusyMarketeers, id)
	p.Structure.CEO = withoutCard(p.Structure.CEO, id)
	delete(p.Structure.Managers, id)
	for mgr, subs := range p.Structure.Managers {
		p.Structure.Managers[mgr] = withoutCard(subs, id)
	}
}

// nonCEOCards returns the ids of every owned card except the CEO.
func (p *Player) nonCEOCards() []CardID {
	ids := make([]CardID, 0, len(p.Cards))
	for _, c := range p.Cards {
		if c.ID != p.CEOCard {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func containsCard(ids []CardID, id CardID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func withoutCard(ids []CardID, id CardID) []CardID {
	out := make([]CardID, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
