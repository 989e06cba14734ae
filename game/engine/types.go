package engine

import (
	"maps"
	"slices"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// CardID identifies an owned employee card instance.
type CardID string

// Card is an employee card owned by a player. Training changes Type in place.
type Card struct {
	ID   CardID           `json:"id"`
	Type rules.EmployeeID `json:"type"`
}

// Structure is a player's org chart for the round: the CEO's direct reports
// and, for manager cards among them, the manager's own reports. The same
// shape is used to submit a structure during Restructuring.
type Structure struct {
	CEO      []CardID            `json:"ceo" yaml:"ceo"`
	Managers map[CardID][]CardID `json:"managers,omitempty" yaml:"managers,omitempty"`
}

// Cards returns every card referenced by the structure, CEO reports first.
func (s Structure) Cards() []CardID {
	var ids []CardID
	for _, id := range s.CEO {
		ids = append(ids, id)
		ids = append(ids, s.Managers[id]...)
	}
	return ids
}

// ReserveCard is the secret game-length card chosen during setup.
type ReserveCard struct {
	Amount int `json:"amount"`
	Slots  int `json:"slots"`
}

// Player is one restaurant chain.
type Player struct {
	ID                   int                   `json:"id"`
	Name                 string                `json:"name"`
	Cash                 int                   `json:"cash"`
	CEOCard              CardID                `json:"ceo_card"`
	Cards                []*Card               `json:"cards"`
	Structure            Structure             `json:"structure"`
	Beach                []CardID              `json:"beach"`
	Restaurants          []*board.Restaurant   `json:"restaurants"`
	ReserveCard          *ReserveCard          `json:"reserve_card,omitempty"`
	Food                 map[rules.Product]int `json:"food"`
	Drinks               map[rules.Product]int `json:"drinks"`
	Freezer              map[rules.Product]int `json:"freezer"`
	Milestones           []rules.MilestoneID   `json:"milestones"`
	BusyMarketeers       []CardID              `json:"busy_marketeers"`
	RecruitedThisTurn    int                   `json:"recruited_this_turn"`
	UnusedRecruitActions int                   `json:"unused_recruit_actions"`
	EarningsThisTurn     int                   `json:"earnings_this_turn"`
}

// MilestoneState is a milestone together with its claim status.
type MilestoneState struct {
	rules.Milestone
	Owner     *int `json:"owner"`
	Available bool `json:"available"`
}

// LogEntry is one line of the game log.
type LogEntry struct {
	Round     int         `json:"round"`
	Phase     rules.Phase `json:"phase"`
	Message   string      `json:"message"`
	Timestamp int64       `json:"timestamp"`
}

// WorkAction is one pending step of the current player's Working queue.
type WorkAction struct {
	Type     rules.ActionType `json:"type"`
	CardID   CardID           `json:"card_id,omitempty"`
	Employee rules.EmployeeID `json:"employee,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	ConfigName      string                   `json:"config_name"`
	PlayerCount     int                      `json:"player_count"`
	Intro           bool                     `json:"intro"`
	Round           int                      `json:"round"`
	Phase           rules.Phase              `json:"phase"`
	CurrentPlayer   int                      `json:"current_player"`
	TurnOrder       []int                    `json:"turn_order"`
	TurnOrderIndex  int                      `json:"turn_order_index"`
	Bank            int                      `json:"bank"`
	BankBroken      int                      `json:"bank_broken"`
	ReserveOpened   bool                     `json:"reserve_opened"`
	CEOSlots        int                      `json:"ceo_slots"`
	CampaignCounter int                      `json:"campaign_counter"`
	Map             *board.Map               `json:"map"`
	EmployeeSupply  map[rules.EmployeeID]int `json:"employee_supply"`
	Milestones      []*MilestoneState        `json:"milestones"`
	Players         []*Player                `json:"players"`
	Log             []LogEntry               `json:"log"`
	Message         string                   `json:"message"`

	WorkingActions []WorkAction `json:"working_actions"`
	WorkingStep    int          `json:"working_step"`

	SetupPlaced map[int]bool `json:"setup_placed"`
	SetupPassed map[int]bool `json:"setup_passed"`
	Submitted   map[int]bool `json:"submitted"`

	GameOver bool `json:"game_over"`
	Winner   *int `json:"winner,omitempty"`
}

// Clone returns a deep copy of the state that shares nothing with s.
// Player restaurants point into the copied map, as they do in s.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.TurnOrder = slices.Clone(s.TurnOrder)
	c.Map = s.Map.Clone()
	c.EmployeeSupply = maps.Clone(s.EmployeeSupply)
	c.Log = slices.Clone(s.Log)
	c.WorkingActions = slices.Clone(s.WorkingActions)
	c.SetupPlaced = maps.Clone(s.SetupPlaced)
	c.SetupPassed = maps.Clone(s.SetupPassed)
	c.Submitted = maps.Clone(s.Submitted)
	c.Winner = cloneInt(s.Winner)

	c.Milestones = make([]*MilestoneState, len(s.Milestones))
	for i, m := range s.Milestones {
		ms := *m
		ms.Owner = cloneInt(m.Owner)
		c.Milestones[i] = &ms
	}

	restaurants := map[*board.Restaurant]*board.Restaurant{}
	if s.Map != nil {
		for i, r := range s.Map.Restaurants {
			restaurants[r] = c.Map.Restaurants[i]
		}
	}
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone(restaurants)
	}
	return &c
}

func (p *Player) clone(restaurants map[*board.Restaurant]*board.Restaurant) *Player {
	c := *p
	c.Cards = make([]*Card, len(p.Cards))
	for i, card := range p.Cards {
		cc := *card
		c.Cards[i] = &cc
	}
	c.Structure = Structure{CEO: slices.Clone(p.Structure.CEO)}
	if p.Structure.Managers != nil {
		c.Structure.Managers = make(map[CardID][]CardID, len(p.Structure.Managers))
		for id, reports := range p.Structure.Managers {
			c.Structure.Managers[id] = slices.Clone(reports)
		}
	}
	c.Beach = slices.Clone(p.Beach)
	c.Restaurants = make([]*board.Restaurant, len(p.Restaurants))
	for i, r := range p.Restaurants {
		if copied, ok := restaurants[r]; ok {
			c.Restaurants[i] = copied
		} else {
			rest := *r
			c.Restaurants[i] = &rest
		}
	}
	if p.ReserveCard != nil {
		rc := *p.ReserveCard
		c.ReserveCard = &rc
	}
	c.Food = maps.Clone(p.Food)
	c.Drinks = maps.Clone(p.Drinks)
	c.Freezer = maps.Clone(p.Freezer)
	c.Milestones = slices.Clone(p.Milestones)
	c.BusyMarketeers = slices.Clone(p.BusyMarketeers)
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// GameConfig represents a game preset loaded from JSON or YAML
type GameConfig struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Players     int      `json:"players" yaml:"players"`
	Intro       bool     `json:"intro" yaml:"intro"`
	Seed        int64    `json:"seed,omitempty" yaml:"seed,omitempty"`
	Layout      []string `json:"layout,omitempty" yaml:"layout,omitempty"`
	Messages    struct {
		Welcome string `json:"welcome" yaml:"welcome"`
	} `json:"messages" yaml:"messages"`
}

// WorkInput is the caller's answer to the pending work action. Exactly one
// of the concrete types below is valid for each action type.
type WorkInput interface {
	workInput()
}

// Hire recruits one entry-level employee.
type Hire struct {
	Employee rules.EmployeeID `json:"employee"`
}

// Skip declines or finishes the pending action.
type Skip struct{}

// ProduceFood picks the product of a choice kitchen card.
type ProduceFood struct {
	Food rules.Product `json:"food"`
}

// BuyDrink picks the drink of an any-drink buyer.
type BuyDrink struct {
	Drink rules.Product `json:"drink"`
}

// Train promotes a beach card to a reachable type.
type Train struct {
	Card CardID           `json:"card"`
	To   rules.EmployeeID `json:"to"`
}

// Placed reports that the caller finished a board placement for the action.
type Placed struct{}

func (Hire) workInput()        {}
func (Skip) workInput()        {}
func (ProduceFood) workInput() {}
func (BuyDrink) workInput()    {}
func (Train) workInput()       {}
func (Placed) workInput()      {}

// CampaignPlacement describes a campaign to place for the pending campaign action.
type CampaignPlacement struct {
	Type      rules.CampaignType `json:"type"`
	Product   rules.Product      `json:"product"`
	Row       int                `json:"row"`
	Col       int                `json:"col"`
	Direction board.Direction    `json:"direction,omitempty"`
	Size      int                `json:"size,omitempty"`
}
