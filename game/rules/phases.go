package rules

// Phase is a step of the round state machine.
type Phase string

const (
	PhaseSetupPlaceRestaurant Phase = "setup_place_restaurant"
	PhaseSetupReserveCard     Phase = "setup_reserve_card"
	PhaseRestructuring        Phase = "restructuring"
	PhaseOrderOfBusiness      Phase = "order_of_business"
	PhaseWorking              Phase = "working"
	PhaseDinnertime           Phase = "dinnertime"
	PhasePayday               Phase = "payday"
	PhaseMarketingCampaigns   Phase = "marketing_campaigns"
	PhaseCleanup              Phase = "cleanup"
	PhaseGameOver             Phase = "game_over"
)

type phaseInfo struct {
	name        string
	description string
	next        []Phase
}

var phases = map[Phase]phaseInfo{
	PhaseSetupPlaceRestaurant: {
		"Setup: Place Restaurant",
		"Place your first restaurant on the board.",
		[]Phase{PhaseSetupReserveCard, PhaseRestructuring},
	},
	PhaseSetupReserveCard: {
		"Setup: Choose Reserve Card",
		"Pick a reserve card to set the game length and your CEO slots.",
		[]Phase{PhaseRestructuring},
	},
	PhaseRestructuring: {
		"Phase 1: Restructuring",
		"Assign employees to your org chart. Unplayed cards go to the beach.",
		[]Phase{PhaseOrderOfBusiness},
	},
	PhaseOrderOfBusiness: {
		"Phase 2: Order of Business",
		"Turn order is set by who kept the most open slots.",
		[]Phase{PhaseWorking},
	},
	PhaseWorking: {
		"Phase 3: Working 9-5",
		"Employees take actions: recruit, train, produce food, buy drinks, run campaigns.",
		[]Phase{PhaseDinnertime},
	},
	PhaseDinnertime: {
		"Phase 4: Dinnertime",
		"Houses are served in numerical order. Cheapest total price wins.",
		[]Phase{PhasePayday, PhaseGameOver},
	},
	PhasePayday: {
		"Phase 5: Payday",
		"Pay salaries to all your trained employees.",
		[]Phase{PhaseMarketingCampaigns},
	},
	PhaseMarketingCampaigns: {
		"Phase 6: Marketing Campaigns",
		"Active campaigns place demand tokens on nearby houses.",
		[]Phase{PhaseCleanup},
	},
	PhaseCleanup: {
		"Phase 7: Cleanup",
		"Discard unsold food and reset the org chart.",
		[]Phase{PhaseRestructuring},
	},
	PhaseGameOver: {
		"Game Over",
		"The bank has run out. Final scores are tallied.",
		nil,
	},
}

// Name returns the display name of the phase.
func (p Phase) Name() string {
	if info, ok := phases[p]; ok {
		return info.name
	}
	return string(p)
}

// Description returns a one-line explanation of the phase.
func (p Phase) Description() string {
	return phases[p].description
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	_, ok := phases[p]
	return ok
}

// CanTransitionTo reports whether the state machine may move from p to target.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range phases[p].next {
		if next == target {
			return true
		}
	}
	return false
}
