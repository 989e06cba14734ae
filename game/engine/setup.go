package engine

import (
	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// PlaceRestaurant places a restaurant for player with its origin at row, col
// and the entrance at the given footprint corner. During setup the entrance
// tile must not already hold another restaurant's entrance. During Working it
// answers a pending place_restaurant action.
func (e *GameEngine) PlaceRestaurant(player, row, col int, corner board.Corner) bool {
	switch e.state.Phase {
	case rules.PhaseSetupPlaceRestaurant:
		return e.placeSetupRestaurant(player, row, col, corner)
	case rules.PhaseWorking:
		return e.placeWorkingRestaurant(player, row, col, corner)
	}
	return false
}

func (e *GameEngine) placeSetupRestaurant(player, row, col int, corner board.Corner) bool {
	if !e.isTurn(player, rules.PhaseSetupPlaceRestaurant) || e.state.SetupPlaced[player] {
		return false
	}
	entrance, ok := e.entranceAt(row, col, corner)
	if !ok {
		return false
	}

	tile := board.TileOf(entrance.Row, entrance.Col)
	for _, rest := range e.state.Map.Restaurants {
		if board.TileOf(rest.Entrance.Row, rest.Entrance.Col) == tile {
			return false
		}
	}

	e.addRestaurant(player, row, col, entrance, true)
	e.state.SetupPlaced[player] = true
	e.advanceSetup()
	return true
}

// PassRestaurant lets the current setup player decline to place a restaurant.
func (e *GameEngine) PassRestaurant(player int) bool {
	if !e.isTurn(player, rules.PhaseSetupPlaceRestaurant) || e.state.SetupPlaced[player] {
		return false
	}
	e.state.SetupPlaced[player] = true
	e.state.SetupPassed[player] = true
	e.log("%s passed on placing a restaurant", e.state.Players[player].Name)
	e.advanceSetup()
	return true
}

func (e *GameEngine) entranceAt(row, col int, corner board.Corner) (board.Entrance, bool) {
	if !corner.Valid() {
		return board.Entrance{}, false
	}
	pos, ok := e.state.Map.RestaurantPositionAt(row, col)
	if !ok {
		return board.Entrance{}, false
	}
	return pos.Entrance(corner)
}

func (e *GameEngine) addRestaurant(player, row, col int, entrance board.Entrance, open bool) *board.Restaurant {
	p := e.state.Players[player]
	rest := &board.Restaurant{
		Owner:      player,
		Row:        row,
		Col:        col,
		Entrance:   board.Position{Row: entrance.Row, Col: entrance.Col},
		RoadAccess: entrance.Road(),
		Open:       open,
	}
	e.state.Map.AddRestaurant(rest)
	p.Restaurants = append(p.Restaurants, rest)
	e.log("%s placed a restaurant at (%d,%d)", p.Name, row, col)
	return rest
}

// advanceSetup hands the placement turn to the previous player who has not
// placed yet, wrapping around, or leaves setup placement once everyone has.
func (e *GameEngine) advanceSetup() {
	n := e.state.PlayerCount
	if len(e.state.SetupPlaced) >= n {
		if e.state.Intro {
			e.startRound()
			return
		}
		e.enterPhase(rules.PhaseSetupReserveCard)
		e.state.CurrentPlayer = 0
		e.log("All restaurants placed. Choose reserve cards.")
		return
	}

	next := e.state.CurrentPlayer
	for {
		next = (next - 1 + n) % n
		if !e.state.SetupPlaced[next] {
			break
		}
	}
	e.state.CurrentPlayer = next
}

// SelectReserveCard records the reserve card of the current player. Amounts
// are 100, 200 or 300.
func (e *GameEngine) SelectReserveCard(player, amount int) bool {
	if !e.isTurn(player, rules.PhaseSetupReserveCard) {
		return false
	}
	slots, ok := rules.ReserveSlots[amount]
	if !ok {
		return false
	}
	p := e.state.Players[player]
	if p.ReserveCard != nil {
		return false
	}
	p.ReserveCard = &ReserveCard{Amount: amount, Slots: slots}
	e.log("%s selected a reserve card.", p.Name)

	for i, other := range e.state.Players {
		if other.ReserveCard == nil {
			e.state.CurrentPlayer = i
			return true
		}
	}
	e.startRound()
	return true
}

// startRound begins a new round at Restructuring.
func (e *GameEngine) startRound() {
	e.state.Round++
	e.enterPhase(rules.PhaseRestructuring)
	e.state.Submitted = map[int]bool{}
	e.state.CurrentPlayer = e.state.TurnOrder[0]
	for _, p := range e.state.Players {
		p.RecruitedThisTurn = 0
		p.UnusedRecruitActions = 0
		p.EarningsThisTurn = 0
	}
	e.log("Round %d begins. Phase 1: Restructuring", e.state.Round)
}
