package engine

import (
	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// pendingAction returns the current player's pending action when it has the
// given type and belongs to player.
func (e *GameEngine) pendingAction(player int, t rules.ActionType) (*WorkAction, bool) {
	action := e.CurrentWorkAction()
	if action == nil || action.Type != t || !e.isTurn(player, rules.PhaseWorking) {
		return nil, false
	}
	return action, true
}

func (e *GameEngine) placeWorkingRestaurant(player, row, col int, corner board.Corner) bool {
	action, ok := e.pendingAction(player, rules.ActionPlaceRestaurant)
	if !ok {
		return false
	}
	p := e.state.Players[player]
	if len(p.Restaurants) >= rules.MaxRestaurants {
		return false
	}
	entrance, ok := e.entranceAt(row, col, corner)
	if !ok {
		return false
	}

	open := rules.Employees[action.Employee].ImmediateOpen
	rest := e.addRestaurant(player, row, col, entrance, open)
	if !rest.Open {
		e.log("Restaurant at (%d,%d) is coming soon", row, col)
	}
	e.advanceWork()
	return true
}

// campaignOrigins returns the road-access cells of the player's open restaurants.
func campaignOrigins(p *Player) []board.Position {
	var origins []board.Position
	for _, rest := range p.Restaurants {
		if rest.Open {
			origins = append(origins, rest.RoadAccess)
		}
	}
	return origins
}

// PlaceCampaign places a campaign for the pending campaign action. The cell
// must be free and next to a road within the marketeer's range of one of the
// player's open restaurants.
func (e *GameEngine) PlaceCampaign(player int, placement CampaignPlacement) bool {
	action, ok := e.pendingAction(player, rules.ActionCampaign)
	if !ok {
		return false
	}
	emp := rules.Employees[action.Employee]
	if !emp.CanRun(placement.Type) || !placement.Product.Valid() {
		return false
	}
	direction := placement.Direction
	if direction == "" {
		direction = board.DirectionRow
	}
	if direction != board.DirectionRow && direction != board.DirectionCol || placement.Size < 0 {
		return false
	}

	p := e.state.Players[player]
	pos := board.Position{Row: placement.Row, Col: placement.Col}
	if !e.state.Map.CampaignSiteValid(pos, campaignOrigins(p), emp.Range) {
		return false
	}

	size := placement.Size
	if size == 0 {
		size = 1
	}
	e.launchCampaign(p, action, placement.Type, placement.Product, pos, direction, size)
	return true
}

// AutoPlaceCampaign places a campaign of the given kind on the best site the
// marketeer can reach. Without any site the action is skipped.
func (e *GameEngine) AutoPlaceCampaign(player int, kind rules.CampaignType, product rules.Product) bool {
	action, ok := e.pendingAction(player, rules.ActionCampaign)
	if !ok {
		return false
	}
	emp := rules.Employees[action.Employee]
	if !emp.CanRun(kind) || !product.Valid() {
		return false
	}

	p := e.state.Players[player]
	pos, found := e.state.Map.BestCampaignSite(campaignOrigins(p), emp.Range, kind)
	if !found {
		e.log("%s: Could not find valid campaign placement", p.Name)
		e.advanceWork()
		return true
	}
	e.launchCampaign(p, action, kind, product, pos, board.DirectionRow, 1)
	return true
}

func (e *GameEngine) launchCampaign(p *Player, action *WorkAction, kind rules.CampaignType, product rules.Product, pos board.Position, dir board.Direction, size int) {
	e.state.CampaignCounter++
	campaign := &board.Campaign{
		ID:          e.state.CampaignCounter,
		Type:        kind,
		Product:     product,
		Duration:    rules.Employees[action.Employee].MaxDuration,
		Row:         pos.Row,
		Col:         pos.Col,
		Owner:       p.ID,
		MarketeerID: string(action.CardID),
		Direction:   dir,
		Size:        size,
	}
	e.state.Map.Campaigns = append(e.state.Map.Campaigns, campaign)
	p.BusyMarketeers = append(p.BusyMarketeers, action.CardID)
	e.log("%s: Placed %s (%s) at (%d,%d)", p.Name, kind, product, pos.Row, pos.Col)

	e.checkMilestone(rules.PlaceTrigger(kind), p.ID)
	e.checkMilestone(rules.MarketTrigger(product), p.ID)
	e.advanceWork()
}

// AutoPlaceHouse builds a new house with a garden on the first free cell next
// to a road, for the pending place_house action. Without a site the action
// is skipped.
func (e *GameEngine) AutoPlaceHouse(player int) bool {
	if _, ok := e.pendingAction(player, rules.ActionPlaceHouse); !ok {
		return false
	}
	p := e.state.Players[player]
	pos, found := e.state.Map.HouseSite()
	if !found {
		e.log("No valid location for house.")
		e.advanceWork()
		return true
	}
	h := e.state.Map.AddHouse(pos, true)
	e.log("%s: Placed house #%d at (%d,%d) with garden", p.Name, h.Number, pos.Row, pos.Col)
	e.advanceWork()
	return true
}

// AutoPlaceGarden adds a garden to the first house that has room for one,
// for the pending place_house action. Without a candidate the action is
// skipped.
func (e *GameEngine) AutoPlaceGarden(player int) bool {
	if _, ok := e.pendingAction(player, rules.ActionPlaceHouse); !ok {
		return false
	}
	p := e.state.Players[player]
	h := e.state.Map.GardenCandidate()
	if h == nil {
		e.log("No house can take a garden.")
		e.advanceWork()
		return true
	}
	h.Garden = true
	e.log("%s: Added garden to house #%d", p.Name, h.Number)
	e.advanceWork()
	return true
}
