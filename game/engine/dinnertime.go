package engine

import (
	"sort"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// bid is a player's offer for one house.
type bid struct {
	player     *Player
	unitPrice  int
	distance   int
	waitresses int
	turnPos    int
}

func (b bid) total() int {
	return b.unitPrice + b.distance
}

func (e *GameEngine) startDinnertime() {
	e.enterPhase(rules.PhaseDinnertime)
	e.log("Phase 4: Dinnertime!")

	houses := append([]*board.House{}, e.state.Map.Houses...)
	sort.Slice(houses, func(i, j int) bool { return houses[i].Number < houses[j].Number })

	for _, h := range houses {
		if len(h.Demand) == 0 {
			continue
		}
		var bids []bid
		for _, p := range e.state.Players {
			if b, ok := e.bidFor(p, h); ok {
				bids = append(bids, b)
			}
		}
		if len(bids) == 0 {
			continue
		}
		sort.SliceStable(bids, func(i, j int) bool {
			a, b := bids[i], bids[j]
			if a.total() != b.total() {
				return a.total() < b.total()
			}
			if a.waitresses != b.waitresses {
				return a.waitresses > b.waitresses
			}
			return a.turnPos < b.turnPos
		})
		e.sellToHouse(bids[0].player, h, bids[0].unitPrice)
	}

	for _, p := range e.state.Players {
		if waitresses := p.countInStructure(rules.Waitress); waitresses > 0 {
			tip := rules.WaitressTip
			if p.HasMilestone(rules.FirstWaitress) {
				tip = rules.FirstWaitressTip
			}
			p.EarningsThisTurn += waitresses * tip
			e.log("%s: $%d in waitress tips", p.Name, waitresses*tip)
		}

		hasCFO := p.hasInStructure(rules.CFO) || p.HasMilestone(rules.First100Cash)
		if hasCFO && p.EarningsThisTurn > 0 {
			bonus := (p.EarningsThisTurn*rules.CFOBonusPercent + 99) / 100
			p.EarningsThisTurn += bonus
			e.log("%s: CFO bonus +$%d", p.Name, bonus)
		}

		if p.EarningsThisTurn > 0 {
			e.payFromBank(p, p.EarningsThisTurn)
		}
	}

	for _, p := range e.state.Players {
		if p.Cash >= rules.SmallCashMilestone {
			e.checkMilestone(rules.TriggerHave20, p.ID)
		}
		if p.Cash >= rules.LargeCashMilestone {
			e.checkMilestone(rules.TriggerHave100, p.ID)
		}
	}

	if e.state.Bank <= 0 && !e.state.GameOver && e.state.BankBroken < 2 {
		e.handleBankBreak()
	}
	if e.state.GameOver {
		e.endGame()
		return
	}
	e.startPayday()
}

// bidFor returns the player's offer for a house, if the player can serve
// the whole demand from a reachable open restaurant.
func (e *GameEngine) bidFor(p *Player, h *board.House) (bid, bool) {
	distance, ok := e.minDistance(p, h)
	if !ok {
		return bid{}, false
	}
	needed := map[rules.Product]int{}
	for _, d := range h.Demand {
		needed[d]++
	}
	for product, amount := range needed {
		stock := p.Drinks[product]
		if product.IsFood() {
			stock = p.Food[product]
		}
		if stock < amount {
			return bid{}, false
		}
	}

	turnPos := 0
	for i, id := range e.state.TurnOrder {
		if id == p.ID {
			turnPos = i
		}
	}
	return bid{
		player:     p,
		unitPrice:  e.unitPrice(p),
		distance:   distance,
		waitresses: p.countInStructure(rules.Waitress),
		turnPos:    turnPos,
	}, true
}

// unitPrice is the base price adjusted by structure pricing cards and the
// lower-prices milestone, never below the minimum.
func (e *GameEngine) unitPrice(p *Player) int {
	price := rules.BasePrice
	for _, c := range p.StructureCards() {
		price += rules.Employees[c.Type].PriceModifier
	}
	if p.HasMilestone(rules.FirstLowerPrices) {
		price--
	}
	if price < rules.MinPrice {
		price = rules.MinPrice
	}
	return price
}

// minDistance is the shortest road distance from the house to any entrance
// of the player's open restaurants.
func (e *GameEngine) minDistance(p *Player, h *board.House) (int, bool) {
	best, found := 0, false
	for _, rest := range p.Restaurants {
		if !rest.Open {
			continue
		}
		for _, ent := range e.restaurantEntrances(p, rest) {
			d, ok := e.state.Map.RoadDistance(h.Position(), ent.Road())
			if ok && (!found || d < best) {
				best, found = d, true
			}
		}
	}
	return best, found
}

func (e *GameEngine) sellToHouse(p *Player, h *board.House, unitPrice int) {
	price := unitPrice
	if h.Garden {
		price *= 2
	}
	revenue := price * len(h.Demand)

	for _, d := range h.Demand {
		switch {
		case d == rules.Burger && p.HasMilestone(rules.FirstBurgerMarketed),
			d == rules.Pizza && p.HasMilestone(rules.FirstPizzaMarketed),
			d.IsDrink() && p.HasMilestone(rules.FirstDrinkMarketed):
			revenue += rules.MarketedItemBonus
		}
		if d.IsFood() {
			p.Food[d]--
		} else {
			p.Drinks[d]--
		}
	}

	p.EarningsThisTurn += revenue
	e.log("%s sold to house #%d: $%d (%d items @ $%d)", p.Name, h.Number, revenue, len(h.Demand), price)
	h.Demand = []rules.Product{}
}

func (e *GameEngine) endGame() {
	e.enterPhase(rules.PhaseGameOver)
	e.state.GameOver = true

	position := make(map[int]int, len(e.state.TurnOrder))
	for i, id := range e.state.TurnOrder {
		position[id] = i
	}
	var winner *Player
	for _, p := range e.state.Players {
		if winner == nil || p.Cash > winner.Cash ||
			p.Cash == winner.Cash && position[p.ID] < position[winner.ID] {
			winner = p
		}
	}
	id := winner.ID
	e.state.Winner = &id
	e.log("Game Over! %s wins with $%d!", winner.Name, winner.Cash)
}
