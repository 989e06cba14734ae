package engine

import (
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

func (e *GameEngine) startCleanup() {
	e.enterPhase(rules.PhaseCleanup)
	e.log("Phase 7: Cleanup")

	for _, p := range e.state.Players {
		hasFreezer := p.HasMilestone(rules.FirstThrowFood) || p.HasMilestone(rules.FirstThrowDrink)
		if total(p.Food) > 0 {
			e.checkMilestone(rules.TriggerThrowFood, p.ID)
		}
		if total(p.Drinks) > 0 {
			e.checkMilestone(rules.TriggerThrowDrink, p.ID)
		}

		p.Freezer = map[rules.Product]int{}
		if hasFreezer {
			stored := 0
			for _, product := range rules.Products {
				available := p.Drinks[product]
				if product.IsFood() {
					available = p.Food[product]
				}
				n := min(available, rules.FreezerCapacity-stored)
				if n > 0 {
					p.Freezer[product] = n
					stored += n
				}
			}
		}

		p.Food = map[rules.Product]int{}
		p.Drinks = map[rules.Product]int{}
		for product, n := range p.Freezer {
			if product.IsFood() {
				p.Food[product] = n
			} else {
				p.Drinks[product] = n
			}
		}

		p.Structure = Structure{CEO: []CardID{}, Managers: map[CardID][]CardID{}}
		p.Beach = p.nonCEOCards()

		for _, rest := range p.Restaurants {
			rest.Open = true
		}
	}

	e.startRound()
}

func total(counts map[rules.Product]int) int {
	n := 0
	for _, v := range counts {
		n += v
	}
	return n
}
