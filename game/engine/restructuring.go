package engine

import (
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// SubmitStructure sets the player's org chart for the round. Cards that are
// unknown, duplicated or the CEO itself reject the submission, as does a
// manager with more reports than its slots. A chart with more CEO reports
// than the CEO slot count is accepted as an overflow: every card goes to the
// beach. Cards not placed in the chart go to the beach.
func (e *GameEngine) SubmitStructure(player int, s Structure) bool {
	if e.state.GameOver || e.state.Phase != rules.PhaseRestructuring {
		return false
	}
	p := e.player(player)
	if p == nil || e.state.Submitted[player] {
		return false
	}
	if !e.validStructure(p, s) {
		return false
	}

	if e.overflows(s) {
		p.Structure = Structure{CEO: []CardID{}, Managers: map[CardID][]CardID{}}
		p.Beach = p.nonCEOCards()
		e.log("%s structure overflow! All employees sent to the beach.", p.Name)
	} else {
		placed := map[CardID]bool{}
		for _, id := range s.Cards() {
			placed[id] = true
		}
		p.Structure = Structure{CEO: append([]CardID{}, s.CEO...), Managers: map[CardID][]CardID{}}
		for mgr, subs := range s.Managers {
			if len(subs) > 0 {
				p.Structure.Managers[mgr] = append([]CardID{}, subs...)
			}
		}
		p.Beach = []CardID{}
		for _, id := range p.nonCEOCards() {
			if !placed[id] {
				p.Beach = append(p.Beach, id)
			}
		}
		e.log("%s set up their structure with %d employees.", p.Name, len(placed))
	}

	e.state.Submitted[player] = true
	if len(e.state.Submitted) >= e.state.PlayerCount {
		e.finishRestructuring()
	}
	return true
}

func (e *GameEngine) validStructure(p *Player, s Structure) bool {
	seen := map[CardID]bool{}
	for _, id := range s.CEO {
		if id == p.CEOCard || p.Card(id) == nil || seen[id] {
			return false
		}
		seen[id] = true
	}
	for mgr, subs := range s.Managers {
		if len(subs) == 0 {
			continue
		}
		card := p.Card(mgr)
		if card == nil || !containsCard(s.CEO, mgr) || !rules.Employees[card.Type].IsManager {
			return false
		}
		if len(subs) > rules.Employees[card.Type].Slots {
			return false
		}
		for _, id := range subs {
			if id == p.CEOCard || p.Card(id) == nil || seen[id] {
				return false
			}
			seen[id] = true
		}
	}
	return true
}

func (e *GameEngine) overflows(s Structure) bool {
	return len(s.CEO) > e.state.CEOSlots
}

// FinishRestructuring ends Restructuring. Players who have not submitted a
// structure send every card to the beach.
func (e *GameEngine) FinishRestructuring() bool {
	if e.state.GameOver || e.state.Phase != rules.PhaseRestructuring {
		return false
	}
	e.finishRestructuring()
	return true
}

func (e *GameEngine) finishRestructuring() {
	for _, p := range e.state.Players {
		if e.state.Submitted[p.ID] {
			continue
		}
		p.Structure = Structure{CEO: []CardID{}, Managers: map[CardID][]CardID{}}
		p.Beach = p.nonCEOCards()
	}

	for _, p := range e.state.Players {
		if p.hasInStructure(rules.Waitress) {
			e.checkMilestone(rules.TriggerPlayWaitress, p.ID)
		}
		if p.hasInStructure(rules.ErrandBoy) {
			e.checkMilestone(rules.TriggerPlayErrandBoy, p.ID)
		}
		if p.hasInStructure(rules.CartOperator) {
			e.checkMilestone(rules.TriggerPlayCartOperator, p.ID)
		}
		if p.hasInStructure(rules.PricingManager, rules.DiscountManager) {
			e.checkMilestone(rules.TriggerPlayPricing, p.ID)
		}
	}

	e.determineOrderOfBusiness()
}

// openSlots counts the unused CEO and manager slots of a player.
func (e *GameEngine) openSlots(p *Player) int {
	slots := e.state.CEOSlots - len(p.Structure.CEO)
	for _, id := range p.Structure.CEO {
		card := p.Card(id)
		if card == nil {
			continue
		}
		if emp := rules.Employees[card.Type]; emp.IsManager {
			slots += emp.Slots - len(p.Structure.Managers[id])
		}
	}
	if p.HasMilestone(rules.FirstBillboard) {
		slots += rules.FirstBillboardSlots
	}
	return slots
}

func (e *GameEngine) determineOrderOfBusiness() {
	e.enterPhase(rules.PhaseOrderOfBusiness)

	previous := make(map[int]int, len(e.state.TurnOrder))
	for i, id := range e.state.TurnOrder {
		previous[id] = i
	}
	slots := make(map[int]int, len(e.state.Players))
	for _, p := range e.state.Players {
		slots[p.ID] = e.openSlots(p)
	}

	order := append([]int{}, e.state.TurnOrder...)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if slots[a] != slots[b] {
			return slots[a] > slots[b]
		}
		return previous[a] < previous[b]
	})
	e.state.TurnOrder = order
	e.log("Phase 2: Order of Business. Turn order: %s", e.turnOrderNames())

	e.enterPhase(rules.PhaseWorking)
	e.state.TurnOrderIndex = 0
	e.state.CurrentPlayer = order[0]
	e.log("Phase 3: Working 9-5")
	e.prepareWorkingPhase()
}

func (e *GameEngine) turnOrderNames() string {
	names := make([]string, 0, len(e.state.TurnOrder))
	for _, id := range e.state.TurnOrder {
		names = append(names, e.state.Players[id].Name)
	}
	return strings.Join(names, " > ")
}
