package engine

import (
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// checkMilestone awards the available milestone with the given trigger to
// player, applies its immediate grant and locks every other copy. Intro
// games have no milestones.
func (e *GameEngine) checkMilestone(trigger rules.Trigger, player int) {
	if e.state.Intro {
		return
	}
	var milestone *MilestoneState
	for _, m := range e.state.Milestones {
		if m.Trigger == trigger && m.Available && m.Owner == nil {
			milestone = m
			break
		}
	}
	if milestone == nil {
		return
	}

	p := e.state.Players[player]
	owner := player
	milestone.Owner = &owner
	p.Milestones = append(p.Milestones, milestone.ID)
	e.log("*** %s earned milestone: %s! ***", p.Name, milestone.Name)

	switch milestone.ID {
	case rules.FirstHire3:
		for i := 0; i < rules.FreeManagementTrainees; i++ {
			e.grantCard(p, rules.ManagementTrainee)
		}
	case rules.FirstBurgerProduced:
		e.grantCard(p, rules.BurgerCook)
	case rules.FirstPizzaProduced:
		e.grantCard(p, rules.PizzaCook)
	case rules.First100Cash:
		for _, c := range p.Cards {
			if c.Type == rules.CFO {
				e.fireEmployee(p, c.ID)
				e.log("%s must fire their CFO.", p.Name)
				break
			}
		}
	}

	for _, m := range e.state.Milestones {
		if m.Trigger == trigger && m.Owner == nil {
			m.Available = false
		}
	}
}

// grantCard puts a free card from the supply on the player's beach.
func (e *GameEngine) grantCard(p *Player, id rules.EmployeeID) {
	if e.state.EmployeeSupply[id] <= 0 {
		return
	}
	e.state.EmployeeSupply[id]--
	card := &Card{ID: newCardID(), Type: id}
	p.Cards = append(p.Cards, card)
	p.Beach = append(p.Beach, card.ID)
}
