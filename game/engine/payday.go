package engine

import (
	"sort"

	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

func (e *GameEngine) startPayday() {
	e.enterPhase(rules.PhasePayday)
	e.log("Phase 5: Payday")
	for _, p := range e.state.Players {
		e.processPayday(p)
	}
	e.startMarketing()
}

// salaryDue is the player's salary bill after recruiting and training
// discounts, never negative.
func salaryDue(p *Player) int {
	total := 0
	for _, c := range p.Cards {
		total += rules.Employees[c.Type].Salary
	}
	total -= p.UnusedRecruitActions * rules.UnusedRecruitDiscount
	if p.HasMilestone(rules.FirstTrain) {
		total -= rules.FirstTrainDiscount
	}
	return max(total, 0)
}

// processPayday pays the player's salaries. A player who cannot pay fires
// salaried beach cards, most expensive first, until the bill is affordable.
func (e *GameEngine) processPayday(p *Player) {
	total := salaryDue(p)
	if total == 0 {
		return
	}
	if p.Cash >= total {
		e.paySalaries(p, total)
		return
	}

	e.log("%s can't afford $%d salary!", p.Name, total)
	var fireable []*Card
	for _, id := range p.Beach {
		c := p.Card(id)
		if c != nil && rules.Employees[c.Type].Salary > 0 && !p.IsBusy(id) {
			fireable = append(fireable, c)
		}
	}
	sort.SliceStable(fireable, func(i, j int) bool {
		return rules.Employees[fireable[i].Type].Salary > rules.Employees[fireable[j].Type].Salary
	})

	for len(fireable) > 0 && p.Cash < total {
		fired := fireable[0]
		fireable = fireable[1:]
		emp := rules.Employees[fired.Type]
		total = max(total-emp.Salary, 0)
		e.fireEmployee(p, fired.ID)
		e.log("%s: %s quit (can't pay salary)", p.Name, emp.Name)
	}

	if total > 0 && p.Cash >= total {
		e.paySalaries(p, total)
	}
}

func (e *GameEngine) paySalaries(p *Player, total int) {
	p.Cash -= total
	e.state.Bank += total
	e.log("%s paid $%d in salaries", p.Name, total)
	if total >= rules.BigSalary {
		e.checkMilestone(rules.TriggerPay20Salary, p.ID)
	}
}

// fireEmployee returns a card's type to the supply and removes the card.
func (e *GameEngine) fireEmployee(p *Player, id CardID) {
	card := p.Card(id)
	if card == nil {
		return
	}
	e.state.EmployeeSupply[card.Type]++
	p.removeCard(id)
}
