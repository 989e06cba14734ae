package engine

import (
	"sort"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// fixedManagerActions are the manager actions that run every turn. Other
// managers only hold slots.
var fixedManagerActions = map[rules.ActionType]bool{
	rules.ActionPricing:         true,
	rules.ActionCFO:             true,
	rules.ActionPlaceHouse:      true,
	rules.ActionPlaceRestaurant: true,
}

// prepareWorkingPhase builds the action queue of the current player: the CEO
// recruit first, then every working structure card by action precedence.
func (e *GameEngine) prepareWorkingPhase() {
	p := e.CurrentPlayer()
	actions := []WorkAction{{Type: rules.ActionCEORecruit, CardID: p.CEOCard, Employee: rules.CEO}}

	var cards []WorkAction
	for _, c := range p.StructureCards() {
		emp := rules.Employees[c.Type]
		if emp.Action == rules.ActionNone || p.IsBusy(c.ID) {
			continue
		}
		if emp.IsManager && !fixedManagerActions[emp.Action] {
			continue
		}
		cards = append(cards, WorkAction{Type: emp.Action, CardID: c.ID, Employee: c.Type})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Type.Precedence() < cards[j].Type.Precedence()
	})

	e.state.WorkingActions = append(actions, cards...)
	e.state.WorkingStep = 0
	e.log("%s's turn to work (%d actions)", p.Name, len(e.state.WorkingActions))
	e.resolveAutomatic()
}

// CurrentWorkAction returns the pending work action, or nil outside Working.
func (e *GameEngine) CurrentWorkAction() *WorkAction {
	if e.state.GameOver || e.state.Phase != rules.PhaseWorking {
		return nil
	}
	if e.state.WorkingStep >= len(e.state.WorkingActions) {
		return nil
	}
	return &e.state.WorkingActions[e.state.WorkingStep]
}

// isAutomatic reports whether an action resolves without caller input.
func isAutomatic(a WorkAction) bool {
	emp := rules.Employees[a.Employee]
	switch a.Type {
	case rules.ActionPricing, rules.ActionCFO, rules.ActionWaitress:
		return true
	case rules.ActionProduce:
		return !emp.ProduceChoice
	case rules.ActionBuyDrink:
		return !emp.AnyDrink
	}
	return false
}

// resolveAutomatic runs every input-free action at the cursor and hands the
// turn on when the queue is exhausted.
func (e *GameEngine) resolveAutomatic() {
	for e.state.WorkingStep < len(e.state.WorkingActions) {
		action := e.state.WorkingActions[e.state.WorkingStep]
		if !isAutomatic(action) {
			return
		}
		p := e.CurrentPlayer()
		emp := rules.Employees[action.Employee]
		switch action.Type {
		case rules.ActionProduce:
			e.produceFixed(p, emp)
		case rules.ActionBuyDrink:
			e.autoBuyDrinks(p, emp)
		}
		e.state.WorkingStep++
	}
	e.finishPlayerWork()
}

// advanceWork moves the cursor past the pending action.
func (e *GameEngine) advanceWork() {
	e.state.WorkingStep++
	e.resolveAutomatic()
}

func (e *GameEngine) finishPlayerWork() {
	e.state.TurnOrderIndex++
	if e.state.TurnOrderIndex >= e.state.PlayerCount {
		e.startDinnertime()
		return
	}
	e.state.CurrentPlayer = e.state.TurnOrder[e.state.TurnOrderIndex]
	e.prepareWorkingPhase()
}

// ExecuteWork answers the pending work action of the current player.
// Invalid input leaves the state untouched and returns false.
func (e *GameEngine) ExecuteWork(player int, input WorkInput) bool {
	action := e.CurrentWorkAction()
	if action == nil || !e.isTurn(player, rules.PhaseWorking) || input == nil {
		return false
	}
	p := e.CurrentPlayer()
	emp := rules.Employees[action.Employee]

	switch action.Type {
	case rules.ActionCEORecruit:
		switch in := input.(type) {
		case Hire:
			if !e.hire(p, in.Employee) {
				return false
			}
		case Skip:
		default:
			return false
		}
		e.advanceWork()

	case rules.ActionRecruit:
		switch in := input.(type) {
		case Hire:
			return e.hire(p, in.Employee)
		case Skip:
			e.skipRecruit(p, emp)
			e.advanceWork()
		default:
			return false
		}

	case rules.ActionTrain:
		switch in := input.(type) {
		case Train:
			return e.train(p, in.Card, in.To)
		case Skip:
			e.advanceWork()
		default:
			return false
		}

	case rules.ActionProduce:
		switch in := input.(type) {
		case ProduceFood:
			if _, ok := emp.Produces[in.Food]; !ok || !in.Food.IsFood() {
				return false
			}
			p.Food[in.Food]++
			e.log("%s: %s produced 1 %s", p.Name, emp.Name, in.Food)
			e.checkMilestone(rules.ProduceTrigger(in.Food), p.ID)
		case Skip:
		default:
			return false
		}
		e.advanceWork()

	case rules.ActionBuyDrink:
		switch in := input.(type) {
		case BuyDrink:
			if !in.Drink.IsDrink() {
				return false
			}
			amount := emp.DrinksPerSymbol
			if p.HasMilestone(rules.FirstErrandBoy) {
				amount++
			}
			p.Drinks[in.Drink] += amount
			e.log("%s: %s bought %d %s", p.Name, emp.Name, amount, in.Drink)
		case Skip:
		default:
			return false
		}
		e.advanceWork()

	default:
		switch input.(type) {
		case Placed, Skip:
		default:
			return false
		}
		e.advanceWork()
	}
	return true
}

// SkipWork skips the pending work action of the current player.
func (e *GameEngine) SkipWork(player int) bool {
	return e.ExecuteWork(player, Skip{})
}

func (e *GameEngine) skipRecruit(p *Player, emp rules.Employee) {
	if emp.SalaryDiscount {
		p.UnusedRecruitActions++
	}
}

// hire moves one entry-level employee from the supply to a new card on the
// player's beach.
func (e *GameEngine) hire(p *Player, id rules.EmployeeID) bool {
	emp, ok := rules.Lookup(id)
	if !ok || !emp.EntryLevel || e.state.EmployeeSupply[id] <= 0 {
		return false
	}
	e.state.EmployeeSupply[id]--
	card := &Card{ID: newCardID(), Type: id}
	p.Cards = append(p.Cards, card)
	p.Beach = append(p.Beach, card.ID)
	p.RecruitedThisTurn++
	e.log("%s hired a %s", p.Name, emp.Name)

	if p.RecruitedThisTurn >= rules.HireMilestoneCount {
		e.checkMilestone(rules.TriggerHire3InTurn, p.ID)
	}
	return true
}

// train promotes a beach card along the training graph. Only the card's
// type changes; the supply is untouched.
func (e *GameEngine) train(p *Player, id CardID, to rules.EmployeeID) bool {
	card := p.Card(id)
	if card == nil || !p.OnBeach(id) || p.IsBusy(id) {
		return false
	}
	if !rules.CanTrain(card.Type, to) {
		return false
	}
	from := card.Type
	card.Type = to
	e.log("%s trained %s into %s", p.Name, rules.Employees[from].Name, rules.Employees[to].Name)
	e.checkMilestone(rules.TriggerTrainEmployee, p.ID)
	return true
}

func (e *GameEngine) produceFixed(p *Player, emp rules.Employee) {
	for _, product := range rules.Foods {
		amount := emp.Produces[product]
		if amount <= 0 {
			continue
		}
		p.Food[product] += amount
		e.log("%s: %s produced %d %s", p.Name, emp.Name, amount, product)
		e.checkMilestone(rules.ProduceTrigger(product), p.ID)
	}
}

// restaurantEntrances returns the entrances a restaurant serves from. Drive-in
// managers in the structure open every road-facing corner.
func (e *GameEngine) restaurantEntrances(p *Player, rest *board.Restaurant) []board.Entrance {
	if p.hasInStructure(rules.LocalManager, rules.RegionalManager) {
		return e.state.Map.DriveInEntrances(rest)
	}
	return []board.Entrance{rest.MainEntrance()}
}

// autoBuyDrinks takes the single best route among the entrances of the
// player's open restaurants.
func (e *GameEngine) autoBuyDrinks(p *Player, emp rules.Employee) {
	maxRange := emp.Range
	if p.HasMilestone(rules.FirstCartOperator) {
		maxRange++
	}
	perSymbol := emp.DrinksPerSymbol
	if p.HasMilestone(rules.FirstErrandBoy) {
		perSymbol++
	}

	var best []board.DrinkSource
	for _, rest := range p.Restaurants {
		if !rest.Open {
			continue
		}
		for _, ent := range e.restaurantEntrances(p, rest) {
			sources := e.state.Map.FindDrinkSources(ent.Road(), maxRange, emp.Route)
			if len(sources) > len(best) {
				best = sources
			}
		}
	}

	for _, src := range best {
		p.Drinks[src.Type] += perSymbol
	}
	if len(best) > 0 {
		e.log("%s: %s acquired %d drinks", p.Name, emp.Name, len(best)*perSymbol)
	}
}
