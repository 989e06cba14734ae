package engine

import (
	"sort"
)

// payFromBank pays a player up to what the bank holds. A payment the bank
// cannot cover breaks it, and the remainder is paid from whatever the break
// adds.
func (e *GameEngine) payFromBank(p *Player, amount int) {
	paid := min(amount, max(e.state.Bank, 0))
	p.Cash += paid
	e.state.Bank -= paid

	if paid < amount && e.state.BankBroken < 2 {
		e.handleBankBreak()
		extra := min(amount-paid, max(e.state.Bank, 0))
		p.Cash += extra
		e.state.Bank -= extra
	}
}

// handleBankBreak counts a bank break. The first break of a full game opens
// the reserve cards: their amounts refill the bank and the slot count with
// the most votes, ties going to the larger count, becomes the CEO slot count.
// Any other break ends the game.
func (e *GameEngine) handleBankBreak() {
	e.state.BankBroken++
	e.log("*** BANK BROKEN (%d time%s) ***", e.state.BankBroken, plural(e.state.BankBroken))

	if e.state.BankBroken > 1 || e.state.Intro {
		e.state.GameOver = true
		return
	}

	total := 0
	votes := map[int]int{}
	for _, p := range e.state.Players {
		if p.ReserveCard == nil {
			continue
		}
		total += p.ReserveCard.Amount
		votes[p.ReserveCard.Slots]++
	}
	e.state.Bank += total
	e.log("Reserve adds $%d to bank. Bank now: $%d", total, e.state.Bank)

	options := make([]int, 0, len(votes))
	for slots := range votes {
		options = append(options, slots)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(options)))
	winning, best := e.state.CEOSlots, 0
	for _, slots := range options {
		if votes[slots] > best {
			winning, best = slots, votes[slots]
		}
	}
	e.state.CEOSlots = winning
	e.state.ReserveOpened = true
	e.log("CEO slots set to %d", winning)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
