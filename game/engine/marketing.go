package engine

import (
	"sort"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// startMarketing lets every campaign, in id order, place demand on the
// houses in its reach and then burns one round of its duration.
func (e *GameEngine) startMarketing() {
	e.enterPhase(rules.PhaseMarketingCampaigns)
	e.log("Phase 6: Marketing Campaigns")

	campaigns := append([]*board.Campaign{}, e.state.Map.Campaigns...)
	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].ID < campaigns[j].ID })

	for _, c := range campaigns {
		owner := e.state.Players[c.Owner]
		tokens := 1
		if c.Type == rules.Radio && owner.HasMilestone(rules.FirstRadio) {
			tokens = 2
		}
		for _, h := range e.state.Map.HousesInReach(c) {
			for i := 0; i < tokens && len(h.Demand) < h.MaxDemand(); i++ {
				h.Demand = append(h.Demand, c.Product)
			}
		}

		if owner.HasMilestone(rules.FirstBillboard) {
			continue
		}
		c.Duration--
		if c.Duration <= 0 {
			e.state.Map.RemoveCampaign(c.ID)
			owner.BusyMarketeers = withoutCard(owner.BusyMarketeers, CardID(c.MarketeerID))
			e.log("Campaign #%d ended.", c.ID)
		}
	}

	e.startCleanup()
}
