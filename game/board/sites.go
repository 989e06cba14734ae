package board

import "github.com/wricardo/mcp-training/foodchain/game/rules"

// Free reports whether p is an empty cell without a campaign on it.
func (m *Map) Free(p Position) bool {
	return m.InBounds(p) && m.At(p) == rules.CellEmpty && m.CampaignAt(p) == nil
}

func (m *Map) touchesRoad(p Position) bool {
	for _, d := range neighbours {
		if m.IsRoad(p.Add(d)) {
			return true
		}
	}
	return false
}

// HouseSite returns the first free cell, in row-major order, that touches a road.
func (m *Map) HouseSite() (Position, bool) {
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			p := Position{Row: r, Col: c}
			if m.Free(p) && m.touchesRoad(p) {
				return p, true
			}
		}
	}
	return Position{}, false
}

// GardenCandidate returns the first house without a garden that has a free
// neighbouring cell to grow one on.
func (m *Map) GardenCandidate() *House {
	for _, h := range m.Houses {
		if h.Garden {
			continue
		}
		for _, d := range neighbours {
			if m.Free(h.Position().Add(d)) {
				return h
			}
		}
	}
	return nil
}

// CampaignSiteValid reports whether a campaign may be placed on p by a
// marketeer working from the given road-access cells: p must be free and
// next to a road cell within maxRange road steps of one of the origins.
func (m *Map) CampaignSiteValid(p Position, origins []Position, maxRange int) bool {
	if !m.Free(p) {
		return false
	}
	valid := false
	m.walkCampaignRoads(origins, maxRange, func(road Position) bool {
		for _, d := range neighbours {
			if road.Add(d) == p {
				valid = true
				return false
			}
		}
		return true
	})
	return valid
}

// BestCampaignSite scores every free cell next to the road network reachable
// from origins within maxRange and returns the best one. Billboards score 10
// per adjacent house, radios the number of houses in the surrounding 3x3
// tiles, other kinds 1; touching a road adds 1. The first best cell wins.
func (m *Map) BestCampaignSite(origins []Position, maxRange int, kind rules.CampaignType) (Position, bool) {
	var best Position
	bestScore := -1

	m.walkCampaignRoads(origins, maxRange, func(road Position) bool {
		for _, d := range neighbours {
			p := road.Add(d)
			if !m.Free(p) {
				continue
			}
			if score := m.campaignScore(p, kind); score > bestScore {
				best, bestScore = p, score
			}
		}
		return true
	})
	return best, bestScore >= 0
}

func (m *Map) walkCampaignRoads(origins []Position, maxRange int, visit func(road Position) bool) {
	opts := SearchOptions{
		Budget:   maxRange,
		Passable: func(_, n Position) bool { return m.IsRoad(n) },
	}
	for _, origin := range origins {
		stop := false
		m.Search(origin, opts, func(p Position, _ int) bool {
			if !visit(p) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

func (m *Map) campaignScore(p Position, kind rules.CampaignType) int {
	score := 0
	switch kind {
	case rules.Billboard:
		for _, d := range neighbours {
			if m.HouseAt(p.Add(d)) != nil {
				score += 10
			}
		}
	case rules.Radio:
		score = len(m.HousesInReach(&Campaign{Type: rules.Radio, Row: p.Row, Col: p.Col}))
	default:
		score = 1
	}
	if m.touchesRoad(p) {
		score++
	}
	return score
}
