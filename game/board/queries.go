package board

import (
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// cornerChecks lists, for every footprint corner, the outside cells checked
// for an adjoining road, in order.
var cornerChecks = []struct {
	corner Corner
	adj    []Position
}{
	{Corner{0, 0}, []Position{{Row: -1, Col: 0}, {Row: 0, Col: -1}}},
	{Corner{0, 1}, []Position{{Row: -1, Col: 1}, {Row: 0, Col: 2}}},
	{Corner{1, 0}, []Position{{Row: 2, Col: 0}, {Row: 1, Col: -1}}},
	{Corner{1, 1}, []Position{{Row: 2, Col: 1}, {Row: 1, Col: 2}}},
}

// ValidRestaurantPositions lists every 2x2 footprint that is entirely empty,
// does not overlap a placed restaurant and has at least one entrance.
func (m *Map) ValidRestaurantPositions() []RestaurantPosition {
	var positions []RestaurantPosition
	for r := 0; r < m.Rows-1; r++ {
		for c := 0; c < m.Cols-1; c++ {
			if !m.canPlaceRestaurant(r, c) {
				continue
			}
			if entrances := m.footprintEntrances(r, c); len(entrances) > 0 {
				positions = append(positions, RestaurantPosition{Row: r, Col: c, Entrances: entrances})
			}
		}
	}
	return positions
}

// RestaurantPositionAt returns the valid position with origin row, col.
func (m *Map) RestaurantPositionAt(row, col int) (RestaurantPosition, bool) {
	if row < 0 || col < 0 || row >= m.Rows-1 || col >= m.Cols-1 || !m.canPlaceRestaurant(row, col) {
		return RestaurantPosition{}, false
	}
	entrances := m.footprintEntrances(row, col)
	if len(entrances) == 0 {
		return RestaurantPosition{}, false
	}
	return RestaurantPosition{Row: row, Col: col, Entrances: entrances}, true
}

func (m *Map) canPlaceRestaurant(r, c int) bool {
	for dr := 0; dr < 2; dr++ {
		for dc := 0; dc < 2; dc++ {
			p := Position{Row: r + dr, Col: c + dc}
			if !m.InBounds(p) || m.At(p) != rules.CellEmpty || m.CampaignAt(p) != nil {
				return false
			}
		}
	}
	for _, rest := range m.Restaurants {
		if r < rest.Row+2 && r+2 > rest.Row && c < rest.Col+2 && c+2 > rest.Col {
			return false
		}
	}
	return true
}

func (m *Map) footprintEntrances(r, c int) []Entrance {
	var entrances []Entrance
	for _, check := range cornerChecks {
		for _, adj := range check.adj {
			road := Position{Row: r + adj.Row, Col: c + adj.Col}
			if m.IsRoad(road) {
				entrances = append(entrances, Entrance{
					Row:     r + check.corner.DR,
					Col:     c + check.corner.DC,
					RoadRow: road.Row,
					RoadCol: road.Col,
				})
				break
			}
		}
	}
	return entrances
}

// DriveInEntrances returns every footprint corner of rest with an
// orthogonally adjacent road, checked up, down, left, right.
func (m *Map) DriveInEntrances(rest *Restaurant) []Entrance {
	var entrances []Entrance
	for _, check := range cornerChecks {
		corner := Position{Row: rest.Row + check.corner.DR, Col: rest.Col + check.corner.DC}
		for _, d := range neighbours {
			road := corner.Add(d)
			if m.IsRoad(road) {
				entrances = append(entrances, Entrance{Row: corner.Row, Col: corner.Col, RoadRow: road.Row, RoadCol: road.Col})
				break
			}
		}
	}
	return entrances
}

// DrinkSource is a drink cell found by FindDrinkSources.
type DrinkSource struct {
	Row  int           `json:"row"`
	Col  int           `json:"col"`
	Type rules.Product `json:"type"`
}

// FindDrinkSources collects the drink cells reachable from p within
// maxRange. Road routes step onto road or drink cells at one per step; fly
// routes cross any cell and pay only for tile borders.
func (m *Map) FindDrinkSources(p Position, maxRange int, route rules.RouteType) []DrinkSource {
	opts := SearchOptions{Budget: maxRange}
	if route == rules.RouteFly {
		opts.StepCost = func(from, to Position) int {
			if TileOf(from.Row, from.Col) != TileOf(to.Row, to.Col) {
				return 1
			}
			return 0
		}
	} else {
		opts.Passable = func(_, n Position) bool {
			cell := m.At(n)
			return cell == rules.CellRoad || cell.IsDrink()
		}
	}

	var sources []DrinkSource
	m.Search(p, opts, func(q Position, _ int) bool {
		if drink, ok := m.At(q).Drink(); ok {
			sources = append(sources, DrinkSource{Row: q.Row, Col: q.Col, Type: drink})
		}
		return true
	})
	return sources
}

// HouseDistance pairs a house with its distance from a search origin.
type HouseDistance struct {
	House    *House `json:"house"`
	Distance int    `json:"distance"`
}

// FindHousesInRange returns the houses reachable from p over road and house
// cells within maxRange steps.
func (m *Map) FindHousesInRange(p Position, maxRange int) []HouseDistance {
	opts := SearchOptions{
		Budget: maxRange,
		Passable: func(_, n Position) bool {
			cell := m.At(n)
			return cell == rules.CellRoad || cell == rules.CellHouse
		},
	}
	var found []HouseDistance
	m.Search(p, opts, func(q Position, cost int) bool {
		if h := m.HouseAt(q); h != nil {
			found = append(found, HouseDistance{House: h, Distance: cost})
		}
		return true
	})
	return found
}

// HousesInReach returns the houses a campaign places demand on.
func (m *Map) HousesInReach(c *Campaign) []*House {
	origin := Position{Row: c.Row, Col: c.Col}
	var reached []*House

	switch c.Type {
	case rules.Billboard:
		for _, d := range neighbours {
			if h := m.HouseAt(origin.Add(d)); h != nil {
				reached = append(reached, h)
			}
		}
	case rules.Mailbox:
		for _, p := range m.Block(origin) {
			if h := m.HouseAt(p); h != nil {
				reached = append(reached, h)
			}
		}
	case rules.Airplane:
		half := c.Size / 2
		for _, h := range m.Houses {
			delta := h.Row - c.Row
			if c.Direction == DirectionCol {
				delta = h.Col - c.Col
			}
			if abs(delta) <= half {
				reached = append(reached, h)
			}
		}
	case rules.Radio:
		center := TileOf(c.Row, c.Col)
		for _, h := range m.Houses {
			t := TileOf(h.Row, h.Col)
			if abs(t.TileRow-center.TileRow) <= 1 && abs(t.TileCol-center.TileCol) <= 1 {
				reached = append(reached, h)
			}
		}
	}
	return reached
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
