package board

import (
	"errors"
	"slices"

	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

var (
	// ErrUnsupportedPlayerCount is returned when no grid exists for a player count.
	ErrUnsupportedPlayerCount = errors.New("unsupported player count")
	// ErrInvalidLayout is returned for malformed text layouts.
	ErrInvalidLayout = errors.New("invalid layout")
)

// Position is a grid cell coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns p shifted by d.
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// TileIndex identifies a 5x5 tile of the board.
type TileIndex struct {
	TileRow int `json:"tile_row"`
	TileCol int `json:"tile_col"`
}

// TileOf returns the tile containing the cell at row, col.
func TileOf(row, col int) TileIndex {
	return TileIndex{TileRow: row / rules.TileSize, TileCol: col / rules.TileSize}
}

// House is a numbered customer.
type House struct {
	Number int             `json:"number"`
	Row    int             `json:"row"`
	Col    int             `json:"col"`
	Demand []rules.Product `json:"demand"`
	Garden bool            `json:"garden"`
}

// Position returns the cell of the house.
func (h *House) Position() Position {
	return Position{Row: h.Row, Col: h.Col}
}

// MaxDemand returns how many demand tokens the house can hold.
func (h *House) MaxDemand() int {
	if h.Garden {
		return rules.GardenMaxDemand
	}
	return rules.MaxDemand
}

// Corner selects one cell of a 2x2 restaurant footprint.
type Corner struct {
	DR int `json:"dr"`
	DC int `json:"dc"`
}

// Valid reports whether the corner lies inside a 2x2 footprint.
func (c Corner) Valid() bool {
	return (c.DR == 0 || c.DR == 1) && (c.DC == 0 || c.DC == 1)
}

// Entrance is a footprint corner together with the road cell it opens onto.
type Entrance struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	RoadRow int `json:"road_row"`
	RoadCol int `json:"road_col"`
}

// Road returns the road-access cell of the entrance.
func (e Entrance) Road() Position {
	return Position{Row: e.RoadRow, Col: e.RoadCol}
}

// RestaurantPosition is a legal restaurant footprint origin with its entrances.
type RestaurantPosition struct {
	Row       int        `json:"row"`
	Col       int        `json:"col"`
	Entrances []Entrance `json:"entrances"`
}

// Entrance returns the entrance at the given corner, if any.
func (p RestaurantPosition) Entrance(c Corner) (Entrance, bool) {
	for _, e := range p.Entrances {
		if e.Row == p.Row+c.DR && e.Col == p.Col+c.DC {
			return e, true
		}
	}
	return Entrance{}, false
}

// Restaurant is a placed 2x2 restaurant.
type Restaurant struct {
	Owner      int      `json:"owner"`
	Row        int      `json:"row"`
	Col        int      `json:"col"`
	Entrance   Position `json:"entrance"`
	RoadAccess Position `json:"road_access"`
	Open       bool     `json:"open"`
}

// MainEntrance returns the designated entrance of the restaurant.
func (r *Restaurant) MainEntrance() Entrance {
	return Entrance{
		Row:     r.Entrance.Row,
		Col:     r.Entrance.Col,
		RoadRow: r.RoadAccess.Row,
		RoadCol: r.RoadAccess.Col,
	}
}

// Covers reports whether the footprint contains the cell.
func (r *Restaurant) Covers(row, col int) bool {
	return row >= r.Row && row < r.Row+2 && col >= r.Col && col < r.Col+2
}

// Direction is the strip orientation of an airplane campaign.
type Direction string

const (
	DirectionRow Direction = "row"
	DirectionCol Direction = "col"
)

// Campaign is an active marketing campaign.
type Campaign struct {
	ID          int                `json:"id"`
	Type        rules.CampaignType `json:"type"`
	Product     rules.Product      `json:"product"`
	Duration    int                `json:"duration"`
	Row         int                `json:"row"`
	Col         int                `json:"col"`
	Owner       int                `json:"owner"`
	MarketeerID string             `json:"marketeer_id"`
	Direction   Direction          `json:"direction"`
	Size        int                `json:"size"`
}

// Map is the board.
type Map struct {
	Rows        int            `json:"rows"`
	Cols        int            `json:"cols"`
	TileRows    int            `json:"tile_rows"`
	TileCols    int            `json:"tile_cols"`
	Grid        [][]rules.Cell `json:"grid"`
	Houses      []*House       `json:"houses"`
	Restaurants []*Restaurant  `json:"restaurants"`
	Campaigns   []*Campaign    `json:"campaigns"`
}

func newMap(tileRows, tileCols int) *Map {
	rows, cols := tileRows*rules.TileSize, tileCols*rules.TileSize
	grid := make([][]rules.Cell, rows)
	for r := range grid {
		grid[r] = make([]rules.Cell, cols)
	}
	return &Map{
		Rows:        rows,
		Cols:        cols,
		TileRows:    tileRows,
		TileCols:    tileCols,
		Grid:        grid,
		Houses:      []*House{},
		Restaurants: []*Restaurant{},
		Campaigns:   []*Campaign{},
	}
}

// InBounds reports whether p lies on the board.
func (m *Map) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < m.Rows && p.Col >= 0 && p.Col < m.Cols
}

// At returns the cell code at p. Out-of-bounds positions read as empty.
func (m *Map) At(p Position) rules.Cell {
	if !m.InBounds(p) {
		return rules.CellEmpty
	}
	return m.Grid[p.Row][p.Col]
}

// IsRoad reports whether p is an in-bounds road cell.
func (m *Map) IsRoad(p Position) bool {
	return m.InBounds(p) && m.Grid[p.Row][p.Col] == rules.CellRoad
}

// HouseAt returns the house at p or nil.
func (m *Map) HouseAt(p Position) *House {
	for _, h := range m.Houses {
		if h.Row == p.Row && h.Col == p.Col {
			return h
		}
	}
	return nil
}

// House returns the house with the given number or nil.
func (m *Map) House(number int) *House {
	for _, h := range m.Houses {
		if h.Number == number {
			return h
		}
	}
	return nil
}

// CampaignAt returns the campaign placed on p or nil.
func (m *Map) CampaignAt(p Position) *Campaign {
	for _, c := range m.Campaigns {
		if c.Row == p.Row && c.Col == p.Col {
			return c
		}
	}
	return nil
}

// AddHouse marks p as a house and appends a new house record numbered after
// the existing ones.
func (m *Map) AddHouse(p Position, garden bool) *House {
	h := &House{Number: len(m.Houses) + 1, Row: p.Row, Col: p.Col, Demand: []rules.Product{}, Garden: garden}
	m.Grid[p.Row][p.Col] = rules.CellHouse
	m.Houses = append(m.Houses, h)
	return h
}

// AddRestaurant stamps a restaurant footprint and records it.
func (m *Map) AddRestaurant(r *Restaurant) {
	for dr := 0; dr < 2; dr++ {
		for dc := 0; dc < 2; dc++ {
			m.Grid[r.Row+dr][r.Col+dc] = rules.RestaurantCell(r.Owner)
		}
	}
	m.Restaurants = append(m.Restaurants, r)
}

// RemoveCampaign drops the campaign with the given id.
func (m *Map) RemoveCampaign(id int) {
	kept := m.Campaigns[:0]
	for _, c := range m.Campaigns {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.Campaigns = kept
}

// Clone returns a deep copy of the map. Restaurants keep their order, so
// the i-th restaurant of the copy corresponds to the i-th of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	c := *m
	c.Grid = make([][]rules.Cell, len(m.Grid))
	for r, row := range m.Grid {
		c.Grid[r] = slices.Clone(row)
	}
	c.Houses = make([]*House, len(m.Houses))
	for i, h := range m.Houses {
		house := *h
		house.Demand = slices.Clone(h.Demand)
		c.Houses[i] = &house
	}
	c.Restaurants = make([]*Restaurant, len(m.Restaurants))
	for i, r := range m.Restaurants {
		rest := *r
		c.Restaurants[i] = &rest
	}
	c.Campaigns = make([]*Campaign, len(m.Campaigns))
	for i, camp := range m.Campaigns {
		campaign := *camp
		c.Campaigns[i] = &campaign
	}
	return &c
}
