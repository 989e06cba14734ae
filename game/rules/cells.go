package rules

import "fmt"

// Cell is the code stored in every board grid square.
type Cell int

const (
	CellEmpty    Cell = 0
	CellRoad     Cell = 1
	CellHouse    Cell = 2
	CellBeer     Cell = 3
	CellLemonade Cell = 4
	CellSoda     Cell = 5

	// RestaurantCellBase is added to the owner index for restaurant footprint cells.
	RestaurantCellBase Cell = 100
)

// TileSize is the edge length of a square tile template.
const TileSize = 5

// RestaurantCell returns the footprint code for a restaurant owned by player.
func RestaurantCell(player int) Cell {
	return RestaurantCellBase + Cell(player)
}

// IsDrink reports whether the cell is a drink source.
func (c Cell) IsDrink() bool {
	return c == CellBeer || c == CellLemonade || c == CellSoda
}

// IsRestaurant reports whether the cell belongs to a restaurant footprint.
func (c Cell) IsRestaurant() bool {
	return c >= RestaurantCellBase
}

// Drink returns the product supplied by a drink source cell.
func (c Cell) Drink() (Product, bool) {
	switch c {
	case CellBeer:
		return Beer, true
	case CellLemonade:
		return Lemonade, true
	case CellSoda:
		return Soda, true
	}
	return "", false
}

// Rune returns the layout character used for the cell in text layouts.
func (c Cell) Rune() rune {
	switch {
	case c == CellEmpty:
		return '.'
	case c == CellRoad:
		return '#'
	case c == CellHouse:
		return 'H'
	case c == CellBeer:
		return 'B'
	case c == CellLemonade:
		return 'L'
	case c == CellSoda:
		return 'S'
	case c.IsRestaurant():
		return rune('1' + int(c-RestaurantCellBase))
	}
	return '?'
}

// CellFromRune parses a layout character.
func CellFromRune(r rune) (Cell, error) {
	switch r {
	case '.':
		return CellEmpty, nil
	case '#':
		return CellRoad, nil
	case 'H':
		return CellHouse, nil
	case 'B':
		return CellBeer, nil
	case 'L':
		return CellLemonade, nil
	case 'S':
		return CellSoda, nil
	}
	return CellEmpty, fmt.Errorf("unknown layout character %q", r)
}

// GridSize is a board size measured in tiles.
type GridSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// GridConfigs maps a player count to the tile grid of its board.
var GridConfigs = map[int]GridSize{
	2: {Rows: 3, Cols: 3},
	3: {Rows: 4, Cols: 4},
	4: {Rows: 4, Cols: 5},
	5: {Rows: 5, Cols: 4},
}

const (
	MinPlayers = 2
	MaxPlayers = 5
)
