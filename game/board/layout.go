package board

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// Parse builds a map from a text layout. Rows must share one length and both
// dimensions must be multiples of the tile size. Houses are numbered in
// row-major order.
func Parse(layout []string) (*Map, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidLayout)
	}
	width := len([]rune(layout[0]))
	if len(layout)%rules.TileSize != 0 || width%rules.TileSize != 0 || width == 0 {
		return nil, fmt.Errorf("%w: %dx%d is not a multiple of %d", ErrInvalidLayout, len(layout), width, rules.TileSize)
	}

	m := newMap(len(layout)/rules.TileSize, width/rules.TileSize)
	for r, line := range layout {
		runes := []rune(line)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has length %d, expected %d", ErrInvalidLayout, r, len(runes), width)
		}
		for c, ch := range runes {
			cell, err := rules.CellFromRune(ch)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidLayout, r, err)
			}
			if cell == rules.CellHouse {
				m.AddHouse(Position{Row: r, Col: c}, false)
				continue
			}
			m.Grid[r][c] = cell
		}
	}
	return m, nil
}

// String renders the board with one character per cell. Restaurants show
// their owner's number (1-based) and campaigns the first letter of their kind.
func (m *Map) String() string {
	var sb strings.Builder
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if camp := m.CampaignAt(Position{Row: r, Col: c}); camp != nil {
				sb.WriteByte(string(camp.Type)[0])
				continue
			}
			sb.WriteRune(m.Grid[r][c].Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
