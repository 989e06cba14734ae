package rules

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Load reads and unmarshals a JSON file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// TileTemplate is a pre-authored 5x5 map fragment.
type TileTemplate struct {
	Name   string   `json:"name"`
	Layout []string `json:"layout"`
}

// TilePoint is a cell position inside a tile.
type TilePoint struct {
	R int
	C int
}

// Grid decodes the template layout into cell codes.
func (t TileTemplate) Grid() ([][]Cell, error) {
	if len(t.Layout) != TileSize {
		return nil, fmt.Errorf("tile %q: expected %d rows, got %d", t.Name, TileSize, len(t.Layout))
	}
	grid := make([][]Cell, TileSize)
	for r, line := range t.Layout {
		runes := []rune(line)
		if len(runes) != TileSize {
			return nil, fmt.Errorf("tile %q: row %d has %d cells, want %d", t.Name, r, len(runes), TileSize)
		}
		grid[r] = make([]Cell, TileSize)
		for c, ch := range runes {
			cell, err := CellFromRune(ch)
			if err != nil {
				return nil, fmt.Errorf("tile %q: row %d: %w", t.Name, r, err)
			}
			grid[r][c] = cell
		}
	}
	return grid, nil
}

// Houses returns the house cells of the template in row-major order.
func (t TileTemplate) Houses() []TilePoint {
	var houses []TilePoint
	for r, line := range t.Layout {
		for c, ch := range []rune(line) {
			if ch == 'H' {
				houses = append(houses, TilePoint{R: r, C: c})
			}
		}
	}
	return houses
}

var (
	tilesOnce sync.Once
	tiles     []TileTemplate
	tilesErr  error
)

// TileTemplates returns the embedded template set, validated on first use.
func TileTemplates() ([]TileTemplate, error) {
	tilesOnce.Do(func() {
		tiles, tilesErr = Load[[]TileTemplate]("tiles.json")
		if tilesErr != nil {
			return
		}
		if len(tiles) == 0 {
			tilesErr = fmt.Errorf("tiles.json: no templates")
			return
		}
		for _, t := range tiles {
			if _, err := t.Grid(); err != nil {
				tilesErr = err
				return
			}
		}
	})
	return tiles, tilesErr
}
