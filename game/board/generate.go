package board

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wricardo/mcp-training/foodchain/game/rules"
	"github.com/wricardo/mcp-training/foodchain/telemetry"
)

// borderOffsets are the cell offsets tried, in order, when forcing a road
// across a tile border.
var borderOffsets = []int{2, 1, 3, 0, 4}

// Generator builds boards from the embedded tile templates.
type Generator struct {
	rng       *rand.Rand
	templates []rules.TileTemplate
}

// NewGenerator returns a generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds the board for playerCount players.
func (g *Generator) Generate(ctx context.Context, playerCount int) (*Map, error) {
	tracer := telemetry.Tracer("board")
	_, span := tracer.Start(ctx, "board.generate")
	defer span.End()

	size, ok := rules.GridConfigs[playerCount]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedPlayerCount, playerCount)
	}
	if g.templates == nil {
		templates, err := rules.TileTemplates()
		if err != nil {
			return nil, fmt.Errorf("load tile templates: %w", err)
		}
		g.templates = templates
	}

	m := newMap(size.Rows, size.Cols)
	for tr := 0; tr < size.Rows; tr++ {
		for tc := 0; tc < size.Cols; tc++ {
			tmpl := g.templates[g.rng.Intn(len(g.templates))]
			if err := m.stamp(tmpl, tr, tc, g.rng.Intn(4)); err != nil {
				return nil, err
			}
		}
	}

	m.connectTiles()
	stitched := m.stitchRoads()

	span.SetAttributes(
		attribute.Int("board.players", playerCount),
		attribute.Int("board.rows", m.Rows),
		attribute.Int("board.cols", m.Cols),
		attribute.Int("board.houses", len(m.Houses)),
		attribute.Int("board.stitched_cells", stitched),
	)
	return m, nil
}

// rotate turns a tile grid and its house points clockwise by quarter turns.
func rotate(grid [][]rules.Cell, houses []rules.TilePoint, times int) ([][]rules.Cell, []rules.TilePoint) {
	n := len(grid)
	for t := 0; t < times; t++ {
		turned := make([][]rules.Cell, n)
		for r := range turned {
			turned[r] = make([]rules.Cell, n)
		}
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				turned[c][n-1-r] = grid[r][c]
			}
		}
		grid = turned

		moved := make([]rules.TilePoint, len(houses))
		for i, h := range houses {
			moved[i] = rules.TilePoint{R: h.C, C: n - 1 - h.R}
		}
		houses = moved
	}
	return grid, houses
}

func (m *Map) stamp(tmpl rules.TileTemplate, tr, tc, rotation int) error {
	grid, err := tmpl.Grid()
	if err != nil {
		return err
	}
	grid, houses := rotate(grid, tmpl.Houses(), rotation)

	startR, startC := tr*rules.TileSize, tc*rules.TileSize
	for r := 0; r < rules.TileSize; r++ {
		for c := 0; c < rules.TileSize; c++ {
			m.Grid[startR+r][startC+c] = grid[r][c]
		}
	}
	for _, h := range houses {
		m.AddHouse(Position{Row: startR + h.R, Col: startC + h.C}, false)
	}
	return nil
}

// forceable reports whether a connectivity pass may overwrite p with road.
func (m *Map) forceable(p Position) bool {
	cell := m.At(p)
	return cell == rules.CellEmpty || cell == rules.CellRoad
}

// connectTiles makes sure every pair of neighbouring tiles shares at least
// one aligned road pair across their border.
func (m *Map) connectTiles() {
	size := rules.TileSize
	for tr := 0; tr < m.TileRows; tr++ {
		for tc := 0; tc < m.TileCols; tc++ {
			if tc < m.TileCols-1 {
				rightEdge := (tc+1)*size - 1
				m.connectBorder(func(offset int) (Position, Position) {
					row := tr*size + offset
					return Position{Row: row, Col: rightEdge}, Position{Row: row, Col: rightEdge + 1}
				})
			}
			if tr < m.TileRows-1 {
				bottomEdge := (tr+1)*size - 1
				m.connectBorder(func(offset int) (Position, Position) {
					col := tc*size + offset
					return Position{Row: bottomEdge, Col: col}, Position{Row: bottomEdge + 1, Col: col}
				})
			}
		}
	}
}

func (m *Map) connectBorder(pair func(offset int) (Position, Position)) {
	for offset := 0; offset < rules.TileSize; offset++ {
		a, b := pair(offset)
		if m.IsRoad(a) && m.IsRoad(b) {
			return
		}
	}
	for _, offset := range borderOffsets {
		a, b := pair(offset)
		if m.forceable(a) && m.forceable(b) {
			m.Grid[a.Row][a.Col] = rules.CellRoad
			m.Grid[b.Row][b.Col] = rules.CellRoad
			return
		}
	}
}

// stitchRoads joins isolated road components to the rest of the network
// with shortest paths over empty cells and returns the number of cells paved.
func (m *Map) stitchRoads() int {
	paved := 0
	for {
		components := m.RoadComponents()
		if len(components) <= 1 {
			return paved
		}
		path := m.pathToOtherRoad(components[0])
		if path == nil {
			return paved
		}
		for _, p := range path {
			m.Grid[p.Row][p.Col] = rules.CellRoad
			paved++
		}
	}
}

// pathToOtherRoad finds the shortest run of empty cells linking the component
// to any road cell outside it.
func (m *Map) pathToOtherRoad(component []Position) []Position {
	own := mapset.Of(component...)
	dist := make(map[Position]int)
	var target Position
	found := false

	opts := SearchOptions{
		Budget: -1,
		Passable: func(_, n Position) bool {
			cell := m.At(n)
			return cell == rules.CellEmpty || cell == rules.CellRoad
		},
	}
	m.SearchFrom(component, opts, func(p Position, cost int) bool {
		dist[p] = cost
		if m.IsRoad(p) && !own.Has(p) {
			target, found = p, true
			return false
		}
		return true
	})
	if !found {
		return nil
	}

	var path []Position
	for cur := target; ; {
		step, ok := m.previousStep(cur, dist)
		if !ok || own.Has(step) {
			return path
		}
		path = append(path, step)
		cur = step
	}
}

// previousStep returns a neighbour of p one step closer to the search origin.
func (m *Map) previousStep(p Position, dist map[Position]int) (Position, bool) {
	for _, d := range neighbours {
		n := p.Add(d)
		if c, ok := dist[n]; ok && c == dist[p]-1 {
			return n, true
		}
	}
	return Position{}, false
}
