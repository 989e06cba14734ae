package board

import (
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// neighbours lists the orthogonal steps in search order: up, down, left, right.
var neighbours = [4]Position{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

// SearchOptions parameterizes Map.Search.
type SearchOptions struct {
	// Passable decides whether the walk may step from one cell onto a
	// neighbour. Nil allows every in-bounds step.
	Passable func(from, to Position) bool
	// StepCost returns 0 or 1 for a step. Nil charges 1 per step.
	StepCost func(from, to Position) int
	// Budget is the highest cost the walk may reach. Negative means unbounded.
	Budget int
}

// Search walks the grid breadth-first from start and calls visit once per
// reached cell, in order of increasing cost, with the cheapest cost to reach
// it. The walk stops early when visit returns false.
func (m *Map) Search(start Position, opts SearchOptions, visit func(p Position, cost int) bool) {
	m.SearchFrom([]Position{start}, opts, visit)
}

// SearchFrom is Search with several zero-cost starting cells.
func (m *Map) SearchFrom(starts []Position, opts SearchOptions, visit func(p Position, cost int) bool) {
	best := make(map[Position]int, len(starts))
	settled := mapset.New[Position]()
	layer := queue.New[Position]()
	for _, s := range starts {
		if !m.InBounds(s) {
			continue
		}
		if _, dup := best[s]; dup {
			continue
		}
		best[s] = 0
		layer.Enqueue(s)
	}

	for cost := 0; !layer.Empty(); cost++ {
		next := queue.New[Position]()
		for !layer.Empty() {
			p := layer.Dequeue()
			if settled.Has(p) || best[p] != cost {
				continue
			}
			settled.Put(p)
			if !visit(p, cost) {
				return
			}

			for _, d := range neighbours {
				n := p.Add(d)
				if !m.InBounds(n) || settled.Has(n) {
					continue
				}
				if opts.Passable != nil && !opts.Passable(p, n) {
					continue
				}
				step := 1
				if opts.StepCost != nil {
					step = opts.StepCost(p, n)
				}
				c := cost + step
				if opts.Budget >= 0 && c > opts.Budget {
					continue
				}
				if prev, seen := best[n]; seen && prev <= c {
					continue
				}
				best[n] = c
				if step == 0 {
					layer.Enqueue(n)
				} else {
					next.Enqueue(n)
				}
			}
		}
		layer = next
	}
}

// RoadDistance returns the number of steps from one cell to another when
// every intermediate cell is a road. The destination itself may be any cell.
// ok is false when the destination cannot be reached.
func (m *Map) RoadDistance(from, to Position) (dist int, ok bool) {
	if from == to {
		return 0, true
	}
	if !m.InBounds(to) {
		return 0, false
	}

	opts := SearchOptions{
		Budget: -1,
		Passable: func(_, n Position) bool {
			return n == to || m.Grid[n.Row][n.Col] == rules.CellRoad
		},
	}
	m.Search(from, opts, func(p Position, cost int) bool {
		if p == to {
			dist, ok = cost, true
			return false
		}
		return true
	})
	return dist, ok
}

// Block returns the cells of the enclosed block containing p: a flood fill
// over non-road cells bounded by roads and the board edge. A road cell has
// no block.
func (m *Map) Block(p Position) []Position {
	if !m.InBounds(p) || m.IsRoad(p) {
		return nil
	}
	var cells []Position
	opts := SearchOptions{
		Budget: -1,
		Passable: func(_, n Position) bool {
			return !m.IsRoad(n)
		},
	}
	m.Search(p, opts, func(c Position, _ int) bool {
		cells = append(cells, c)
		return true
	})
	return cells
}

// RoadComponents groups road cells into orthogonally connected components.
func (m *Map) RoadComponents() [][]Position {
	seen := mapset.New[Position]()
	var components [][]Position
	opts := SearchOptions{
		Budget: -1,
		Passable: func(_, n Position) bool {
			return m.IsRoad(n)
		},
	}

	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			p := Position{Row: r, Col: c}
			if !m.IsRoad(p) || seen.Has(p) {
				continue
			}
			var component []Position
			m.Search(p, opts, func(q Position, _ int) bool {
				seen.Put(q)
				component = append(component, q)
				return true
			})
			components = append(components, component)
		}
	}
	return components
}
