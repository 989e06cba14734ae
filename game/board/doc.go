// Package board implements the tile-based city map: generation from rotated
// tile templates, text layouts, and the grid queries the engine relies on.
//
// Every reachability question (road distance, drink-source search, house
// search, enclosed blocks, campaign-site search) goes through Map.Search, a
// single breadth-first walk parameterized by a passable predicate, an
// optional 0/1 step cost and a cost budget.
//
// Usage:
//
//	gen := board.NewGenerator(rand.New(rand.NewSource(42)))
//	m, err := gen.Generate(ctx, 3)
//	if err != nil {
//		return err
//	}
//	positions := m.ValidRestaurantPositions()
//	dist, ok := m.RoadDistance(house.Position(), entrance.Road())
package board
