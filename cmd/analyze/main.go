// Command analyze prints board statistics for the map generator or for the
// presets in the configs directory. For generated maps it samples a range
// of seeds and summarizes houses, drinks, roads and restaurant sites.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/engine"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// MapStats summarizes one board.
type MapStats struct {
	Rows, Cols      int
	Houses          int
	Roads           int
	RoadComponents  int
	Sites           int
	Drinks          map[rules.Product]int
	IsolatedHouses  int
	MaxHouseSpacing int
}

func analyzeMap(m *board.Map) MapStats {
	stats := MapStats{
		Rows:           m.Rows,
		Cols:           m.Cols,
		Houses:         len(m.Houses),
		Sites:          len(m.ValidRestaurantPositions()),
		Drinks:         map[rules.Product]int{},
		RoadComponents: len(m.RoadComponents()),
	}

	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			cell := m.At(board.Position{Row: r, Col: c})
			if cell == rules.CellRoad {
				stats.Roads++
			}
			if drink, ok := cell.Drink(); ok {
				stats.Drinks[drink]++
			}
		}
	}

	// A house is isolated when it has no orthogonal road neighbour
	for _, h := range m.Houses {
		isolated := true
		for _, d := range []board.Position{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}} {
			if m.IsRoad(h.Position().Add(d)) {
				isolated = false
				break
			}
		}
		if isolated {
			stats.IsolatedHouses++
		}
	}

	// Largest road distance between two consecutive houses
	for i := 1; i < len(m.Houses); i++ {
		if d, ok := m.RoadDistance(m.Houses[i-1].Position(), m.Houses[i].Position()); ok && d > stats.MaxHouseSpacing {
			stats.MaxHouseSpacing = d
		}
	}
	return stats
}

func formatDrinks(drinks map[rules.Product]int) string {
	if len(drinks) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(drinks))
	for product, n := range drinks {
		parts = append(parts, fmt.Sprintf("%s=%d", product, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func printStats(w io.Writer, stats MapStats) {
	fmt.Fprintf(w, "Map: %d x %d\n", stats.Rows, stats.Cols)
	fmt.Fprintf(w, "Houses: %d (isolated: %d)\n", stats.Houses, stats.IsolatedHouses)
	fmt.Fprintf(w, "Road cells: %d (components: %d)\n", stats.Roads, stats.RoadComponents)
	fmt.Fprintf(w, "Restaurant sites: %d\n", stats.Sites)
	fmt.Fprintf(w, "Drinks: %s\n", formatDrinks(stats.Drinks))
	if stats.MaxHouseSpacing > 0 {
		fmt.Fprintf(w, "Max road distance between neighbouring houses: %d\n", stats.MaxHouseSpacing)
	}
	if stats.IsolatedHouses > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d houses have no adjoining road\n", stats.IsolatedHouses)
	}
}

// analyzeConfig prints the statistics of one preset.
func analyzeConfig(ctx context.Context, w io.Writer, path string, render bool) error {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Name: %s\n", config.Name)
	fmt.Fprintf(w, "Players: %d\n", config.Players)

	var m *board.Map
	if len(config.Layout) > 0 {
		m, err = board.Parse(config.Layout)
	} else {
		seed := config.Seed
		if seed == 0 {
			seed = 1
		}
		fmt.Fprintf(w, "Generated map (seed %d)\n", seed)
		m, err = board.NewGenerator(rand.New(rand.NewSource(seed))).Generate(ctx, config.Players)
	}
	if err != nil {
		return err
	}

	printStats(w, analyzeMap(m))
	if render {
		fmt.Fprintf(w, "\n%s", m.String())
	}
	return nil
}

// sampleGenerator generates one map per seed and prints the averages.
func sampleGenerator(ctx context.Context, w io.Writer, players int, seeds int) error {
	if seeds <= 0 {
		return fmt.Errorf("seeds must be positive, got %d", seeds)
	}

	var total MapStats
	total.Drinks = map[rules.Product]int{}
	minSites := -1
	for seed := 1; seed <= seeds; seed++ {
		m, err := board.NewGenerator(rand.New(rand.NewSource(int64(seed)))).Generate(ctx, players)
		if err != nil {
			return err
		}
		stats := analyzeMap(m)
		total.Rows, total.Cols = stats.Rows, stats.Cols
		total.Houses += stats.Houses
		total.Roads += stats.Roads
		total.RoadComponents += stats.RoadComponents
		total.Sites += stats.Sites
		total.IsolatedHouses += stats.IsolatedHouses
		for product, n := range stats.Drinks {
			total.Drinks[product] += n
		}
		if minSites < 0 || stats.Sites < minSites {
			minSites = stats.Sites
		}
	}

	avg := func(n int) float64 { return float64(n) / float64(seeds) }
	fmt.Fprintf(w, "Players: %d, maps: %d, size %d x %d\n", players, seeds, total.Rows, total.Cols)
	fmt.Fprintf(w, "Avg houses: %.1f\n", avg(total.Houses))
	fmt.Fprintf(w, "Avg road cells: %.1f\n", avg(total.Roads))
	fmt.Fprintf(w, "Avg restaurant sites: %.1f (min %d)\n", avg(total.Sites), minSites)
	fmt.Fprintf(w, "Avg isolated houses: %.2f\n", avg(total.IsolatedHouses))
	products := make([]string, 0, len(total.Drinks))
	for product := range total.Drinks {
		products = append(products, string(product))
	}
	sort.Strings(products)
	for _, product := range products {
		fmt.Fprintf(w, "Avg %s: %.2f\n", product, avg(total.Drinks[rules.Product(product)]))
	}
	if total.RoadComponents > seeds {
		fmt.Fprintf(w, "⚠️  CRITICAL: some maps have a split road network\n")
	}
	if minSites < players {
		fmt.Fprintf(w, "⚠️  CRITICAL: some maps have fewer restaurant sites than players\n")
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if players := int(cmd.Int("players")); players > 0 {
		return sampleGenerator(ctx, os.Stdout, players, int(cmd.Int("seeds")))
	}

	files := cmd.Args().Slice()
	if len(files) == 0 {
		dir := cmd.String("dir")
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, _ := filepath.Glob(filepath.Join(dir, pattern))
			files = append(files, matches...)
		}
		sort.Strings(files)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeConfig(ctx, os.Stdout, file, cmd.Bool("render")); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Print board statistics for presets or the map generator",
		ArgsUsage: "[preset files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "configs", Usage: "Preset directory analyzed when no files are given"},
			&cli.IntFlag{Name: "players", Usage: "Sample generated maps for this player count instead of presets"},
			&cli.BoolFlag{Name: "render", Usage: "Print the map of each preset"},
			&cli.IntFlag{Name: "seeds", Value: 20, Usage: "Number of seeds sampled with --players"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
