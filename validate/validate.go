// Command validate checks the game presets in a directory. It checks:
//   - JSON or YAML structure and required fields
//   - Player count and layout characters
//   - Layout size, road connectivity and room for every restaurant
//   - For generated maps, that the generator succeeds for the player count
//
// Houses that no road reaches and maps without drinks are reported as
// warnings.
package main

import (
	"context"
	"fmt"
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

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

// previewSeed builds the sample map of presets without a fixed seed.
const previewSeed = 1

// validateConfig loads and validates a single preset file.
func validateConfig(ctx context.Context, filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	config, err := engine.LoadGameConfig(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to load: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	var m *board.Map
	if len(config.Layout) > 0 {
		m, err = board.Parse(config.Layout)
	} else {
		seed := config.Seed
		if seed == 0 {
			seed = previewSeed
		}
		m, err = board.NewGenerator(rand.New(rand.NewSource(seed))).Generate(ctx, config.Players)
	}
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Map: %v", err))
		return result
	}

	result.Warnings = append(result.Warnings, checkMap(m)...)

	kind := "fixed"
	if len(config.Layout) == 0 {
		kind = "generated"
	}
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Players: %d", config.Players),
		fmt.Sprintf("✓ Map: %dx%d (%s)", m.Rows, m.Cols, kind),
		fmt.Sprintf("✓ Houses: %d", len(m.Houses)),
		fmt.Sprintf("✓ Drinks: %s", formatDrinks(drinkCounts(m))),
		fmt.Sprintf("✓ Restaurant sites: %d", len(m.ValidRestaurantPositions())),
	)
	if config.Intro {
		result.Info = append(result.Info, "✓ Introductory rules")
	}
	return result
}

// checkMap reports houses that cannot be reached over roads and missing
// drinks.
func checkMap(m *board.Map) []string {
	var warnings []string

	reached := map[int]bool{}
	for _, component := range m.RoadComponents() {
		if len(component) == 0 {
			continue
		}
		start := component[0]
		for _, hd := range m.FindHousesInRange(start, m.Rows*m.Cols) {
			reached[hd.House.Number] = true
		}
	}
	for _, h := range m.Houses {
		if !reached[h.Number] {
			warnings = append(warnings, fmt.Sprintf("House %d at (%d,%d) has no road access", h.Number, h.Row, h.Col))
		}
	}

	if len(drinkCounts(m)) == 0 {
		warnings = append(warnings, "Map has no drink sources")
	}
	return warnings
}

func drinkCounts(m *board.Map) map[rules.Product]int {
	counts := map[rules.Product]int{}
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if drink, ok := m.At(board.Position{Row: r, Col: c}).Drink(); ok {
				counts[drink]++
			}
		}
	}
	return counts
}

func formatDrinks(counts map[rules.Product]int) string {
	if len(counts) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(counts))
	for product, n := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", product, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// presetFiles lists the JSON and YAML files in dir.
func presetFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// printResult writes the report for one file and returns whether it was valid.
func printResult(result ValidationResult) bool {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if !result.Valid {
		fmt.Println("❌ INVALID")
		for _, err := range result.Errors {
			fmt.Println("  ❌ " + err)
		}
		return false
	}

	fmt.Println("✅ VALID")
	for _, info := range result.Info {
		fmt.Println("  " + info)
	}
	for _, warning := range result.Warnings {
		fmt.Println("  ⚠️  " + warning)
	}
	return true
}

func run(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		var err error
		files, err = presetFiles(cmd.String("dir"))
		if err != nil {
			return fmt.Errorf("finding config files: %w", err)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no presets found in %s", cmd.String("dir"))
	}

	allValid := true
	for _, file := range files {
		if !printResult(validateConfig(ctx, file)) {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return cli.Exit("❌ Some configurations have errors", 1)
	}
	fmt.Println("✅ All configurations are valid!")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Validate game presets",
		ArgsUsage: "[preset files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "../configs", Usage: "Preset directory scanned when no files are given"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
