package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/foodchain/game/board"
	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return errors.New("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if config.Players < rules.MinPlayers || config.Players > rules.MaxPlayers {
		return fmt.Errorf("config validation: players must be between %d and %d, got %d",
			rules.MinPlayers, rules.MaxPlayers, config.Players)
	}
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if len(config.Layout) == 0 {
		return nil
	}

	m, err := board.Parse(config.Layout)
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if len(m.Houses) == 0 {
		return fmt.Errorf("config validation: layout must contain at least one house (H) cell")
	}
	if components := m.RoadComponents(); len(components) != 1 {
		return fmt.Errorf("config validation: layout roads must form one connected network, found %d", len(components))
	}
	if sites := m.ValidRestaurantPositions(); len(sites) < config.Players {
		return fmt.Errorf("config validation: layout has room for %d restaurants but %d players",
			len(sites), config.Players)
	}
	return nil
}

// LoadGameConfig loads a game configuration from a JSON or YAML file. The
// extension decides the decoder.
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	config, err := DecodeGameConfig(filename, data)
	if err != nil {
		return nil, err
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// DecodeGameConfig parses config data named filename without validating it.
func DecodeGameConfig(filename string, data []byte) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(filename), err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(filename), err)
		}
	}
	return &config, nil
}

// DefaultGameConfig returns the built-in preset used when no config is found.
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:        "default",
		Description: "Built-in two player game on a generated map",
		Players:     2,
	}
	config.Messages.Welcome = "Welcome to Food Chain Tycoon! Place your first restaurant."
	return config
}
