// Package config provides configuration management for Food Chain Tycoon.
//
// Presets live in one directory as JSON (.json) or YAML (.yaml, .yml)
// files. A preset names the game, sets the player count, switches the
// introductory rules on or off and either fixes the board with a layout or
// leaves it to the map generator (optionally seeded).
//
// Layout Format:
//
//	.  empty      #  road       H  house
//	B  beer       L  lemonade   S  soda
//
// Layout dimensions must be multiples of five (one tile is 5x5), the roads
// must form one network and there must be room for a restaurant per player.
//
// Bundled presets:
//   - classic: three players on a generated 4x4 tile board
//   - duel: a fixed two player board
//   - intro: the introductory game, ending at the first bank break
//   - full_table: five players on a generated 5x4 tile board
//   - crossroads: a fixed four player board around one crossing
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		return err
//	}
//
//	gameConfig, err := manager.LoadConfig("duel")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The preset id is the file name without its extension. When no "classic"
// preset exists the first valid preset, then a built-in two player
// configuration, becomes the default.
package config
