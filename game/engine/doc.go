// Package engine provides the core game logic for Food Chain Tycoon.
//
// The engine package implements the round state machine including:
//   - Setup: restaurant placement in reverse player order and reserve cards
//   - Restructuring and turn order by open slots
//   - The Working 9-5 action queue of every player
//   - Dinnertime sales, the bank and its two breaks
//   - Payday, marketing campaigns, cleanup and milestones
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the whole game, while
// GameConfig describes a preset loaded from JSON or YAML.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(ctx, config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Player 1 places first during setup
//	ok := gameEngine.PlaceRestaurant(1, 4, 3, board.Corner{DR: 0, DC: 0})
//	state := gameEngine.GetState()
//
// Every mutating operation validates before it applies anything. Invalid
// or out-of-turn calls return false and leave the state untouched.
package engine
