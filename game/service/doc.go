// Package service provides the business logic layer for Food Chain Tycoon.
//
// The service sits between the transports (REST, websocket, MCP) and the
// game engine. It owns no game rules: it finds the session, converts a
// transport request into one engine call and reports what happened.
//
// Core Interfaces:
//
// GameService is the facade every transport talks to. SessionManager stores
// sessions and ConfigManager loads and saves presets; both are implemented in
// sibling packages and injected here.
//
// Results:
//
// Every mutating operation returns an ActionResult holding the new state,
// the game log lines the call produced as GameEvents (plus round, phase and
// game_over events), and the action the game now waits for. When the engine
// refuses a command the result is still returned, with Success false, and
// the error wraps ErrRejected. Requests that cannot be mapped onto an engine
// call at all fail with ErrBadRequest.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "duel")
//	if err != nil {
//		return err
//	}
//
//	result, err := gameService.PlaceRestaurant(ctx, info.ID, service.RestaurantRequest{
//		Player: 1, Row: 0, Col: 7, Corner: board.Corner{DR: 1, DC: 1},
//	})
//
// Every operation runs inside an OpenTelemetry span named after it.
package service
