// Package api provides the REST API server for Food Chain Tycoon.
//
// The server translates HTTP requests into GameService calls and pushes the
// outcome of every successful action to websocket renderers watching the
// session.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions                  - Create a session ({"config_id": "duel"})
//   - GET    /api/sessions                  - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}             - Get session info
//   - DELETE /api/sessions/{id}             - Delete a session
//
// State and Queries:
//   - GET /api/sessions/{id}/state                 - Full game state
//   - GET /api/sessions/{id}/action                - Whose turn it is and what the game waits for
//   - GET /api/sessions/{id}/log                   - Paginated game log (?page=1&limit=20&order=desc)
//   - GET /api/sessions/{id}/board                 - ASCII rendering of the map (text/plain)
//   - GET /api/sessions/{id}/restaurant-positions  - Legal restaurant footprints
//   - GET /api/sessions/{id}/drink-sources         - Drink sources (?row&col&range&route=road|fly)
//   - GET /api/sessions/{id}/houses                - Houses by road distance (?row&col&range)
//
// Setup:
//   - POST /api/sessions/{id}/restaurant       - {"player", "row", "col", "corner": {"dr", "dc"}}
//   - POST /api/sessions/{id}/restaurant/pass  - {"player"}
//   - POST /api/sessions/{id}/reserve          - {"player", "amount": 100|200|300}
//
// Restructuring:
//   - POST /api/sessions/{id}/structure         - {"player", "structure": {"ceo": [...], "managers": {...}}}
//   - POST /api/sessions/{id}/structure/finish  - Start the round with the submitted structures
//
// Working 9-5:
//   - POST /api/sessions/{id}/work           - {"player", "kind", "employee", "product", "card", "to"}
//   - POST /api/sessions/{id}/campaign       - {"player", "type", "product", "row", "col", "direction", "size"}
//   - POST /api/sessions/{id}/campaign/auto  - {"player", "type", "product"}
//   - POST /api/sessions/{id}/house/auto     - {"player"}
//   - POST /api/sessions/{id}/garden/auto    - {"player"}
//
// Configuration:
//   - GET  /api/configs         - List presets
//   - GET  /api/configs/{name}  - Get a preset
//   - POST /api/configs         - Save a preset
//
// WebSocket:
//   - GET /ws?session={id}  - Live state_update and game_events messages
//
// Status codes:
//
// A refused action answers 409 with the error next to the unchanged state.
// Payloads that cannot be mapped onto an action answer 400. Unknown sessions
// and presets answer 404.
//
// Usage:
//
//	gameService := service.NewGameService(sessionMgr, configMgr)
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
