// Package mcp exposes the Food Chain Tycoon game to AI agents over the
// Model Context Protocol.
//
// The Client registers one MCP tool per game operation and forwards each
// call to the REST API, so agents and HTTP clients share the same sessions.
// Results are rendered as plain text summaries.
//
// Tools:
//
//   - create_session, list_sessions, get_session, delete_session
//   - game_state, current_action, game_log, render_board
//   - restaurant_positions, drink_sources, houses_in_range
//   - place_restaurant, pass_restaurant, select_reserve
//   - submit_structure, finish_restructuring
//   - execute_work, place_campaign, auto_campaign, auto_house, auto_garden
//   - list_configs, game_instructions
//
// Every game tool takes a session_id. Player indexes are 0-based.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
