// Package websocket pushes live game updates to board renderers.
//
// A Hub keeps one client set per game session. Every mutating REST call
// broadcasts two messages to the session's clients: a state_update carrying
// the full GameState and a game_events message carrying the log lines and
// phase changes the call produced. Clients only listen; incoming frames are
// read and discarded to keep the connection alive.
//
// The hub's Run loop owns the client map. Register, unregister and broadcast
// requests arrive over channels, so BroadcastState and BroadcastEvent are
// safe to call from any goroutine and never block: when the queue is full
// the message is dropped and a warning is logged.
//
// Message format:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//	{"session_id": "a1b2", "event": "game_events", "data": [{"type": "log", ...}]}
//
// Connections are kept alive with ping/pong frames; a client that falls
// behind is disconnected.
package websocket
