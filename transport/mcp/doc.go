// Package mcp provides the Model Context Protocol interface for Couples Ludo.
//
// The package implements a thin MCP client that proxies every tool call to
// the REST API, so AI agents and the web UI always observe the same state.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session, get_session, list_sessions: session management
//   - game_state: current state with a text rendering of the spiral board
//   - switch_view: move between the home, themes and game screens
//   - list_themes, create_theme, update_theme: theme management
//   - add_task, remove_task, import_tasks: task list editing
//   - select_theme: bind a theme to a player, honoring audience scoping
//   - start_game, roll, resolve_task, reset_game: the race itself
//   - list_configs: available board configurations
//   - game_instructions: comprehensive rules text
//
// Turn Flow:
//
// A roll that lands on a lucky tile, a trap tile, or the partner's tile
// draws a task card. The card blocks further rolls until resolve_task is
// called with accept or reject, after which the turn passes to the other
// player.
//
// Transport Modes:
//
// The server supports stdio for local MCP clients and can be mounted on an
// HTTP endpoint for remote integration.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
