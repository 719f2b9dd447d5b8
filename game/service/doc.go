// Package service provides the business logic layer for the Couples Ludo game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Turn orchestration: rolling, moving, and task card resolution
//   - Theme catalog management per session
//   - Session lifecycle management
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, configuration management, and
// business logic orchestration. Each session maintains its own game engine
// instance with independent state.
//
// Turn Flow:
//
// Roll performs a complete turn for the active player: it rolls the die,
// advances the pawn, and evaluates the landing tile. Landing on a hazard tile
// or on the opponent draws a task card, which is held on the session as a
// pending event. While a card is pending, further rolls are rejected; the
// turn ends when ResolveTask applies an accept or reject outcome.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Play a turn
//	result, err := gameService.Roll(ctx, sessionInfo.ID)
//	if result.Event != nil {
//		gameService.ResolveTask(ctx, sessionInfo.ID, engine.OutcomeAccept)
//	}
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// game state. Multiple sessions can run concurrently with different
// configurations. Sessions track creation time and last access time for
// cleanup and debugging.
package service
