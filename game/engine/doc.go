// Package engine provides the core game logic for the Couples Ludo game.
//
// The engine package implements the game mechanics including:
//   - Die-roll movement along a fixed-length spiral path
//   - Tile-effect and collision resolution into task-card events
//   - Task accept/reject outcomes and turn alternation
//   - The theme catalog (audience-scoped task collections) and its mutations
//   - Defensive normalization of persisted snapshots
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the current game state,
// while GameConfig defines the board geometry and rules loaded from JSON
// files.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultGameConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.SelectTheme(0, "default_common")
//	gameEngine.SelectTheme(1, "default_common")
//	if gameEngine.StartGame() {
//		landing := gameEngine.MovePlayer(gameEngine.RollDie())
//		event, win := gameEngine.CheckTile(landing)
//		_ = event
//		_ = win
//	}
//
// Game Rules:
//
// Two players race along a spiral path by die roll. Landing on the
// opponent's tile, a lucky tile, or a trap tile draws a task card from one
// player's theme; rejecting a task sends its executor backward (to the start
// tile for collisions). The first player to reach the final tile wins.
//
// Every operation is total: malformed input degrades to a no-op and failure
// is communicated through return values, never panics or errors.
package engine
