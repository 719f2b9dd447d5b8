// Package session provides session management for the Couples Ludo game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Optional file-based persistence
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// FilePersistence stores sessions as JSON files and restores them on startup.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. IDs are matched
// case-insensitively and generated from cryptographic randomness.
//
// Persistence:
//
// When a persistence layer is configured, sessions are saved after every
// mutation and loaded lazily on access. Persisted game state is never
// trusted as-is: on load it is repaired field by field against the session's
// configuration, so hand-edited or corrupted session files still produce a
// playable game.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", config)
//
// Cleanup:
//
// CleanupExpiredSessions removes in-memory sessions that have not been
// accessed within a given duration; persisted files survive and are reloaded
// on the next access.
package session
