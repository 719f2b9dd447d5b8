// Package websocket provides real-time state push for Couples Ludo.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Automatic state broadcasting after mutations
//   - Task card and win event notifications
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine pair that manages writing, keepalive and cleanup. Connections
// are push only; game mutations go through the REST API.
//
// Message Protocol:
//
// Messages are JSON-encoded with the following structure:
//   - state_update: full GameState after every mutation
//   - task_event: the drawn TaskEvent when a roll triggers a card
//   - win: the winning player when the race finishes
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?sessionId=ab12)
// when establishing the connection. Broadcasts reach only the clients
// connected to the same session, so two couples playing simultaneously
// never see each other's boards.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("sessionId"))
//	})
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive broadcasts
// simultaneously without blocking each other.
package websocket
