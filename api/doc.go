// Package api provides the REST API server for the Couples Ludo game.
//
// The API exposes session management, game flow, theme management, and
// configuration endpoints, plus a WebSocket endpoint for push updates.
//
// Endpoints:
//
//	POST   /api/sessions                                  create a session
//	GET    /api/sessions                                  list sessions
//	GET    /api/sessions/{id}                             get session info
//	DELETE /api/sessions/{id}                             delete a session
//
//	GET    /api/sessions/{id}/state                       current game state
//	POST   /api/sessions/{id}/view                        switch view
//	PUT    /api/sessions/{id}/players/{pid}/theme         select a theme
//	POST   /api/sessions/{id}/start                       start the race
//	POST   /api/sessions/{id}/roll                        roll and move
//	POST   /api/sessions/{id}/resolve                     resolve a task card
//	POST   /api/sessions/{id}/reset                       reset the game
//
//	POST   /api/sessions/{id}/themes                      create a theme
//	PATCH  /api/sessions/{id}/themes/{themeId}            update theme meta
//	POST   /api/sessions/{id}/themes/{themeId}/tasks      add a task
//	DELETE /api/sessions/{id}/themes/{themeId}/tasks/{i}  remove a task
//	POST   /api/sessions/{id}/themes/{themeId}/import     import tasks
//
//	GET    /api/configs                                   list configurations
//	POST   /api/configs                                   save a configuration
//	GET    /api/configs/{name}                            get a configuration
//
//	GET    /ws?session={id}                               WebSocket updates
//
// All responses are JSON. Errors use the shape {"error": "message"}.
//
// WebSocket Events:
//
// Clients connected to /ws receive state_update messages after every
// mutation, a task_event message when a card is drawn, and a win message
// when a player reaches the final tile.
package api
