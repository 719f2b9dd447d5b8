package service

import (
	"time"

	"github.com/chrissdom/couples-ludo/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
	PendingEvent   *engine.TaskEvent  `json:"pending_event,omitempty"`
}

// StartResult contains the result of a start attempt
type StartResult struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	GameState *engine.GameState `json:"game_state"`
}

// RollResult contains the result of one roll-and-move turn
type RollResult struct {
	Success     bool              `json:"success"`
	Die         int               `json:"die,omitempty"`
	FromStep    int               `json:"from_step"`
	LandingStep int               `json:"landing_step"`
	Win         bool              `json:"win"`
	Event       *engine.TaskEvent `json:"event,omitempty"`
	TurnEnded   bool              `json:"turn_ended"`
	Message     string            `json:"message,omitempty"`
	GameState   *engine.GameState `json:"game_state"`
}

// ResolveResult contains the result of resolving a pending task
type ResolveResult struct {
	Success   bool               `json:"success"`
	Outcome   engine.TaskOutcome `json:"outcome,omitempty"`
	Message   string             `json:"message,omitempty"`
	GameState *engine.GameState  `json:"game_state"`
}

// ThemeResult contains the result of a theme mutation
type ThemeResult struct {
	Success   bool              `json:"success"`
	ThemeID   string            `json:"theme_id,omitempty"`
	Message   string            `json:"message,omitempty"`
	GameState *engine.GameState `json:"game_state"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	GridSize    int    `json:"grid_size"`
	PathLength  int    `json:"path_length"`
}
