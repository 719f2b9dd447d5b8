package service

import (
	"context"
	"time"

	"github.com/chrissdom/couples-ludo/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Flow
	SwitchView(ctx context.Context, sessionID string, view engine.View) (*engine.GameState, error)
	SelectTheme(ctx context.Context, sessionID string, playerID int, themeID string) (*engine.GameState, error)
	StartGame(ctx context.Context, sessionID string) (*StartResult, error)
	Roll(ctx context.Context, sessionID string) (*RollResult, error)
	ResolveTask(ctx context.Context, sessionID string, outcome engine.TaskOutcome) (*ResolveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Theme Management
	CreateTheme(ctx context.Context, sessionID, name, desc string, audience engine.Audience) (*ThemeResult, error)
	UpdateTheme(ctx context.Context, sessionID, themeID string, patch engine.ThemeMetaPatch) (*ThemeResult, error)
	AddTask(ctx context.Context, sessionID, themeID, task string) (*ThemeResult, error)
	RemoveTask(ctx context.Context, sessionID, themeID string, index int) (*ThemeResult, error)
	ImportTasks(ctx context.Context, sessionID, themeID string, tasks []string, mode engine.ImportMode) (*ThemeResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. PendingEvent holds a drawn task
// card that has not been accepted or rejected yet; while it is set, rolling
// is blocked for this session.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	PendingEvent   *engine.TaskEvent
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
