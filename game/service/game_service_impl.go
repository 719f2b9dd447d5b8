package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/chrissdom/couples-ludo/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
		PendingEvent:   sess.PendingEvent,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info := s.sessionInfo(session)
	if configName != "" {
		info.ConfigName = configName
	}
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// SwitchView changes the active view of a session
func (s *gameServiceImpl) SwitchView(ctx context.Context, sessionID string, view engine.View) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Engine.SwitchView(view)
	s.persist(sessionID, "view switch")
	return sess.Engine.GetState(), nil
}

// SelectTheme assigns a theme to a player
func (s *gameServiceImpl) SelectTheme(ctx context.Context, sessionID string, playerID int, themeID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if !sess.Engine.SelectTheme(playerID, themeID) {
		return nil, fmt.Errorf("theme %s cannot be assigned to player %d", themeID, playerID)
	}
	s.persist(sessionID, "theme selection")
	return sess.Engine.GetState(), nil
}

// StartGame starts the race if both players have a valid theme selected
func (s *gameServiceImpl) StartGame(ctx context.Context, sessionID string) (*StartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if !sess.Engine.StartGame() {
		return &StartResult{
			Success:   false,
			Message:   "both players need a theme with at least one task before starting",
			GameState: sess.Engine.GetState(),
		}, nil
	}

	s.persist(sessionID, "game start")
	return &StartResult{
		Success:   true,
		GameState: sess.Engine.GetState(),
	}, nil
}

// Roll performs a full turn for the active player: roll the die, move, and
// evaluate the landing tile. If a task card is drawn the turn stays open
// until the card is resolved.
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	if state.View != engine.ViewGame {
		return &RollResult{Success: false, Message: "game has not started", GameState: state}, nil
	}
	if sess.Engine.Winner() != nil {
		return &RollResult{Success: false, Message: "game is already over", GameState: state}, nil
	}
	if sess.PendingEvent != nil {
		return &RollResult{
			Success:   false,
			Message:   "a task card is awaiting resolution",
			Event:     sess.PendingEvent,
			GameState: state,
		}, nil
	}

	active := state.ActivePlayer()
	fromStep := active.Step

	die := sess.Engine.RollDie()
	landing := sess.Engine.MovePlayer(die)
	event, win := sess.Engine.CheckTile(landing)

	result := &RollResult{
		Success:     true,
		Die:         die,
		FromStep:    fromStep,
		LandingStep: landing,
		Win:         win,
		Event:       event,
	}

	switch {
	case win:
		// The race is over; the turn never passes back
	case event != nil:
		sess.PendingEvent = event
	default:
		sess.Engine.EndTurn()
		result.TurnEnded = true
	}

	result.GameState = sess.Engine.GetState()
	s.persist(sessionID, "roll")
	return result, nil
}

// ResolveTask applies the outcome of the pending task card and ends the turn
func (s *gameServiceImpl) ResolveTask(ctx context.Context, sessionID string, outcome engine.TaskOutcome) (*ResolveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	if sess.PendingEvent == nil {
		return &ResolveResult{
			Success:   false,
			Message:   "no task card to resolve",
			GameState: sess.Engine.GetState(),
		}, nil
	}
	if outcome != engine.OutcomeAccept && outcome != engine.OutcomeReject {
		return &ResolveResult{
			Success:   false,
			Message:   fmt.Sprintf("unknown outcome %q", outcome),
			GameState: sess.Engine.GetState(),
		}, nil
	}

	sess.Engine.ResolveTask(sess.PendingEvent, outcome)
	sess.PendingEvent = nil

	s.persist(sessionID, "task resolution")
	return &ResolveResult{
		Success:   true,
		Outcome:   outcome,
		GameState: sess.Engine.GetState(),
	}, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.PendingEvent = nil
	state := sess.Engine.ResetGame()

	s.persist(sessionID, "reset")
	return state, nil
}

// CreateTheme adds a new user theme to the session catalog
func (s *gameServiceImpl) CreateTheme(ctx context.Context, sessionID, name, desc string, audience engine.Audience) (*ThemeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	themeID, ok := sess.Engine.CreateTheme(name, desc, audience)
	if !ok {
		return &ThemeResult{
			Success:   false,
			Message:   "theme name must not be empty",
			GameState: sess.Engine.GetState(),
		}, nil
	}

	s.persist(sessionID, "theme creation")
	return &ThemeResult{
		Success:   true,
		ThemeID:   themeID,
		GameState: sess.Engine.GetState(),
	}, nil
}

// UpdateTheme patches a theme's name, description or audience
func (s *gameServiceImpl) UpdateTheme(ctx context.Context, sessionID, themeID string, patch engine.ThemeMetaPatch) (*ThemeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if !sess.Engine.UpdateThemeMeta(themeID, patch) {
		return &ThemeResult{
			Success:   false,
			ThemeID:   themeID,
			Message:   fmt.Sprintf("theme %s not found", themeID),
			GameState: sess.Engine.GetState(),
		}, nil
	}

	s.persist(sessionID, "theme update")
	return &ThemeResult{
		Success:   true,
		ThemeID:   themeID,
		GameState: sess.Engine.GetState(),
	}, nil
}

// AddTask appends a task to a theme
func (s *gameServiceImpl) AddTask(ctx context.Context, sessionID, themeID, task string) (*ThemeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if !sess.Engine.AddTask(themeID, task) {
		return &ThemeResult{
			Success:   false,
			ThemeID:   themeID,
			Message:   "task was empty, duplicate, or the theme does not exist",
			GameState: sess.Engine.GetState(),
		}, nil
	}

	s.persist(sessionID, "task addition")
	return &ThemeResult{
		Success:   true,
		ThemeID:   themeID,
		GameState: sess.Engine.GetState(),
	}, nil
}

// RemoveTask removes a task from a theme by index
func (s *gameServiceImpl) RemoveTask(ctx context.Context, sessionID, themeID string, index int) (*ThemeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if !sess.Engine.RemoveTask(themeID, index) {
		return &ThemeResult{
			Success:   false,
			ThemeID:   themeID,
			Message:   fmt.Sprintf("no task at index %d", index),
			GameState: sess.Engine.GetState(),
		}, nil
	}

	s.persist(sessionID, "task removal")
	return &ThemeResult{
		Success:   true,
		ThemeID:   themeID,
		GameState: sess.Engine.GetState(),
	}, nil
}

// ImportTasks imports a batch of tasks into a theme
func (s *gameServiceImpl) ImportTasks(ctx context.Context, sessionID, themeID string, tasks []string, mode engine.ImportMode) (*ThemeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if !sess.Engine.ImportTasks(themeID, tasks, mode) {
		return &ThemeResult{
			Success:   false,
			ThemeID:   themeID,
			Message:   "nothing to import or the theme does not exist",
			GameState: sess.Engine.GetState(),
		}, nil
	}

	s.persist(sessionID, "task import")
	return &ThemeResult{
		Success:   true,
		ThemeID:   themeID,
		GameState: sess.Engine.GetState(),
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// persist auto-saves a session after a mutation. Persistence failures are
// logged, never surfaced: the in-memory session stays authoritative.
func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s after %s: %v", sessionID, after, err)
	}
}
