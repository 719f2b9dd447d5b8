package engine

import (
	"fmt"
	"math/rand"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	GetConfig() *GameConfig
	ResetGame() *GameState
	Winner() *Player

	// Navigation and setup
	SwitchView(view View)
	SelectTheme(playerID int, themeID string) bool
	StartGame() bool

	// Turn operations
	RollDie() int
	MovePlayer(steps int) int
	CheckTile(landingStep int) (*TaskEvent, bool)
	ResolveTask(event *TaskEvent, outcome TaskOutcome)
	EndTurn()
	SetRolling(rolling bool)

	// Theme catalog
	CreateTheme(name, desc string, audience Audience) (string, bool)
	UpdateThemeMeta(themeID string, patch ThemeMetaPatch) bool
	AddTask(themeID, text string) bool
	RemoveTask(themeID string, index int) bool
	ImportTasks(themeID string, tasks []string, mode ImportMode) bool
}

// GameEngine implements the Engine interface. It is the sole mutator of its
// GameState; every operation is total and degrades to a no-op on invalid
// input rather than returning an error.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// NewEngine creates a new game engine with the provided configuration,
// seeding its random source from crypto/rand.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return NewEngineWithRand(config, NewRand())
}

// NewEngineWithRand creates a new game engine with an injected random source,
// used by tests that need deterministic tile placement and task draws.
func NewEngineWithRand(config *GameConfig, rng *rand.Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: config,
		rng:    rng,
	}
	engine.state = newGameState(config, rng)

	return engine, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading). The caller is
// expected to hand over a normalized state; see NormalizeSnapshot.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	return nil
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SwitchView changes the screen the UI should show. Unknown views are ignored.
func (e *GameEngine) SwitchView(view View) {
	switch view {
	case ViewHome, ViewGame, ViewThemes:
		e.state.View = view
	}
}

// SelectTheme assigns a theme to a player. The theme must exist and its
// audience must permit the player's role; otherwise nothing changes.
func (e *GameEngine) SelectTheme(playerID int, themeID string) bool {
	player := e.state.PlayerByID(playerID)
	if player == nil {
		return false
	}
	theme := e.state.ThemeByID(themeID)
	if theme == nil || !theme.AllowsRole(player.Role) {
		return false
	}
	player.ThemeID = themeID
	return true
}

// StartGame checks that both players hold a valid, non-empty theme and, on
// success, switches to the game view with a randomly chosen starting turn.
// It returns false and leaves the state untouched when a precondition fails.
func (e *GameEngine) StartGame() bool {
	for _, p := range e.state.Players {
		if p.ThemeID == "" {
			return false
		}
		theme := e.state.ThemeByID(p.ThemeID)
		if theme == nil {
			return false
		}
		if !theme.AllowsRole(p.Role) {
			return false
		}
		if len(theme.Tasks) == 0 {
			return false
		}
	}

	e.state.View = ViewGame
	e.state.Turn = e.rng.Intn(PlayerCount)
	return true
}

// RollDie returns a uniform die roll in [1, DieSides]
func (e *GameEngine) RollDie() int {
	return e.rng.Intn(DieSides) + 1
}

// MovePlayer advances the active player by the given number of steps, clamped
// at the final tile. Excess pips are discarded, never bounced back. It returns
// the landing step; negative step counts are ignored.
func (e *GameEngine) MovePlayer(steps int) int {
	active := e.state.ActivePlayer()
	if active == nil {
		return 0
	}
	if steps < 0 {
		return active.Step
	}

	newStep := active.Step + steps
	if final := e.state.FinalStep(); newStep > final {
		newStep = final
	}
	active.Step = newStep
	return newStep
}

// CheckTile resolves the effect of the active player landing on a tile. The
// second return value is true when the landing step is the final tile, which
// takes priority over every other effect. Otherwise it returns a collision,
// lucky, or trap task event, or nil when the tile has no effect.
func (e *GameEngine) CheckTile(landingStep int) (*TaskEvent, bool) {
	active := e.state.ActivePlayer()
	opponent := e.state.Opponent()
	if active == nil || opponent == nil {
		return nil, false
	}

	if landingStep == e.state.FinalStep() {
		return nil, true
	}

	// The start tile is a safe shared origin: no collision at step 0
	if landingStep != 0 && landingStep == opponent.Step {
		theme := e.state.ThemeByID(active.ThemeID)
		return &TaskEvent{
			Type:              EventCollision,
			InitiatorPlayerID: active.ID,
			ExecutorPlayerID:  opponent.ID,
			Title:             e.config.Messages.CollisionTitle,
			Subtitle:          e.subtitle(e.config.Messages.CollisionSubtitle, theme),
			Icon:              "handshake",
			Color:             "text-yellow-400",
			Task:              e.drawTask(theme),
			TaskSourceID:      active.ThemeID,
		}, false
	}

	if landingStep < 0 || landingStep >= len(e.state.BoardMap) {
		return nil, false
	}

	switch e.state.BoardMap[landingStep] {
	case TileLucky:
		// Lucky draws from the mover's theme but the opponent is the
		// executor: the mover owns the card, the opponent bears a reject.
		theme := e.state.ThemeByID(active.ThemeID)
		return &TaskEvent{
			Type:              EventLucky,
			InitiatorPlayerID: active.ID,
			ExecutorPlayerID:  opponent.ID,
			Title:             e.config.Messages.LuckyTitle,
			Subtitle:          e.subtitle(e.config.Messages.LuckySubtitle, theme),
			Icon:              "favorite",
			Color:             "text-[#FF375F]",
			Task:              e.drawTask(theme),
			TaskSourceID:      active.ThemeID,
		}, false

	case TileTrap:
		// Stepping on a trap burdens the mover with a task from the
		// opponent's theme.
		theme := e.state.ThemeByID(opponent.ThemeID)
		return &TaskEvent{
			Type:              EventTrap,
			InitiatorPlayerID: active.ID,
			ExecutorPlayerID:  active.ID,
			Title:             e.config.Messages.TrapTitle,
			Subtitle:          e.subtitle(e.config.Messages.TrapSubtitle, theme),
			Icon:              "lock",
			Color:             "text-[#BF5AF2]",
			Task:              e.drawTask(theme),
			TaskSourceID:      opponent.ThemeID,
		}, false
	}

	return nil, false
}

// drawTask picks a uniform-random task from a theme. A nil or empty theme
// yields an empty task string rather than failing.
func (e *GameEngine) drawTask(theme *Theme) string {
	if theme == nil || len(theme.Tasks) == 0 {
		return ""
	}
	return theme.Tasks[e.rng.Intn(len(theme.Tasks))]
}

func (e *GameEngine) subtitle(format string, theme *Theme) string {
	name := ""
	if theme != nil {
		name = theme.Name
	}
	if format == "" {
		return name
	}
	return fmt.Sprintf(format, name)
}

// ResolveTask applies the outcome of a pending task card and ends the turn.
// Accept changes no positions. Reject sends the executor back: to step 0 for
// a collision, otherwise by a random 1-3 step penalty floored at 0.
func (e *GameEngine) ResolveTask(event *TaskEvent, outcome TaskOutcome) {
	if event != nil && outcome == OutcomeReject {
		executor := e.state.PlayerByID(event.ExecutorPlayerID)
		if executor != nil {
			if event.Type == EventCollision {
				executor.Step = 0
			} else {
				span := e.config.MaxRejectPenalty - e.config.MinRejectPenalty + 1
				penalty := e.config.MinRejectPenalty + e.rng.Intn(span)
				executor.Step -= penalty
				if executor.Step < 0 {
					executor.Step = 0
				}
			}
		}
	}

	e.EndTurn()
}

// EndTurn hands play to the other player and clears the rolling flag
func (e *GameEngine) EndTurn() {
	e.state.Turn = 1 - e.state.Turn
	e.state.IsRolling = false
}

// SetRolling flags whether a die-roll animation is in progress; the UI uses
// it to block new roll commands.
func (e *GameEngine) SetRolling(rolling bool) {
	e.state.IsRolling = rolling
}

// Winner returns the player standing on the final tile, or nil while the race
// is still on.
func (e *GameEngine) Winner() *Player {
	final := e.state.FinalStep()
	for i := range e.state.Players {
		if e.state.Players[i].Step == final {
			return &e.state.Players[i]
		}
	}
	return nil
}

// ResetGame returns to the home view with both players back at the start,
// theme selections cleared, and a freshly generated board and path. The theme
// catalog itself is preserved.
func (e *GameEngine) ResetGame() *GameState {
	themes := e.state.Themes

	e.state = newGameState(e.config, e.rng)
	e.state.Themes = themes

	return e.state
}
