package engine

import (
	"fmt"
	"strings"
)

// PlayerSetup describes one of the two fixed player identities in a config
type PlayerSetup struct {
	Name  string     `json:"name"`
	Color string     `json:"color"`
	Role  PlayerRole `json:"role"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	GridSize         int           `json:"grid_size"`
	PathLength       int           `json:"path_length"`
	LuckyTiles       int           `json:"lucky_tiles"`
	TrapTiles        int           `json:"trap_tiles"`
	MinRejectPenalty int           `json:"min_reject_penalty"`
	MaxRejectPenalty int           `json:"max_reject_penalty"`
	Players          []PlayerSetup `json:"players"`
	Messages         struct {
		CollisionTitle    string `json:"collision_title"`
		CollisionSubtitle string `json:"collision_subtitle"`
		LuckyTitle        string `json:"lucky_title"`
		LuckySubtitle     string `json:"lucky_subtitle"`
		TrapTitle         string `json:"trap_title"`
		TrapSubtitle      string `json:"trap_subtitle"`
	} `json:"messages"`
}

// FinalStep returns the index of the last tile for this configuration
func (c *GameConfig) FinalStep() int {
	return c.PathLength - 1
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate board geometry
	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("config validation: grid_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridSize)
	}
	if config.PathLength < MinPathLength {
		return fmt.Errorf("config validation: path_length must be at least %d, got %d", MinPathLength, config.PathLength)
	}
	if config.PathLength > config.GridSize*config.GridSize {
		return fmt.Errorf("config validation: path_length %d does not fit a %dx%d spiral (max %d)",
			config.PathLength, config.GridSize, config.GridSize, config.GridSize*config.GridSize)
	}

	// Validate hazard placement: start and finish stay blank
	if config.LuckyTiles < 0 || config.TrapTiles < 0 {
		return fmt.Errorf("config validation: lucky_tiles and trap_tiles must be non-negative")
	}
	interior := config.PathLength - 2
	if config.LuckyTiles+config.TrapTiles > interior {
		return fmt.Errorf("config validation: %d hazard tiles do not fit the %d interior tiles",
			config.LuckyTiles+config.TrapTiles, interior)
	}

	// Validate reject penalty range
	if config.MinRejectPenalty < 1 {
		return fmt.Errorf("config validation: min_reject_penalty must be at least 1, got %d", config.MinRejectPenalty)
	}
	if config.MaxRejectPenalty < config.MinRejectPenalty {
		return fmt.Errorf("config validation: max_reject_penalty must be >= min_reject_penalty (%d), got %d",
			config.MinRejectPenalty, config.MaxRejectPenalty)
	}

	// Validate players: exactly two, one male and one female
	if len(config.Players) != PlayerCount {
		return fmt.Errorf("config validation: exactly %d players required, got %d", PlayerCount, len(config.Players))
	}
	roles := map[PlayerRole]int{}
	for i, p := range config.Players {
		if p.Name == "" {
			return fmt.Errorf("config validation: players[%d].name is required", i)
		}
		if p.Role != RoleMale && p.Role != RoleFemale {
			return fmt.Errorf("config validation: players[%d].role must be %q or %q, got %q", i, RoleMale, RoleFemale, p.Role)
		}
		roles[p.Role]++
	}
	if roles[RoleMale] != 1 || roles[RoleFemale] != 1 {
		return fmt.Errorf("config validation: players must be one %s and one %s", RoleMale, RoleFemale)
	}

	// Validate messages
	if config.Messages.CollisionTitle == "" {
		return fmt.Errorf("config validation: messages.collision_title is required")
	}
	if config.Messages.LuckyTitle == "" {
		return fmt.Errorf("config validation: messages.lucky_title is required")
	}
	if config.Messages.TrapTitle == "" {
		return fmt.Errorf("config validation: messages.trap_title is required")
	}

	// Validate format strings: subtitles embed the source theme name
	for key, subtitle := range map[string]string{
		"collision_subtitle": config.Messages.CollisionSubtitle,
		"lucky_subtitle":     config.Messages.LuckySubtitle,
		"trap_subtitle":      config.Messages.TrapSubtitle,
	} {
		if subtitle != "" && !strings.Contains(subtitle, "%s") {
			return fmt.Errorf("config validation: messages.%s must contain %%s for the theme name", key)
		}
	}

	return nil
}

// DefaultGameConfig returns the built-in classic board: a 7x7 spiral of 49
// tiles with six lucky and six trap tiles and a 1-3 step reject penalty.
func DefaultGameConfig() *GameConfig {
	cfg := &GameConfig{
		Name:             "Classic",
		Description:      "The classic 49-tile spiral race",
		GridSize:         7,
		PathLength:       49,
		LuckyTiles:       6,
		TrapTiles:        6,
		MinRejectPenalty: 1,
		MaxRejectPenalty: 3,
		Players: []PlayerSetup{
			{Name: "Blue", Color: "#0A84FF", Role: RoleMale},
			{Name: "Rose", Color: "#FF375F", Role: RoleFemale},
		},
	}
	cfg.Messages.CollisionTitle = "Close Encounter"
	cfg.Messages.CollisionSubtitle = "Task from \"%s\""
	cfg.Messages.LuckyTitle = "Lucky Moment"
	cfg.Messages.LuckySubtitle = "Task from \"%s\""
	cfg.Messages.TrapTitle = "Hidden Trap"
	cfg.Messages.TrapSubtitle = "Task from \"%s\""
	return cfg
}
