package engine

import (
	"strings"
	"testing"
)

func TestDefaultGameConfigIsValid(t *testing.T) {
	config := DefaultGameConfig()
	if err := ValidateGameConfig(config); err != nil {
		t.Fatalf("Default config should validate, got: %v", err)
	}
	if config.FinalStep() != 48 {
		t.Errorf("Expected final step 48, got %d", config.FinalStep())
	}
}

func TestValidateGameConfigRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GameConfig)
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(c *GameConfig) { c.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			mutate:  func(c *GameConfig) { c.Description = "" },
			wantErr: "description is required",
		},
		{
			name:    "grid too small",
			mutate:  func(c *GameConfig) { c.GridSize = 2 },
			wantErr: "grid_size",
		},
		{
			name:    "grid too large",
			mutate:  func(c *GameConfig) { c.GridSize = 51 },
			wantErr: "grid_size",
		},
		{
			name:    "path too short",
			mutate:  func(c *GameConfig) { c.PathLength = 5 },
			wantErr: "path_length",
		},
		{
			name:    "path exceeds grid",
			mutate:  func(c *GameConfig) { c.PathLength = 50 },
			wantErr: "does not fit",
		},
		{
			name:    "negative hazards",
			mutate:  func(c *GameConfig) { c.LuckyTiles = -1 },
			wantErr: "non-negative",
		},
		{
			name: "hazards overflow interior",
			mutate: func(c *GameConfig) {
				c.LuckyTiles = 30
				c.TrapTiles = 30
			},
			wantErr: "interior",
		},
		{
			name:    "zero min penalty",
			mutate:  func(c *GameConfig) { c.MinRejectPenalty = 0 },
			wantErr: "min_reject_penalty",
		},
		{
			name: "inverted penalty range",
			mutate: func(c *GameConfig) {
				c.MinRejectPenalty = 3
				c.MaxRejectPenalty = 1
			},
			wantErr: "max_reject_penalty",
		},
		{
			name:    "one player",
			mutate:  func(c *GameConfig) { c.Players = c.Players[:1] },
			wantErr: "players required",
		},
		{
			name:    "unnamed player",
			mutate:  func(c *GameConfig) { c.Players[0].Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "invalid role",
			mutate:  func(c *GameConfig) { c.Players[0].Role = "robot" },
			wantErr: "role",
		},
		{
			name: "two male players",
			mutate: func(c *GameConfig) {
				c.Players[1].Role = RoleMale
			},
			wantErr: "one male and one female",
		},
		{
			name:    "missing collision title",
			mutate:  func(c *GameConfig) { c.Messages.CollisionTitle = "" },
			wantErr: "collision_title",
		},
		{
			name:    "missing lucky title",
			mutate:  func(c *GameConfig) { c.Messages.LuckyTitle = "" },
			wantErr: "lucky_title",
		},
		{
			name:    "missing trap title",
			mutate:  func(c *GameConfig) { c.Messages.TrapTitle = "" },
			wantErr: "trap_title",
		},
		{
			name:    "subtitle without placeholder",
			mutate:  func(c *GameConfig) { c.Messages.LuckySubtitle = "A task awaits" },
			wantErr: "%s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultGameConfig()
			tt.mutate(config)

			err := ValidateGameConfig(config)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateGameConfigNil(t *testing.T) {
	if err := ValidateGameConfig(nil); err == nil {
		t.Fatal("Expected error for nil config")
	}
}

func TestValidateGameConfigEmptySubtitlesAllowed(t *testing.T) {
	config := DefaultGameConfig()
	config.Messages.CollisionSubtitle = ""
	config.Messages.LuckySubtitle = ""
	config.Messages.TrapSubtitle = ""

	if err := ValidateGameConfig(config); err != nil {
		t.Errorf("Empty subtitles should be allowed, got: %v", err)
	}
}
