package engine

import (
	"encoding/json"
	"math/rand"
	"reflect"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestNormalizeSnapshotGarbage(t *testing.T) {
	config := DefaultGameConfig()

	for _, blob := range [][]byte{
		nil,
		[]byte(""),
		[]byte("not json at all"),
		[]byte(`"just a string"`),
		[]byte(`42`),
		[]byte(`[1,2,3]`),
		[]byte(`null`),
	} {
		state := NormalizeSnapshot(blob, config, testRand())
		if state == nil {
			t.Fatalf("Normalize must never return nil (input %q)", blob)
		}
		if state.View != ViewHome {
			t.Errorf("Input %q: expected home view, got %s", blob, state.View)
		}
		if len(state.Players) != PlayerCount {
			t.Errorf("Input %q: expected %d players, got %d", blob, PlayerCount, len(state.Players))
		}
		if len(state.BoardMap) != config.PathLength || len(state.PathCoords) != config.PathLength {
			t.Errorf("Input %q: board/path length invariant broken: %d/%d",
				blob, len(state.BoardMap), len(state.PathCoords))
		}
		if len(state.Themes) == 0 {
			t.Errorf("Input %q: expected seeded default themes", blob)
		}
	}
}

func TestNormalizeSnapshotPartialFields(t *testing.T) {
	config := DefaultGameConfig()

	blob := []byte(`{
		"view": "game",
		"turn": 1,
		"players": [
			{"id": 0, "step": 12, "theme_id": "default_common", "extra": true},
			{"id": 1, "step": "not a number", "theme_id": 7}
		],
		"board_map": "wrong shape",
		"unknown_field": {"nested": []}
	}`)

	state := NormalizeSnapshot(blob, config, testRand())

	if state.View != ViewGame {
		t.Errorf("Expected view game, got %s", state.View)
	}
	if state.Turn != 1 {
		t.Errorf("Expected turn 1, got %d", state.Turn)
	}
	if state.Players[0].Step != 12 {
		t.Errorf("Expected step 12, got %d", state.Players[0].Step)
	}
	if state.Players[0].ThemeID != "default_common" {
		t.Errorf("Expected kept theme reference, got %q", state.Players[0].ThemeID)
	}
	if state.Players[1].Step != 0 {
		t.Errorf("Expected repaired step 0, got %d", state.Players[1].Step)
	}
	if state.Players[1].ThemeID != "" {
		t.Errorf("Expected cleared theme reference, got %q", state.Players[1].ThemeID)
	}
	if len(state.BoardMap) != config.PathLength {
		t.Errorf("Expected regenerated board, got length %d", len(state.BoardMap))
	}
}

func TestNormalizePlayerIdentityFixed(t *testing.T) {
	config := DefaultGameConfig()

	// A tampered snapshot cannot rename players, recolor them, or swap roles
	blob := []byte(`{
		"players": [
			{"id": 0, "name": "Hacker", "color": "#000000", "role": "female", "step": 3},
			{"id": 1, "role": "male"}
		]
	}`)

	state := NormalizeSnapshot(blob, config, testRand())

	if state.Players[0].Name != config.Players[0].Name {
		t.Errorf("Expected configured name, got %q", state.Players[0].Name)
	}
	if state.Players[0].Role != RoleMale || state.Players[1].Role != RoleFemale {
		t.Errorf("Roles must stay fixed, got %s/%s", state.Players[0].Role, state.Players[1].Role)
	}
	if state.Players[0].Step != 3 {
		t.Errorf("Step should survive, got %d", state.Players[0].Step)
	}
}

func TestNormalizeStepClamped(t *testing.T) {
	config := DefaultGameConfig()

	blob := []byte(`{"players": [{"id": 0, "step": 9999}, {"id": 1, "step": -5}]}`)
	state := NormalizeSnapshot(blob, config, testRand())

	if state.Players[0].Step != state.FinalStep() {
		t.Errorf("Expected clamp to final step %d, got %d", state.FinalStep(), state.Players[0].Step)
	}
	if state.Players[1].Step != 0 {
		t.Errorf("Expected clamp to 0, got %d", state.Players[1].Step)
	}
}

func TestNormalizeThemesDuplicateIDs(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"id": "a", "name": "First", "audience": "common", "tasks": []interface{}{"x"}},
		map[string]interface{}{"id": "a", "name": "Second", "audience": "common", "tasks": []interface{}{"y"}},
	}

	themes := normalizeThemes(raw)
	if len(themes) != 1 {
		t.Fatalf("Expected one theme after dedup, got %d", len(themes))
	}
	if themes[0].Name != "First" {
		t.Errorf("Expected first occurrence to win, got %q", themes[0].Name)
	}
}

func TestNormalizeThemesFieldRepair(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{
			"name":     42,
			"audience": "everyone",
			"tasks":    []interface{}{"  keep  ", "", 7, "keep", "also"},
		},
	}

	themes := normalizeThemes(raw)
	if len(themes) != 1 {
		t.Fatalf("Expected one theme, got %d", len(themes))
	}

	theme := themes[0]
	if theme.ID == "" {
		t.Error("Expected generated fallback id")
	}
	if theme.Name != "Untitled Theme" {
		t.Errorf("Expected fallback name, got %q", theme.Name)
	}
	if theme.Audience != AudienceCommon {
		t.Errorf("Expected fallback audience common, got %s", theme.Audience)
	}
	if !reflect.DeepEqual(theme.Tasks, []string{"keep", "also"}) {
		t.Errorf("Expected trimmed deduped tasks, got %v", theme.Tasks)
	}
}

func TestNormalizeThemesMissingFallsBackToDefaults(t *testing.T) {
	themes := normalizeThemes(nil)

	defaults := DefaultThemes()
	if len(themes) != len(defaults) {
		t.Fatalf("Expected %d default themes, got %d", len(defaults), len(themes))
	}
	for i := range themes {
		if themes[i].ID != defaults[i].ID {
			t.Errorf("Expected default theme %q, got %q", defaults[i].ID, themes[i].ID)
		}
	}
}

func TestNormalizeClearsAudienceViolations(t *testing.T) {
	config := DefaultGameConfig()

	// Player 0 is male; a female-only theme reference must be cleared
	blob := []byte(`{
		"players": [{"id": 0, "theme_id": "default_female"}, {"id": 1, "theme_id": "default_female"}],
		"themes": [
			{"id": "default_female", "name": "For Her", "audience": "female", "tasks": ["t"]}
		]
	}`)

	state := NormalizeSnapshot(blob, config, testRand())

	if state.Players[0].ThemeID != "" {
		t.Errorf("Expected male player's female theme cleared, got %q", state.Players[0].ThemeID)
	}
	if state.Players[1].ThemeID != "default_female" {
		t.Errorf("Expected female player's theme kept, got %q", state.Players[1].ThemeID)
	}
}

func TestNormalizeBoardRegeneratedTogether(t *testing.T) {
	config := DefaultGameConfig()

	// Valid board, truncated path: both must be regenerated to keep the
	// length invariant.
	board := make([]interface{}, config.PathLength)
	for i := range board {
		board[i] = "blank"
	}
	raw := map[string]interface{}{
		"board_map":   board,
		"path_coords": []interface{}{map[string]interface{}{"row": 0.0, "col": 0.0}},
	}

	state := NormalizeState(raw, config, testRand())

	if len(state.BoardMap) != config.PathLength || len(state.PathCoords) != config.PathLength {
		t.Fatalf("Length invariant broken: %d/%d", len(state.BoardMap), len(state.PathCoords))
	}
	if CountTileType(state.BoardMap, TileLucky) != config.LuckyTiles {
		t.Error("Expected regenerated board with configured lucky count")
	}
}

func TestNormalizeRoundTripIdempotent(t *testing.T) {
	config := DefaultGameConfig()
	engine, err := NewEngineWithRand(config, testRand())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Exercise a realistic mid-game state
	engine.SelectTheme(0, "default_common")
	engine.SelectTheme(1, "default_female")
	engine.StartGame()
	engine.MovePlayer(7)

	original := engine.GetState()
	blob, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	normalized := NormalizeSnapshot(blob, config, testRand())
	if !reflect.DeepEqual(original, normalized) {
		t.Errorf("Normalizing a valid state must be idempotent.\n got: %+v\nwant: %+v", normalized, original)
	}

	// And a second pass stays stable too
	blob2, _ := json.Marshal(normalized)
	second := NormalizeSnapshot(blob2, config, testRand())
	if !reflect.DeepEqual(normalized, second) {
		t.Error("Second normalization pass changed the state")
	}
}
