package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// NormalizeSnapshot reconstructs a well-formed GameState from a persisted
// blob of unknown provenance. Unparseable JSON yields a fresh default state;
// anything else is repaired field by field, never rejected.
func NormalizeSnapshot(data []byte, config *GameConfig, rng *rand.Rand) *GameState {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return newGameState(config, rng)
	}
	return NormalizeState(raw, config, rng)
}

// NormalizeState repairs an arbitrary decoded value into a valid GameState.
// Each field is decoded independently with an explicit fallback; normalizing
// an already-valid state is idempotent.
func NormalizeState(raw interface{}, config *GameConfig, rng *rand.Rand) *GameState {
	record, ok := raw.(map[string]interface{})
	if !ok {
		return newGameState(config, rng)
	}

	themes := normalizeThemes(record["themes"])
	players := normalizePlayers(record["players"], config)

	// A selected theme must exist and its audience must permit the
	// player's role; violated references are cleared.
	for i := range players {
		if players[i].ThemeID == "" {
			continue
		}
		theme := findTheme(themes, players[i].ThemeID)
		if theme == nil || !theme.AllowsRole(players[i].Role) {
			players[i].ThemeID = ""
		}
	}

	board, path := normalizeBoard(record["board_map"], record["path_coords"], config, rng)

	// Steps stay inside the (possibly regenerated) path
	final := len(board) - 1
	for i := range players {
		if players[i].Step < 0 {
			players[i].Step = 0
		}
		if players[i].Step > final {
			players[i].Step = final
		}
	}

	rolling, _ := record["is_rolling"].(bool)

	return &GameState{
		View:       normalizeView(record["view"]),
		Turn:       normalizeTurn(record["turn"]),
		Players:    players,
		Themes:     themes,
		BoardMap:   board,
		PathCoords: path,
		IsRolling:  rolling,
	}
}

// newGameState builds the default fresh state for a configuration
func newGameState(config *GameConfig, rng *rand.Rand) *GameState {
	return &GameState{
		View:       ViewHome,
		Turn:       0,
		Players:    initialPlayers(config),
		Themes:     DefaultThemes(),
		BoardMap:   GenerateBoardMap(config, rng),
		PathCoords: GenerateSpiralPath(config),
		IsRolling:  false,
	}
}

func normalizeView(value interface{}) View {
	switch View(asString(value)) {
	case ViewHome:
		return ViewHome
	case ViewGame:
		return ViewGame
	case ViewThemes:
		return ViewThemes
	}
	return ViewHome
}

func normalizeTurn(value interface{}) int {
	if turn, ok := asInt(value); ok && (turn == 0 || turn == 1) {
		return turn
	}
	return 0
}

// normalizePlayers rebuilds the two fixed player identities, taking only
// step and theme selection from the stored records. Identity fields (id,
// name, color, role) always come from the configuration: ids and roles are
// never reassigned.
func normalizePlayers(value interface{}, config *GameConfig) []Player {
	incoming, _ := value.([]interface{})

	players := initialPlayers(config)
	for i := range players {
		record := findPlayerRecord(incoming, players[i].ID)
		if record == nil {
			continue
		}
		if step, ok := asInt(record["step"]); ok {
			players[i].Step = step
		}
		if themeID, ok := record["theme_id"].(string); ok {
			players[i].ThemeID = themeID
		}
	}
	return players
}

func findPlayerRecord(incoming []interface{}, id int) map[string]interface{} {
	for _, entry := range incoming {
		record, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if recordID, ok := asInt(record["id"]); ok && recordID == id {
			return record
		}
	}
	return nil
}

// normalizeThemes repairs the theme catalog. A missing or empty catalog falls
// back to the seeded defaults; each entry is repaired field by field and
// duplicate ids are dropped, first occurrence wins.
func normalizeThemes(value interface{}) []Theme {
	incoming, _ := value.([]interface{})
	if len(incoming) == 0 {
		return DefaultThemes()
	}

	seen := make(map[string]bool, len(incoming))
	themes := make([]Theme, 0, len(incoming))
	for _, entry := range incoming {
		record, _ := entry.(map[string]interface{})

		theme := Theme{
			ID:       asString(record["id"]),
			Name:     asString(record["name"]),
			Desc:     asString(record["desc"]),
			Audience: normalizeAudience(record["audience"]),
			Tasks:    normalizeTasks(record["tasks"]),
		}
		if theme.ID == "" {
			theme.ID = fmt.Sprintf("user_%s", uuid.NewString())
		}
		if theme.Name == "" {
			theme.Name = "Untitled Theme"
		}

		if seen[theme.ID] {
			continue
		}
		seen[theme.ID] = true
		themes = append(themes, theme)
	}
	return themes
}

func normalizeAudience(value interface{}) Audience {
	switch Audience(asString(value)) {
	case AudienceCommon:
		return AudienceCommon
	case AudienceMale:
		return AudienceMale
	case AudienceFemale:
		return AudienceFemale
	}
	return AudienceCommon
}

// normalizeTasks keeps only string entries that are non-empty after trimming,
// deduplicated first-seen-wins.
func normalizeTasks(value interface{}) []string {
	incoming, _ := value.([]interface{})

	seen := make(map[string]bool, len(incoming))
	tasks := make([]string, 0, len(incoming))
	for _, entry := range incoming {
		text, ok := entry.(string)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		tasks = append(tasks, trimmed)
	}
	return tasks
}

// normalizeBoard keeps a persisted board and path only when both decode to
// valid values of the configured length; otherwise both are regenerated
// together so the length invariant holds.
func normalizeBoard(boardValue, pathValue interface{}, config *GameConfig, rng *rand.Rand) ([]TileType, []PathCoord) {
	board, boardOK := decodeBoard(boardValue, config.PathLength)
	path, pathOK := decodePath(pathValue, config.PathLength)
	if boardOK && pathOK {
		return board, path
	}
	return GenerateBoardMap(config, rng), GenerateSpiralPath(config)
}

func decodeBoard(value interface{}, length int) ([]TileType, bool) {
	incoming, ok := value.([]interface{})
	if !ok || len(incoming) != length {
		return nil, false
	}

	board := make([]TileType, 0, length)
	for _, entry := range incoming {
		switch TileType(asString(entry)) {
		case TileBlank:
			board = append(board, TileBlank)
		case TileLucky:
			board = append(board, TileLucky)
		case TileTrap:
			board = append(board, TileTrap)
		default:
			return nil, false
		}
	}
	return board, true
}

func decodePath(value interface{}, length int) ([]PathCoord, bool) {
	incoming, ok := value.([]interface{})
	if !ok || len(incoming) != length {
		return nil, false
	}

	path := make([]PathCoord, 0, length)
	for _, entry := range incoming {
		record, ok := entry.(map[string]interface{})
		if !ok {
			return nil, false
		}
		row, rowOK := asInt(record["row"])
		col, colOK := asInt(record["col"])
		if !rowOK || !colOK {
			return nil, false
		}
		path = append(path, PathCoord{Row: row, Col: col})
	}
	return path, true
}

func findTheme(themes []Theme, id string) *Theme {
	for i := range themes {
		if themes[i].ID == id {
			return &themes[i]
		}
	}
	return nil
}

func asString(value interface{}) string {
	s, _ := value.(string)
	return s
}

// asInt accepts the float64 that encoding/json produces for numbers
func asInt(value interface{}) (int, bool) {
	switch n := value.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
