package engine

// TileType classifies a board position and determines the effect of landing on it
type TileType string

const (
	TileBlank TileType = "blank"
	TileLucky TileType = "lucky"
	TileTrap  TileType = "trap"
)

// PlayerRole is fixed at player creation and never reassigned
type PlayerRole string

const (
	RoleMale   PlayerRole = "male"
	RoleFemale PlayerRole = "female"
)

// Audience restricts which player role may select a theme
type Audience string

const (
	AudienceCommon Audience = "common"
	AudienceMale   Audience = "male"
	AudienceFemale Audience = "female"
)

// View identifies the screen the UI should be showing
type View string

const (
	ViewHome   View = "home"
	ViewGame   View = "game"
	ViewThemes View = "themes"
)

// TaskEventType identifies what triggered a task card
type TaskEventType string

const (
	EventCollision TaskEventType = "collision"
	EventLucky     TaskEventType = "lucky"
	EventTrap      TaskEventType = "trap"
)

// TaskOutcome is the player's response to a pending task card
type TaskOutcome string

const (
	OutcomeAccept TaskOutcome = "accept"
	OutcomeReject TaskOutcome = "reject"
)

// ImportMode controls how imported tasks merge with a theme's existing tasks
type ImportMode string

const (
	ImportAppend  ImportMode = "append"
	ImportReplace ImportMode = "replace"
)

const (
	// Validation constants
	MinGridSize         = 3
	MaxGridSize         = 50
	MinPathLength       = 9
	PlayerCount         = 2
	DieSides            = 6
	WebSocketBufferSize = 256
)

// Player represents one of the two fixed participants. ThemeID is empty
// until the player picks a task theme.
type Player struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Color   string     `json:"color"`
	Role    PlayerRole `json:"role"`
	Step    int        `json:"step"`
	ThemeID string     `json:"theme_id,omitempty"`
}

// Theme is a named, audience-scoped collection of task strings
type Theme struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Desc     string   `json:"desc"`
	Audience Audience `json:"audience"`
	Tasks    []string `json:"tasks"`
}

// AllowsRole reports whether a player with the given role may select this theme
func (t Theme) AllowsRole(role PlayerRole) bool {
	return t.Audience == AudienceCommon || string(t.Audience) == string(role)
}

// PathCoord is the grid position of one tile in the spiral layout
type PathCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// TaskEvent is a triggered, pending task card awaiting accept or reject
type TaskEvent struct {
	Type              TaskEventType `json:"type"`
	InitiatorPlayerID int           `json:"initiator_player_id"`
	ExecutorPlayerID  int           `json:"executor_player_id"`
	Title             string        `json:"title"`
	Subtitle          string        `json:"subtitle"`
	Icon              string        `json:"icon,omitempty"`
	Color             string        `json:"color,omitempty"`
	Task              string        `json:"task"`
	TaskSourceID      string        `json:"task_source_id,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	View       View        `json:"view"`
	Turn       int         `json:"turn"`
	Players    []Player    `json:"players"`
	Themes     []Theme     `json:"themes"`
	BoardMap   []TileType  `json:"board_map"`
	PathCoords []PathCoord `json:"path_coords"`
	IsRolling  bool        `json:"is_rolling"`
}

// FinalStep returns the index of the last tile on the path
func (gs *GameState) FinalStep() int {
	return len(gs.BoardMap) - 1
}

// ActivePlayer returns the player whose turn it is
func (gs *GameState) ActivePlayer() *Player {
	if gs.Turn < 0 || gs.Turn >= len(gs.Players) {
		return nil
	}
	return &gs.Players[gs.Turn]
}

// Opponent returns the player who is not currently moving
func (gs *GameState) Opponent() *Player {
	other := 1 - gs.Turn
	if other < 0 || other >= len(gs.Players) {
		return nil
	}
	return &gs.Players[other]
}

// PlayerByID returns the player with the given id, or nil
func (gs *GameState) PlayerByID(id int) *Player {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			return &gs.Players[i]
		}
	}
	return nil
}

// ThemeByID returns the theme with the given id, or nil
func (gs *GameState) ThemeByID(id string) *Theme {
	for i := range gs.Themes {
		if gs.Themes[i].ID == id {
			return &gs.Themes[i]
		}
	}
	return nil
}
