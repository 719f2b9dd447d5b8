package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ThemeMetaPatch is a partial update of a theme's metadata. Nil fields are
// left unchanged.
type ThemeMetaPatch struct {
	Name     *string   `json:"name,omitempty"`
	Desc     *string   `json:"desc,omitempty"`
	Audience *Audience `json:"audience,omitempty"`
}

// newThemeID allocates a theme id that does not collide with any existing one
func (e *GameEngine) newThemeID() string {
	id := fmt.Sprintf("user_%s", uuid.NewString())
	for e.state.ThemeByID(id) != nil {
		id = fmt.Sprintf("user_%s", uuid.NewString())
	}
	return id
}

// CreateTheme appends a new empty theme and returns its id. A name that trims
// to empty rejects the creation.
func (e *GameEngine) CreateTheme(name, desc string, audience Audience) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	switch audience {
	case AudienceCommon, AudienceMale, AudienceFemale:
	default:
		audience = AudienceCommon
	}

	id := e.newThemeID()
	e.state.Themes = append(e.state.Themes, Theme{
		ID:       id,
		Name:     name,
		Desc:     strings.TrimSpace(desc),
		Audience: audience,
		Tasks:    []string{},
	})
	return id, true
}

// UpdateThemeMeta partially updates a theme's name, description, and audience.
// A name patch that trims to empty falls back to the prior name.
func (e *GameEngine) UpdateThemeMeta(themeID string, patch ThemeMetaPatch) bool {
	theme := e.state.ThemeByID(themeID)
	if theme == nil {
		return false
	}

	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			theme.Name = name
		}
	}
	if patch.Desc != nil {
		theme.Desc = strings.TrimSpace(*patch.Desc)
	}
	if patch.Audience != nil {
		switch *patch.Audience {
		case AudienceCommon, AudienceMale, AudienceFemale:
			theme.Audience = *patch.Audience
		}
	}
	return true
}

// AddTask appends a task to a theme. Whitespace-only text and exact
// duplicates (after trimming, case-sensitive) are rejected.
func (e *GameEngine) AddTask(themeID, text string) bool {
	theme := e.state.ThemeByID(themeID)
	if theme == nil {
		return false
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	for _, existing := range theme.Tasks {
		if existing == trimmed {
			return false
		}
	}

	theme.Tasks = append(theme.Tasks, trimmed)
	return true
}

// RemoveTask removes a task by position. Out-of-bounds indices are ignored.
func (e *GameEngine) RemoveTask(themeID string, index int) bool {
	theme := e.state.ThemeByID(themeID)
	if theme == nil {
		return false
	}
	if index < 0 || index >= len(theme.Tasks) {
		return false
	}

	theme.Tasks = append(theme.Tasks[:index], theme.Tasks[index+1:]...)
	return true
}

// ImportTasks merges a batch of tasks into a theme. Append mode keeps the
// existing list and adds the cleaned newcomers after it; replace mode keeps
// only the cleaned incoming list. Entries are trimmed, empties dropped, and
// duplicates removed first-seen-wins across the whole merged list. An
// incoming batch that cleans down to nothing is a no-op.
func (e *GameEngine) ImportTasks(themeID string, tasks []string, mode ImportMode) bool {
	theme := e.state.ThemeByID(themeID)
	if theme == nil {
		return false
	}

	cleaned := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if trimmed := strings.TrimSpace(task); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return false
	}

	base := theme.Tasks
	if mode == ImportReplace {
		base = nil
	}

	seen := make(map[string]bool, len(base)+len(cleaned))
	merged := make([]string, 0, len(base)+len(cleaned))
	for _, task := range append(append([]string{}, base...), cleaned...) {
		if seen[task] {
			continue
		}
		seen[task] = true
		merged = append(merged, task)
	}

	theme.Tasks = merged
	return true
}
