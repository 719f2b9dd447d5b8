package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrissdom/couples-ludo/game/engine"
	"github.com/chrissdom/couples-ludo/game/service"
)

// fakeConfigManager serves a single named config from memory
type fakeConfigManager struct {
	config *engine.GameConfig
}

func newFakeConfigManager() *fakeConfigManager {
	return &fakeConfigManager{config: engine.DefaultGameConfig()}
}

func (f *fakeConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	if name != "classic" && name != f.config.Name {
		return nil, errors.New("configuration not found")
	}
	return f.config, nil
}

func (f *fakeConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	return []*service.ConfigInfo{
		{
			Filename:    "classic.json",
			ConfigID:    "classic",
			Name:        f.config.Name,
			Description: f.config.Description,
			GridSize:    f.config.GridSize,
			PathLength:  f.config.PathLength,
		},
	}, nil
}

func (f *fakeConfigManager) GetDefault() *engine.GameConfig {
	return f.config
}

func (f *fakeConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	f.config = config
	return nil
}

func newTestPersistence(t *testing.T) (*FilePersistence, string) {
	t.Helper()
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir, newFakeConfigManager())
	if err != nil {
		t.Fatalf("NewFilePersistence() error = %v", err)
	}
	return fp, dir
}

func newTestSession(t *testing.T, id string) *service.Session {
	t.Helper()
	config := engine.DefaultGameConfig()
	eng, err := engine.NewEngine(config)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
}

func TestFilePersistence_SaveLoadRoundTrip(t *testing.T) {
	fp, dir := newTestPersistence(t)

	sess := newTestSession(t, "ab12")
	sess.Engine.SelectTheme(0, "default_common")
	sess.Engine.SelectTheme(1, "default_common")
	sess.Engine.StartGame()
	sess.Engine.MovePlayer(5)

	if err := fp.Save(sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ab12.json")); err != nil {
		t.Fatalf("Expected session file on disk: %v", err)
	}

	loaded, err := fp.Load("ab12")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	original := sess.Engine.GetState()
	restored := loaded.Engine.GetState()

	if restored.View != original.View {
		t.Errorf("Expected view %s, got %s", original.View, restored.View)
	}
	if restored.Turn != original.Turn {
		t.Errorf("Expected turn %d, got %d", original.Turn, restored.Turn)
	}
	for i := range original.Players {
		if restored.Players[i].Step != original.Players[i].Step {
			t.Errorf("Player %d: expected step %d, got %d",
				i, original.Players[i].Step, restored.Players[i].Step)
		}
		if restored.Players[i].ThemeID != original.Players[i].ThemeID {
			t.Errorf("Player %d: expected theme %q, got %q",
				i, original.Players[i].ThemeID, restored.Players[i].ThemeID)
		}
	}
	if len(restored.BoardMap) != len(original.BoardMap) {
		t.Fatalf("Expected board length %d, got %d", len(original.BoardMap), len(restored.BoardMap))
	}
	for i := range original.BoardMap {
		if restored.BoardMap[i] != original.BoardMap[i] {
			t.Fatalf("Board differs at tile %d", i)
		}
	}
}

func TestFilePersistence_PendingEventSurvives(t *testing.T) {
	fp, _ := newTestPersistence(t)

	sess := newTestSession(t, "cd34")
	sess.PendingEvent = &engine.TaskEvent{
		Type:              engine.EventLucky,
		InitiatorPlayerID: 0,
		ExecutorPlayerID:  1,
		Title:             "Lucky Moment",
		Task:              "Share a favorite memory",
		TaskSourceID:      "default_common",
	}

	if err := fp.Save(sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := fp.Load("cd34")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.PendingEvent == nil {
		t.Fatal("Expected pending event to survive the round trip")
	}
	if loaded.PendingEvent.Task != "Share a favorite memory" {
		t.Errorf("Unexpected task: %q", loaded.PendingEvent.Task)
	}
	if loaded.PendingEvent.ExecutorPlayerID != 1 {
		t.Errorf("Unexpected executor: %d", loaded.PendingEvent.ExecutorPlayerID)
	}
}

func TestFilePersistence_TamperedStateIsRepaired(t *testing.T) {
	fp, dir := newTestPersistence(t)

	// A session file with a mangled game state still loads as a playable game
	tampered := []byte(`{
		"id": "ef56",
		"config_name": "classic",
		"created_at": "2026-01-02T10:00:00Z",
		"last_accessed_at": "2026-01-02T10:05:00Z",
		"game_state": {
			"view": "game",
			"turn": 7,
			"players": [{"id": 0, "step": 100000}],
			"board_map": ["lucky", "what even is this"],
			"themes": "nope"
		}
	}`)
	if err := os.WriteFile(filepath.Join(dir, "ef56.json"), tampered, 0644); err != nil {
		t.Fatalf("Failed to write tampered file: %v", err)
	}

	loaded, err := fp.Load("ef56")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	state := loaded.Engine.GetState()
	config := loaded.Config
	if state.Turn != 0 {
		t.Errorf("Expected repaired turn 0, got %d", state.Turn)
	}
	if len(state.BoardMap) != config.PathLength {
		t.Errorf("Expected regenerated board of %d tiles, got %d", config.PathLength, len(state.BoardMap))
	}
	if state.Players[0].Step != config.FinalStep() {
		t.Errorf("Expected step clamped to %d, got %d", config.FinalStep(), state.Players[0].Step)
	}
	if len(state.Themes) == 0 {
		t.Error("Expected default themes after repair")
	}
}

func TestFilePersistence_LoadUnknownConfigFails(t *testing.T) {
	fp, dir := newTestPersistence(t)

	orphan := []byte(`{"id": "zz99", "config_name": "deleted_config", "game_state": {}}`)
	if err := os.WriteFile(filepath.Join(dir, "zz99.json"), orphan, 0644); err != nil {
		t.Fatalf("Failed to write session file: %v", err)
	}

	if _, err := fp.Load("zz99"); err == nil {
		t.Error("Expected error when the session's config no longer exists")
	}
}

func TestFilePersistence_DeleteAndListAll(t *testing.T) {
	fp, _ := newTestPersistence(t)

	for _, id := range []string{"one1", "two2", "tre3"} {
		if err := fp.Save(newTestSession(t, id)); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("Expected 3 persisted sessions, got %d", len(ids))
	}

	if err := fp.Delete("two2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if fp.Exists("two2") {
		t.Error("Expected session file to be removed")
	}
	if err := fp.Delete("two2"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_PersistenceIntegration(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir, newFakeConfigManager())
	if err != nil {
		t.Fatalf("NewFilePersistence() error = %v", err)
	}

	manager := NewManagerWithPersistence(fp)
	sess, err := manager.Create("ld01", engine.DefaultGameConfig())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	sess.Engine.MovePlayer(3)
	if err := manager.Save("ld01"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A fresh manager backed by the same directory sees the session
	restored := NewManagerWithPersistence(fp)
	if err := restored.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions() error = %v", err)
	}
	if restored.Count() != 1 {
		t.Fatalf("Expected 1 restored session, got %d", restored.Count())
	}

	loaded, err := restored.Get("ld01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	active := loaded.Engine.GetState().ActivePlayer()
	if active.Step != 3 {
		t.Errorf("Expected restored step 3, got %d", active.Step)
	}
}
