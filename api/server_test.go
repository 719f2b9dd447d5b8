package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chrissdom/couples-ludo/game/engine"
	"github.com/chrissdom/couples-ludo/game/service"
)

// MockGameService implements service.GameService backed by in-memory sessions
type MockGameService struct {
	sessions map[string]*mockSession
	configs  map[string]*engine.GameConfig
	nextID   int
}

type mockSession struct {
	info    *service.SessionInfo
	engine  *engine.GameEngine
	pending *engine.TaskEvent
}

func NewMockGameService() *MockGameService {
	config := engine.DefaultGameConfig()
	return &MockGameService{
		sessions: make(map[string]*mockSession),
		configs: map[string]*engine.GameConfig{
			"classic": config,
		},
	}
}

func (m *MockGameService) session(id string) (*mockSession, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return sess, nil
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	config := m.configs["classic"]
	if configName != "" {
		var ok bool
		config, ok = m.configs[configName]
		if !ok {
			return nil, fmt.Errorf("config '%s' not found", configName)
		}
	}

	m.nextID++
	id := fmt.Sprintf("mk%02d", m.nextID)

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	info := &service.SessionInfo{
		ID:             id,
		ConfigName:     "classic",
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
		GameState:      eng.GetState(),
		GameConfig:     config,
	}
	m.sessions[id] = &mockSession{info: info, engine: eng}
	return info, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.info.PendingEvent = sess.pending
	return sess.info, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	result := make([]*service.SessionInfo, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess.info)
	}
	return result, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := m.session(sessionID); err != nil {
		return err
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *MockGameService) SwitchView(ctx context.Context, sessionID string, view engine.View) (*engine.GameState, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.engine.SwitchView(view)
	return sess.engine.GetState(), nil
}

func (m *MockGameService) SelectTheme(ctx context.Context, sessionID string, playerID int, themeID string) (*engine.GameState, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.engine.SelectTheme(playerID, themeID) {
		return nil, fmt.Errorf("theme %s cannot be assigned to player %d", themeID, playerID)
	}
	return sess.engine.GetState(), nil
}

func (m *MockGameService) StartGame(ctx context.Context, sessionID string) (*service.StartResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := sess.engine.StartGame()
	return &service.StartResult{Success: ok, GameState: sess.engine.GetState()}, nil
}

func (m *MockGameService) Roll(ctx context.Context, sessionID string) (*service.RollResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.pending != nil {
		return &service.RollResult{Success: false, Message: "a task card is awaiting resolution", GameState: sess.engine.GetState()}, nil
	}

	die := sess.engine.RollDie()
	from := sess.engine.GetState().ActivePlayer().Step
	landing := sess.engine.MovePlayer(die)
	event, win := sess.engine.CheckTile(landing)

	result := &service.RollResult{
		Success:     true,
		Die:         die,
		FromStep:    from,
		LandingStep: landing,
		Win:         win,
		Event:       event,
	}
	switch {
	case win:
	case event != nil:
		sess.pending = event
	default:
		sess.engine.EndTurn()
		result.TurnEnded = true
	}
	result.GameState = sess.engine.GetState()
	return result, nil
}

func (m *MockGameService) ResolveTask(ctx context.Context, sessionID string, outcome engine.TaskOutcome) (*service.ResolveResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.pending == nil {
		return &service.ResolveResult{Success: false, Message: "no task card to resolve", GameState: sess.engine.GetState()}, nil
	}
	sess.engine.ResolveTask(sess.pending, outcome)
	sess.pending = nil
	return &service.ResolveResult{Success: true, Outcome: outcome, GameState: sess.engine.GetState()}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.pending = nil
	return sess.engine.ResetGame(), nil
}

func (m *MockGameService) CreateTheme(ctx context.Context, sessionID, name, desc string, audience engine.Audience) (*service.ThemeResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	themeID, ok := sess.engine.CreateTheme(name, desc, audience)
	return &service.ThemeResult{Success: ok, ThemeID: themeID, Message: "theme name must not be empty", GameState: sess.engine.GetState()}, nil
}

func (m *MockGameService) UpdateTheme(ctx context.Context, sessionID, themeID string, patch engine.ThemeMetaPatch) (*service.ThemeResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := sess.engine.UpdateThemeMeta(themeID, patch)
	return &service.ThemeResult{Success: ok, ThemeID: themeID, Message: "theme not found", GameState: sess.engine.GetState()}, nil
}

func (m *MockGameService) AddTask(ctx context.Context, sessionID, themeID, task string) (*service.ThemeResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := sess.engine.AddTask(themeID, task)
	return &service.ThemeResult{Success: ok, ThemeID: themeID, Message: "task rejected", GameState: sess.engine.GetState()}, nil
}

func (m *MockGameService) RemoveTask(ctx context.Context, sessionID, themeID string, index int) (*service.ThemeResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := sess.engine.RemoveTask(themeID, index)
	return &service.ThemeResult{Success: ok, ThemeID: themeID, Message: "no such task", GameState: sess.engine.GetState()}, nil
}

func (m *MockGameService) ImportTasks(ctx context.Context, sessionID, themeID string, tasks []string, mode engine.ImportMode) (*service.ThemeResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := sess.engine.ImportTasks(themeID, tasks, mode)
	return &service.ThemeResult{Success: ok, ThemeID: themeID, Message: "nothing to import", GameState: sess.engine.GetState()}, nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.engine.GetState(), nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			GridSize:    config.GridSize,
			PathLength:  config.PathLength,
		})
	}
	return result, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	config, ok := m.configs[configName]
	if !ok {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[configName] = config
	return nil
}

// Test helpers

func newTestServer() (*Server, *MockGameService) {
	svc := NewMockGameService()
	return NewServer(svc, nil), svc
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func createSession(t *testing.T, server *Server) string {
	t.Helper()
	rec := doRequest(t, server, "POST", "/api/sessions", map[string]string{})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var info service.SessionInfo
	decodeJSON(t, rec, &info)
	return info.ID
}

// Tests

func TestHandleCreateSession(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, "POST", "/api/sessions", map[string]string{"config_id": "classic"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var info service.SessionInfo
	decodeJSON(t, rec, &info)
	if info.ID == "" {
		t.Error("Expected session ID in response")
	}
	if info.GameState == nil {
		t.Error("Expected game state in response")
	}

	rec = doRequest(t, server, "POST", "/api/sessions", map[string]string{"config_id": "missing"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for unknown config, got %d", rec.Code)
	}
}

func TestHandleGetSession(t *testing.T) {
	server, _ := newTestServer()
	id := createSession(t, server)

	rec := doRequest(t, server, "GET", "/api/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, server, "GET", "/api/sessions/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleListSessions(t *testing.T) {
	server, _ := newTestServer()
	createSession(t, server)
	createSession(t, server)

	rec := doRequest(t, server, "GET", "/api/sessions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	decodeJSON(t, rec, &resp)
	if resp.Count != 2 || len(resp.Sessions) != 2 {
		t.Errorf("Expected 2 sessions, got count=%d len=%d", resp.Count, len(resp.Sessions))
	}

	rec = doRequest(t, server, "GET", "/api/sessions?limit=1", nil)
	decodeJSON(t, rec, &resp)
	if len(resp.Sessions) != 1 {
		t.Errorf("Expected limit to apply, got %d sessions", len(resp.Sessions))
	}
}

func TestHandleDeleteSession(t *testing.T) {
	server, _ := newTestServer()
	id := createSession(t, server)

	rec := doRequest(t, server, "DELETE", "/api/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, server, "GET", "/api/sessions/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestHandleGetGameState(t *testing.T) {
	server, _ := newTestServer()
	id := createSession(t, server)

	rec := doRequest(t, server, "GET", "/api/sessions/"+id+"/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var state engine.GameState
	decodeJSON(t, rec, &state)
	if state.View != engine.ViewHome {
		t.Errorf("Expected home view, got %s", state.View)
	}
	if len(state.Players) != engine.PlayerCount {
		t.Errorf("Expected %d players, got %d", engine.PlayerCount, len(state.Players))
	}
}

func TestHandleSwitchView(t *testing.T) {
	server, _ := newTestServer()
	id := createSession(t, server)

	rec := doRequest(t, server, "POST", "/api/sessions/"+id+"/view", map[string]string{"view": "themes"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var state engine.GameState
	decodeJSON(t, rec, &state)
	if state.View != engine.ViewThemes {
		t.Errorf("Expected themes view, got %s", state.View)
	}
}

func TestHandleSelectTheme(t *testing.T) {
	server, _ := newTestServer()
	id := createSession(t, server)

	rec := doRequest(t, server, "PUT", "/api/sessions/"+id+"/players/0/theme",
		map[string]string{"theme_id": "default_common"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var state engine.GameState
	decodeJSON(t, rec, &state)
	if state.Players[0].ThemeID != "default_common" {
		t.Errorf("Expected selected theme, got %q", state.Players[0].ThemeID)
	}

	// Audience violations come back as 400
	rec = doRequest(t, server, "PUT", "/api/sessions/"+id+"/players/0/theme",
		map[string]string{"theme_id": "default_female"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for audience violation, got %d", rec.Code)
	}

	rec = doRequest(t, server, "PUT", "/api/sessions/"+id+"/players/abc/theme",
		map[string]string{"theme_id": "default_common"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad player ID, got %d", rec.Code)
	}
}

func TestHandleStartAndRoll(t *testing.T) {
	server, svc := newTestServer()
	id := createSession(t, server)

	// Starting without themes fails but is not an HTTP error
	rec := doRequest(t, server, "POST", "/api/sessions/"+id+"/start", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var start service.StartResult
	decodeJSON(t, rec, &start)
	if start.Success {
		t.Error("Expected start to fail without themes")
	}

	doRequest(t, server, "PUT", "/api/sessions/"+id+"/players/0/theme", map[string]string{"theme_id": "default_common"})
	doRequest(t, server, "PUT", "/api/sessions/"+id+"/players/1/theme", map[string]string{"theme_id": "default_common"})

	rec = doRequest(t, server, "POST", "/api/sessions/"+id+"/start", nil)
	decodeJSON(t, rec, &start)
	if !start.Success {
		t.Fatalf("Expected start to succeed: %+v", start)
	}

	// Blank out the board so the roll is a plain move
	sess := svc.sessions[id]
	state := sess.engine.GetState()
	for i := range state.BoardMap {
		state.BoardMap[i] = engine.TileBlank
	}

	rec = doRequest(t, server, "POST", "/api/sessions/"+id+"/roll", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var roll service.RollResult
	decodeJSON(t, rec, &roll)
	if !roll.Success {
		t.Fatalf("Expected roll to succeed: %s", roll.Message)
	}
	if roll.Die < 1 || roll.Die > engine.DieSides {
		t.Errorf("Die out of range: %d", roll.Die)
	}
	if !roll.TurnEnded {
		t.Error("Expected turn to end on a blank tile")
	}
}

func TestHandleRollAndResolveFlow(t *testing.T) {
	server, svc := newTestServer()
	id := createSession(t, server)

	doRequest(t, server, "PUT", "/api/sessions/"+id+"/players/0/theme", map[string]string{"theme_id": "default_common"})
	doRequest(t, server, "PUT", "/api/sessions/"+id+"/players/1/theme", map[string]string{"theme_id": "default_common"})
	doRequest(t, server, "POST", "/api/sessions/"+id+"/start", nil)

	// Every interior tile draws a card
	sess := svc.sessions[id]
	state := sess.engine.GetState()
	for i := 1; i < len(state.BoardMap)-1; i++ {
		state.BoardMap[i] = engine.TileLucky
	}

	rec := doRequest(t, server, "POST", "/api/sessions/"+id+"/roll", nil)
	var roll service.RollResult
	decodeJSON(t, rec, &roll)
	if roll.Event == nil {
		t.Fatal("Expected a task card")
	}

	// Rolling again while pending fails
	rec = doRequest(t, server, "POST", "/api/sessions/"+id+"/roll", nil)
	decodeJSON(t, rec, &roll)
	if roll.Success {
		t.Error("Expected roll to be blocked while a card is pending")
	}

	// Bad outcome values are passed through as a failed result
	rec = doRequest(t, server, "POST", "/api/sessions/"+id+"/resolve", map[string]string{"outcome": "accept"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resolve service.ResolveResult
	decodeJSON(t, rec, &resolve)
	if !resolve.Success {
		t.Fatalf("Expected resolve to succeed: %s", resolve.Message)
	}
}

func TestHandleReset(t *testing.T) {
	server, _ := newTestServer()
	id := createSession(t, server)

	rec := doRequest(t, server, "POST", "/api/sessions/"+id+"/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	decodeJSON(t, rec, &resp)
	if resp.State == nil || resp.State.View != engine.ViewHome {
		t.Error("Expected fresh home state after reset")
	}
}

func TestHandleThemeEndpoints(t *testing.T) {
	server, _ := newTestServer()
	id := createSession(t, server)

	rec := doRequest(t, server, "POST", "/api/sessions/"+id+"/themes",
		map[string]string{"name": "Date Night", "desc": "Evening ideas", "audience": "common"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created service.ThemeResult
	decodeJSON(t, rec, &created)
	if created.ThemeID == "" {
		t.Fatal("Expected theme ID")
	}

	rec = doRequest(t, server, "POST", "/api/sessions/"+id+"/themes",
		map[string]string{"name": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank name, got %d", rec.Code)
	}

	rec = doRequest(t, server, "POST", "/api/sessions/"+id+"/themes/"+created.ThemeID+"/tasks",
		map[string]string{"task": "Cook dinner together"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, server, "POST", "/api/sessions/"+id+"/themes/"+created.ThemeID+"/import",
		map[string]interface{}{"tasks": []string{"A", "B", "A"}, "mode": "replace"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var imported service.ThemeResult
	decodeJSON(t, rec, &imported)
	theme := imported.GameState.ThemeByID(created.ThemeID)
	if theme == nil || len(theme.Tasks) != 2 {
		t.Errorf("Expected deduped replace import, got %+v", theme)
	}

	rec = doRequest(t, server, "DELETE", "/api/sessions/"+id+"/themes/"+created.ThemeID+"/tasks/0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, server, "DELETE", "/api/sessions/"+id+"/themes/"+created.ThemeID+"/tasks/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for out-of-range index, got %d", rec.Code)
	}

	rec = doRequest(t, server, "PATCH", "/api/sessions/"+id+"/themes/"+created.ThemeID,
		map[string]string{"name": "Renamed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestHandleConfigs(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, "GET", "/api/configs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var configs []*service.ConfigInfo
	decodeJSON(t, rec, &configs)
	if len(configs) != 1 {
		t.Errorf("Expected 1 config, got %d", len(configs))
	}

	rec = doRequest(t, server, "GET", "/api/configs/classic", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var config engine.GameConfig
	decodeJSON(t, rec, &config)
	if config.PathLength != 49 {
		t.Errorf("Expected path length 49, got %d", config.PathLength)
	}

	rec = doRequest(t, server, "GET", "/api/configs/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}

	newConfig := engine.DefaultGameConfig()
	newConfig.Name = "custom"
	rec = doRequest(t, server, "POST", "/api/configs", newConfig)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, server, "GET", "/api/configs/custom", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected saved config to be retrievable, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %q", resp["status"])
	}
}

func TestHandleWebSocketRequiresSession(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, "GET", "/ws", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without session parameter, got %d", rec.Code)
	}

	rec = doRequest(t, server, "GET", "/ws?session=missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rec.Code)
	}
}
