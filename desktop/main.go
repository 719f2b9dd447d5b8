package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	cellSize          = 52
	headerHeight      = 90
	cardPanelHeight   = 110
	screenWidth       = 800
	screenHeight      = 720
	baseURL           = "http://localhost:8080"
	wsHost            = "localhost:8080"
	animationDuration = 400 * time.Millisecond // Token slide duration per move
)

// ScreenType represents different screens in the app
type ScreenType int

const (
	ScreenWelcome ScreenType = iota
	ScreenGame
)

// Token colors for the two players
var tokenColors = [2]color.RGBA{
	{70, 130, 220, 255},  // Blue for player 1
	{220, 90, 140, 255},  // Rose for player 2
}

// Player represents one participant on the board
type Player struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Role    string `json:"role"`
	Step    int    `json:"step"`
	ThemeID string `json:"theme_id,omitempty"`
}

// Theme is a named task collection
type Theme struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Audience string   `json:"audience"`
	Tasks    []string `json:"tasks"`
}

// TaskEvent is a pending card awaiting accept or reject
type TaskEvent struct {
	Type              string `json:"type"`
	InitiatorPlayerID int    `json:"initiator_player_id"`
	ExecutorPlayerID  int    `json:"executor_player_id"`
	Title             string `json:"title"`
	Subtitle          string `json:"subtitle"`
	Task              string `json:"task"`
}

// PathCoord is the grid position of one spiral tile
type PathCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameState represents the state from the game server
type GameState struct {
	View       string      `json:"view"`
	Turn       int         `json:"turn"`
	Players    []Player    `json:"players"`
	Themes     []Theme     `json:"themes"`
	BoardMap   []string    `json:"board_map"`
	PathCoords []PathCoord `json:"path_coords"`
	IsRolling  bool        `json:"is_rolling"`
}

// FinalStep returns the index of the last tile on the path
func (gs *GameState) FinalStep() int {
	return len(gs.BoardMap) - 1
}

// WSMessage represents WebSocket message wrapper
type WSMessage struct {
	SessionID string          `json:"session_id"`
	GameState *GameState      `json:"game_state,omitempty"`
	Event     string          `json:"event,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// tokenAnim interpolates one player token between steps
type tokenAnim struct {
	prevStep   int
	targetStep int
	startTime  time.Time
	progress   float64
}

// SessionData holds data for the open session
type SessionData struct {
	sessionID   string
	state       *GameState
	wsConn      *websocket.Conn
	lastUpdate  time.Time
	pendingCard *TaskEvent
	anims       [2]tokenAnim
	winnerName  string
}

// SessionListItem represents a session from the server
type SessionListItem struct {
	ID         string     `json:"id"`
	ConfigName string     `json:"config_name"`
	CreatedAt  string     `json:"created_at"`
	GameState  *GameState `json:"game_state"`
}

// ConfigListItem represents a game configuration
type ConfigListItem struct {
	ConfigID    string `json:"config_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PathLength  int    `json:"path_length"`
}

// Game represents the desktop client
type Game struct {
	session       *SessionData
	stateMutex    sync.RWMutex
	currentScreen ScreenType
	welcomeScreen *WelcomeScreen
	statusMsg     string
}

// WelcomeScreen manages the welcome screen state
type WelcomeScreen struct {
	availableSessions []SessionListItem
	availableConfigs  []ConfigListItem
	cursorPos         int
	loading           bool
	errorMsg          string
	newSessionConfig  string // selected config for new session
}

// NewGame creates a new client instance
func NewGame(sessionID string) *Game {
	g := &Game{
		currentScreen: ScreenWelcome,
		welcomeScreen: &WelcomeScreen{
			availableSessions: make([]SessionListItem, 0),
			availableConfigs:  make([]ConfigListItem, 0),
		},
	}

	// If a session ID is provided, skip the welcome screen
	if sessionID != "" {
		g.openSession(sessionID)
		g.currentScreen = ScreenGame
	} else {
		g.loadWelcomeData()
	}

	return g
}

// openSession attaches to an existing session and starts listening
func (g *Game) openSession(sessionID string) {
	session := &SessionData{
		sessionID:  sessionID,
		lastUpdate: time.Now(),
	}
	g.session = session

	if err := g.connectWebSocket(session); err != nil {
		log.Printf("Failed to connect WebSocket for %s: %v (falling back to polling)", sessionID, err)
	} else {
		go g.listenWebSocket(session)
	}

	if err := g.fetchGameState(session); err != nil {
		log.Printf("Initial state fetch failed: %v", err)
	}
}

// createSession creates a new game session with the given config
func (g *Game) createSession(configID string) (string, error) {
	payload := "{}"
	if configID != "" {
		payload = fmt.Sprintf(`{"config_id":"%s"}`, configID)
	}

	resp, err := http.Post(baseURL+"/api/sessions", "application/json", strings.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse session response: %v (body: %s)", err, string(body))
	}
	if result.ID == "" {
		return "", fmt.Errorf("server returned no session id: %s", string(body))
	}

	log.Printf("Created new session: %s (config: %s)", result.ID, configID)
	return result.ID, nil
}

// connectWebSocket establishes the WebSocket connection
func (g *Game) connectWebSocket(session *SessionData) error {
	if session.sessionID == "" {
		return fmt.Errorf("no session ID set")
	}

	wsURL := url.URL{Scheme: "ws", Host: wsHost, Path: "/ws"}
	q := wsURL.Query()
	q.Set("session", session.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	session.wsConn = conn
	log.Printf("WebSocket connected for session %s", session.sessionID)
	return nil
}

// listenWebSocket listens for server pushes
func (g *Game) listenWebSocket(session *SessionData) {
	defer func() {
		if session.wsConn != nil {
			session.wsConn.Close()
		}
	}()

	for {
		_, message, err := session.wsConn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error for %s: %v", session.sessionID, err)
			return
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(message, &wsMsg); err != nil {
			log.Printf("WebSocket JSON parse error: %v", err)
			continue
		}

		g.stateMutex.Lock()
		switch wsMsg.Event {
		case "task_event":
			var event TaskEvent
			if err := json.Unmarshal(wsMsg.Data, &event); err == nil {
				session.pendingCard = &event
			}
		case "win":
			var winner Player
			if err := json.Unmarshal(wsMsg.Data, &winner); err == nil {
				session.winnerName = winner.Name
			}
		default:
			if wsMsg.GameState != nil {
				g.applyState(session, wsMsg.GameState)
			}
		}
		session.lastUpdate = time.Now()
		g.stateMutex.Unlock()
	}
}

// applyState installs a new state and starts token animations for any
// player whose step changed. A task_event push always follows the state
// broadcast that triggered it, so the pending card is cleared here.
// Caller must hold stateMutex.
func (g *Game) applyState(session *SessionData, state *GameState) {
	if session.state != nil && len(session.state.Players) == len(state.Players) {
		for i := range state.Players {
			if i >= 2 {
				break
			}
			oldStep := session.state.Players[i].Step
			newStep := state.Players[i].Step
			if oldStep != newStep {
				session.anims[i] = tokenAnim{
					prevStep:   oldStep,
					targetStep: newStep,
					startTime:  time.Now(),
				}
			}
		}
	} else {
		for i := range state.Players {
			if i >= 2 {
				break
			}
			session.anims[i] = tokenAnim{
				prevStep:   state.Players[i].Step,
				targetStep: state.Players[i].Step,
				progress:   1.0,
			}
		}
	}

	session.state = state
	session.pendingCard = nil
}

// fetchGameState gets the current game state from the server
func (g *Game) fetchGameState(session *SessionData) error {
	if session.sessionID == "" {
		return fmt.Errorf("no session ID set")
	}

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/state", baseURL, session.sessionID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var state GameState
	if err := json.Unmarshal(body, &state); err != nil {
		return fmt.Errorf("failed to parse JSON: %v (body: %s)", err, string(body))
	}

	g.stateMutex.Lock()
	g.applyState(session, &state)
	session.lastUpdate = time.Now()
	g.stateMutex.Unlock()

	return nil
}

// loadWelcomeData fetches available sessions and configs from server
func (g *Game) loadWelcomeData() {
	g.welcomeScreen.loading = true
	g.welcomeScreen.errorMsg = ""

	resp, err := http.Get(baseURL + "/api/sessions")
	if err != nil {
		g.welcomeScreen.errorMsg = fmt.Sprintf("Error loading sessions: %v", err)
		g.welcomeScreen.loading = false
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var sessionsResp struct {
		Sessions []SessionListItem `json:"sessions"`
	}
	if err := json.Unmarshal(body, &sessionsResp); err == nil {
		g.welcomeScreen.availableSessions = sessionsResp.Sessions
	}

	resp, err = http.Get(baseURL + "/api/configs")
	if err != nil {
		g.welcomeScreen.errorMsg = fmt.Sprintf("Error loading configs: %v", err)
		g.welcomeScreen.loading = false
		return
	}
	defer resp.Body.Close()

	body, _ = io.ReadAll(resp.Body)
	var configs []ConfigListItem
	if err := json.Unmarshal(body, &configs); err == nil {
		g.welcomeScreen.availableConfigs = configs
	}

	g.welcomeScreen.loading = false
}

// postAction sends a POST to a session endpoint and returns the body
func (g *Game) postAction(path string, payload string) ([]byte, error) {
	if g.session == nil || g.session.sessionID == "" {
		return nil, fmt.Errorf("no session open")
	}

	url := fmt.Sprintf("%s/api/sessions/%s/%s", baseURL, g.session.sessionID, path)
	var reqBody io.Reader
	if payload != "" {
		reqBody = strings.NewReader(payload)
	}

	resp, err := http.Post(url, "application/json", reqBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// sendStart asks the server to start the race
func (g *Game) sendStart() {
	body, err := g.postAction("start", "")
	if err != nil {
		g.statusMsg = fmt.Sprintf("Start failed: %v", err)
		return
	}

	var result struct {
		Success   bool       `json:"success"`
		Message   string     `json:"message"`
		GameState *GameState `json:"game_state"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		g.statusMsg = fmt.Sprintf("Start parse failed: %v", err)
		return
	}

	if !result.Success {
		g.statusMsg = result.Message
		return
	}

	g.stateMutex.Lock()
	g.session.winnerName = ""
	g.applyState(g.session, result.GameState)
	g.stateMutex.Unlock()
	g.statusMsg = ""
}

// sendRoll rolls the die for the active player
func (g *Game) sendRoll() {
	body, err := g.postAction("roll", "")
	if err != nil {
		g.statusMsg = fmt.Sprintf("Roll failed: %v", err)
		return
	}

	var result struct {
		Success   bool       `json:"success"`
		Die       int        `json:"die"`
		Win       bool       `json:"win"`
		Event     *TaskEvent `json:"event,omitempty"`
		Message   string     `json:"message"`
		GameState *GameState `json:"game_state"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		g.statusMsg = fmt.Sprintf("Roll parse failed: %v", err)
		return
	}

	if !result.Success {
		g.statusMsg = result.Message
		return
	}

	g.stateMutex.Lock()
	g.applyState(g.session, result.GameState)
	g.session.pendingCard = result.Event
	g.stateMutex.Unlock()
	g.statusMsg = fmt.Sprintf("Rolled %d", result.Die)
}

// sendResolve accepts or rejects the pending card
func (g *Game) sendResolve(outcome string) {
	body, err := g.postAction("resolve", fmt.Sprintf(`{"outcome":"%s"}`, outcome))
	if err != nil {
		g.statusMsg = fmt.Sprintf("Resolve failed: %v", err)
		return
	}

	var result struct {
		Success   bool       `json:"success"`
		Message   string     `json:"message"`
		GameState *GameState `json:"game_state"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		g.statusMsg = fmt.Sprintf("Resolve parse failed: %v", err)
		return
	}

	if !result.Success {
		g.statusMsg = result.Message
		return
	}

	g.stateMutex.Lock()
	g.applyState(g.session, result.GameState)
	g.stateMutex.Unlock()
	g.statusMsg = fmt.Sprintf("Card %sed", outcome)
}

// sendReset restarts the current session
func (g *Game) sendReset() {
	body, err := g.postAction("reset", "")
	if err != nil {
		g.statusMsg = fmt.Sprintf("Reset failed: %v", err)
		return
	}

	var result struct {
		Message string     `json:"message"`
		State   *GameState `json:"state"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		g.statusMsg = fmt.Sprintf("Reset parse failed: %v", err)
		return
	}

	g.stateMutex.Lock()
	g.session.winnerName = ""
	if result.State != nil {
		g.applyState(g.session, result.State)
	}
	g.stateMutex.Unlock()
	g.statusMsg = "Game reset"
}

// autoPickThemes assigns each player without a theme the first
// selectable one, so the race can start with a single keypress.
func (g *Game) autoPickThemes() {
	g.stateMutex.RLock()
	state := g.session.state
	g.stateMutex.RUnlock()

	if state == nil {
		return
	}

	for _, player := range state.Players {
		if player.ThemeID != "" {
			continue
		}

		themeID := ""
		for _, theme := range state.Themes {
			if len(theme.Tasks) == 0 {
				continue
			}
			if theme.Audience == "common" || theme.Audience == player.Role {
				themeID = theme.ID
				break
			}
		}
		if themeID == "" {
			g.statusMsg = fmt.Sprintf("No selectable theme for %s", player.Name)
			continue
		}

		url := fmt.Sprintf("%s/api/sessions/%s/players/%d/theme", baseURL, g.session.sessionID, player.ID)
		req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(fmt.Sprintf(`{"theme_id":"%s"}`, themeID)))
		if err != nil {
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			g.statusMsg = fmt.Sprintf("Theme pick failed: %v", err)
			continue
		}
		resp.Body.Close()
		log.Printf("%s picked theme %s", player.Name, themeID)
	}

	if err := g.fetchGameState(g.session); err != nil {
		log.Printf("State refresh failed: %v", err)
	}
}

// Update updates client logic
func (g *Game) Update() error {
	switch g.currentScreen {
	case ScreenWelcome:
		return g.updateWelcomeScreen()
	case ScreenGame:
		return g.updateGameScreen()
	}
	return nil
}

// updateWelcomeScreen handles welcome screen input
func (g *Game) updateWelcomeScreen() error {
	ws := g.welcomeScreen

	// Refresh data with F5
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.loadWelcomeData()
	}

	// Navigate with arrow keys
	totalItems := len(ws.availableSessions)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		ws.cursorPos++
		if ws.cursorPos >= totalItems {
			ws.cursorPos = totalItems - 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		ws.cursorPos--
		if ws.cursorPos < 0 {
			ws.cursorPos = 0
		}
	}

	// Cycle through configs with Tab
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if len(ws.availableConfigs) > 0 {
			currentIdx := -1
			for i, cfg := range ws.availableConfigs {
				if cfg.ConfigID == ws.newSessionConfig {
					currentIdx = i
					break
				}
			}
			currentIdx++
			if currentIdx >= len(ws.availableConfigs) {
				ws.newSessionConfig = "" // No config (default)
			} else {
				ws.newSessionConfig = ws.availableConfigs[currentIdx].ConfigID
			}
		}
	}

	// Create new session with N
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if _, err := g.createSession(ws.newSessionConfig); err != nil {
			ws.errorMsg = fmt.Sprintf("Failed to create session: %v", err)
		} else {
			g.loadWelcomeData()
		}
	}

	// Open the session under the cursor with Enter
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if ws.cursorPos < len(ws.availableSessions) {
			g.openSession(ws.availableSessions[ws.cursorPos].ID)
			g.currentScreen = ScreenGame
		} else {
			ws.errorMsg = "No session selected. Press N to create one."
		}
	}

	// Back to game screen with Escape (if a session is open)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.session != nil {
		g.currentScreen = ScreenGame
	}

	return nil
}

// updateGameScreen handles game screen input
func (g *Game) updateGameScreen() error {
	if g.session == nil {
		return nil
	}

	// Update token animation progress
	g.stateMutex.Lock()
	for i := range g.session.anims {
		anim := &g.session.anims[i]
		if anim.progress < 1.0 {
			elapsed := time.Since(anim.startTime)
			anim.progress = float64(elapsed) / float64(animationDuration)
			if anim.progress > 1.0 {
				anim.progress = 1.0
			}
		}
	}
	g.stateMutex.Unlock()

	// Poll if WebSocket is not connected
	if g.session.wsConn == nil {
		if g.session.state == nil || time.Since(g.session.lastUpdate) > 500*time.Millisecond {
			if err := g.fetchGameState(g.session); err != nil {
				log.Printf("Error fetching state for %s: %v", g.session.sessionID, err)
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.autoPickThemes()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.sendStart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sendRoll()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.sendResolve("accept")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.sendResolve("reject")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sendReset()
	}

	// Return to welcome screen with Escape
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.currentScreen = ScreenWelcome
		g.loadWelcomeData()
	}

	return nil
}

// Draw renders the client
func (g *Game) Draw(screen *ebiten.Image) {
	switch g.currentScreen {
	case ScreenWelcome:
		g.drawWelcomeScreen(screen)
	case ScreenGame:
		g.drawGameScreen(screen)
	}
}

// drawWelcomeScreen renders the welcome/session selection screen
func (g *Game) drawWelcomeScreen(screen *ebiten.Image) {
	ws := g.welcomeScreen

	screen.Fill(color.RGBA{25, 20, 35, 255})

	y := 20
	ebitenutil.DebugPrintAt(screen, "=== COUPLES LUDO - SESSION SELECT ===", 230, y)
	y += 30

	if ws.loading {
		ebitenutil.DebugPrintAt(screen, "Loading sessions...", 20, y)
		return
	}

	if ws.errorMsg != "" {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ERROR: %s", ws.errorMsg), 20, y)
		y += 20
	}

	ebitenutil.DebugPrintAt(screen, "Available Sessions:", 20, y)
	y += 20

	if len(ws.availableSessions) == 0 {
		ebitenutil.DebugPrintAt(screen, "  No sessions found. Press N to create one.", 20, y)
		y += 20
	} else {
		for i, session := range ws.availableSessions {
			cursor := "  "
			if i == ws.cursorPos {
				cursor = "> "
			}

			steps := ""
			if session.GameState != nil && len(session.GameState.Players) == 2 {
				final := session.GameState.FinalStep()
				steps = fmt.Sprintf(" | %s:%d %s:%d of %d",
					session.GameState.Players[0].Name, session.GameState.Players[0].Step,
					session.GameState.Players[1].Name, session.GameState.Players[1].Step,
					final)
			}

			line := fmt.Sprintf("%s%s | %s%s", cursor, session.ID, session.ConfigName, steps)
			ebitenutil.DebugPrintAt(screen, line, 20, y)
			y += 15
		}
	}

	y += 20
	ebitenutil.DebugPrintAt(screen, "-----------------------------------------", 20, y)
	y += 20

	ebitenutil.DebugPrintAt(screen, "Create New Session:", 20, y)
	y += 20

	configDisplay := "default"
	if ws.newSessionConfig != "" {
		configDisplay = ws.newSessionConfig
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("  Selected Config: %s", configDisplay), 20, y)
	y += 15

	ebitenutil.DebugPrintAt(screen, "  Available Configs:", 20, y)
	y += 15
	for _, cfg := range ws.availableConfigs {
		marker := "  "
		if cfg.ConfigID == ws.newSessionConfig {
			marker = "→ "
		}
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("    %s%s (%d tiles) - %s", marker, cfg.Name, cfg.PathLength, cfg.Description), 20, y)
		y += 15
	}

	y += 20
	ebitenutil.DebugPrintAt(screen, "-----------------------------------------", 20, y)
	y += 20

	ebitenutil.DebugPrintAt(screen, "CONTROLS:", 20, y)
	y += 20
	ebitenutil.DebugPrintAt(screen, "  Up/Down  - Navigate sessions", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  TAB      - Cycle config for new session", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  N        - Create new session with selected config", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  ENTER    - Open selected session", 20, y)
	y += 15
	ebitenutil.DebugPrintAt(screen, "  F5       - Refresh session list", 20, y)
	y += 15
	if g.session != nil {
		ebitenutil.DebugPrintAt(screen, "  ESC      - Back to game", 20, y)
	}
}

// drawGameScreen renders the board, tokens, and the pending card
func (g *Game) drawGameScreen(screen *ebiten.Image) {
	g.stateMutex.RLock()
	defer g.stateMutex.RUnlock()

	screen.Fill(color.RGBA{22, 26, 34, 255})

	if g.session == nil {
		ebitenutil.DebugPrint(screen, "No session open. Press ESC for session select.")
		return
	}

	state := g.session.state
	if state == nil {
		ebitenutil.DebugPrint(screen, "Loading...")
		return
	}

	g.drawHeader(screen, state)

	// Scale the board to available space
	gridRows, gridCols := 0, 0
	for _, coord := range state.PathCoords {
		if coord.Row+1 > gridRows {
			gridRows = coord.Row + 1
		}
		if coord.Col+1 > gridCols {
			gridCols = coord.Col + 1
		}
	}
	if gridRows == 0 || gridCols == 0 {
		return
	}

	tile := cellSize
	boardHeight := screenHeight - headerHeight - cardPanelHeight
	if gridCols*tile > screenWidth-40 {
		tile = (screenWidth - 40) / gridCols
	}
	if gridRows*tile > boardHeight-20 {
		tile = (boardHeight - 20) / gridRows
	}

	offsetX := (screenWidth - gridCols*tile) / 2
	offsetY := headerHeight + (boardHeight-gridRows*tile)/2

	// Draw the spiral path
	final := state.FinalStep()
	for step, coord := range state.PathCoords {
		if step >= len(state.BoardMap) {
			break
		}
		tileColor := getTileColor(state.BoardMap[step], step, final)
		ebitenutil.DrawRect(screen,
			float64(offsetX+coord.Col*tile),
			float64(offsetY+coord.Row*tile),
			float64(tile-2), float64(tile-2), tileColor)

		// Label every fifth tile plus start and finish
		if step == 0 || step == final || step%5 == 0 {
			ebitenutil.DebugPrintAt(screen,
				fmt.Sprintf("%d", step),
				offsetX+coord.Col*tile+3,
				offsetY+coord.Row*tile+2)
		}
	}

	// Draw tokens with smooth interpolation along the path
	for i := range state.Players {
		if i >= 2 {
			break
		}
		anim := g.session.anims[i]
		x, y := pathPosition(state, anim, state.Players[i].Step)

		pad := float64(tile) / 5
		size := float64(tile) - 2*pad - 2
		screenX := float64(offsetX) + x*float64(tile) + pad
		screenY := float64(offsetY) + y*float64(tile) + pad

		// Nudge so both tokens stay visible on a shared tile
		if i == 1 {
			screenX += size / 4
			screenY += size / 4
		}

		ebitenutil.DrawRect(screen, screenX, screenY, size, size, tokenColors[i])
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", i+1), int(screenX)+2, int(screenY))
	}

	g.drawCardPanel(screen, state)

	ebitenutil.DebugPrintAt(screen,
		"T: Themes | ENTER: Start | SPACE: Roll | A: Accept | X: Reject | R: Reset | ESC: Menu",
		10, screenHeight-20)
}

// drawHeader draws player standings and the turn indicator
func (g *Game) drawHeader(screen *ebiten.Image, state *GameState) {
	final := state.FinalStep()
	y := 8

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Session %s | View: %s", g.session.sessionID, state.View), 20, y)
	y += 18

	for i, player := range state.Players {
		if i >= 2 {
			break
		}

		ebitenutil.DrawRect(screen, 5, float64(y), 10, 10, tokenColors[i])

		turnMarker := "   "
		if state.Turn == i {
			turnMarker = ">>>"
		}

		theme := player.ThemeID
		if theme == "" {
			theme = "(no theme)"
		}

		info := fmt.Sprintf("%s %s (%s) step %d/%d | theme: %s",
			turnMarker, player.Name, player.Role, player.Step, final, theme)
		ebitenutil.DebugPrintAt(screen, info, 20, y)
		y += 16
	}

	if g.session.winnerName != "" {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("*** %s WINS! Press R for a rematch ***", g.session.winnerName), 20, y)
		y += 16
	}

	if g.statusMsg != "" {
		ebitenutil.DebugPrintAt(screen, g.statusMsg, 20, y)
	}
}

// drawCardPanel draws the pending task card, if any
func (g *Game) drawCardPanel(screen *ebiten.Image, state *GameState) {
	card := g.session.pendingCard
	if card == nil {
		return
	}

	panelY := screenHeight - cardPanelHeight
	ebitenutil.DrawRect(screen, 10, float64(panelY), screenWidth-20, cardPanelHeight-30, color.RGBA{50, 40, 70, 230})

	executor := "?"
	for _, player := range state.Players {
		if player.ID == card.ExecutorPlayerID {
			executor = player.Name
		}
	}

	y := panelY + 8
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("[%s] %s", strings.ToUpper(card.Type), card.Title), 20, y)
	y += 16
	if card.Subtitle != "" {
		ebitenutil.DebugPrintAt(screen, card.Subtitle, 20, y)
		y += 16
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Task for %s: %s", executor, card.Task), 20, y)
	y += 16
	ebitenutil.DebugPrintAt(screen, "A: accept   X: reject", 20, y)
}

// pathPosition returns the grid coordinates (in tile units) of a token,
// sliding it along the spiral between its previous and target step.
func pathPosition(state *GameState, anim tokenAnim, currentStep int) (float64, float64) {
	coords := state.PathCoords
	if len(coords) == 0 {
		return 0, 0
	}

	clamp := func(step int) int {
		if step < 0 {
			return 0
		}
		if step >= len(coords) {
			return len(coords) - 1
		}
		return step
	}

	if anim.progress >= 1.0 || anim.prevStep == anim.targetStep {
		coord := coords[clamp(currentStep)]
		return float64(coord.Col), float64(coord.Row)
	}

	from := clamp(anim.prevStep)
	to := clamp(anim.targetStep)
	span := to - from
	if span < 0 {
		// Penalty or reset moves jump straight back
		a := coords[from]
		b := coords[to]
		t := anim.progress
		return float64(a.Col)*(1-t) + float64(b.Col)*t,
			float64(a.Row)*(1-t) + float64(b.Row)*t
	}

	// Walk tile to tile along the spiral
	f := anim.progress * float64(span)
	idx := int(f)
	if idx >= span {
		idx = span - 1
	}
	frac := f - float64(idx)
	a := coords[from+idx]
	b := coords[from+idx+1]
	return float64(a.Col)*(1-frac) + float64(b.Col)*frac,
		float64(a.Row)*(1-frac) + float64(b.Row)*frac
}

// Layout returns the game screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// getTileColor returns the color for each tile type
func getTileColor(tileType string, step, final int) color.Color {
	if step == final {
		return color.RGBA{0, 170, 90, 255} // Green finish tile
	}
	if step == 0 {
		return color.RGBA{90, 140, 200, 255} // Blue start tile
	}
	switch tileType {
	case "lucky":
		return color.RGBA{210, 170, 50, 255} // Gold for lucky tiles
	case "trap":
		return color.RGBA{170, 70, 70, 255} // Red for trap tiles
	case "blank":
		return color.RGBA{70, 74, 86, 255}
	default:
		return color.RGBA{50, 50, 55, 255}
	}
}

func main() {
	sessionID := ""
	if len(os.Args) > 1 {
		sessionID = os.Args[1]
	}

	game := NewGame(sessionID)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Couples Ludo")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
