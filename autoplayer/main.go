package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type Player struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Role    string `json:"role"`
	Step    int    `json:"step"`
	ThemeID string `json:"theme_id,omitempty"`
}

type Theme struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Audience string   `json:"audience"`
	Tasks    []string `json:"tasks"`
}

type TaskEvent struct {
	Type              string `json:"type"`
	InitiatorPlayerID int    `json:"initiator_player_id"`
	ExecutorPlayerID  int    `json:"executor_player_id"`
	Title             string `json:"title"`
	Task              string `json:"task"`
}

type GameState struct {
	View      string   `json:"view"`
	Turn      int      `json:"turn"`
	Players   []Player `json:"players"`
	Themes    []Theme  `json:"themes"`
	BoardMap  []string `json:"board_map"`
	IsRolling bool     `json:"is_rolling"`
}

func (gs *GameState) FinalStep() int {
	return len(gs.BoardMap) - 1
}

func (gs *GameState) PlayerByID(id int) *Player {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			return &gs.Players[i]
		}
	}
	return nil
}

func (gs *GameState) Winner() *Player {
	final := gs.FinalStep()
	if final <= 0 {
		return nil
	}
	for i := range gs.Players {
		if gs.Players[i].Step >= final {
			return &gs.Players[i]
		}
	}
	return nil
}

type SessionResponse struct {
	ID           string     `json:"id"`
	ConfigName   string     `json:"config_name"`
	GameState    *GameState `json:"game_state"`
	PendingEvent *TaskEvent `json:"pending_event,omitempty"`
}

type StartResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	GameState *GameState `json:"game_state"`
}

type RollResponse struct {
	Success     bool       `json:"success"`
	Die         int        `json:"die"`
	FromStep    int        `json:"from_step"`
	LandingStep int        `json:"landing_step"`
	Win         bool       `json:"win"`
	Event       *TaskEvent `json:"event,omitempty"`
	TurnEnded   bool       `json:"turn_ended"`
	Message     string     `json:"message"`
	GameState   *GameState `json:"game_state"`
}

type ResolveResponse struct {
	Success   bool       `json:"success"`
	Outcome   string     `json:"outcome"`
	Message   string     `json:"message"`
	GameState *GameState `json:"game_state"`
}

type ResetResponse struct {
	Message string     `json:"message"`
	State   *GameState `json:"state"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(configID string) (*GameState, error) {
	var reqBody []byte
	var err error

	if configID != "" {
		reqBody, err = json.Marshal(map[string]string{"config_id": configID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	return &state, nil
}

func (c *Client) SelectTheme(playerID int, themeID string) (*GameState, error) {
	body, err := json.Marshal(map[string]string{"theme_id": themeID})
	if err != nil {
		return nil, fmt.Errorf("marshal theme request: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/players/%d/theme", c.baseURL, c.sessionID, playerID)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build theme request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("select theme: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("select theme failed: %s - %s", resp.Status, string(respBody))
	}

	var state GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse theme response: %w", err)
	}

	return &state, nil
}

func (c *Client) Start() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/start", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	defer resp.Body.Close()

	var startResp StartResponse
	if err := json.NewDecoder(resp.Body).Decode(&startResp); err != nil {
		return nil, fmt.Errorf("parse start response: %w", err)
	}

	if !startResp.Success {
		return startResp.GameState, fmt.Errorf("start failed: %s", startResp.Message)
	}

	return startResp.GameState, nil
}

func (c *Client) Roll() (*RollResponse, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/roll", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("roll: %w", err)
	}
	defer resp.Body.Close()

	var rollResp RollResponse
	if err := json.NewDecoder(resp.Body).Decode(&rollResp); err != nil {
		return nil, fmt.Errorf("parse roll response: %w", err)
	}

	return &rollResp, nil
}

func (c *Client) Resolve(outcome string) (*ResolveResponse, error) {
	body, err := json.Marshal(map[string]string{"outcome": outcome})
	if err != nil {
		return nil, fmt.Errorf("marshal resolve request: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/resolve", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	defer resp.Body.Close()

	var resolveResp ResolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&resolveResp); err != nil {
		return nil, fmt.Errorf("parse resolve response: %w", err)
	}

	if !resolveResp.Success {
		return &resolveResp, fmt.Errorf("resolve failed: %s", resolveResp.Message)
	}

	return &resolveResp, nil
}

func (c *Client) Reset() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	var resetResp ResetResponse
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}

	return resetResp.State, nil
}

// pickThemes assigns each player the first selectable theme with tasks.
// Players keep an existing pick when they already hold one.
func pickThemes(client *Client, state *GameState) (*GameState, error) {
	for i := range state.Players {
		player := &state.Players[i]
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
			return nil, fmt.Errorf("no selectable theme for %s (%s)", player.Name, player.Role)
		}

		newState, err := client.SelectTheme(player.ID, themeID)
		if err != nil {
			return nil, err
		}
		log.Printf("🎨 %s picked theme %s", player.Name, themeID)
		state = newState
	}

	return state, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configID := flag.String("config", "", "Game configuration id (classic, long_trail)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	games := flag.Int("games", 1, "Number of games to play")
	maxRolls := flag.Int("max-rolls", 500, "Maximum rolls per game")
	rejectRate := flag.Float64("reject-rate", 0.15, "Chance a player rejects a resolvable card")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between rolls in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *GameState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		// Use explicitly provided session
		savedSessionID = *continueSession
	} else {
		// Try to load saved session
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		// Resume existing session
		client.sessionID = savedSessionID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = "" // Force create new
		} else {
			log.Printf("Session resumed - Path: %d tiles, Players: %s vs %s",
				len(state.BoardMap), state.Players[0].Name, state.Players[1].Name)
		}
	}

	if savedSessionID == "" {
		// Create new session
		state, err = client.CreateSession(*configID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s", client.sessionID)
		log.Printf("Path: %d tiles, Players: %s (%s) vs %s (%s)",
			len(state.BoardMap),
			state.Players[0].Name, state.Players[0].Role,
			state.Players[1].Name, state.Players[1].Role)

		// Save session ID for next run
		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	policy := NewCautiousPolicy(time.Now().UnixNano(), *rejectRate)
	wins := make(map[string]int)
	totalRolls := 0

	for gameNum := 1; gameNum <= *games; gameNum++ {
		log.Printf("\n=== 🎮 Game %d/%d ===", gameNum, *games)

		state, err = client.Reset()
		if err != nil {
			log.Fatalf("Failed to reset game: %v", err)
		}
		policy.Reset()

		state, err = pickThemes(client, state)
		if err != nil {
			log.Fatalf("Failed to pick themes: %v", err)
		}

		state, err = client.Start()
		if err != nil {
			log.Fatalf("Failed to start game: %v", err)
		}
		log.Printf("▶️  Game started - %s rolls first", state.Players[state.Turn].Name)

		rollCount := 0
		var winner *Player
		for rollCount < *maxRolls {
			roll, err := client.Roll()
			if err != nil {
				log.Printf("Roll failed: %v", err)
				break
			}
			if !roll.Success {
				// A pending card blocks the die. Resolve and retry.
				if *verbose {
					log.Printf("Roll rejected: %s", roll.Message)
				}
				if _, err := client.Resolve("accept"); err != nil {
					log.Printf("Recovery resolve failed: %v", err)
					break
				}
				continue
			}

			rollCount++
			state = roll.GameState

			if *verbose {
				log.Printf("🎲 %d: step %d → %d", roll.Die, roll.FromStep, roll.LandingStep)
			}

			if roll.Win {
				winner = state.Winner()
				break
			}

			if roll.Event != nil {
				outcome := policy.Decide(state, roll.Event)
				if *verbose {
					executorName := "?"
					if executor := state.PlayerByID(roll.Event.ExecutorPlayerID); executor != nil {
						executorName = executor.Name
					}
					log.Printf("📋 [%s] %s → %s by %s (%s)",
						roll.Event.Type, roll.Event.Title, roll.Event.Task, executorName, outcome)
				}
				resolved, err := client.Resolve(outcome)
				if err != nil {
					log.Printf("Resolve failed: %v", err)
					break
				}
				state = resolved.GameState
			}

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		totalRolls += rollCount
		if winner != nil {
			wins[winner.Name]++
			log.Printf("🎉 %s wins game %d in %d rolls (cards: %d, rejected: %d)",
				winner.Name, gameNum, rollCount, policy.Decisions(), policy.Rejections())
		} else {
			log.Printf("⚠️  Game %d unfinished after %d rolls", gameNum, rollCount)
		}
	}

	log.Printf("\n=== Results over %d game(s) ===", *games)
	log.Printf("Total rolls: %d", totalRolls)
	for name, count := range wins {
		log.Printf("  %s: %d win(s)", name, count)
	}
	log.Printf("Session: %s", client.sessionID)

	if len(wins) == 0 {
		os.Exit(1)
	}
}
