package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/chrissdom/couples-ludo/game/engine"
	"github.com/chrissdom/couples-ludo/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Couples Ludo",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Couples Ludo - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Two players race along a spiral path. The first to land exactly on or past
the final tile wins. Landing on special tiles or on your partner draws a
task card that must be accepted or rejected before play continues.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get the current game state
- switch_view: Switch between home, themes and game screens
- list_themes: List task themes in a session
- create_theme: Create a custom task theme
- update_theme: Rename or re-scope a custom theme
- add_task: Add a task to a theme
- remove_task: Remove a task from a theme
- import_tasks: Bulk import tasks into a theme
- select_theme: Pick a theme for a player
- start_game: Start the race once both players picked themes
- roll: Roll the die and move the active player
- resolve_task: Accept or reject the pending task card
- reset_game: Reset the session to the home screen
- list_configs: List available board configurations
- game_instructions: Get comprehensive game rules

TURN FLOW:
roll -> (maybe a task card) -> resolve_task -> opponent rolls.
While a card is pending the roll tool is rejected until resolve_task is called.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the board config to use (optional, defaults to classic)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with a board rendering",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "switch_view",
		Description: "Switch the session to the home, themes or game screen",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"view": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"home", "themes", "game"},
					"description": "Target view",
				},
			},
			Required: []string{"session_id", "view"},
		},
	}, c.handleSwitchView)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_theme",
		Description: "Pick a task theme for a player. Themes scoped to one role can only be picked by that player.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "integer",
					"description": "Player ID (0 or 1)",
				},
				"theme_id": map[string]interface{}{
					"type":        "string",
					"description": "Theme ID to select",
				},
			},
			Required: []string{"session_id", "player_id", "theme_id"},
		},
	}, c.handleSelectTheme)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start the race. Requires both players to have selected a theme.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll",
		Description: "Roll the die and move the active player. May draw a task card that must be resolved before the next roll.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this roll (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRoll)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resolve_task",
		Description: "Accept or reject the pending task card. Rejecting moves the executor backwards.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"outcome": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"accept", "reject"},
					"description": "Whether the executor accepts or rejects the task",
				},
			},
			Required: []string{"session_id", "outcome"},
		},
	}, c.handleResolveTask)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the session to the home screen with fresh players and board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	// Theme management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_themes",
		Description: "List the task themes available in a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleListThemes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_theme",
		Description: "Create a custom task theme",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Theme name",
				},
				"desc": map[string]interface{}{
					"type":        "string",
					"description": "Theme description (optional)",
				},
				"audience": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"common", "male", "female"},
					"description": "Which player role may select this theme (defaults to common)",
				},
			},
			Required: []string{"session_id", "name"},
		},
	}, c.handleCreateTheme)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "update_theme",
		Description: "Update a custom theme's name, description or audience",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"theme_id": map[string]interface{}{
					"type":        "string",
					"description": "Theme ID to update",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New name (optional)",
				},
				"desc": map[string]interface{}{
					"type":        "string",
					"description": "New description (optional)",
				},
				"audience": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"common", "male", "female"},
					"description": "New audience (optional)",
				},
			},
			Required: []string{"session_id", "theme_id"},
		},
	}, c.handleUpdateTheme)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_task",
		Description: "Add a single task to a theme",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"theme_id": map[string]interface{}{
					"type":        "string",
					"description": "Theme ID",
				},
				"task": map[string]interface{}{
					"type":        "string",
					"description": "Task text",
				},
			},
			Required: []string{"session_id", "theme_id", "task"},
		},
	}, c.handleAddTask)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_task",
		Description: "Remove a task from a theme by its index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"theme_id": map[string]interface{}{
					"type":        "string",
					"description": "Theme ID",
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based index of the task to remove",
				},
			},
			Required: []string{"session_id", "theme_id", "index"},
		},
	}, c.handleRemoveTask)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "import_tasks",
		Description: "Bulk import tasks into a theme. Duplicates and blank lines are dropped.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"theme_id": map[string]interface{}{
					"type":        "string",
					"description": "Theme ID",
				},
				"tasks": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
					},
					"description": "Tasks to import",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"append", "replace"},
					"description": "Whether to append to or replace the existing tasks (defaults to append)",
				},
			},
			Required: []string{"session_id", "theme_id", "tasks"},
		},
	}, c.handleImportTasks)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSwitchView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	view, _ := args["view"].(string)

	body := map[string]string{"view": view}

	var state engine.GameState
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/view", sessionID), body, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Switched to %s view\n\n%s", view, formatGameState(&state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSelectTheme(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	themeID, _ := args["theme_id"].(string)
	playerID := 0
	if v, ok := args["player_id"].(float64); ok {
		playerID = int(v)
	}

	body := map[string]string{"theme_id": themeID}

	var state engine.GameState
	err := c.apiCall("PUT", fmt.Sprintf("/api/sessions/%s/players/%d/theme", sessionID, playerID), body, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	player := state.PlayerByID(playerID)
	name := fmt.Sprintf("player %d", playerID)
	if player != nil {
		name = player.Name
	}
	result := fmt.Sprintf("%s selected theme %s\n\n%s", name, themeID, formatThemePicks(&state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.StartResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/start", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Success {
		return mcp.NewToolResultError(fmt.Sprintf("Cannot start: %s", result.Message)), nil
	}

	response := "🏁 Race started!\n\n" + formatGameState(result.GameState)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	var result service.RollResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/roll", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatRollResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleResolveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	outcome, _ := args["outcome"].(string)

	body := map[string]string{"outcome": outcome}

	var result service.ResolveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/resolve", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Success {
		return mcp.NewToolResultError(result.Message), nil
	}

	response := formatResolveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListThemes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Themes (%d):\n\n", len(state.Themes)))
	for _, theme := range state.Themes {
		b.WriteString(fmt.Sprintf("• %s [%s] (audience: %s, %d tasks)\n",
			theme.Name, theme.ID, theme.Audience, len(theme.Tasks)))
		if theme.Desc != "" {
			b.WriteString(fmt.Sprintf("  %s\n", theme.Desc))
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleCreateTheme(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	name, _ := args["name"].(string)
	desc, _ := args["desc"].(string)
	audience, _ := args["audience"].(string)

	body := map[string]string{"name": name, "desc": desc, "audience": audience}

	var result service.ThemeResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/themes", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Created theme %q with ID %s", name, result.ThemeID)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleUpdateTheme(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	themeID, _ := args["theme_id"].(string)

	body := map[string]string{}
	if name, ok := args["name"].(string); ok && name != "" {
		body["name"] = name
	}
	if desc, ok := args["desc"].(string); ok {
		body["desc"] = desc
	}
	if audience, ok := args["audience"].(string); ok && audience != "" {
		body["audience"] = audience
	}

	var result service.ThemeResult
	err := c.apiCall("PATCH", fmt.Sprintf("/api/sessions/%s/themes/%s", sessionID, themeID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated theme %s", themeID)), nil
}

func (c *Client) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	themeID, _ := args["theme_id"].(string)
	task, _ := args["task"].(string)

	body := map[string]string{"task": task}

	var result service.ThemeResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/themes/%s/tasks", sessionID, themeID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added task to theme %s", themeID)), nil
}

func (c *Client) handleRemoveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	themeID, _ := args["theme_id"].(string)
	index := -1
	if v, ok := args["index"].(float64); ok {
		index = int(v)
	}

	var result service.ThemeResult
	err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s/themes/%s/tasks/%d", sessionID, themeID, index), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed task %d from theme %s", index, themeID)), nil
}

func (c *Client) handleImportTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	themeID, _ := args["theme_id"].(string)
	mode, _ := args["mode"].(string)
	tasksRaw, _ := args["tasks"].([]interface{})

	tasks := make([]string, 0, len(tasksRaw))
	for _, t := range tasksRaw {
		if task, ok := t.(string); ok {
			tasks = append(tasks, task)
		}
	}

	body := map[string]interface{}{
		"tasks": tasks,
		"mode":  mode,
	}

	var result service.ThemeResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/themes/%s/import", sessionID, themeID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Imported %d tasks into theme %s", len(tasks), themeID)
	if theme := findTheme(result.GameState, themeID); theme != nil {
		response = fmt.Sprintf("Imported tasks into theme %s (now %d tasks)", themeID, len(theme.Tasks))
	}
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (id: %s)\n  %s\n  Grid: %dx%d, Path: %d tiles\n\n",
			config.Name, config.ConfigID, config.Description, config.GridSize, config.GridSize, config.PathLength)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎲 Couples Ludo - Complete Instructions

GAME OBJECTIVE:
Two players (one male, one female) race along a spiral path from the
center outward. The first player to land on or past the final tile wins.

BEFORE THE RACE:
1. Each player picks a task theme (select_theme). Themes scoped to a
   single role (male/female) can only be picked by that player; common
   themes are open to both.
2. Custom themes can be created and filled with tasks (create_theme,
   add_task, import_tasks).
3. Once both players have themes, start_game begins the race.

TURN FLOW:
• The active player rolls a six-sided die (roll) and moves forward.
• Landing exactly on or past the final tile wins immediately.
• Landing on certain tiles draws a task card:
  - 🍀 Lucky tile: a card from the MOVER's theme, performed by the OPPONENT
  - 💣 Trap tile: a card from the OPPONENT's theme, performed by the MOVER
  - 🤝 Collision (landing on your partner, anywhere except the start):
    a card from the MOVER's theme, performed by the OPPONENT
• While a card is pending, rolling is blocked. The executor must
  resolve_task with "accept" or "reject".
• Rejecting a card moves the executor BACKWARDS a random number of
  steps (bounded by the config), never below the start tile. On a
  collision reject the executor is sent all the way back to start.
• After the card is resolved the turn passes to the other player.

BOARD LEGEND (game_state rendering):
• 1 / 2 - player positions (player 1 and player 2)
• & - both players on the same tile
• * - lucky tile
• ! - trap tile
• F - final tile (the finish line)
• . - blank tile

STRATEGY NOTES FOR AI AGENTS:
- Check game_state before rolling to see whose turn it is. Rolling out
  of turn is not possible; the roll always moves the active player.
- A pending card blocks everything: if roll reports a task card, call
  resolve_task before trying to roll again.
- Rejecting tasks is costly. The penalty is random within the config's
  bounds, and a collision reject resets the executor to the start tile.
- Themes with more tasks give more variety; an empty theme falls back
  to a default card, so filling themes via import_tasks is worthwhile.

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent state, themes and configuration
- Sessions are persisted to disk and survive server restarts

CONFIGURATION OPTIONS:
- classic: 7x7 grid, 49-tile path, moderate hazard density
- long_trail: 9x9 grid, 81-tile path, more lucky and trap tiles

Have fun, and may the dice be kind! 🎲💕`

	return mcp.NewToolResultText(instructions), nil
}

func findTheme(state *engine.GameState, themeID string) *engine.Theme {
	if state == nil {
		return nil
	}
	return state.ThemeByID(themeID)
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05")))
	if session.PendingEvent != nil {
		b.WriteString(fmt.Sprintf("Pending card: %s\n", formatTaskEvent(session.PendingEvent, session.GameState)))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(session.GameState))
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("View: %s | Turn: %s\n", state.View, activePlayerLabel(state)))

	final := state.FinalStep()
	for _, p := range state.Players {
		theme := "none"
		if p.ThemeID != "" {
			theme = p.ThemeID
			if t := state.ThemeByID(p.ThemeID); t != nil {
				theme = t.Name
			}
		}
		result.WriteString(fmt.Sprintf("  %d. %s (%s) step %d/%d, theme: %s\n",
			p.ID+1, p.Name, p.Role, p.Step, final, theme))
	}

	if grid := renderBoard(state); grid != "" {
		result.WriteString("\n")
		result.WriteString(grid)
	}

	for _, p := range state.Players {
		if p.Step >= final && final > 0 {
			result.WriteString(fmt.Sprintf("\n🎉 %s WINS!", p.Name))
			break
		}
	}

	return result.String()
}

func activePlayerLabel(state *engine.GameState) string {
	if p := state.ActivePlayer(); p != nil {
		return fmt.Sprintf("%s (player %d)", p.Name, p.ID+1)
	}
	return "unknown"
}

// renderBoard draws the spiral path on its grid, one character per tile
func renderBoard(state *engine.GameState) string {
	if len(state.PathCoords) == 0 || len(state.BoardMap) != len(state.PathCoords) {
		return ""
	}

	size := 0
	for _, c := range state.PathCoords {
		if c.Row+1 > size {
			size = c.Row + 1
		}
		if c.Col+1 > size {
			size = c.Col + 1
		}
	}
	if size == 0 {
		return ""
	}

	grid := make([][]string, size)
	for i := range grid {
		grid[i] = make([]string, size)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	final := state.FinalStep()
	for step, coord := range state.PathCoords {
		char := "."
		switch {
		case step == final:
			char = "F"
		case state.BoardMap[step] == engine.TileLucky:
			char = "*"
		case state.BoardMap[step] == engine.TileTrap:
			char = "!"
		}
		grid[coord.Row][coord.Col] = char
	}

	// Player markers overlay tile characters
	for _, p := range state.Players {
		if p.Step < 0 || p.Step >= len(state.PathCoords) {
			continue
		}
		coord := state.PathCoords[p.Step]
		marker := fmt.Sprintf("%d", p.ID+1)
		if cur := grid[coord.Row][coord.Col]; cur == "1" || cur == "2" {
			marker = "&"
		}
		grid[coord.Row][coord.Col] = marker
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	return b.String()
}

func formatThemePicks(state *engine.GameState) string {
	if state == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("Theme picks:\n")
	for _, p := range state.Players {
		theme := "(none)"
		if t := state.ThemeByID(p.ThemeID); t != nil {
			theme = t.Name
		}
		b.WriteString(fmt.Sprintf("  %s: %s\n", p.Name, theme))
	}
	return b.String()
}

func formatRollResult(result *service.RollResult) string {
	var b strings.Builder

	if !result.Success {
		b.WriteString(fmt.Sprintf("✗ Roll rejected: %s\n", result.Message))
		if result.GameState != nil {
			b.WriteString("\n")
			b.WriteString(formatGameState(result.GameState))
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("🎲 Rolled %d: step %d → %d\n", result.Die, result.FromStep, result.LandingStep))

	switch {
	case result.Win:
		b.WriteString("🏆 Winning move!\n")
	case result.Event != nil:
		b.WriteString("📋 Task card drawn:\n")
		b.WriteString(formatTaskEvent(result.Event, result.GameState))
		b.WriteString("\nResolve with resolve_task (accept/reject) before the next roll.\n")
	case result.TurnEnded:
		b.WriteString("Turn passes to the other player.\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatTaskEvent(event *engine.TaskEvent, state *engine.GameState) string {
	if event == nil {
		return ""
	}
	executor := fmt.Sprintf("player %d", event.ExecutorPlayerID+1)
	if state != nil {
		if p := state.PlayerByID(event.ExecutorPlayerID); p != nil {
			executor = p.Name
		}
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  [%s] %s\n", event.Type, event.Title))
	if event.Subtitle != "" {
		b.WriteString(fmt.Sprintf("  %s\n", event.Subtitle))
	}
	b.WriteString(fmt.Sprintf("  Task: %s\n", event.Task))
	b.WriteString(fmt.Sprintf("  Performed by: %s\n", executor))
	return b.String()
}

func formatResolveResult(result *service.ResolveResult) string {
	var b strings.Builder
	if result.Outcome == engine.OutcomeAccept {
		b.WriteString("✓ Task accepted\n")
	} else {
		b.WriteString("✗ Task rejected\n")
	}
	if result.Message != "" {
		b.WriteString(result.Message)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}
