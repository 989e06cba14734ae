package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/wricardo/mcp-training/foodchain/game/engine"
	"github.com/wricardo/mcp-training/foodchain/game/service"
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
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"Food Chain Tycoon",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Food Chain Tycoon - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Run the most profitable restaurant chain. Hire and train employees, market
products to houses and sell them at dinnertime. The game ends when the bank
breaks for the second time; the richest player wins.

TURN FLOW:
1. Call current_action to learn whose turn it is and what the game waits for.
2. Answer with the matching tool (place_restaurant, select_reserve,
   submit_structure, execute_work, place_campaign, ...).
3. Rejected actions leave the game unchanged; read the error and try again.

Use render_board to see the map and game_log to see what happened.`),
	)

	c.registerTools()
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func enumProp(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        values,
		"description": description,
	}
}

func tool(name, description string, properties map[string]interface{}, required ...string) mcp.Tool {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}

var (
	sessionProp = prop("string", "Session ID")
	playerProp  = prop("integer", "Player index (0-based)")
	rowProp     = prop("integer", "Row (0-based)")
	colProp     = prop("integer", "Column (0-based)")
	rangeProp   = prop("integer", "Maximum distance")
)

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(tool("create_session", "Create a new game session with optional config selection",
		map[string]interface{}{
			"config_id": prop("string", "ID of the preset to use (optional, see list_configs)"),
		}), c.handleCreateSession)

	c.mcpServer.AddTool(tool("list_sessions", "List all active game sessions", nil), c.handleListSessions)

	c.mcpServer.AddTool(tool("get_session", "Get details of a specific session",
		map[string]interface{}{"session_id": sessionProp}, "session_id"), c.handleGetSession)

	c.mcpServer.AddTool(tool("delete_session", "Delete a game session",
		map[string]interface{}{"session_id": sessionProp}, "session_id"), c.handleDeleteSession)

	// State and queries
	c.mcpServer.AddTool(tool("game_state", "Get a summary of the current game state",
		map[string]interface{}{"session_id": sessionProp}, "session_id"), c.handleGameState)

	c.mcpServer.AddTool(tool("current_action", "Get whose turn it is and what the game waits for",
		map[string]interface{}{"session_id": sessionProp}, "session_id"), c.handleCurrentAction)

	c.mcpServer.AddTool(tool("game_log", "Get the game log with pagination",
		map[string]interface{}{
			"session_id": sessionProp,
			"page":       prop("integer", "Page number"),
			"limit":      prop("integer", "Entries per page"),
			"order":      enumProp("Sort order", "asc", "desc"),
		}, "session_id"), c.handleGameLog)

	c.mcpServer.AddTool(tool("render_board", "Render the map as ASCII. Legend: # road, H house, B/L/S beer/lemonade/soda, 1-5 restaurants of players 0-4, lowercase letters campaigns",
		map[string]interface{}{"session_id": sessionProp}, "session_id"), c.handleRenderBoard)

	c.mcpServer.AddTool(tool("restaurant_positions", "List legal restaurant footprints and their entrances",
		map[string]interface{}{"session_id": sessionProp}, "session_id"), c.handleRestaurantPositions)

	c.mcpServer.AddTool(tool("drink_sources", "Find drink sources reachable from a cell",
		map[string]interface{}{
			"session_id": sessionProp,
			"row":        rowProp,
			"col":        colProp,
			"range":      rangeProp,
			"route":      enumProp("Travel mode (default road)", "road", "fly"),
		}, "session_id", "row", "col", "range"), c.handleDrinkSources)

	c.mcpServer.AddTool(tool("houses_in_range", "Find houses within road distance of a cell",
		map[string]interface{}{
			"session_id": sessionProp,
			"row":        rowProp,
			"col":        colProp,
			"range":      rangeProp,
		}, "session_id", "row", "col", "range"), c.handleHousesInRange)

	// Setup
	c.mcpServer.AddTool(tool("place_restaurant", "Place a restaurant (setup, or a pending place_restaurant action)",
		map[string]interface{}{
			"session_id": sessionProp,
			"player":     playerProp,
			"row":        rowProp,
			"col":        colProp,
			"corner_dr":  prop("integer", "Entrance corner row offset inside the 2x2 footprint (0 or 1)"),
			"corner_dc":  prop("integer", "Entrance corner column offset inside the 2x2 footprint (0 or 1)"),
		}, "session_id", "player", "row", "col"), c.handlePlaceRestaurant)

	c.mcpServer.AddTool(tool("pass_restaurant", "Decline to place a restaurant during setup",
		map[string]interface{}{"session_id": sessionProp, "player": playerProp},
		"session_id", "player"), c.handlePassRestaurant)

	c.mcpServer.AddTool(tool("select_reserve", "Choose the secret reserve card",
		map[string]interface{}{
			"session_id": sessionProp,
			"player":     playerProp,
			"amount":     map[string]interface{}{"type": "integer", "enum": []int{100, 200, 300}, "description": "Reserve amount"},
		}, "session_id", "player", "amount"), c.handleSelectReserve)

	// Restructuring
	c.mcpServer.AddTool(tool("submit_structure", "Submit the org chart for this round",
		map[string]interface{}{
			"session_id": sessionProp,
			"player":     playerProp,
			"ceo":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Card IDs reporting to the CEO"},
			"managers":   prop("object", "Manager card ID to the card IDs it manages"),
		}, "session_id", "player"), c.handleSubmitStructure)

	c.mcpServer.AddTool(tool("finish_restructuring", "Close restructuring and start the round",
		map[string]interface{}{"session_id": sessionProp}, "session_id"), c.handleFinishRestructuring)

	// Working 9-5
	c.mcpServer.AddTool(tool("execute_work", "Answer the pending work action",
		map[string]interface{}{
			"session_id": sessionProp,
			"player":     playerProp,
			"kind":       enumProp("Answer kind", "hire", "skip", "produce", "buy_drink", "train", "placed"),
			"employee":   prop("string", "Employee type to hire"),
			"product":    prop("string", "Product for produce or buy_drink"),
			"card":       prop("string", "Card ID to train"),
			"to":         prop("string", "Employee type to train into"),
		}, "session_id", "player", "kind"), c.handleExecuteWork)

	c.mcpServer.AddTool(tool("place_campaign", "Place a marketing campaign for the pending campaign action",
		map[string]interface{}{
			"session_id": sessionProp,
			"player":     playerProp,
			"type":       enumProp("Campaign type", "billboard", "mailbox", "airplane", "radio"),
			"product":    enumProp("Advertised product", "burger", "pizza", "beer", "lemonade", "soda"),
			"row":        rowProp,
			"col":        colProp,
			"direction":  enumProp("Airplane strip direction", "row", "col"),
			"size":       prop("integer", "Airplane strip size"),
		}, "session_id", "player", "type", "product", "row", "col"), c.handlePlaceCampaign)

	c.mcpServer.AddTool(tool("auto_campaign", "Let the game pick the best spot for a campaign",
		map[string]interface{}{
			"session_id": sessionProp,
			"player":     playerProp,
			"type":       enumProp("Campaign type", "billboard", "mailbox", "airplane", "radio"),
			"product":    enumProp("Advertised product", "burger", "pizza", "beer", "lemonade", "soda"),
		}, "session_id", "player", "type", "product"), c.handleAutoCampaign)

	c.mcpServer.AddTool(tool("auto_house", "Build a new house at the first free site",
		map[string]interface{}{"session_id": sessionProp, "player": playerProp},
		"session_id", "player"), c.handleAutoHouse)

	c.mcpServer.AddTool(tool("auto_garden", "Add a garden to the best house",
		map[string]interface{}{"session_id": sessionProp, "player": playerProp},
		"session_id", "player"), c.handleAutoGarden)

	// Configuration
	c.mcpServer.AddTool(tool("list_configs", "List available game configurations", nil), c.handleListConfigs)

	c.mcpServer.AddTool(tool("game_instructions", "Get game instructions and rules", nil), c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if text, ok := result.(*string); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*text = string(data)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(args map[string]interface{}, suffix string) string {
	return "/api/sessions/" + url.PathEscape(cast.ToString(args["session_id"])) + suffix
}

// action posts a mutating call and formats the outcome.
func (c *Client) action(ctx context.Context, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]string{}
	if configID := cast.ToString(args["config_id"]); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameConfig != nil && session.GameConfig.Messages.Welcome != "" {
		result += session.GameConfig.Messages.Welcome + "\n"
	}
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
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
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall(ctx, "DELETE", sessionPath(arguments(request), ""), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleCurrentAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var action service.CurrentAction
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), "/action"), nil, &action); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCurrentAction(&action)), nil
}

func (c *Client) handleGameLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	params := url.Values{}
	if page := cast.ToInt(args["page"]); page > 0 {
		params.Set("page", cast.ToString(page))
	}
	if limit := cast.ToInt(args["limit"]); limit > 0 {
		params.Set("limit", cast.ToString(limit))
	}
	if order := cast.ToString(args["order"]); order != "" {
		params.Set("order", order)
	}

	var logPage service.LogResponse
	if err := c.apiCall(ctx, "GET", sessionPath(args, "/log?"+params.Encode()), nil, &logPage); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLog(&logPage)), nil
}

func (c *Client) handleRenderBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rendered string
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), "/board"), nil, &rendered); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rendered), nil
}

func (c *Client) handleRestaurantPositions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count     int `json:"count"`
		Positions []struct {
			Row       int `json:"row"`
			Col       int `json:"col"`
			Entrances []struct {
				Row int `json:"row"`
				Col int `json:"col"`
			} `json:"entrances"`
		} `json:"positions"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), "/restaurant-positions"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Restaurant positions (%d):\n", response.Count)
	for _, p := range response.Positions {
		corners := make([]string, 0, len(p.Entrances))
		for _, e := range p.Entrances {
			corners = append(corners, fmt.Sprintf("(%d,%d)", e.Row-p.Row, e.Col-p.Col))
		}
		fmt.Fprintf(&b, "- (%d,%d) entrance corners: %s\n", p.Row, p.Col, strings.Join(corners, " "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleDrinkSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	params := url.Values{}
	params.Set("row", cast.ToString(cast.ToInt(args["row"])))
	params.Set("col", cast.ToString(cast.ToInt(args["col"])))
	params.Set("range", cast.ToString(cast.ToInt(args["range"])))
	if route := cast.ToString(args["route"]); route != "" {
		params.Set("route", route)
	}

	var response struct {
		Count   int                      `json:"count"`
		Sources []map[string]interface{} `json:"sources"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(args, "/drink-sources?"+params.Encode()), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Drink sources (%d):\n", response.Count)
	for _, s := range response.Sources {
		fmt.Fprintf(&b, "- %s at (%d,%d), distance %d\n",
			cast.ToString(s["type"]), cast.ToInt(s["row"]), cast.ToInt(s["col"]), cast.ToInt(s["distance"]))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleHousesInRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	params := url.Values{}
	params.Set("row", cast.ToString(cast.ToInt(args["row"])))
	params.Set("col", cast.ToString(cast.ToInt(args["col"])))
	params.Set("range", cast.ToString(cast.ToInt(args["range"])))

	var response struct {
		Count  int                      `json:"count"`
		Houses []map[string]interface{} `json:"houses"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(args, "/houses?"+params.Encode()), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Houses in range (%d):\n", response.Count)
	for _, h := range response.Houses {
		house := cast.ToStringMap(h["house"])
		fmt.Fprintf(&b, "- house %d at (%d,%d), distance %d, demand %v\n",
			cast.ToInt(house["number"]), cast.ToInt(house["row"]), cast.ToInt(house["col"]),
			cast.ToInt(h["distance"]), house["demand"])
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handlePlaceRestaurant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := map[string]interface{}{
		"player": cast.ToInt(args["player"]),
		"row":    cast.ToInt(args["row"]),
		"col":    cast.ToInt(args["col"]),
		"corner": map[string]int{
			"dr": cast.ToInt(args["corner_dr"]),
			"dc": cast.ToInt(args["corner_dc"]),
		},
	}
	return c.action(ctx, sessionPath(args, "/restaurant"), body)
}

func (c *Client) handlePassRestaurant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	return c.action(ctx, sessionPath(args, "/restaurant/pass"), map[string]int{"player": cast.ToInt(args["player"])})
}

func (c *Client) handleSelectReserve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	return c.action(ctx, sessionPath(args, "/reserve"), map[string]int{
		"player": cast.ToInt(args["player"]),
		"amount": cast.ToInt(args["amount"]),
	})
}

func (c *Client) handleSubmitStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	structure := engine.Structure{Managers: map[engine.CardID][]engine.CardID{}}
	for _, id := range cast.ToStringSlice(args["ceo"]) {
		structure.CEO = append(structure.CEO, engine.CardID(id))
	}
	for manager, reports := range cast.ToStringMap(args["managers"]) {
		for _, id := range cast.ToStringSlice(reports) {
			structure.Managers[engine.CardID(manager)] = append(structure.Managers[engine.CardID(manager)], engine.CardID(id))
		}
	}

	return c.action(ctx, sessionPath(args, "/structure"), map[string]interface{}{
		"player":    cast.ToInt(args["player"]),
		"structure": structure,
	})
}

func (c *Client) handleFinishRestructuring(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, sessionPath(arguments(request), "/structure/finish"), nil)
}

func (c *Client) handleExecuteWork(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := map[string]interface{}{
		"player":   cast.ToInt(args["player"]),
		"kind":     cast.ToString(args["kind"]),
		"employee": cast.ToString(args["employee"]),
		"product":  cast.ToString(args["product"]),
		"card":     cast.ToString(args["card"]),
		"to":       cast.ToString(args["to"]),
	}
	return c.action(ctx, sessionPath(args, "/work"), body)
}

func (c *Client) handlePlaceCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := map[string]interface{}{
		"player":    cast.ToInt(args["player"]),
		"type":      cast.ToString(args["type"]),
		"product":   cast.ToString(args["product"]),
		"row":       cast.ToInt(args["row"]),
		"col":       cast.ToInt(args["col"]),
		"direction": cast.ToString(args["direction"]),
		"size":      cast.ToInt(args["size"]),
	}
	return c.action(ctx, sessionPath(args, "/campaign"), body)
}

func (c *Client) handleAutoCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := map[string]interface{}{
		"player":  cast.ToInt(args["player"]),
		"type":    cast.ToString(args["type"]),
		"product": cast.ToString(args["product"]),
	}
	return c.action(ctx, sessionPath(args, "/campaign/auto"), body)
}

func (c *Client) handleAutoHouse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	return c.action(ctx, sessionPath(args, "/house/auto"), map[string]int{"player": cast.ToInt(args["player"])})
}

func (c *Client) handleAutoGarden(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	return c.action(ctx, sessionPath(args, "/garden/auto"), map[string]int{"player": cast.ToInt(args["player"])})
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		layout := "generated map"
		if config.FixedLayout {
			layout = "fixed map"
		}
		mode := "full game"
		if config.Intro {
			mode = "intro game"
		}
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Players: %d, %s, %s\n\n",
			config.Name, config.ConfigID, config.Description, config.Players, layout, mode)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `Food Chain Tycoon - Instructions

SETUP:
• In reverse turn order each player places one restaurant (a 2x2 footprint)
  with one entrance corner touching a road, or passes.
• Then each player picks a secret reserve card of 100, 200 or 300.

ROUND PHASES:
1. Restructuring: arrange employees under the CEO. Cards left out go to
   the beach and do nothing this round.
2. Order of business: turn order by open CEO slots.
3. Working 9-5: employees act in turn order. Recruiters hire, trainers
   train, kitchens produce food, buyers fetch drinks, marketers place
   campaigns and new business developers build houses, gardens and
   restaurants.
4. Dinnertime: each house with demand buys from the cheapest reachable
   restaurant that can serve its whole order.
5. Payday: pay $5 per salaried employee or fire them first.
6. Marketing campaigns: campaigns add demand to houses in reach.
7. Cleanup: unsold food and drinks are discarded unless you own a freezer.

END OF GAME:
The first time the bank breaks the reserve cards are revealed and added to
the bank. The second time, the game ends after the current dinnertime and
the player with the most cash wins.

MAP LEGEND:
• # road, . empty, H house
• B beer, L lemonade, S soda
• 1-5 restaurants of players 0-4
• b, m, a, r billboard, mailbox, airplane and radio campaigns

TIPS:
• Always check current_action before acting.
• Use restaurant_positions to find legal footprints.
• drink_sources and houses_in_range show what a cell can reach.`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast accessed: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Round %d, phase %s\n", state.Round, state.Phase)
	fmt.Fprintf(&b, "Bank: $%d", state.Bank)
	if state.BankBroken > 0 {
		fmt.Fprintf(&b, " (broken %dx)", state.BankBroken)
	}
	b.WriteString("\n")

	if len(state.TurnOrder) > 0 {
		order := make([]string, len(state.TurnOrder))
		for i, p := range state.TurnOrder {
			order[i] = cast.ToString(p)
		}
		fmt.Fprintf(&b, "Turn order: %s\n", strings.Join(order, ", "))
	}
	if !state.GameOver {
		fmt.Fprintf(&b, "Current player: %d\n", state.CurrentPlayer)
	}

	b.WriteString("\nPlayers:\n")
	for _, p := range state.Players {
		fmt.Fprintf(&b, "- %d %s: $%d, %d employees, %d restaurants",
			p.ID, p.Name, p.Cash, len(p.Cards), len(p.Restaurants))
		if inventory := formatInventory(p); inventory != "" {
			fmt.Fprintf(&b, ", stock %s", inventory)
		}
		if len(p.Milestones) > 0 {
			names := make([]string, len(p.Milestones))
			for i, m := range p.Milestones {
				names[i] = string(m)
			}
			fmt.Fprintf(&b, ", milestones %s", strings.Join(names, " "))
		}
		b.WriteString("\n")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", state.Message)
	}
	if state.GameOver {
		b.WriteString("\nGAME OVER")
		if state.Winner != nil {
			fmt.Fprintf(&b, " - winner: player %d", *state.Winner)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatInventory(p *engine.Player) string {
	counts := map[string]int{}
	for product, n := range p.Food {
		counts[string(product)] += n
	}
	for product, n := range p.Drinks {
		counts[string(product)] += n
	}
	var parts []string
	for product, n := range counts {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", product, n))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func formatCurrentAction(action *service.CurrentAction) string {
	if action.GameOver {
		return fmt.Sprintf("The game is over after round %d.", action.Round)
	}
	result := fmt.Sprintf("Round %d, phase %s\nPlayer %d (%s) to act\n",
		action.Round, action.Phase, action.Player, action.PlayerName)
	if action.Work != nil {
		result += fmt.Sprintf("Pending work: %s", action.Work.Type)
		if action.Work.Employee != "" {
			result += fmt.Sprintf(" by %s", action.Work.Employee)
		}
		if action.Work.CardID != "" {
			result += fmt.Sprintf(" (card %s)", action.Work.CardID)
		}
		result += "\n"
	}
	if action.Remaining > 0 {
		result += fmt.Sprintf("Remaining: %d\n", action.Remaining)
	}
	return result
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	for _, ev := range result.Events {
		fmt.Fprintf(&b, "[%s] %s\n", ev.Type, ev.Message)
	}
	if result.CurrentAction != nil {
		b.WriteString("\n" + formatCurrentAction(result.CurrentAction))
	}
	return b.String()
}

func formatLog(page *service.LogResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game log (page %d of %d, %d entries):\n", page.Page, page.TotalPages, page.Total)
	for _, entry := range page.Entries {
		fmt.Fprintf(&b, "R%d %s: %s\n", entry.Round, entry.Phase, entry.Message)
	}
	if page.HasNext {
		b.WriteString("(more entries on the next page)\n")
	}
	return b.String()
}
