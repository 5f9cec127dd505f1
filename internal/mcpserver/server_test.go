package mcpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	appbets "github.com/r88510179-collab/breakfast-klub/internal/app/bets"
	"github.com/r88510179-collab/breakfast-klub/internal/leagues"
	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
	"github.com/r88510179-collab/breakfast-klub/internal/testutil"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

func TestMCPServerLedgerTools(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	userID, err := st.CreateUser(ctx, "mcp-user", "bk_live_mcp")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	betID, err := st.InsertBet(ctx, ledger.Bet{
		UserID: userID,
		Date:   time.Now(),
		Capper: "mike",
		League: "nba",
		Play:   "Lakers ML",
		Odds:   100,
		Units:  1,
		Status: ledger.StatusFinal,
		Result: ledger.ResultWin,
	})
	if err != nil {
		t.Fatalf("insert bet: %v", err)
	}

	srv := New(st, appbets.NewService(st), leagues.NewResolver("", time.Hour))
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	tools := mustListTools(t, mcpClient)
	assertToolNames(t, tools, "list_bets", "get_bet", "ledger_stats", "resolve_league")

	listRes := mustCallTool(t, mcpClient, "list_bets", map[string]any{"api_key": "bk_live_mcp"})
	if listRes.IsError {
		t.Fatalf("list_bets error: %v", listRes.StructuredContent)
	}
	listPayload := mapFromStructured(t, listRes)
	items, _ := listPayload["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("list_bets items = %v", listPayload)
	}

	getRes := mustCallTool(t, mcpClient, "get_bet", map[string]any{"api_key": "bk_live_mcp", "bet_id": betID})
	if getRes.IsError {
		t.Fatalf("get_bet error: %v", getRes.StructuredContent)
	}
	getPayload := mapFromStructured(t, getRes)
	if asString(getPayload["id"]) != betID {
		t.Fatalf("get_bet payload = %v", getPayload)
	}
	if asFloat64(getPayload["net_units"]) != 1 {
		t.Fatalf("net_units = %v, want 1 for +100 one unit win", getPayload["net_units"])
	}

	statsRes := mustCallTool(t, mcpClient, "ledger_stats", map[string]any{"api_key": "bk_live_mcp"})
	if statsRes.IsError {
		t.Fatalf("ledger_stats error: %v", statsRes.StructuredContent)
	}
	statsPayload := mapFromStructured(t, statsRes)
	totals, _ := statsPayload["totals"].(map[string]any)
	if asFloat64(totals["wins"]) != 1 {
		t.Fatalf("totals = %v", totals)
	}

	leagueRes := mustCallTool(t, mcpClient, "resolve_league", map[string]any{"label": "national basketball association"})
	if leagueRes.IsError {
		t.Fatalf("resolve_league error: %v", leagueRes.StructuredContent)
	}
	leaguePayload := mapFromStructured(t, leagueRes)
	lg, _ := leaguePayload["league"].(map[string]any)
	if asString(lg["key"]) != "nba" {
		t.Fatalf("resolve_league payload = %v", leaguePayload)
	}
}

func TestMCPServerScopingAndAuth(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	ownerID, err := st.CreateUser(ctx, "owner", "bk_live_owner")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	if _, err := st.CreateUser(ctx, "other", "bk_live_other"); err != nil {
		t.Fatalf("create other: %v", err)
	}
	betID, err := st.InsertBet(ctx, ledger.Bet{
		UserID: ownerID,
		Date:   time.Now(),
		Play:   "Lakers ML",
		Status: ledger.StatusOpen,
		Result: ledger.ResultOpen,
	})
	if err != nil {
		t.Fatalf("insert bet: %v", err)
	}

	srv := New(st, appbets.NewService(st), leagues.NewResolver("", time.Hour))
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	badKey := mustCallTool(t, mcpClient, "list_bets", map[string]any{"api_key": "bk_live_wrong"})
	assertToolErrorCode(t, badKey, "unauthorized")

	crossUser := mustCallTool(t, mcpClient, "get_bet", map[string]any{"api_key": "bk_live_other", "bet_id": betID})
	assertToolErrorCode(t, crossUser, "not_found")
}

func newMCPClient(t *testing.T, url string) (*client.Client, func()) {
	t.Helper()
	ctx := context.Background()
	trans, err := transport.NewStreamableHTTP(url)
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	if err := trans.Start(ctx); err != nil {
		t.Fatalf("transport start: %v", err)
	}
	c := client.NewClient(trans)
	_, err = c.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION}})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c, func() { _ = trans.Close() }
}

func mustListTools(t *testing.T, c *client.Client) []mcp.Tool {
	t.Helper()
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	return res.Tools
}

func assertToolNames(t *testing.T, tools []mcp.Tool, expected ...string) {
	t.Helper()
	got := make([]string, 0, len(tools))
	for _, tool := range tools {
		got = append(got, tool.Name)
	}
	sort.Strings(got)
	sort.Strings(expected)
	if len(got) != len(expected) {
		t.Fatalf("tool count mismatch got=%v expected=%v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("tool list mismatch got=%v expected=%v", got, expected)
		}
	}
}

func mustCallTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := c.CallTool(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
	if err != nil {
		t.Fatalf("call tool %s: %v", name, err)
	}
	return res
}

func assertToolErrorCode(t *testing.T, res *mcp.CallToolResult, want string) {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected tool error %q, got success: %v", want, res.StructuredContent)
	}
	payload := mapFromStructured(t, res)
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("error payload missing 'error': %v", payload)
	}
	if got := asString(errObj["code"]); got != want {
		t.Fatalf("error code=%q want=%q payload=%v", got, want, payload)
	}
}

func mapFromStructured(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	b, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat64(v any) float64 {
	f, _ := v.(float64)
	return f
}
