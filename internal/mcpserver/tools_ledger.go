package mcpserver

import (
	"context"

	"github.com/r88510179-collab/breakfast-klub/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

func clampPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Server) registerLedgerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_bets",
			mcp.WithDescription("List ledger rows for the authenticated user, newest first"),
			mcp.WithString("api_key", mcp.Required(), mcp.Description("User API key")),
			mcp.WithString("status", mcp.Description("OPEN|FINAL")),
			mcp.WithString("result", mcp.Description("OPEN|WIN|LOSS|PUSH|VOID|CASHOUT")),
			mcp.WithString("capper", mcp.Description("Filter by capper name")),
			mcp.WithString("league", mcp.Description("Filter by league key")),
			mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 500")),
			mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
		),
		s.handleListBets,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_bet",
			mcp.WithDescription("Get one ledger row by id"),
			mcp.WithString("api_key", mcp.Required(), mcp.Description("User API key")),
			mcp.WithString("bet_id", mcp.Required(), mcp.Description("Bet id")),
		),
		s.handleGetBet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"ledger_stats",
			mcp.WithDescription("Aggregate performance stats with breakdowns by capper, league and month"),
			mcp.WithString("api_key", mcp.Required(), mcp.Description("User API key")),
			mcp.WithString("capper", mcp.Description("Filter by capper name")),
			mcp.WithString("league", mcp.Description("Filter by league key")),
		),
		s.handleLedgerStats,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"resolve_league",
			mcp.WithDescription("Resolve a free-text league label to a canonical sport/league key"),
			mcp.WithString("label", mcp.Required(), mcp.Description("League label as printed on a slip")),
		),
		s.handleResolveLeague,
	)
}

func (s *Server) handleListBets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, errResult := s.authUser(ctx, request.GetString("api_key", ""))
	if errResult != nil {
		return errResult, nil
	}
	limit, offset := clampPagination(request.GetInt("limit", defaultPageLimit), request.GetInt("offset", 0))
	f := store.BetFilter{
		Status: request.GetString("status", ""),
		Result: request.GetString("result", ""),
		Capper: request.GetString("capper", ""),
		League: request.GetString("league", ""),
	}
	resp, err := s.betsSvc.List(ctx, u.ID, f, limit, offset)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(resp), nil
}

func (s *Server) handleGetBet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, errResult := s.authUser(ctx, request.GetString("api_key", ""))
	if errResult != nil {
		return errResult, nil
	}
	betID, err := request.RequireString("bet_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	resp, svcErr := s.betsSvc.Get(ctx, u.ID, betID)
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(resp), nil
}

func (s *Server) handleLedgerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, errResult := s.authUser(ctx, request.GetString("api_key", ""))
	if errResult != nil {
		return errResult, nil
	}
	f := store.BetFilter{
		Capper: request.GetString("capper", ""),
		League: request.GetString("league", ""),
	}
	resp, err := s.betsSvc.Stats(ctx, u.ID, f)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(resp), nil
}

func (s *Server) handleResolveLeague(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := request.RequireString("label")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	return toolResult(s.resolver.Resolve(ctx, label)), nil
}
