// Package mcpserver exposes a read-only MCP tool surface over the ledger
// so LLM agents can query bets with the same per-user scoping as the HTTP
// API. Every tool authenticates with an api_key argument.
package mcpserver

import (
	"context"
	"net/http"
	"strings"

	appbets "github.com/r88510179-collab/breakfast-klub/internal/app/bets"
	"github.com/r88510179-collab/breakfast-klub/internal/leagues"
	"github.com/r88510179-collab/breakfast-klub/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type Server struct {
	store    *store.Store
	betsSvc  *appbets.Service
	resolver *leagues.Resolver

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(st *store.Store, betsSvc *appbets.Service, resolver *leagues.Resolver) *Server {
	mcpSrv := server.NewMCPServer(
		"breakfast-klub",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s := &Server{
		store:      st,
		betsSvc:    betsSvc,
		resolver:   resolver,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerLedgerTools()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) authUser(ctx context.Context, apiKey string) (*store.User, *mcp.CallToolResult) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, toolError("invalid_request", "api_key is required")
	}
	u, err := s.store.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, toolError("unauthorized", "invalid api_key")
	}
	return u, nil
}
