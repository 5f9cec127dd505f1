package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appbets "github.com/r88510179-collab/breakfast-klub/internal/app/bets"
	appgrading "github.com/r88510179-collab/breakfast-klub/internal/app/grading"
	appinsights "github.com/r88510179-collab/breakfast-klub/internal/app/insights"
	appusers "github.com/r88510179-collab/breakfast-klub/internal/app/users"
	"github.com/r88510179-collab/breakfast-klub/internal/config"
	"github.com/r88510179-collab/breakfast-klub/internal/leagues"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
	"github.com/r88510179-collab/breakfast-klub/internal/mcpserver"
	"github.com/r88510179-collab/breakfast-klub/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st *store.Store, cfg config.ServerConfig, llmRouter *llm.Router, resolver *leagues.Resolver) *chi.Mux {
	betsSvc := appbets.NewService(st)
	usersSvc := appusers.NewService(st)
	gradingSvc := appgrading.NewService(st, llmRouter)
	insightsSvc := appinsights.NewService(st, llmRouter)
	mcpSrv := mcpserver.New(st, betsSvc, resolver)

	betHandlers := NewBetHandlers(betsSvc)
	userHandlers := NewUserHandlers(usersSvc)
	slipHandlers := NewSlipHandlers(gradingSvc, cfg.MaxUploadMB)
	insightHandlers := NewInsightHandlers(insightsSvc)
	leagueHandlers := NewLeagueHandlers(resolver)
	adminHandlers := NewAdminHandlers(st)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
	})
	r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", mcpSrv.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Post("/users/register", userHandlers.Register())
		r.Get("/leagues/resolve", leagueHandlers.Resolve())

		r.Group(func(r chi.Router) {
			r.Use(UserAuthMiddleware(usersSvc))
			r.Post("/bets", betHandlers.Create())
			r.Get("/bets", betHandlers.List())
			r.Get("/bets/export", betHandlers.ExportCSV())
			r.Get("/bets/{bet_id}", betHandlers.Get())
			r.Put("/bets/{bet_id}", betHandlers.Update())
			r.Delete("/bets/{bet_id}", betHandlers.Delete())
			r.Get("/stats", betHandlers.Stats())

			r.Post("/slips/scan", slipHandlers.Scan())
			r.Post("/slips/grade", slipHandlers.Grade())
			r.Post("/ai/ask", insightHandlers.Ask())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/users", userHandlers.List())
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
