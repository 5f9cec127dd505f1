package httptransport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/r88510179-collab/breakfast-klub/internal/leagues"
)

type LeagueHandlers struct {
	resolver *leagues.Resolver
}

func NewLeagueHandlers(resolver *leagues.Resolver) *LeagueHandlers {
	return &LeagueHandlers{resolver: resolver}
}

func (h *LeagueHandlers) Resolve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		label := strings.TrimSpace(r.URL.Query().Get("label"))
		if label == "" {
			WriteHTTPError(w, http.StatusBadRequest, "missing_label")
			return
		}
		_ = json.NewEncoder(w).Encode(h.resolver.Resolve(r.Context(), label))
	}
}
