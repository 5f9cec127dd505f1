package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appinsights "github.com/r88510179-collab/breakfast-klub/internal/app/insights"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
)

type InsightHandlers struct {
	insightsSvc *appinsights.Service
}

func NewInsightHandlers(insightsSvc *appinsights.Service) *InsightHandlers {
	return &InsightHandlers{insightsSvc: insightsSvc}
}

func (h *InsightHandlers) Ask() http.HandlerFunc {
	type askRequest struct {
		Question string `json:"question"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in askRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricAskTotal.Add(1)
		resp, err := h.insightsSvc.Ask(r.Context(), u.ID, in.Question)
		if err != nil {
			metricAskErrors.Add(1)
			switch {
			case errors.Is(err, appinsights.ErrEmptyQuestion):
				WriteHTTPError(w, http.StatusBadRequest, "empty_question")
			case errors.Is(err, llm.ErrNoProviders):
				WriteHTTPError(w, http.StatusServiceUnavailable, "no_providers_configured")
			case errors.Is(err, appinsights.ErrAnswerRejected):
				WriteHTTPError(w, http.StatusBadGateway, "answer_rejected")
			default:
				WriteHTTPError(w, http.StatusBadGateway, "provider_error")
			}
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
