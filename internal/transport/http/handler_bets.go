package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	appbets "github.com/r88510179-collab/breakfast-klub/internal/app/bets"
	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
	"github.com/r88510179-collab/breakfast-klub/internal/store"

	"github.com/go-chi/chi/v5"
)

type BetHandlers struct {
	betsSvc *appbets.Service
}

func NewBetHandlers(betsSvc *appbets.Service) *BetHandlers {
	return &BetHandlers{betsSvc: betsSvc}
}

func (h *BetHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in appbets.BetInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.betsSvc.Create(r.Context(), u.ID, in)
		if err != nil {
			writeBetError(w, err)
			return
		}
		metricBetWritesTotal.Add(1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *BetHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		resp, err := h.betsSvc.Get(r.Context(), u.ID, chi.URLParam(r, "bet_id"))
		if err != nil {
			writeBetError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *BetHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, offset := ParsePagination(r)
		resp, err := h.betsSvc.List(r.Context(), u.ID, betFilterFromQuery(r), limit, offset)
		if err != nil {
			writeBetError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *BetHandlers) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in appbets.BetInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.betsSvc.Update(r.Context(), u.ID, chi.URLParam(r, "bet_id"), in)
		if err != nil {
			writeBetError(w, err)
			return
		}
		metricBetWritesTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *BetHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := h.betsSvc.Delete(r.Context(), u.ID, chi.URLParam(r, "bet_id")); err != nil {
			writeBetError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *BetHandlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		resp, err := h.betsSvc.Stats(r.Context(), u.ID, betFilterFromQuery(r))
		if err != nil {
			writeBetError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *BetHandlers) ExportCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="bets.csv"`)
		if err := h.betsSvc.ExportCSV(r.Context(), u.ID, betFilterFromQuery(r), w); err != nil {
			// Headers are already out; the truncated file is the best we can do.
			return
		}
	}
}

func betFilterFromQuery(r *http.Request) store.BetFilter {
	q := r.URL.Query()
	f := store.BetFilter{
		Status:  q.Get("status"),
		Result:  q.Get("result"),
		Capper:  q.Get("capper"),
		Sport:   q.Get("sport"),
		League:  q.Get("league"),
		SlipRef: q.Get("slip_ref"),
	}
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			f.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			f.To = &t
		}
	}
	return f
}

func writeBetError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid_bet", "problems": verr.Problems})
	case errors.Is(err, appbets.ErrBetNotFound):
		WriteHTTPError(w, http.StatusNotFound, "bet_not_found")
	case errors.Is(err, appbets.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
