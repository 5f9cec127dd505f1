package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appusers "github.com/r88510179-collab/breakfast-klub/internal/app/users"
)

type UserHandlers struct {
	usersSvc *appusers.Service
}

func NewUserHandlers(usersSvc *appusers.Service) *UserHandlers {
	return &UserHandlers{usersSvc: usersSvc}
}

// Register creates a user and returns the API key once. The key is never
// retrievable again.
func (h *UserHandlers) Register() http.HandlerFunc {
	type registerRequest struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in registerRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.usersSvc.Register(r.Context(), in.Name)
		if err != nil {
			if errors.Is(err, appusers.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *UserHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.usersSvc.List(r.Context(), limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
