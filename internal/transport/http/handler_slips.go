package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appgrading "github.com/r88510179-collab/breakfast-klub/internal/app/grading"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
	"github.com/r88510179-collab/breakfast-klub/internal/slipimage"
)

type SlipHandlers struct {
	gradingSvc *appgrading.Service
	maxUpload  int64
}

func NewSlipHandlers(gradingSvc *appgrading.Service, maxUploadMB int) *SlipHandlers {
	if maxUploadMB <= 0 {
		maxUploadMB = 8
	}
	return &SlipHandlers{gradingSvc: gradingSvc, maxUpload: int64(maxUploadMB) << 20}
}

// Scan extracts a slip image into reviewable draft rows. Nothing is
// written; the client confirms drafts through the normal create endpoint.
func (h *SlipHandlers) Scan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricSlipScanTotal.Add(1)
		img, err := slipimage.FromRequest(r, h.maxUpload)
		if err != nil {
			metricSlipScanErrors.Add(1)
			writeUploadError(w, err)
			return
		}
		resp, err := h.gradingSvc.Scan(r.Context(), img.DataURI())
		if err != nil {
			metricSlipScanErrors.Add(1)
			writeProviderError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// Grade matches a settled slip against the caller's open rows. commit=true
// applies the settlements when every match clears the confidence floor.
func (h *SlipHandlers) Grade() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		metricSlipGradeTotal.Add(1)
		img, err := slipimage.FromRequest(r, h.maxUpload)
		if err != nil {
			metricSlipGradeErrors.Add(1)
			writeUploadError(w, err)
			return
		}
		commit := r.URL.Query().Get("commit") == "true" || r.FormValue("commit") == "true"
		resp, err := h.gradingSvc.Grade(r.Context(), u.ID, img.DataURI(), commit)
		if err != nil {
			metricSlipGradeErrors.Add(1)
			writeProviderError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, slipimage.ErrMissingImage):
		WriteHTTPError(w, http.StatusBadRequest, "missing_image")
	case errors.Is(err, slipimage.ErrTooLarge):
		WriteHTTPError(w, http.StatusRequestEntityTooLarge, "image_too_large")
	case errors.Is(err, slipimage.ErrBadType):
		WriteHTTPError(w, http.StatusUnsupportedMediaType, "unsupported_image_type")
	default:
		WriteHTTPError(w, http.StatusBadRequest, "invalid_upload")
	}
}

func writeProviderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, llm.ErrNoProviders):
		WriteHTTPError(w, http.StatusServiceUnavailable, "no_providers_configured")
	case errors.Is(err, appgrading.ErrExtractionFailed):
		WriteHTTPError(w, http.StatusBadGateway, "extraction_failed")
	default:
		WriteHTTPError(w, http.StatusBadGateway, "provider_error")
	}
}
