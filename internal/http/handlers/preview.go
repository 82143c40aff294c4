package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/launchpage-ai/launchpage/internal/sites"
	"github.com/launchpage-ai/launchpage/pkg/logging"
)

// PreviewHandler serves stored generation results to the display surface.
type PreviewHandler struct {
	store  sites.Store
	logger *logging.Logger
}

func NewPreviewHandler(store sites.Store, logger *logging.Logger) *PreviewHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PreviewHandler{store: store, logger: logger}
}

// GetSite is the HTTP handler for GET /api/sites/{sessionID}.
func (h *PreviewHandler) GetSite(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Preview is the HTTP handler for GET /preview/{sessionID}. The variant query
// parameter selects which document to render; it defaults to modern.
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var doc string
	switch r.URL.Query().Get("variant") {
	case "", "modern":
		doc = record.Websites.Modern
	case "classic":
		doc = record.Websites.Classic
	case "warm":
		doc = record.Websites.Warm
	default:
		writeError(w, http.StatusBadRequest, "Unknown variant", "variant must be modern, classic or warm")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (h *PreviewHandler) lookup(w http.ResponseWriter, r *http.Request) (*sites.SiteRecord, bool) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Persistence not configured", "")
		return nil, false
	}

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Missing session id", "")
		return nil, false
	}

	record, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, sites.ErrSiteNotFound) {
			writeError(w, http.StatusNotFound, "Site not found", "")
			return nil, false
		}
		h.logger.Error("failed to load site", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, "Failed to load site", err.Error())
		return nil, false
	}
	return record, true
}
