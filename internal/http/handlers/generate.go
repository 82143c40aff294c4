package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/launchpage-ai/launchpage/internal/generation"
	"github.com/launchpage-ai/launchpage/internal/observability/metrics"
	"github.com/launchpage-ai/launchpage/internal/sites"
	"github.com/launchpage-ai/launchpage/pkg/logging"
)

// GenerateHandler accepts a transcript directly from a caller, invokes the
// generation collaborator, stores the result, and returns a session id.
type GenerateHandler struct {
	generator     websiteGenerator
	store         sites.Store
	logger        *logging.Logger
	publicBaseURL string
	metrics       *metrics.PipelineMetrics
}

// GenerateHandlerConfig configures the GenerateHandler.
type GenerateHandlerConfig struct {
	Generator     websiteGenerator
	Store         sites.Store
	Logger        *logging.Logger
	PublicBaseURL string
	Metrics       *metrics.PipelineMetrics
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(cfg GenerateHandlerConfig) *GenerateHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &GenerateHandler{
		generator:     cfg.Generator,
		store:         cfg.Store,
		logger:        cfg.Logger,
		publicBaseURL: cfg.PublicBaseURL,
		metrics:       cfg.Metrics,
	}
}

type generateRequest struct {
	Transcript   string `json:"transcript"`
	BusinessName string `json:"businessName"`
}

type generateResponse struct {
	Success      bool                    `json:"success"`
	SessionID    string                  `json:"sessionId"`
	BusinessInfo generation.BusinessInfo `json:"businessInfo"`
	PreviewURL   string                  `json:"previewUrl"`
	Websites     generation.WebsiteSet   `json:"websites"`
}

// Handle is the HTTP handler for POST /api/generate.
func (h *GenerateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	var req generateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", "")
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeError(w, http.StatusBadRequest, "Missing transcript", "")
		return
	}

	start := time.Now()
	bundle, err := h.generator.GenerateWebsites(r.Context(), req.Transcript, req.BusinessName)
	if err != nil {
		h.metrics.ObserveGeneration("error", time.Since(start).Seconds())
		h.writeGenerationError(w, err)
		return
	}
	h.metrics.ObserveGeneration("success", time.Since(start).Seconds())

	sessionID := mintSessionID()
	record := &sites.SiteRecord{
		SessionID:    sessionID,
		BusinessInfo: bundle.BusinessInfo,
		Websites:     bundle.Websites,
	}
	h.persist(r.Context(), record)

	writeJSON(w, http.StatusOK, generateResponse{
		Success:      true,
		SessionID:    sessionID,
		BusinessInfo: bundle.BusinessInfo,
		PreviewURL:   previewURL(h.publicBaseURL, sessionID),
		Websites:     bundle.Websites,
	})
}

// persist is best-effort: the websites are already delivered inline, so a
// failed write degrades rather than failing the request.
func (h *GenerateHandler) persist(ctx context.Context, record *sites.SiteRecord) {
	if h.store == nil {
		h.logger.Warn("no site store configured; returning result inline only",
			"session_id", record.SessionID)
		return
	}
	if err := h.store.Save(ctx, record); err != nil {
		h.logger.Error("failed to persist generated site",
			"error", err,
			"session_id", record.SessionID,
		)
	}
}

func (h *GenerateHandler) writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, generation.ErrMissingCredential):
		h.logger.Error("generation credential not configured")
		writeError(w, http.StatusInternalServerError, "Server configuration error", "generation API credential is not configured")
	default:
		var upstream *generation.UpstreamError
		var format *generation.FormatError
		if errors.As(err, &upstream) {
			h.logger.Error("generation upstream failure", "error", err, "status", upstream.StatusCode)
			writeError(w, http.StatusInternalServerError, "Website generation failed", upstream.Error())
			return
		}
		if errors.As(err, &format) {
			h.logger.Error("generation output malformed", "error", err)
			writeError(w, http.StatusInternalServerError, "Website generation returned malformed output", format.Error())
			return
		}
		h.logger.Error("generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Website generation failed", err.Error())
	}
}
