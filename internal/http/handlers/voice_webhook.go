package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/launchpage-ai/launchpage/internal/generation"
	"github.com/launchpage-ai/launchpage/internal/observability/metrics"
	"github.com/launchpage-ai/launchpage/internal/sites"
	"github.com/launchpage-ai/launchpage/internal/webhook"
	"github.com/launchpage-ai/launchpage/pkg/logging"
)

const webhookProvider = "voice"

// VoiceWebhookHandler handles callbacks from the voice-conversation platform.
// It authenticates the delivery, derives a canonical transcript from whichever
// payload shape the platform sent, runs the shared generation routine, and
// persists the result keyed by the conversation id.
type VoiceWebhookHandler struct {
	verifier  *webhook.Verifier
	generator websiteGenerator
	store     sites.Store
	processed processedTracker
	logger    *logging.Logger

	// requireSignature controls the policy for unverifiable deliveries
	// (header absent or secret unconfigured): reject with 401, or accept
	// with a warning.
	requireSignature bool
	publicBaseURL    string
	metrics          *metrics.PipelineMetrics
}

// VoiceWebhookConfig configures the VoiceWebhookHandler.
type VoiceWebhookConfig struct {
	Verifier         *webhook.Verifier
	Generator        websiteGenerator
	Store            sites.Store
	Processed        processedTracker
	Logger           *logging.Logger
	RequireSignature bool
	PublicBaseURL    string
	Metrics          *metrics.PipelineMetrics
}

// NewVoiceWebhookHandler creates a new VoiceWebhookHandler.
func NewVoiceWebhookHandler(cfg VoiceWebhookConfig) *VoiceWebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Verifier == nil {
		cfg.Verifier = webhook.NewVerifier("")
	}
	return &VoiceWebhookHandler{
		verifier:         cfg.Verifier,
		generator:        cfg.Generator,
		store:            cfg.Store,
		processed:        cfg.Processed,
		logger:           cfg.Logger,
		requireSignature: cfg.RequireSignature,
		publicBaseURL:    cfg.PublicBaseURL,
		metrics:          cfg.Metrics,
	}
}

type webhookAckResponse struct {
	Received    bool     `json:"received"`
	Message     string   `json:"message"`
	PayloadKeys []string `json:"payload_keys,omitempty"`
}

type webhookSuccessResponse struct {
	Success      bool                    `json:"success"`
	SessionID    string                  `json:"sessionId"`
	Message      string                  `json:"message"`
	BusinessInfo generation.BusinessInfo `json:"businessInfo"`
	PreviewURL   string                  `json:"previewUrl"`
	// Websites is populated only when the persistence write failed, so the
	// documents are still delivered to the caller.
	Websites *generation.WebsiteSet `json:"websites,omitempty"`
}

// Handle is the HTTP handler for POST /webhooks/voice.
func (h *VoiceWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The raw bytes are captured once and reused for both signature
	// verification and JSON decoding.
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.metrics.ObserveWebhook("bad_body")
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	switch h.verifier.Verify(body, webhook.SignatureFromHeader(r.Header)) {
	case webhook.SignatureInvalid:
		h.logger.Warn("invalid webhook signature")
		h.metrics.ObserveWebhook("invalid_signature")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid signature"})
		return
	case webhook.SignatureUnverifiable:
		if h.requireSignature {
			h.logger.Warn("unverifiable webhook rejected by policy")
			h.metrics.ObserveWebhook("unverifiable_rejected")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid signature"})
			return
		}
		h.logger.Warn("webhook accepted without signature verification")
	}

	env, err := webhook.ParseEnvelope(body)
	if err != nil {
		h.metrics.ObserveWebhook("bad_json")
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", "")
		return
	}

	transcript, ok := env.TranscriptText()
	if !ok {
		// Acknowledge receipt so the platform does not retry a callback we
		// can never use; a non-2xx here would trigger a retry storm.
		h.logger.Info("webhook carried no transcript", "payload_keys", webhook.PayloadKeys(body))
		h.metrics.ObserveWebhook("no_transcript")
		writeJSON(w, http.StatusOK, webhookAckResponse{
			Received:    true,
			Message:     "No transcript found in payload",
			PayloadKeys: webhook.PayloadKeys(body),
		})
		return
	}

	sessionID := env.ConversationID
	if sessionID == "" {
		sessionID = mintSessionID()
	}

	if h.isDuplicate(ctx, env.ConversationID) {
		h.logger.Info("duplicate webhook delivery ignored", "conversation_id", env.ConversationID)
		h.metrics.ObserveWebhook("duplicate")
		writeJSON(w, http.StatusOK, webhookAckResponse{
			Received: true,
			Message:  "Duplicate delivery ignored",
		})
		return
	}

	start := time.Now()
	bundle, err := h.generator.GenerateWebsites(ctx, transcript, "")
	if err != nil {
		h.metrics.ObserveGeneration("error", time.Since(start).Seconds())
		h.metrics.ObserveWebhook("generation_failed")
		h.writeGenerationError(w, err)
		return
	}
	h.metrics.ObserveGeneration("success", time.Since(start).Seconds())

	record := &sites.SiteRecord{
		SessionID:      sessionID,
		ConversationID: env.ConversationID,
		BusinessInfo:   bundle.BusinessInfo,
		Websites:       bundle.Websites,
	}

	resp := webhookSuccessResponse{
		Success:      true,
		SessionID:    sessionID,
		Message:      "Website generated from conversation",
		BusinessInfo: bundle.BusinessInfo,
		PreviewURL:   previewURL(h.publicBaseURL, sessionID),
	}
	if !h.persist(ctx, record) {
		resp.Websites = &bundle.Websites
	}

	h.markProcessed(ctx, env.ConversationID)
	h.metrics.ObserveWebhook("accepted")
	writeJSON(w, http.StatusOK, resp)
}

// isDuplicate reports whether this conversation was already handled. Without
// a conversation id there is no idempotency key, so duplicates race and the
// last write wins.
func (h *VoiceWebhookHandler) isDuplicate(ctx context.Context, conversationID string) bool {
	if h.processed == nil || conversationID == "" {
		return false
	}
	seen, err := h.processed.AlreadyProcessed(ctx, webhookProvider, conversationID)
	if err != nil {
		h.logger.Error("processed lookup failed", "error", err, "conversation_id", conversationID)
		return false
	}
	return seen
}

func (h *VoiceWebhookHandler) markProcessed(ctx context.Context, conversationID string) {
	if h.processed == nil || conversationID == "" {
		return
	}
	if _, err := h.processed.MarkProcessed(ctx, webhookProvider, conversationID); err != nil {
		h.logger.Error("failed to mark webhook processed", "error", err, "conversation_id", conversationID)
	}
}

// persist reports whether the write succeeded; on failure the caller delivers
// the documents inline instead.
func (h *VoiceWebhookHandler) persist(ctx context.Context, record *sites.SiteRecord) bool {
	if h.store == nil {
		h.logger.Warn("no site store configured; returning result inline",
			"session_id", record.SessionID)
		return false
	}
	if err := h.store.Save(ctx, record); err != nil {
		h.logger.Error("failed to persist generated site",
			"error", err,
			"session_id", record.SessionID,
		)
		return false
	}
	return true
}

func (h *VoiceWebhookHandler) writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, generation.ErrMissingCredential):
		h.logger.Error("generation credential not configured")
		writeError(w, http.StatusInternalServerError, "Server configuration error", "generation API credential is not configured")
	default:
		var upstream *generation.UpstreamError
		if errors.As(err, &upstream) {
			h.logger.Error("generation upstream failure", "error", err, "status", upstream.StatusCode)
			writeError(w, http.StatusInternalServerError, "Website generation failed", upstream.Error())
			return
		}
		var format *generation.FormatError
		if errors.As(err, &format) {
			h.logger.Error("generation output malformed", "error", err)
			writeError(w, http.StatusInternalServerError, "Website generation returned malformed output", format.Error())
			return
		}
		h.logger.Error("generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Website generation failed", err.Error())
	}
}
