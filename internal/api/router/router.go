package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/launchpage-ai/launchpage/internal/http/handlers"
	httpmiddleware "github.com/launchpage-ai/launchpage/internal/http/middleware"
	"github.com/launchpage-ai/launchpage/internal/webhook"
	"github.com/launchpage-ai/launchpage/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	GenerateHandler *handlers.GenerateHandler
	VoiceWebhook    *handlers.VoiceWebhookHandler
	PreviewHandler  *handlers.PreviewHandler
	MetricsHandler  http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(httpmiddleware.CORS(webhook.SignatureHeaders()...))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)

	if cfg.GenerateHandler != nil {
		r.Post("/api/generate", cfg.GenerateHandler.Handle)
	}
	if cfg.VoiceWebhook != nil {
		r.Post("/webhooks/voice", cfg.VoiceWebhook.Handle)
	}
	if cfg.PreviewHandler != nil {
		r.Get("/api/sites/{sessionID}", cfg.PreviewHandler.GetSite)
		r.Get("/preview/{sessionID}", cfg.PreviewHandler.Preview)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
