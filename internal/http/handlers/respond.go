package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/launchpage-ai/launchpage/internal/generation"
)

// websiteGenerator is the narrow view of generation.Service the handlers use.
type websiteGenerator interface {
	GenerateWebsites(ctx context.Context, transcript, businessName string) (*generation.Bundle, error)
}

// processedTracker guards against duplicate webhook deliveries.
type processedTracker interface {
	AlreadyProcessed(ctx context.Context, provider, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

// errorResponse is the JSON envelope for failed requests. details never
// carries a stack trace, only a message.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

// mintSessionID produces keys like site_1700000000000_a1b2c3d4e.
func mintSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("site_%d_%s", time.Now().UnixMilli(), suffix)
}

func previewURL(publicBaseURL, sessionID string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/preview/" + sessionID
}
