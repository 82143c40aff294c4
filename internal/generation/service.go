package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/launchpage-ai/launchpage/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var genTracer = otel.Tracer("launchpage.internal.generation")

const (
	defaultModel       = "gpt-4o"
	defaultMaxTokens   = 16000
	defaultTemperature = 0.7
)

// Service turns a canonical transcript into the three-variant website bundle
// via a single call to the completion collaborator.
type Service struct {
	client    LLMClient
	model     string
	maxTokens int32
	logger    *logging.Logger
}

// NewService builds a generation service. A nil client is tolerated so the
// server can boot without a credential; requests then fail with
// ErrMissingCredential before any outbound call.
func NewService(client LLMClient, model string, maxTokens int32, logger *logging.Logger) *Service {
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// GenerateWebsites issues one completion call and parses the bundle out of
// the response text. There is no automatic retry.
func (s *Service) GenerateWebsites(ctx context.Context, transcript, businessName string) (*Bundle, error) {
	if s.client == nil {
		return nil, ErrMissingCredential
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New("generation: transcript is required")
	}

	ctx, span := genTracer.Start(ctx, "generation.websites")
	defer span.End()
	span.SetAttributes(
		attribute.String("launchpage.model", s.model),
		attribute.Int("launchpage.transcript_chars", len(transcript)),
	)

	resp, err := s.client.Complete(ctx, LLMRequest{
		Model:       s.model,
		System:      []string{websitePrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: buildUserMessage(transcript, businessName)}},
		MaxTokens:   s.maxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	bundle, err := parseBundle(resp.Text)
	if err != nil {
		span.RecordError(err)
		// Raw output is logged for offline diagnosis: a parse failure here
		// means the prompt contract drifted, not a transient fault.
		s.logger.Error("generation output could not be parsed",
			"error", err,
			"raw_length", len(resp.Text),
			"raw_prefix", prefix(resp.Text, 200),
		)
		return nil, err
	}

	return bundle, nil
}

func parseBundle(text string) (*Bundle, error) {
	unwrapped := unwrapCodeFence(text)

	var bundle Bundle
	if err := json.Unmarshal([]byte(unwrapped), &bundle); err != nil {
		return nil, &FormatError{Raw: text, Err: err}
	}
	if !bundle.complete() {
		return nil, &FormatError{Raw: text, Err: fmt.Errorf("bundle missing one or more website variants")}
	}
	return &bundle, nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
