package webhook

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Envelope is the decoded webhook body. The voice platform has delivered the
// transcript in several shapes over time: a top-level field, nested under
// "data" or "conversation", or as an ordered list of speaker-tagged messages.
// Pointer fields keep "absent" distinguishable from "present but empty".
type Envelope struct {
	Transcript     *string              `json:"transcript"`
	Data           *transcriptContainer `json:"data"`
	Conversation   *transcriptContainer `json:"conversation"`
	Messages       []speakerMessage     `json:"messages"`
	ConversationID string               `json:"conversation_id"`
}

type transcriptContainer struct {
	Transcript *string `json:"transcript"`
}

type speakerMessage struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
	Text    *string `json:"text"`
}

// ParseEnvelope decodes a raw webhook body.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("webhook: decode envelope: %w", err)
	}
	return &env, nil
}

// TranscriptText derives the canonical transcript from the envelope, or
// reports false when no shape yields a non-empty string. Precedence is fixed:
// top-level transcript, data.transcript, conversation.transcript, then a
// reconstruction from the messages list. Multiple fields may coexist; the
// first non-empty match wins.
func (e *Envelope) TranscriptText() (string, bool) {
	candidates := []*string{e.Transcript}
	if e.Data != nil {
		candidates = append(candidates, e.Data.Transcript)
	}
	if e.Conversation != nil {
		candidates = append(candidates, e.Conversation.Transcript)
	}
	for _, c := range candidates {
		if c != nil && strings.TrimSpace(*c) != "" {
			return *c, true
		}
	}

	if joined := joinMessages(e.Messages); strings.TrimSpace(joined) != "" {
		return joined, true
	}
	return "", false
}

// joinMessages rebuilds a transcript from speaker-tagged messages, preserving
// array order. Each line is "{role}: {text}"; role defaults to "unknown" when
// absent and text comes from either the content or text key.
func joinMessages(messages []speakerMessage) string {
	if len(messages) == 0 {
		return ""
	}
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		role := "unknown"
		if msg.Role != nil {
			role = *msg.Role
		}
		text := ""
		if msg.Content != nil {
			text = *msg.Content
		} else if msg.Text != nil {
			text = *msg.Text
		}
		lines = append(lines, role+": "+text)
	}
	return strings.Join(lines, "\n")
}

// PayloadKeys returns the sorted top-level keys of a webhook body, for
// acknowledgment responses when no transcript could be derived.
func PayloadKeys(body []byte) []string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
