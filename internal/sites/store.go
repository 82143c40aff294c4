package sites

import (
	"context"
	"errors"
	"time"

	"github.com/launchpage-ai/launchpage/internal/generation"
)

// DefaultTTL is how long a generated site stays retrievable.
const DefaultTTL = 7 * 24 * time.Hour

// ErrSiteNotFound indicates the requested session ID does not exist.
var ErrSiteNotFound = errors.New("sites: site not found")

// SiteRecord is the persisted generation result, keyed by session ID.
type SiteRecord struct {
	SessionID      string                  `json:"sessionId" dynamodbav:"sessionId"`
	ConversationID string                  `json:"conversationId,omitempty" dynamodbav:"conversationId,omitempty"`
	BusinessInfo   generation.BusinessInfo `json:"businessInfo" dynamodbav:"businessInfo"`
	Websites       generation.WebsiteSet   `json:"websites" dynamodbav:"websites"`
	CreatedAt      string                  `json:"createdAt" dynamodbav:"createdAt"`
	ExpiresAt      int64                   `json:"-" dynamodbav:"expiresAt,omitempty"`
}

// Store persists generated sites so a separate display surface can retrieve
// them later. Writes are best-effort from the handler's point of view: a
// failed Save degrades to inline delivery, it never fails the request.
type Store interface {
	Save(ctx context.Context, record *SiteRecord) error
	Get(ctx context.Context, sessionID string) (*SiteRecord, error)
}

func stamp(record *SiteRecord, ttl time.Duration) {
	now := time.Now().UTC()
	if record.CreatedAt == "" {
		record.CreatedAt = now.Format(time.RFC3339Nano)
	}
	if record.ExpiresAt == 0 {
		record.ExpiresAt = now.Add(ttl).Unix()
	}
}
