package sites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const siteKeyPrefix = "site:"

// RedisStore persists site records as JSON values with a TTL.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed Store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		redis:  client,
		tracer: otel.Tracer("launchpage.internal.sites.redis"),
		ttl:    ttl,
	}
}

var _ Store = (*RedisStore)(nil)

// Save writes the record under its session ID with the configured expiry.
func (s *RedisStore) Save(ctx context.Context, record *SiteRecord) error {
	if record == nil || record.SessionID == "" {
		return errors.New("sites: record with sessionID required")
	}
	stamp(record, s.ttl)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("sites: marshal record: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "sites.redis.save")
	defer span.End()

	if err := s.redis.Set(ctx, siteKey(record.SessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("sites: save record: %w", err)
	}
	return nil
}

// Get fetches a record by session ID.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*SiteRecord, error) {
	if sessionID == "" {
		return nil, errors.New("sites: sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "sites.redis.get")
	defer span.End()

	raw, err := s.redis.Get(ctx, siteKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSiteNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("sites: fetch record: %w", err)
	}

	var record SiteRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("sites: decode record: %w", err)
	}
	return &record, nil
}

func siteKey(sessionID string) string {
	return siteKeyPrefix + sessionID
}
