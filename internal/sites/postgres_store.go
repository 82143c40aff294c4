package sites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists site records as rows for bootstrap deployments.
type PostgresStore struct {
	db  rowQuerier
	ttl time.Duration
}

// NewPostgresStore builds a Postgres-backed Store.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	if pool == nil {
		panic("sites: pgx pool cannot be nil")
	}
	return newPostgresStoreWithExec(pool, ttl)
}

func newPostgresStoreWithExec(exec rowQuerier, ttl time.Duration) *PostgresStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostgresStore{db: exec, ttl: ttl}
}

var _ Store = (*PostgresStore)(nil)

// Save upserts the record row. Last write wins for a given session ID.
func (s *PostgresStore) Save(ctx context.Context, record *SiteRecord) error {
	if record == nil || record.SessionID == "" {
		return errors.New("sites: record with sessionID required")
	}
	stamp(record, s.ttl)

	infoJSON, err := json.Marshal(record.BusinessInfo)
	if err != nil {
		return fmt.Errorf("sites: marshal business info: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO generated_sites (
			session_id, conversation_id, business_info,
			modern_html, classic_html, warm_html,
			created_at, expires_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (session_id) DO UPDATE SET
			conversation_id = EXCLUDED.conversation_id,
			business_info = EXCLUDED.business_info,
			modern_html = EXCLUDED.modern_html,
			classic_html = EXCLUDED.classic_html,
			warm_html = EXCLUDED.warm_html,
			expires_at = EXCLUDED.expires_at
	`, record.SessionID, nullString(record.ConversationID), infoJSON,
		record.Websites.Modern, record.Websites.Classic, record.Websites.Warm,
		time.Now().UTC(), time.Unix(record.ExpiresAt, 0).UTC())
	if err != nil {
		return fmt.Errorf("sites: save record: %w", err)
	}
	return nil
}

// Get fetches an unexpired record by session ID.
func (s *PostgresStore) Get(ctx context.Context, sessionID string) (*SiteRecord, error) {
	if sessionID == "" {
		return nil, errors.New("sites: sessionID required")
	}

	var (
		record    SiteRecord
		convID    *string
		infoJSON  []byte
		createdAt time.Time
		expiresAt time.Time
	)
	err := s.db.QueryRow(ctx, `
		SELECT session_id, conversation_id, business_info,
		       modern_html, classic_html, warm_html,
		       created_at, expires_at
		FROM generated_sites
		WHERE session_id = $1 AND expires_at > now()
	`, sessionID).Scan(
		&record.SessionID, &convID, &infoJSON,
		&record.Websites.Modern, &record.Websites.Classic, &record.Websites.Warm,
		&createdAt, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("sites: fetch record: %w", err)
	}

	if convID != nil {
		record.ConversationID = *convID
	}
	if err := json.Unmarshal(infoJSON, &record.BusinessInfo); err != nil {
		return nil, fmt.Errorf("sites: decode business info: %w", err)
	}
	record.CreatedAt = createdAt.UTC().Format(time.RFC3339Nano)
	record.ExpiresAt = expiresAt.Unix()
	return &record, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
