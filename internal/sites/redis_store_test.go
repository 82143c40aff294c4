package sites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/launchpage-ai/launchpage/internal/generation"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, 0), mr
}

func testRecord() *SiteRecord {
	return &SiteRecord{
		SessionID:      "site_1700000000000_abc123def",
		ConversationID: "conv-1",
		BusinessInfo:   generation.BusinessInfo{Name: "Pine Street Plumbing"},
		Websites: generation.WebsiteSet{
			Modern:  "<!DOCTYPE html><html>m</html>",
			Classic: "<!DOCTYPE html><html>c</html>",
			Warm:    "<!DOCTYPE html><html>w</html>",
		},
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	record := testRecord()
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}
	if record.CreatedAt == "" || record.ExpiresAt == 0 {
		t.Fatal("expected save to stamp timestamps")
	}

	got, err := store.Get(ctx, record.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BusinessInfo.Name != "Pine Street Plumbing" {
		t.Fatalf("unexpected business info: %+v", got.BusinessInfo)
	}
	if got.Websites.Warm != record.Websites.Warm {
		t.Fatal("warm variant did not round-trip")
	}

	ttl := mr.TTL(siteKey(record.SessionID))
	if ttl != 7*24*time.Hour {
		t.Fatalf("expected 7-day TTL, got %s", ttl)
	}
}

func TestRedisStoreGetMissing(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "site_0_missing00")
	if !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("expected ErrSiteNotFound, got %v", err)
	}
}

func TestRedisStoreSaveValidation(t *testing.T) {
	store, _ := newTestRedisStore(t)

	if err := store.Save(context.Background(), &SiteRecord{}); err == nil {
		t.Fatal("expected error for missing session ID")
	}
	if err := store.Save(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil record")
	}
}
