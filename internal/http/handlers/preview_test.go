package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/launchpage-ai/launchpage/internal/sites"
	"github.com/launchpage-ai/launchpage/pkg/logging"
)

func seedStore(t *testing.T) *stubStore {
	t.Helper()
	store := &stubStore{}
	bundle := testBundle()
	if err := store.Save(context.Background(), &sites.SiteRecord{
		SessionID:    "site_1700000000000_abcdef123",
		BusinessInfo: bundle.BusinessInfo,
		Websites:     bundle.Websites,
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func getWithParam(h http.HandlerFunc, target, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionID", sessionID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestGetSiteReturnsRecord(t *testing.T) {
	h := NewPreviewHandler(seedStore(t), logging.Default())

	rr := getWithParam(h.GetSite, "/api/sites/site_1700000000000_abcdef123", "site_1700000000000_abcdef123")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var record sites.SiteRecord
	if err := json.NewDecoder(rr.Body).Decode(&record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.SessionID != "site_1700000000000_abcdef123" {
		t.Fatalf("unexpected session id %q", record.SessionID)
	}
	if record.BusinessInfo.Name != "Pine Street Plumbing" {
		t.Fatalf("unexpected business name %q", record.BusinessInfo.Name)
	}
}

func TestGetSiteNotFound(t *testing.T) {
	h := NewPreviewHandler(&stubStore{}, logging.Default())

	rr := getWithParam(h.GetSite, "/api/sites/site_missing", "site_missing")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestPreviewVariants(t *testing.T) {
	h := NewPreviewHandler(seedStore(t), logging.Default())

	for variant, want := range map[string]string{
		"":        docPrefix + "<html>modern</html>",
		"modern":  docPrefix + "<html>modern</html>",
		"classic": docPrefix + "<html>classic</html>",
		"warm":    docPrefix + "<html>warm</html>",
	} {
		target := "/preview/site_1700000000000_abcdef123"
		if variant != "" {
			target += "?variant=" + variant
		}
		rr := getWithParam(h.Preview, target, "site_1700000000000_abcdef123")

		if rr.Code != http.StatusOK {
			t.Fatalf("variant %q: expected 200, got %d", variant, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Fatalf("variant %q: unexpected content type %q", variant, ct)
		}
		if rr.Body.String() != want {
			t.Fatalf("variant %q: unexpected body %q", variant, rr.Body.String())
		}
	}
}

func TestPreviewUnknownVariant(t *testing.T) {
	h := NewPreviewHandler(seedStore(t), logging.Default())

	rr := getWithParam(h.Preview, "/preview/site_1700000000000_abcdef123?variant=brutalist", "site_1700000000000_abcdef123")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPreviewWithoutStore(t *testing.T) {
	h := NewPreviewHandler(nil, logging.Default())

	rr := getWithParam(h.GetSite, "/api/sites/site_x", "site_x")

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
