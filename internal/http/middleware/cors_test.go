package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSHeadersAlwaysSet(t *testing.T) {
	handler := CORS("X-Signature")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Fatalf("unexpected methods header %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-Signature" {
		t.Fatalf("unexpected headers allow-list %q", got)
	}
}

func TestCORSPreflightNoBody(t *testing.T) {
	called := false
	handler := CORS()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatal("expected empty preflight body")
	}
	if called {
		t.Fatal("preflight should not reach downstream handler")
	}
}
