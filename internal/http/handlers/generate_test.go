package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/launchpage-ai/launchpage/internal/generation"
	"github.com/launchpage-ai/launchpage/pkg/logging"
)

var sessionIDPattern = regexp.MustCompile(`^site_\d+_[a-zA-Z0-9]{9}$`)

func newGenerateHandler(gen *stubGenerator, store *stubStore) *GenerateHandler {
	return NewGenerateHandler(GenerateHandlerConfig{
		Generator:     gen,
		Store:         store,
		Logger:        logging.Default(),
		PublicBaseURL: "https://sites.example.com",
	})
}

func postGenerate(t *testing.T, h *GenerateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func TestGenerateSuccess(t *testing.T) {
	gen := &stubGenerator{bundle: testBundle()}
	store := &stubStore{}
	h := newGenerateHandler(gen, store)

	rr := postGenerate(t, h, `{"transcript":"Caller: I run a plumbing business in Dayton."}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp generateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success flag")
	}
	if !sessionIDPattern.MatchString(resp.SessionID) {
		t.Fatalf("session id %q does not match site_<digits>_<9 alphanumerics>", resp.SessionID)
	}
	for name, doc := range map[string]string{
		"modern":  resp.Websites.Modern,
		"classic": resp.Websites.Classic,
		"warm":    resp.Websites.Warm,
	} {
		if !strings.HasPrefix(doc, docPrefix) {
			t.Fatalf("%s variant does not start with %s: %q", name, docPrefix, doc)
		}
	}
	if resp.PreviewURL != "https://sites.example.com/preview/"+resp.SessionID {
		t.Fatalf("unexpected preview url %q", resp.PreviewURL)
	}

	if len(store.saved) != 1 || store.saved[0].SessionID != resp.SessionID {
		t.Fatalf("expected one persisted record for %s, got %+v", resp.SessionID, store.saved)
	}
	if gen.lastTranscript != "Caller: I run a plumbing business in Dayton." {
		t.Fatalf("transcript not forwarded verbatim: %q", gen.lastTranscript)
	}
}

func TestGenerateForwardsBusinessName(t *testing.T) {
	gen := &stubGenerator{bundle: testBundle()}
	h := newGenerateHandler(gen, &stubStore{})

	postGenerate(t, h, `{"transcript":"t","businessName":"Pine Street Plumbing"}`)

	if gen.lastBusiness != "Pine Street Plumbing" {
		t.Fatalf("expected business name hint forwarded, got %q", gen.lastBusiness)
	}
}

func TestGenerateMissingTranscript(t *testing.T) {
	gen := &stubGenerator{bundle: testBundle()}
	h := newGenerateHandler(gen, &stubStore{})

	for _, body := range []string{`{}`, `{"transcript":""}`, `{"transcript":"   "}`} {
		rr := postGenerate(t, h, body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rr.Code)
		}
	}
	if gen.calls != 0 {
		t.Fatalf("expected no generation calls, got %d", gen.calls)
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	h := newGenerateHandler(&stubGenerator{bundle: testBundle()}, &stubStore{})

	rr := postGenerate(t, h, "{")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	gen := &stubGenerator{err: &generation.UpstreamError{StatusCode: 503, Body: "overloaded"}}
	rr := postGenerate(t, newGenerateHandler(gen, &stubStore{}), `{"transcript":"t"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error == "" || !strings.Contains(resp.Details, "503") {
		t.Fatalf("expected upstream status surfaced in details, got %+v", resp)
	}
}

func TestGenerateFormatError(t *testing.T) {
	gen := &stubGenerator{err: &generation.FormatError{Raw: "not json", Err: bytes.ErrTooLarge}}
	rr := postGenerate(t, newGenerateHandler(gen, &stubStore{}), `{"transcript":"t"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "malformed") {
		t.Fatalf("expected malformed-output error, got %s", rr.Body.String())
	}
}

func TestGenerateMissingCredential(t *testing.T) {
	gen := &stubGenerator{err: generation.ErrMissingCredential}
	rr := postGenerate(t, newGenerateHandler(gen, &stubStore{}), `{"transcript":"t"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "configuration") {
		t.Fatalf("expected configuration error, got %s", rr.Body.String())
	}
}

func TestGenerateStorageFailureStillSucceeds(t *testing.T) {
	store := &stubStore{saveErr: errStorageDown}
	rr := postGenerate(t, newGenerateHandler(&stubGenerator{bundle: testBundle()}, store), `{"transcript":"t"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 despite storage failure, got %d", rr.Code)
	}
	var resp generateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Websites.Modern == "" {
		t.Fatal("expected websites delivered inline")
	}
}

func TestGenerateNoStoreConfigured(t *testing.T) {
	h := NewGenerateHandler(GenerateHandlerConfig{
		Generator: &stubGenerator{bundle: testBundle()},
		Logger:    logging.Default(),
	})
	rr := postGenerate(t, h, `{"transcript":"t"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with no store, got %d", rr.Code)
	}
}
