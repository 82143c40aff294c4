package handlers

import (
	"context"
	"errors"

	"github.com/launchpage-ai/launchpage/internal/generation"
	"github.com/launchpage-ai/launchpage/internal/sites"
)

const docPrefix = "<!DOCTYPE html>"

func testBundle() *generation.Bundle {
	return &generation.Bundle{
		BusinessInfo: generation.BusinessInfo{
			Name:     "Pine Street Plumbing",
			Tagline:  "Fast, honest repairs",
			Services: []string{"repairs", "installations"},
		},
		Websites: generation.WebsiteSet{
			Modern:  docPrefix + "<html>modern</html>",
			Classic: docPrefix + "<html>classic</html>",
			Warm:    docPrefix + "<html>warm</html>",
		},
	}
}

type stubGenerator struct {
	bundle         *generation.Bundle
	err            error
	calls          int
	lastTranscript string
	lastBusiness   string
}

func (s *stubGenerator) GenerateWebsites(_ context.Context, transcript, businessName string) (*generation.Bundle, error) {
	s.calls++
	s.lastTranscript = transcript
	s.lastBusiness = businessName
	if s.err != nil {
		return nil, s.err
	}
	return s.bundle, nil
}

type stubStore struct {
	saved   []*sites.SiteRecord
	saveErr error
	records map[string]*sites.SiteRecord
}

func (s *stubStore) Save(_ context.Context, record *sites.SiteRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, record)
	if s.records == nil {
		s.records = map[string]*sites.SiteRecord{}
	}
	s.records[record.SessionID] = record
	return nil
}

func (s *stubStore) Get(_ context.Context, sessionID string) (*sites.SiteRecord, error) {
	record, ok := s.records[sessionID]
	if !ok {
		return nil, sites.ErrSiteNotFound
	}
	return record, nil
}

type stubProcessed struct {
	seen   map[string]bool
	marked []string
}

func (s *stubProcessed) AlreadyProcessed(_ context.Context, provider, eventID string) (bool, error) {
	return s.seen[provider+":"+eventID], nil
}

func (s *stubProcessed) MarkProcessed(_ context.Context, provider, eventID string) (bool, error) {
	key := provider + ":" + eventID
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	s.marked = append(s.marked, key)
	return true, nil
}

var errStorageDown = errors.New("sites: save record: connection refused")
