package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/repository"
)

func newTestStore(t *testing.T) *repository.BuntStore {
	t.Helper()

	store, err := repository.OpenBuntStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestCollections(t *testing.T) *repository.Collections {
	t.Helper()
	return repository.NewCollections(newTestStore(t))
}

// stubAssessor returns a fixed verdict. When gate is set it blocks until the
// gate closes or the context is cancelled.
type stubAssessor struct {
	verdict models.RiskVerdict
	gate    chan struct{}

	mu       sync.Mutex
	requests []models.RiskRequest
}

func (s *stubAssessor) Assess(ctx context.Context, req models.RiskRequest) models.RiskVerdict {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
		}
	}
	return s.verdict
}

func (s *stubAssessor) calls() []models.RiskRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RiskRequest(nil), s.requests...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.StateChangedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.(models.StateChangedEvent))
	return nil
}

func (p *recordingPublisher) states() []models.SubmissionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.SubmissionState, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.State)
	}
	return out
}

func verdict(level models.RiskLevel) models.RiskVerdict {
	return models.RiskVerdict{Level: level, Reason: "test verdict", Indicators: []string{}}
}

func newTestFlowDeps(t *testing.T, assessor *stubAssessor) *FlowDeps {
	t.Helper()

	ctx := context.Background()
	collections := newTestCollections(t)
	return &FlowDeps{
		Catalog:      NewCatalogStore(ctx, collections),
		Ledger:       NewLedger(ctx, collections),
		Assessor:     assessor,
		Publisher:    &recordingPublisher{},
		DisplayDelay: time.Hour,
	}
}
