// Package discovery implements the restaurant-discovery interaction flow:
// idle, conversational clarification, recommendation retrieval, sequential
// per-restaurant enrichment, report.
package discovery

import (
	"context"
	"sync"
	"time"

	"mealseek/models"
	"mealseek/services/agent"
	"mealseek/services/places"
)

// FlowService drives a discovery session through its phases.
type FlowService interface {
	// NewSession creates an empty session in phase initial and returns it.
	NewSession(ctx context.Context) (*models.DiscoverySession, error)

	// StartSearch begins a fresh conversation from the user's initial query.
	StartSearch(ctx context.Context, sessionID, query string) (*models.DiscoverySession, error)

	// SendReply forwards one chat turn to the information agent.
	SendReply(ctx context.Context, sessionID, text string) (*models.DiscoverySession, error)

	// GetRecommendations fetches candidates and enriches them sequentially.
	GetRecommendations(ctx context.Context, sessionID string) (*models.DiscoverySession, error)

	// GetSession returns the current session snapshot.
	GetSession(ctx context.Context, sessionID string) (*models.DiscoverySession, error)

	// Restart discards the session; the user begins again from initial.
	Restart(ctx context.Context, sessionID string) error

	// ListSessions returns the ids of all live sessions.
	ListSessions(ctx context.Context) ([]string, error)
}

// DefaultFlowService implements FlowService.
type DefaultFlowService struct {
	Agent  agent.Client
	Places places.DetailsFetcher
	Store  SessionStore

	mu       sync.Mutex
	inflight map[string]bool
}

func NewDefaultFlowService(agentClient agent.Client, fetcher places.DetailsFetcher, store SessionStore) *DefaultFlowService {
	return &DefaultFlowService{
		Agent:    agentClient,
		Places:   fetcher,
		Store:    store,
		inflight: make(map[string]bool),
	}
}

// begin marks a session busy. It fails instead of queueing: chat turns are
// ordered by refusing a second request while one is outstanding.
func (s *DefaultFlowService) begin(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[sessionID] {
		return ErrRequestInFlight
	}
	s.inflight[sessionID] = true
	return nil
}

func (s *DefaultFlowService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}

func stepTimestamp() string {
	return time.Now().Format("15:04:05")
}

// truncateDetail shortens free text for progress-log details.
func truncateDetail(text string) string {
	const max = 100
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

var _ FlowService = (*DefaultFlowService)(nil)
