package changeroute

import (
	"context"
	"sync"

	"cites/internal/submission/models"
)

// MemoryStore keeps change routes per session in process.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]models.ChangeRouteState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]models.ChangeRouteState)}
}

func (s *MemoryStore) LoadChangeRoute(_ context.Context, sc models.SubmissionContext) (*models.ChangeRouteState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[sc.SessionID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *MemoryStore) SaveChangeRoute(_ context.Context, sc models.SubmissionContext, state *models.ChangeRouteState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sc.SessionID] = *state
	return nil
}

func (s *MemoryStore) DeleteChangeRoute(_ context.Context, sc models.SubmissionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sc.SessionID)
	return nil
}
