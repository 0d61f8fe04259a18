// Package store persists resumable drafts keyed by user.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cites/internal/submission/models"
	"cites/pkg/platform/sentinel"
)

// InMemoryStore keeps encoded drafts in process.
type InMemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{drafts: make(map[string][]byte)}
}

func (s *InMemoryStore) Save(_ context.Context, userKey string, draft models.Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userKey] = raw
	return nil
}

func (s *InMemoryStore) Load(_ context.Context, userKey string) (*models.Draft, error) {
	s.mu.RLock()
	raw, ok := s.drafts[userKey]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	var draft models.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

func (s *InMemoryStore) Exists(_ context.Context, userKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.drafts[userKey]
	return ok, nil
}

func (s *InMemoryStore) Delete(_ context.Context, userKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userKey)
	return nil
}
