package documents

import (
	"context"
	"sync"

	"cites/pkg/platform/sentinel"
)

type object struct {
	body        []byte
	contentType string
}

type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string]object
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{objects: make(map[string]object)}
}

func (s *InMemoryStore) Put(_ context.Context, key, contentType string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{body: append([]byte(nil), body...), contentType: contentType}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[key]
	if !ok {
		return nil, "", sentinel.ErrNotFound
	}
	return append([]byte(nil), o.body...), o.contentType, nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
