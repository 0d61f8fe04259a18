package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	values    map[string][]byte
	expiresAt time.Time
}

// InMemoryStore keeps sessions in process. Values are stored encoded so
// callers never share memory with the store.
type InMemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memoryEntry
}

type MemoryOption func(*InMemoryStore)

// WithMemoryClock overrides time.Now for expiry checks.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) { s.now = now }
}

// NewInMemory builds a store whose sessions expire ttl after last use. A zero
// ttl never expires.
func NewInMemory(ttl time.Duration, opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memoryEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// entry returns the live session, touching its expiry. Callers hold mu.
func (s *InMemoryStore) entry(sessionID string, create bool) *memoryEntry {
	now := s.now()
	e, ok := s.sessions[sessionID]
	if ok && s.ttl > 0 && now.After(e.expiresAt) {
		delete(s.sessions, sessionID)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		e = &memoryEntry{values: make(map[string][]byte)}
		s.sessions[sessionID] = e
	}
	e.expiresAt = now.Add(s.ttl)
	return e
}

func (s *InMemoryStore) Get(_ context.Context, sessionID, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sessionID, false)
	if e == nil {
		return false, nil
	}
	raw, ok := e.values[key]
	if !ok {
		return false, nil
	}
	return true, decode(key, raw, dest)
}

func (s *InMemoryStore) Set(_ context.Context, sessionID, key string, value any) error {
	raw, err := encode(key, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(sessionID, true).values[key] = raw
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.entry(sessionID, false); e != nil {
		delete(e.values, key)
	}
	return nil
}

func (s *InMemoryStore) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
