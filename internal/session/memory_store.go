package session

import (
	"context"
	"sync"
	"time"
)

type memoryRecord struct {
	visitor   Visitor
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and Redis-less development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryRecord
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryRecord)}
}

func (s *MemoryStore) Set(_ context.Context, sid string, v Visitor, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = memoryRecord{visitor: v, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (Visitor, bool, error) {
	s.mu.RLock()
	rec, ok := s.sessions[sid]
	s.mu.RUnlock()
	if !ok {
		return Visitor{}, false, nil
	}
	if time.Now().After(rec.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sid)
		s.mu.Unlock()
		return Visitor{}, false, nil
	}
	return rec.visitor, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
