package payload

import (
	"context"
	"sync"
	"time"

	"github.com/dropbox/godropbox/time2"
)

// InMemoryStore implements Store for tests and local development.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	// Clock allows tests to pin time.
	Clock time2.Clock
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]Record),
		Clock:   time2.DefaultClock,
	}
}

func (s *InMemoryStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Clock.Now()
	for k, rec := range s.records {
		if now.After(rec.ExpiresAt) {
			delete(s.records, k)
		}
	}

	s.records[key] = Record{
		Key:       key,
		Value:     value,
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, key string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	if s.Clock.Now().After(rec.ExpiresAt) {
		return Record{}, ErrExpiredHandle
	}
	return rec, nil
}

func (s *InMemoryStore) MarkScanned(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || s.Clock.Now().After(rec.ExpiresAt) {
		return ErrNotFound
	}
	rec.Scanned = true
	s.records[key] = rec
	return nil
}

func (s *InMemoryStore) SetValue(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || s.Clock.Now().After(rec.ExpiresAt) {
		return ErrNotFound
	}
	rec.Value = value
	s.records[key] = rec
	return nil
}
