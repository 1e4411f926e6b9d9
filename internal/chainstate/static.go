package chainstate

import (
	"context"
	"sync"

	"github.com/cruxfinance/crux-backend/internal/ergo"
)

// StaticSource serves a fixed chain snapshot from memory. Used by tests and
// by the dev wallet tooling; it also doubles as a scriptable failure source
// via Fail.
type StaticSource struct {
	mu            sync.RWMutex
	height        uint32
	headers       []Header
	boxesByAddr   map[string][]ergo.Box
	confirmations map[string]int64
	// Fail, when set, is returned by every call. Wrap
	// ErrUpstreamUnavailable to simulate a flapping upstream.
	Fail error
}

func NewStaticSource(height uint32, headers []Header) *StaticSource {
	return &StaticSource{
		height:        height,
		headers:       headers,
		boxesByAddr:   make(map[string][]ergo.Box),
		confirmations: make(map[string]int64),
	}
}

func (s *StaticSource) SetBoxes(address string, boxes []ergo.Box) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boxesByAddr[address] = boxes
}

func (s *StaticSource) SetConfirmations(txID string, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmations[txID] = count
}

func (s *StaticSource) Height(ctx context.Context) (uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return 0, s.Fail
	}
	return s.height, nil
}

func (s *StaticSource) LastHeaders(ctx context.Context, n int) ([]Header, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	if n > len(s.headers) {
		n = len(s.headers)
	}
	return s.headers[len(s.headers)-n:], nil
}

func (s *StaticSource) UnspentBoxes(ctx context.Context, address string) ([]ergo.Box, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.boxesByAddr[address], nil
}

func (s *StaticSource) Confirmations(ctx context.Context, txID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return 0, s.Fail
	}
	if count, ok := s.confirmations[txID]; ok {
		return count, nil
	}
	return ConfirmationsUnknown, nil
}
