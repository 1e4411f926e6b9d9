package identity

import (
	"context"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
)

// InMemoryStore implements Store for tests and local development.
type InMemoryStore struct {
	mu            sync.Mutex
	identities    map[string]Identity
	verifications map[string]VerificationRequest
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		identities:    make(map[string]Identity),
		verifications: make(map[string]VerificationRequest),
	}
}

func (s *InMemoryStore) GetIdentity(ctx context.Context, address string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identities[address]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return id, nil
}

func (s *InMemoryStore) IssueNonce(ctx context.Context, address string) (string, error) {
	nonce, err := NewNonce()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identities[address]
	if !ok {
		id = Identity{Address: address, DefaultAddress: address, CreatedAt: time.Now()}
	}
	id.Nonce = null.StringFrom(nonce)
	id.UpdatedAt = time.Now()
	s.identities[address] = id
	return nonce, nil
}

func (s *InMemoryStore) ConsumeNonce(ctx context.Context, address, nonce string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if nonce == "" {
		return false, nil
	}
	id, ok := s.identities[address]
	if !ok {
		return false, nil
	}
	return id.Nonce.Valid && id.Nonce.String == nonce, nil
}

func (s *InMemoryStore) RotateNonce(ctx context.Context, address string) error {
	nonce, err := NewNonce()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identities[address]
	if !ok {
		return ErrNotFound
	}
	id.Nonce = null.StringFrom(nonce)
	id.UpdatedAt = time.Now()
	s.identities[address] = id
	return nil
}

func (s *InMemoryStore) CreateVerification(ctx context.Context, req VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.verifications {
		if existing.Address == req.Address {
			delete(s.verifications, id)
		}
	}

	req.Status = VerificationStatusPending
	req.CreatedAt = time.Now()
	s.verifications[req.ID] = req
	return nil
}

func (s *InMemoryStore) GetVerification(ctx context.Context, id string) (VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.verifications[id]
	if !ok {
		return VerificationRequest{}, ErrNotFound
	}
	return req, nil
}

func (s *InMemoryStore) MarkSigned(ctx context.Context, id, signedMessage, proof string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.verifications[id]
	if !ok || req.Status != VerificationStatusPending {
		return false, nil
	}
	req.Status = VerificationStatusSigned
	req.SignedMessage = null.StringFrom(signedMessage)
	req.Proof = null.StringFrom(proof)
	s.verifications[id] = req
	return true, nil
}

func (s *InMemoryStore) MarkFailed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.verifications[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = VerificationStatusFailed
	s.verifications[id] = req
	return nil
}
