// Package payload persists short-lived key/value records used for
// cross-device handoff: published reduced transactions on the way out,
// wallet-reported transaction ids on the way back.
package payload

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound means no record exists under the key.
	ErrNotFound = errors.New("payload not found")
	// ErrExpiredHandle means the record exists but its TTL lapsed. Readers
	// must treat it exactly like a missing record; it only exists as a
	// distinct kind so callers can tell the user to re-publish.
	ErrExpiredHandle = errors.New("payload handle expired")
)

// Record is one transient payload row.
type Record struct {
	Key       string
	Value     string
	Scanned   bool
	ExpiresAt time.Time
}

// Store persists transient payloads. Expired rows are swept opportunistically
// on every write, scoped by expiry timestamp rather than key so a sweep can
// never race destructively with an in-flight write for a live key.
type Store interface {
	// Put creates a record under key with the given TTL and sweeps
	// expired rows as a side effect.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the record, ErrNotFound, or ErrExpiredHandle. It never
	// returns stale data past the record's expiry.
	Get(ctx context.Context, key string) (Record, error)
	// MarkScanned flips the scanned flag, recording that an external
	// signer fetched the payload.
	MarkScanned(ctx context.Context, key string) error
	// SetValue overwrites the record's value in place, keeping its expiry.
	SetValue(ctx context.Context, key, value string) error
}
