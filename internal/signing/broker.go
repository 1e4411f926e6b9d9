// Package signing publishes reduced transactions for remote wallets and
// polls for their results. The browser, this server and the wallet device
// coordinate only through persisted state plus polling; there is no push
// channel.
package signing

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/payload"
	"github.com/dropbox/godropbox/time2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AddressPlaceholder is the literal token the wallet app substitutes with
// its own address before calling back.
const AddressPlaceholder = "#P2PK_ADDRESS#"

// ResultState is the observable progress of a published signing request.
type ResultState string

const (
	// ResultStatePending: published, not yet fetched by any wallet.
	ResultStatePending ResultState = "PENDING"
	// ResultStateScanned: a wallet fetched the payload but has not
	// reported a transaction id yet.
	ResultStateScanned ResultState = "SCANNED"
	// ResultStateDone: the wallet reported the resulting transaction id.
	ResultStateDone ResultState = "DONE"
)

// Handle identifies a published reduced transaction.
type Handle struct {
	Key       string
	URI       string
	ExpiresAt time.Time
}

// Result is one poll observation.
type Result struct {
	State ResultState
	TxID  string
}

// envelope is the value stored under a payload key; the wallet's reported
// transaction id overwrites the reduced transaction through the same key.
type envelope struct {
	Kind      string `json:"kind"` // "reduced" | "txid"
	ReducedTx string `json:"reducedTx,omitempty"`
	TxID      string `json:"txId,omitempty"`
}

// Broker publishes reduced transactions under short-lived opaque keys and
// resolves wallet callbacks.
type Broker struct {
	payloads payload.Store
	cfg      config.Signing
	clock    time2.Clock
}

func NewBroker(payloads payload.Store, cfg config.Signing, clock time2.Clock) *Broker {
	return &Broker{payloads: payloads, cfg: cfg, clock: clock}
}

// Publish stores the reduced transaction under a fresh key and returns the
// deep-link handle a wallet can resolve. Expired rows are swept by the
// underlying store as a side effect of the write.
func (b *Broker) Publish(ctx context.Context, reduced *ergo.ReducedTransaction) (Handle, error) {
	value, err := json.Marshal(envelope{
		Kind:      "reduced",
		ReducedTx: base64.StdEncoding.EncodeToString(reduced.Bytes),
	})
	if err != nil {
		return Handle{}, errors.Wrap(err, "failed to encode payload envelope")
	}

	key := uuid.NewString()
	if err := b.payloads.Put(ctx, key, string(value), b.cfg.PayloadTTL); err != nil {
		return Handle{}, err
	}

	return Handle{
		Key:       key,
		URI:       fmt.Sprintf("%s/api/v1/ergopay/reduced/%s/%s", b.cfg.DeepLinkBase, key, AddressPlaceholder),
		ExpiresAt: b.clock.Now().Add(b.cfg.PayloadTTL),
	}, nil
}

// ChallengeURI returns the deep link a mobile wallet resolves to sign a
// login challenge. The wallet reports the proof back through the signed
// callback the link points at.
func (b *Broker) ChallengeURI(verificationID string) string {
	return fmt.Sprintf("%s/api/v1/auth/challenge/%s/signed", b.cfg.DeepLinkBase, verificationID)
}

// Reduced returns the published reduced-transaction bytes for a wallet that
// resolved the deep link, and records the fetch so pollers can advance from
// "waiting for scan" to "waiting for signature".
func (b *Broker) Reduced(ctx context.Context, key string) ([]byte, error) {
	rec, err := b.payloads.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal([]byte(rec.Value), &env); err != nil {
		return nil, errors.Wrap(err, "failed to decode payload envelope")
	}
	if env.Kind != "reduced" {
		return nil, payload.ErrNotFound
	}

	raw, err := base64.StdEncoding.DecodeString(env.ReducedTx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode reduced transaction")
	}

	if err := b.payloads.MarkScanned(ctx, key); err != nil {
		return nil, err
	}
	return raw, nil
}

// ReportResult records the wallet's resulting transaction id through the
// same key, overwriting the published payload.
func (b *Broker) ReportResult(ctx context.Context, key, txID string) error {
	if txID == "" {
		return errors.New("transaction id is required")
	}

	value, err := json.Marshal(envelope{Kind: "txid", TxID: txID})
	if err != nil {
		return errors.Wrap(err, "failed to encode payload envelope")
	}
	return b.payloads.SetValue(ctx, key, string(value))
}

// Result is the polling read. Callers poll at a fixed interval until the
// state is DONE, giving up after a bounded attempt count or when the key's
// TTL lapses (surfaced as payload.ErrExpiredHandle).
func (b *Broker) Result(ctx context.Context, key string) (Result, error) {
	rec, err := b.payloads.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}

	var env envelope
	if err := json.Unmarshal([]byte(rec.Value), &env); err != nil {
		return Result{}, errors.Wrap(err, "failed to decode payload envelope")
	}

	if env.Kind == "txid" {
		return Result{State: ResultStateDone, TxID: env.TxID}, nil
	}
	if rec.Scanned {
		return Result{State: ResultStateScanned}, nil
	}
	return Result{State: ResultStatePending}, nil
}
