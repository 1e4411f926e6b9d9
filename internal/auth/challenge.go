package auth

import (
	"context"
	"time"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/identity"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Service orchestrates the challenge/response login protocol and session
// issuance. Verification happens at finalization time, in the context of
// the browser tab that initiated the login, never in the external signer's
// callback.
type Service struct {
	identities identity.Store
	sessions   SessionStore
	verifier   *ergo.Verifier
	tokens     *TokenIssuer
}

func NewService(identities identity.Store, sessions SessionStore, verifier *ergo.Verifier, tokens *TokenIssuer) *Service {
	return &Service{
		identities: identities,
		sessions:   sessions,
		verifier:   verifier,
		tokens:     tokens,
	}
}

// Start opens a new login challenge for the address: any prior live
// verification request for the identity is superseded, a fresh nonce is
// issued and recorded on the new PENDING request.
func (s *Service) Start(ctx context.Context, address string, signer ergo.SignerType) (verificationID, nonce string, err error) {
	if _, err := ergo.DecodeP2PK(address); err != nil {
		return "", "", errors.Wrap(err, "invalid address")
	}
	if _, err := ergo.CodecFor(signer); err != nil {
		return "", "", err
	}

	nonce, err = s.identities.IssueNonce(ctx, address)
	if err != nil {
		return "", "", err
	}

	verificationID = uuid.NewString()
	err = s.identities.CreateVerification(ctx, identity.VerificationRequest{
		ID:         verificationID,
		Address:    address,
		SignerType: signer,
		Nonce:      nonce,
	})
	if err != nil {
		return "", "", err
	}
	return verificationID, nonce, nil
}

// CheckStatus is the read-only polling endpoint for the initiating UI.
func (s *Service) CheckStatus(ctx context.Context, verificationID string) (identity.VerificationStatus, error) {
	req, err := s.identities.GetVerification(ctx, verificationID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return "", ErrInvalidChallenge
		}
		return "", err
	}
	return req.Status, nil
}

// ReportSigned records the external signer's proof, transitioning the
// request PENDING -> SIGNED exactly once. It does not verify: failures must
// surface to the initiating caller at finalization, not to the signer.
func (s *Service) ReportSigned(ctx context.Context, verificationID, signedMessage, proof string) error {
	transitioned, err := s.identities.MarkSigned(ctx, verificationID, signedMessage, proof)
	if err != nil {
		return err
	}
	if !transitioned {
		return ErrInvalidChallenge
	}
	return nil
}

// Finalize verifies a SIGNED request and mints a session. The extracted
// nonce is checked against the request's own recorded nonce first, then
// consumed against the identity, so a proof for a superseded challenge can
// never authenticate even if it arrives after a new challenge was issued.
// On success the nonce is rotated; on failure it is left untouched so a
// fresh attempt with the same challenge remains possible, while the exact
// same proof can never succeed twice.
func (s *Service) Finalize(ctx context.Context, verificationID string) (Result, error) {
	req, err := s.identities.GetVerification(ctx, verificationID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return Result{}, ErrInvalidChallenge
		}
		return Result{}, err
	}
	if req.Status != identity.VerificationStatusSigned {
		return Result{}, ErrInvalidChallenge
	}

	codec, err := ergo.CodecFor(req.SignerType)
	if err != nil {
		return Result{}, err
	}

	embedded, err := codec.ExtractNonce(req.SignedMessage.String)
	if err != nil || embedded != req.Nonce {
		return Result{}, s.fail(ctx, verificationID, ErrInvalidChallenge)
	}

	current, err := s.identities.ConsumeNonce(ctx, req.Address, req.Nonce)
	if err != nil {
		return Result{}, err
	}
	if !current {
		return Result{}, s.fail(ctx, verificationID, ErrInvalidChallenge)
	}

	if !s.verifier.Verify(req.Address, req.SignedMessage.String, req.Proof.String, req.SignerType) {
		return Result{}, s.fail(ctx, verificationID, ErrSignatureInvalid)
	}

	// Rotation only after full success: the consumed nonce must never be
	// accepted again.
	if err := s.identities.RotateNonce(ctx, req.Address); err != nil {
		return Result{}, err
	}

	return s.IssueSession(ctx, req.Address, req.SignerType)
}

// IssueSession is the session handoff boundary: given an already-verified
// identity it produces the opaque session token, regardless of which
// authentication path performed the verification.
func (s *Service) IssueSession(ctx context.Context, address string, signer ergo.SignerType) (Result, error) {
	sessionID := uuid.NewString()
	token, validUntil, err := s.tokens.Issue(sessionID, address, signer)
	if err != nil {
		return Result{}, err
	}

	err = s.sessions.Save(ctx, Session{
		ID:         sessionID,
		Address:    address,
		SignerType: signer,
		ExpiresAt:  validUntil,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Token:      token,
		Address:    address,
		SignerType: signer,
		ValidUntil: validUntil,
	}, nil
}

// Adopt registers a session for a token issued by the other login entry
// point, unifying both paths under one session representation. An already
// known session is returned as-is.
func (s *Service) Adopt(ctx context.Context, token string) (Result, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Result{}, ErrSessionNotFound
	}

	signer := ergo.SignerType(claims.SignerType)
	validUntil := claims.ExpiresAt.Time

	if _, err := s.sessions.Get(ctx, claims.ID); errors.Is(err, ErrSessionNotFound) {
		err = s.sessions.Save(ctx, Session{
			ID:         claims.ID,
			Address:    claims.Subject,
			SignerType: signer,
			ExpiresAt:  validUntil,
		})
		if err != nil {
			return Result{}, err
		}
	} else if err != nil {
		return Result{}, err
	}

	return Result{
		Token:      token,
		Address:    claims.Subject,
		SignerType: signer,
		ValidUntil: validUntil,
	}, nil
}

// Authenticate resolves a bearer token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Session{}, ErrSessionNotFound
	}
	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return Session{}, err
	}
	if time.Now().After(sess.ExpiresAt) {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// Logout destroys the session. Also used when the wallet capability reports
// it is no longer connected: the session must be invalidated, not kept
// alive.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *Service) fail(ctx context.Context, verificationID string, cause error) error {
	if err := s.identities.MarkFailed(ctx, verificationID); err != nil {
		return err
	}
	return cause
}
