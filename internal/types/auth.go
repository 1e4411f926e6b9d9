package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostChallengePayload requests a new login challenge.
type PostChallengePayload struct {
	// Blockchain address to authenticate.
	Address *string `json:"address"`
	// Signer variant: "nautilus" or "mobile".
	SignerType *string `json:"signerType"`
}

func (m *PostChallengePayload) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("signerType", "body", m.SignerType); err != nil {
		res = append(res, err)
	}
	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ChallengeResponse carries the issued challenge. The deep link is only set
// for the mobile signer variant.
type ChallengeResponse struct {
	VerificationID *string `json:"verificationId"`
	Nonce          *string `json:"nonce"`
	SigningRequest *SigningRequestResponse `json:"signingRequest,omitempty"`
}

func (m *ChallengeResponse) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.Required("verificationId", "body", m.VerificationID); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("nonce", "body", m.Nonce); err != nil {
		res = append(res, err)
	}
	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ChallengeStatusResponse is the read-only polling view of a challenge.
type ChallengeStatusResponse struct {
	Status *string `json:"status"`
}

func (m *ChallengeStatusResponse) Validate(formats strfmt.Registry) error {
	if err := validate.Required("status", "body", m.Status); err != nil {
		return err
	}
	return nil
}

// ChallengeIDParams binds the verification id path parameter.
type ChallengeIDParams struct {
	VerificationID string `param:"verification_id"`
}

func (m *ChallengeIDParams) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("verification_id", "path", m.VerificationID); err != nil {
		return err
	}
	return nil
}

// PostChallengeSignedPayload is the external signer's callback body.
type PostChallengeSignedPayload struct {
	SignedMessage *string `json:"signedMessage"`
	Proof         *string `json:"proof"`
}

func (m *PostChallengeSignedPayload) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.Required("signedMessage", "body", m.SignedMessage); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("proof", "body", m.Proof); err != nil {
		res = append(res, err)
	}
	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PostLoginPayload finalizes a signed challenge into a session.
type PostLoginPayload struct {
	VerificationID *string `json:"verificationId"`
}

func (m *PostLoginPayload) Validate(formats strfmt.Registry) error {
	if err := validate.Required("verificationId", "body", m.VerificationID); err != nil {
		return err
	}
	return nil
}

// PostExternalLoginPayload adopts a token issued by the external (OAuth)
// login entry point under the unified session representation.
type PostExternalLoginPayload struct {
	Token *string `json:"token"`
}

func (m *PostExternalLoginPayload) Validate(formats strfmt.Registry) error {
	if err := validate.Required("token", "body", m.Token); err != nil {
		return err
	}
	return nil
}

// LoginResponse is the unified session representation returned by every
// login entry point.
type LoginResponse struct {
	Token      *string         `json:"token"`
	Address    *string         `json:"address"`
	SignerType string          `json:"signerType"`
	ValidUntil strfmt.DateTime `json:"validUntil"`
}

func (m *LoginResponse) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.Required("token", "body", m.Token); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}
	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// SessionResponse describes the caller's live session.
type SessionResponse struct {
	Address    *string         `json:"address"`
	SignerType string          `json:"signerType"`
	ExpiresAt  strfmt.DateTime `json:"expiresAt"`
}

func (m *SessionResponse) Validate(formats strfmt.Registry) error {
	if err := validate.Required("address", "body", m.Address); err != nil {
		return err
	}
	return nil
}
