package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// TransferRequest is one requested movement of value. A missing tokenId
// means the native asset.
type TransferRequest struct {
	TokenID string  `json:"tokenId,omitempty"`
	Amount  *uint64 `json:"amount"`
}

func (m *TransferRequest) Validate(formats strfmt.Registry) error {
	if err := validate.Required("amount", "body", m.Amount); err != nil {
		return err
	}
	return nil
}

// PostBuildPayload requests a payment transaction.
type PostBuildPayload struct {
	RecipientAddress *string            `json:"recipientAddress"`
	Transfers        []*TransferRequest `json:"transfers"`
	// Remote selects cross-device signing: the reduced transaction is
	// published and a deep link returned instead of the raw bytes.
	Remote bool `json:"remote,omitempty"`
}

func (m *PostBuildPayload) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.Required("recipientAddress", "body", m.RecipientAddress); err != nil {
		res = append(res, err)
	}
	if len(m.Transfers) == 0 {
		res = append(res, errors.Required("transfers", "body", m.Transfers))
	}
	for _, t := range m.Transfers {
		if t == nil {
			continue
		}
		if err := t.Validate(formats); err != nil {
			res = append(res, err)
		}
	}
	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// SigningRequestResponse wraps a built transaction for whichever signer
// variant will approve it: raw reduced bytes for a local extension, a
// published handle plus deep link for a remote wallet.
type SigningRequestResponse struct {
	// ReducedTx is the base64 reduced transaction (local signing only).
	ReducedTx string `json:"reducedTx,omitempty"`
	// Handle is the transient payload key (remote signing only).
	Handle string `json:"handle,omitempty"`
	// URI is the deep-link / QR payload (remote signing only).
	URI       string          `json:"uri,omitempty"`
	ExpiresAt strfmt.DateTime `json:"expiresAt,omitempty"`
}

func (m *SigningRequestResponse) Validate(formats strfmt.Registry) error {
	return nil
}

// BuildResponse returns the constructed transaction and its signing request.
type BuildResponse struct {
	TxID           *string                 `json:"txId"`
	SigningRequest *SigningRequestResponse `json:"signingRequest"`
}

func (m *BuildResponse) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.Required("txId", "body", m.TxID); err != nil {
		res = append(res, err)
	}
	if m.SigningRequest == nil {
		res = append(res, errors.Required("signingRequest", "body", m.SigningRequest))
	}
	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PaymentKeyParams binds the transient payload key path parameter.
type PaymentKeyParams struct {
	Key string `param:"key"`
}

func (m *PaymentKeyParams) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("key", "path", m.Key); err != nil {
		return err
	}
	return nil
}

// ResultResponse is one poll observation of a remote signing request.
type ResultResponse struct {
	State *string `json:"state"`
	TxID  string  `json:"txId,omitempty"`
}

func (m *ResultResponse) Validate(formats strfmt.Registry) error {
	if err := validate.Required("state", "body", m.State); err != nil {
		return err
	}
	return nil
}

// TransactionIDParams binds the transaction id path parameter.
type TransactionIDParams struct {
	TxID string `param:"tx_id"`
}

func (m *TransactionIDParams) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("tx_id", "path", m.TxID); err != nil {
		return err
	}
	return nil
}

// ConfirmationsResponse reports how many confirmations the network has for
// a transaction; -1 means the transaction is not known yet.
type ConfirmationsResponse struct {
	Confirmations *int64 `json:"confirmations"`
}

func (m *ConfirmationsResponse) Validate(formats strfmt.Registry) error {
	if err := validate.Required("confirmations", "body", m.Confirmations); err != nil {
		return err
	}
	return nil
}
