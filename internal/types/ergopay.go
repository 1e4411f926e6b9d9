package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// ErgoPayReducedParams binds the wallet callback path parameters. The
// wallet substitutes the address placeholder with its own address before
// calling.
type ErgoPayReducedParams struct {
	Key     string `param:"key"`
	Address string `param:"address"`
}

func (m *ErgoPayReducedParams) Validate(formats strfmt.Registry) error {
	var res []error
	if err := validate.RequiredString("key", "path", m.Key); err != nil {
		res = append(res, err)
	}
	if err := validate.RequiredString("address", "path", m.Address); err != nil {
		res = append(res, err)
	}
	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ErgoPayResponse is the reduced-transaction payload handed to a remote
// wallet, in the shape the ErgoPay protocol expects.
type ErgoPayResponse struct {
	ReducedTx       *string `json:"reducedTx"`
	Address         string  `json:"address,omitempty"`
	Message         string  `json:"message,omitempty"`
	MessageSeverity string  `json:"messageSeverity,omitempty"`
}

func (m *ErgoPayResponse) Validate(formats strfmt.Registry) error {
	if err := validate.Required("reducedTx", "body", m.ReducedTx); err != nil {
		return err
	}
	return nil
}

// PostErgoPayResultPayload is the wallet's report of the submitted
// transaction id.
type PostErgoPayResultPayload struct {
	TxID *string `json:"txId"`
}

func (m *PostErgoPayResultPayload) Validate(formats strfmt.Registry) error {
	if err := validate.Required("txId", "body", m.TxID); err != nil {
		return err
	}
	return nil
}
