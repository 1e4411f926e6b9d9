package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/types"
	"github.com/cruxfinance/crux-backend/internal/wallet"
	"github.com/stretchr/testify/require"
)

// NewConnectedWallet returns a connected dev wallet for the server's
// network and the given signer variant.
func NewConnectedWallet(t *testing.T, s *api.Server, signer ergo.SignerType) (*wallet.DevWallet, string) {
	t.Helper()

	dev, err := wallet.NewDevWallet(s.Config.Chain.NetworkPrefix, signer)
	require.NoError(t, err)
	_, err = dev.Connect(context.Background())
	require.NoError(t, err)
	address, err := dev.GetChangeAddress(context.Background())
	require.NoError(t, err)
	return dev, address
}

// Login performs the whole challenge/sign/login flow over HTTP with the
// given wallet and returns the issued session token.
func Login(t *testing.T, s *api.Server, dev *wallet.DevWallet, address string, signer ergo.SignerType) string {
	t.Helper()

	res := PerformRequest(t, s, http.MethodPost, "/api/v1/auth/challenge", GenericPayload{
		"address":    address,
		"signerType": string(signer),
	}, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var challenge types.ChallengeResponse
	ParseResponseAndValidate(t, res, &challenge)

	message := dev.EnvelopeMessage(*challenge.Nonce)
	proof, err := dev.SignMessage(context.Background(), address, message)
	require.NoError(t, err)

	res = PerformRequest(t, s, http.MethodPost, "/api/v1/auth/challenge/"+*challenge.VerificationID+"/signed", GenericPayload{
		"signedMessage": message,
		"proof":         proof,
	}, nil)
	require.Equal(t, http.StatusNoContent, res.Code, res.Body.String())

	res = PerformRequest(t, s, http.MethodPost, "/api/v1/auth/login", GenericPayload{
		"verificationId": *challenge.VerificationID,
	}, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var login types.LoginResponse
	ParseResponseAndValidate(t, res, &login)
	return *login.Token
}
