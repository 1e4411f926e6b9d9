package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/wallet"
	"github.com/rs/zerolog/log"
)

type challengeResponse struct {
	VerificationID string `json:"verificationId"`
	Nonce          string `json:"nonce"`
}

type loginResponse struct {
	Token      string `json:"token"`
	Address    string `json:"address"`
	SignerType string `json:"signerType"`
}

// loginResult is a completed login: the session token plus the wallet that
// produced it, so follow-up flows can keep signing.
type loginResult struct {
	Token   string
	Address string
	Wallet  *wallet.DevWallet
}

// runLoginFlow drives the full challenge/sign/login sequence with a fresh
// in-process wallet.
func runLoginFlow(ctx context.Context, client *Client, signer ergo.SignerType) (*loginResult, error) {
	cfg := config.DefaultServiceConfigFromEnv()

	dev, err := wallet.NewDevWallet(cfg.Chain.NetworkPrefix, signer)
	if err != nil {
		return nil, err
	}
	if _, err := dev.Connect(ctx); err != nil {
		return nil, err
	}
	address, err := dev.GetChangeAddress(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Str("address", address).Str("signer", string(signer)).Msg("Wallet ready")

	res, err := client.makeRequest(ctx, http.MethodPost, "/api/v1/auth/challenge", map[string]string{
		"address":    address,
		"signerType": string(signer),
	}, "")
	if err != nil {
		return nil, err
	}
	var challenge challengeResponse
	if err := client.parseResponse(res, &challenge); err != nil {
		return nil, fmt.Errorf("challenge request failed: %w", err)
	}
	log.Info().Str("verification_id", challenge.VerificationID).Msg("Challenge issued")

	message := dev.EnvelopeMessage(challenge.Nonce)
	proof, err := dev.SignMessage(ctx, address, message)
	if err != nil {
		return nil, err
	}

	res, err = client.makeRequest(ctx, http.MethodPost,
		fmt.Sprintf("/api/v1/auth/challenge/%s/signed", challenge.VerificationID),
		map[string]string{
			"signedMessage": message,
			"proof":         proof,
		}, "")
	if err != nil {
		return nil, err
	}
	if err := client.parseResponse(res, nil); err != nil {
		return nil, fmt.Errorf("signed callback failed: %w", err)
	}

	// The proof was reported synchronously above, but poll the status
	// endpoint the way the initiating browser tab does before finalizing.
	if err := pollChallengeStatus(ctx, client, challenge.VerificationID, cfg.Auth); err != nil {
		return nil, err
	}

	res, err = client.makeRequest(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"verificationId": challenge.VerificationID,
	}, "")
	if err != nil {
		return nil, err
	}
	var login loginResponse
	if err := client.parseResponse(res, &login); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	log.Info().Str("address", login.Address).Msg("Logged in")

	return &loginResult{Token: login.Token, Address: address, Wallet: dev}, nil
}

// pollChallengeStatus reads the challenge status at the configured login
// cadence until it observes SIGNED or the attempt budget runs out.
func pollChallengeStatus(ctx context.Context, client *Client, verificationID string, cfg config.Auth) error {
	ticker := time.NewTicker(cfg.ChallengePollEvery)
	defer ticker.Stop()

	for attempt := 0; attempt < cfg.ChallengePollMax; attempt++ {
		res, err := client.makeRequest(ctx, http.MethodGet,
			fmt.Sprintf("/api/v1/auth/challenge/%s", verificationID), nil, "")
		if err != nil {
			return err
		}
		var status struct {
			Status string `json:"status"`
		}
		if err := client.parseResponse(res, &status); err != nil {
			return fmt.Errorf("status poll failed: %w", err)
		}
		if status.Status == "SIGNED" {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return fmt.Errorf("challenge %s not signed within the poll budget", verificationID)
}
