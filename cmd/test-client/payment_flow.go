package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/cruxfinance/crux-backend/internal/chainstate"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/signing"
	"github.com/cruxfinance/crux-backend/internal/wallet"
	"github.com/rs/zerolog/log"
)

type buildResponse struct {
	TxID           string `json:"txId"`
	SigningRequest struct {
		ReducedTx string `json:"reducedTx"`
		Handle    string `json:"handle"`
		URI       string `json:"uri"`
	} `json:"signingRequest"`
}

type resultResponse struct {
	State string `json:"state"`
	TxID  string `json:"txId"`
}

// runPaymentFlow logs in, builds a small payment and drives it through
// whichever signing path the signer variant uses: local signing for the
// browser extension, the published-payload callback loop for mobile.
func runPaymentFlow(ctx context.Context, client *Client, signer ergo.SignerType, recipient string) error {
	cfg := config.DefaultServiceConfigFromEnv()

	login, err := runLoginFlow(ctx, client, signer)
	if err != nil {
		return err
	}

	if recipient == "" {
		other, err := wallet.NewDevWallet(cfg.Chain.NetworkPrefix, signer)
		if err != nil {
			return err
		}
		if _, err := other.Connect(ctx); err != nil {
			return err
		}
		if recipient, err = other.GetChangeAddress(ctx); err != nil {
			return err
		}
	}

	remote := signer == ergo.SignerTypeMobile

	res, err := client.makeRequest(ctx, http.MethodPost, "/api/v1/payments/build", map[string]interface{}{
		"recipientAddress": recipient,
		"transfers":        []map[string]interface{}{{"amount": cfg.Chain.SafeMinBoxValue}},
		"remote":           remote,
	}, login.Token)
	if err != nil {
		return err
	}
	var build buildResponse
	if err := client.parseResponse(res, &build); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	log.Info().Str("tx_id", build.TxID).Bool("remote", remote).Msg("Transaction built")

	var txID string
	if remote {
		txID, err = signRemotely(ctx, client, login, build)
	} else {
		txID, err = signLocally(ctx, login, build.SigningRequest.ReducedTx)
	}
	if err != nil {
		return err
	}
	log.Info().Str("tx_id", txID).Msg("Transaction submitted")

	return waitForConfirmation(ctx, cfg, txID)
}

func signLocally(ctx context.Context, login *loginResult, reducedB64 string) (string, error) {
	reduced, err := base64.StdEncoding.DecodeString(reducedB64)
	if err != nil {
		return "", fmt.Errorf("invalid reduced transaction: %w", err)
	}
	signed, err := login.Wallet.SignTransaction(ctx, reduced)
	if err != nil {
		return "", err
	}
	return login.Wallet.SubmitTransaction(ctx, signed)
}

// signRemotely plays both sides of the cross-device loop: it resolves the
// published payload as the phone wallet would, signs, reports the result
// and then polls the browser-side endpoint until it observes DONE.
func signRemotely(ctx context.Context, client *Client, login *loginResult, build buildResponse) (string, error) {
	key := build.SigningRequest.Handle

	res, err := client.makeRequest(ctx, http.MethodGet,
		fmt.Sprintf("/api/v1/ergopay/reduced/%s/%s", key, login.Address), nil, "")
	if err != nil {
		return "", err
	}
	var payload struct {
		ReducedTx string `json:"reducedTx"`
	}
	if err := client.parseResponse(res, &payload); err != nil {
		return "", fmt.Errorf("payload fetch failed: %w", err)
	}

	txID, err := signLocally(ctx, login, payload.ReducedTx)
	if err != nil {
		return "", err
	}

	res, err = client.makeRequest(ctx, http.MethodPost,
		fmt.Sprintf("/api/v1/ergopay/result/%s", key),
		map[string]string{"txId": txID}, "")
	if err != nil {
		return "", err
	}
	if err := client.parseResponse(res, nil); err != nil {
		return "", fmt.Errorf("result report failed: %w", err)
	}

	res, err = client.makeRequest(ctx, http.MethodGet,
		fmt.Sprintf("/api/v1/payments/result/%s", key), nil, login.Token)
	if err != nil {
		return "", err
	}
	var result resultResponse
	if err := client.parseResponse(res, &result); err != nil {
		return "", fmt.Errorf("result poll failed: %w", err)
	}
	if result.State != "DONE" {
		return "", fmt.Errorf("unexpected signing state %q", result.State)
	}
	return result.TxID, nil
}

// waitForConfirmation watches the chain data source at the configured
// payment cadence until the transaction is known to the network or the
// attempt budget runs out. The dev wallet never broadcasts for real, so
// against a local stack this normally exhausts the budget; a real wallet
// makes it terminate.
func waitForConfirmation(ctx context.Context, cfg config.Server, txID string) error {
	source := chainstate.NewNodeClient(cfg.Chain.NodeBaseURL, cfg.Chain.RequestTimeout)
	waiter := signing.NewConfirmationWaiter(source, cfg.Signing.PaymentPollEvery, cfg.Signing.PaymentPollMax)

	confirmations, err := waiter.Wait(ctx, txID)
	if err != nil {
		return fmt.Errorf("transaction %s not confirmed: %w", txID, err)
	}
	log.Info().Int64("confirmations", confirmations).Msg("Transaction confirmed")
	return nil
}
