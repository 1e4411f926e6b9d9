// Command test-client exercises a running server end to end with an
// in-process wallet: the challenge/sign/login flow and the payment build
// and confirmation flow.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the server")
	testType   = flag.String("test", "full", "Test type: login, payment, full, ping")
	signerType = flag.String("signer", "nautilus", "Signer variant: nautilus or mobile")
	recipient  = flag.String("recipient", "", "Recipient address for the payment test (defaults to a fresh wallet)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Received interrupt signal, shutting down")
		cancel()
	}()

	client := NewClient(*baseURL)
	signer := ergo.SignerType(*signerType)

	var err error
	switch *testType {
	case "ping":
		err = client.Ping(ctx)
	case "login":
		_, err = runLoginFlow(ctx, client, signer)
	case "payment":
		err = runPaymentFlow(ctx, client, signer, *recipient)
	case "full":
		if err = client.Ping(ctx); err == nil {
			err = runPaymentFlow(ctx, client, signer, *recipient)
		}
	default:
		log.Fatal().Str("test", *testType).Msg("Unknown test type")
	}

	if err != nil {
		log.Fatal().Err(err).Str("test", *testType).Msg("Test failed")
	}
	log.Info().Str("test", *testType).Msg("Test passed")
}
