package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/google/uuid"
)

// Mints a session token without going through the wallet login flow.
// Development helper for poking authenticated endpoints with curl.
func main() {
	var (
		address = flag.String("address", "", "identity address to embed as the token subject")
		signer  = flag.String("signer", string(ergo.SignerTypeNautilus), "signer type claim (nautilus or mobile)")
		secret  = flag.String("secret", "", "JWT secret (defaults to AUTH_JWT_SECRET from the environment)")
		expiry  = flag.Duration("expiry", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *address == "" {
		fmt.Fprintln(os.Stderr, "usage: gen_token -address <p2pk address> [-signer nautilus|mobile] [-secret <jwt secret>]")
		os.Exit(1)
	}
	if *secret == "" {
		*secret = os.Getenv("AUTH_JWT_SECRET")
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "no JWT secret given and AUTH_JWT_SECRET is unset")
		os.Exit(1)
	}

	issuer := auth.NewTokenIssuer(config.Auth{
		JWTSecret:     *secret,
		JWTIssuer:     "crux-backend",
		SessionExpiry: *expiry,
	})

	token, validUntil, err := issuer.Issue(uuid.NewString(), *address, ergo.SignerType(*signer))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("token:   %s\n", token)
	fmt.Printf("expires: %s\n", validUntil.Format(time.RFC3339))
}
