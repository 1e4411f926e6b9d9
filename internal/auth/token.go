package auth

import (
	"time"

	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims is the token payload: the session id rides in the registered ID
// claim, the identity address in the subject.
type Claims struct {
	jwt.RegisteredClaims
	SignerType string `json:"signerType"`
}

// TokenIssuer mints and parses session tokens. Issuance is a function of a
// verified identity only; both the signature login path and the external
// (OAuth-shaped) path call the same Issue.
type TokenIssuer struct {
	secret []byte
	issuer string
	expiry time.Duration
}

func NewTokenIssuer(cfg config.Auth) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		expiry: cfg.SessionExpiry,
	}
}

func (t *TokenIssuer) Issue(sessionID, address string, signer ergo.SignerType) (string, time.Time, error) {
	now := time.Now()
	validUntil := now.Add(t.expiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   address,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(validUntil),
		},
		SignerType: string(signer),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign session token")
	}
	return token, validUntil, nil
}

func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse session token")
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
