package auth

import (
	"context"

	"github.com/pkg/errors"
)

type contextKey string

// ctxKeySession is the context key holding the authenticated session.
const ctxKeySession contextKey = "session"

// WithSession attaches the authenticated session to the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

// SessionFromContext returns the authenticated session attached by the auth
// middleware.
func SessionFromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(ctxKeySession).(Session)
	if !ok {
		return Session{}, errors.New("no session in context")
	}
	return s, nil
}
