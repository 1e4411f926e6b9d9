package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/cruxfinance/crux-backend/internal/auth"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContextRoundtrip(t *testing.T) {
	sess := auth.Session{
		ID:         "session-1",
		Address:    "9fAddress",
		SignerType: ergo.SignerTypeNautilus,
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	ctx := auth.WithSession(context.Background(), sess)
	got, err := auth.SessionFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestSessionFromContextWithoutSession(t *testing.T) {
	_, err := auth.SessionFromContext(context.Background())
	assert.Error(t, err)
}
