package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDummyStore(t *testing.T) {
	ctx := context.Background()
	store := NewDummyStore()

	revoked, err := store.IsRevoked(ctx, "sess1")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, store.Revoke(ctx, "sess1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "sess1")
	assert.NoError(t, err)
	assert.True(t, revoked)

	// expired revocations clear themselves
	assert.NoError(t, store.Revoke(ctx, "sess2", -time.Minute))
	revoked, err = store.IsRevoked(ctx, "sess2")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestDummyStoreRevokeAll(t *testing.T) {
	ctx := context.Background()
	store := NewDummyStore()

	assert.NoError(t, store.Touch(ctx, "sessA", "usr1", time.Hour))
	assert.NoError(t, store.Touch(ctx, "sessB", "usr1", time.Hour))
	assert.NoError(t, store.Touch(ctx, "sessC", "usr2", time.Hour))

	assert.NoError(t, store.RevokeAll(ctx, "usr1", time.Minute))

	for sessID, want := range map[string]bool{"sessA": true, "sessB": true, "sessC": false} {
		revoked, err := store.IsRevoked(ctx, sessID)
		assert.NoError(t, err)
		assert.Equal(t, want, revoked, sessID)
	}
}
