package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/testutil"
)

func TestDenylist(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	dl := NewDenylist(client)
	ctx := context.Background()

	t.Run("added token is contained until ttl", func(t *testing.T) {
		id := uuid.NewString()

		ok, err := dl.Contains(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, dl.Add(ctx, id, time.Minute))

		ok, err = dl.Contains(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)

		ttl := client.TTL(ctx, denylistPrefix+id).Val()
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("expires", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, dl.Add(ctx, id, 50*time.Millisecond))

		assert.Eventually(t, func() bool {
			ok, err := dl.Contains(ctx, id)
			return err == nil && !ok
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("non-positive ttl is ignored", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, dl.Add(ctx, id, 0))

		ok, err := dl.Contains(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDenylist_EmptyID(t *testing.T) {
	dl := NewDenylist(nil)

	require.Error(t, dl.Add(context.Background(), "", time.Minute))

	ok, err := dl.Contains(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}
