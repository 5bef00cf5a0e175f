package blacklist

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestBlacklist_AddAndContains(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	SetClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	defer SetClient(nil)

	ctx := context.Background()
	require.NoError(t, Add(ctx, "tok-1", time.Minute))

	found, err := Contains(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, found)

	found, err = Contains(ctx, "tok-2")
	require.NoError(t, err)
	require.False(t, found)
}

func TestBlacklist_ExpiresWithTTL(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	SetClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	defer SetClient(nil)

	ctx := context.Background()
	require.NoError(t, Add(ctx, "tok-ttl", time.Second))

	m.FastForward(2 * time.Second)

	found, err := Contains(ctx, "tok-ttl")
	require.NoError(t, err)
	require.False(t, found)
}

func TestBlacklist_NoClientIsNoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()
	require.NoError(t, Add(ctx, "tok", time.Minute))
	found, err := Contains(ctx, "tok")
	require.NoError(t, err)
	require.False(t, found)
}
