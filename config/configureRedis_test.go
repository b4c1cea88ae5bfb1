package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedisIfConfigured(t *testing.T) {
	t.Run("unset address", func(t *testing.T) {
		t.Setenv("REDIS_ADDRESS", "")

		client, err := ConnectRedisIfConfigured(context.Background())
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("unreachable address", func(t *testing.T) {
		t.Setenv("REDIS_ADDRESS", "127.0.0.1:1")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		client, err := ConnectRedisIfConfigured(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "127.0.0.1:1")
		assert.Nil(t, client)
	})
}
