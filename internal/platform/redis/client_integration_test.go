//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadcrm/internal/platform/config"
	"leadcrm/pkg/testutil/containers"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("no url means no client", func(t *testing.T) {
		c, err := New(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("connects and reports healthy", func(t *testing.T) {
		rc := containers.GetManager().GetRedis(t)
		c, err := New(ctx, config.RedisConfig{URL: rc.URL, PoolSize: 2, DialTimeout: time.Second})
		require.NoError(t, err)
		require.NotNil(t, c)
		t.Cleanup(func() { _ = c.Close() })

		assert.NoError(t, c.Health(ctx))
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := New(ctx, config.RedisConfig{URL: "not a url"})
		assert.Error(t, err)
	})
}
