package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "feedguard:session:abc:analyzed", Key("session", "abc", "analyzed"))
}

// TestIncrExpire runs against a live server when FEEDGUARD_TEST_REDIS_URL is set.
func TestIncrExpire(t *testing.T) {
	url := os.Getenv("FEEDGUARD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FEEDGUARD_TEST_REDIS_URL not set")
	}
	c, err := Connect(url)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := Key("test", uuid.New().String())
	defer c.rdb.Del(ctx, key)

	n, err := c.IncrExpire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// a TTL removed out of band is restored by the next increment
	require.NoError(t, c.rdb.Persist(ctx, key).Err())
	n, err = c.IncrExpire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, err := c.rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	got, err := c.Int(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}
