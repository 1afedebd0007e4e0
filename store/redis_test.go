package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/segkit/core"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rs, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })
	return rs, mr
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Equal(t, core.StageStore, core.StageOf(err))
}

func TestRedisStore_GetSet(t *testing.T) {
	ctx := context.Background()
	rs, mr := newTestRedis(t)
	assert.Equal(t, "redis", rs.Name())

	_, err := rs.Get(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, rs.Set(ctx, "k", []byte("v"), 30))
	got, err := rs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 30*time.Second, mr.TTL("k"))

	require.NoError(t, rs.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisStore_BatchSet(t *testing.T) {
	ctx := context.Background()
	rs, mr := newTestRedis(t)

	require.NoError(t, rs.BatchSet(ctx, nil))
	require.NoError(t, rs.BatchSet(ctx, map[string][]byte{
		"segkit:user:latest_run":       []byte("run-1"),
		"segkit:user:latest_run:users": []byte("40"),
	}))

	v, err := mr.Get("segkit:user:latest_run")
	require.NoError(t, err)
	assert.Equal(t, "run-1", v)
	v, err = mr.Get("segkit:user:latest_run:users")
	require.NoError(t, err)
	assert.Equal(t, "40", v)
	assert.Equal(t, time.Duration(0), mr.TTL("segkit:user:latest_run"))
}

func TestRedisStore_Hash(t *testing.T) {
	ctx := context.Background()
	rs, mr := newTestRedis(t)

	require.NoError(t, rs.HMSet(ctx, "segkit:user:1", map[string][]byte{
		"cluster_id":     []byte("cluster_0"),
		"activity_level": []byte("High"),
	}))
	require.NoError(t, rs.HMSet(ctx, "segkit:user:1", nil))
	require.NoError(t, rs.HSet(ctx, "segkit:user:1", "raw_rating_count", []byte("60")))
	assert.Equal(t, "High", mr.HGet("segkit:user:1", "activity_level"))

	fields, err := rs.HGetAll(ctx, "segkit:user:1")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"cluster_id":       []byte("cluster_0"),
		"activity_level":   []byte("High"),
		"raw_rating_count": []byte("60"),
	}, fields)

	fields, err = rs.HGetAll(ctx, "segkit:user:2")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestExpiration(t *testing.T) {
	assert.Equal(t, time.Duration(0), expiration(nil))
	assert.Equal(t, time.Duration(0), expiration([]int{-1}))
	assert.Equal(t, 30*time.Second, expiration([]int{30}))
}
