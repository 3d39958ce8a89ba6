package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Total int    `json:"total"`
	Label string `json:"label"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func TestFetchJSON_LlamaLoaderSoloEnMiss(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: 42, Label: "abril"}, nil
	}

	var first payload
	require.NoError(t, c.FetchJSON(ctx, "dashboard:summary:month:2023-04-01", &first, loader))
	var second payload
	require.NoError(t, c.FetchJSON(ctx, "dashboard:summary:month:2023-04-01", &second, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, payload{Total: 42, Label: "abril"}, first)
	assert.Equal(t, first, second)
}

func TestFetchJSON_ErrorDelLoaderSinEnvolverYSinCachear(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	boom := errors.New("consulta fallida")

	var dest payload
	err := c.FetchJSON(ctx, "k", &dest, func(context.Context) (any, error) { return nil, boom })
	assert.Same(t, boom, err)
	assert.False(t, mr.Exists("k:v1"))
}

func TestInvalidate_CambiaVersionYPublica(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	ver, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: calls}, nil
	}
	var dest payload
	require.NoError(t, c.FetchJSON(ctx, "k", &dest, loader))
	assert.True(t, mr.Exists("k:v1"))

	require.NoError(t, c.Invalidate(ctx))
	ver, err = c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)

	require.NoError(t, c.FetchJSON(ctx, "k", &dest, loader))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, dest.Total)
}

func TestFetchJSON_RespetaTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var dest payload
	require.NoError(t, c.FetchJSON(ctx, "k", &dest, func(context.Context) (any, error) {
		return payload{Total: 1}, nil
	}))
	assert.Equal(t, time.Minute, mr.TTL("k:v1"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("k:v1"))
}

func TestFetchJSON_RedisCaidoDevuelveError(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var dest payload
	err := c.FetchJSON(context.Background(), "k", &dest, func(context.Context) (any, error) {
		return payload{}, nil
	})
	assert.Error(t, err)
}

func TestNewRedisCache_TTLPorDefecto(t *testing.T) {
	c := NewRedisCache(redis.NewClient(&redis.Options{}), 0)
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestStoreJSON_SobrescribeYRenuevaTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var dest payload
	require.NoError(t, c.FetchJSON(ctx, "k", &dest, func(context.Context) (any, error) {
		return payload{Total: 1}, nil
	}))
	mr.FastForward(50 * time.Second)

	require.NoError(t, c.StoreJSON(ctx, "k", payload{Total: 2, Label: "nuevo"}))
	assert.Equal(t, time.Minute, mr.TTL("k:v1"))

	require.NoError(t, c.FetchJSON(ctx, "k", &dest, func(context.Context) (any, error) {
		t.Fatal("no debería recalcular una entrada vigente")
		return nil, nil
	}))
	assert.Equal(t, payload{Total: 2, Label: "nuevo"}, dest)
}
