// Package cache implementa la caché de resultados del dashboard sobre Redis.
//
// Las claves llevan una versión global como sufijo; invalidar consiste en
// incrementar esa versión, con lo que las entradas viejas quedan huérfanas y
// expiran solas por TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	versionKey  = "dashboard:cache:version"
	BumpChannel = "dashboard:cache:bump"
	DefaultTTL  = 10 * time.Minute
)

// RedisCache caché versionada de payloads JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache construye la caché. ttl <= 0 usa DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Version devuelve la versión vigente, inicializándola en 1 si no existe.
func (c *RedisCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver <= 0) {
		// SETNX: si dos procesos inicializan a la vez, gana el primero.
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey agrega la versión vigente a la clave lógica.
func (c *RedisCache) BuildKey(ctx context.Context, key string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", key, ver), nil
}

// FetchJSON decodifica en dest el valor cacheado de key o ejecuta loader,
// guarda el resultado serializado y lo decodifica en dest.
// Los errores del loader se devuelven tal cual, sin envolver.
func (c *RedisCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	fullKey, err := c.BuildKey(ctx, key)
	if err != nil {
		return fmt.Errorf("cache: versión: %w", err)
	}

	payload, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache: get %s: %w", fullKey, err)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := c.set(ctx, key, fullKey, value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// StoreJSON sobrescribe key con value y reinicia su TTL.
func (c *RedisCache) StoreJSON(ctx context.Context, key string, value any) error {
	fullKey, err := c.BuildKey(ctx, key)
	if err != nil {
		return fmt.Errorf("cache: versión: %w", err)
	}
	_, err = c.set(ctx, key, fullKey, value)
	return err
}

func (c *RedisCache) set(ctx context.Context, key, fullKey string, value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("cache: serializar %s: %w", key, err)
	}
	if err := c.client.Set(ctx, fullKey, raw, c.ttl).Err(); err != nil {
		return nil, fmt.Errorf("cache: set %s: %w", fullKey, err)
	}
	return raw, nil
}

// Invalidate incrementa la versión y publica el nuevo valor en BumpChannel.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	ver, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		return fmt.Errorf("cache: incrementar versión: %w", err)
	}
	return c.client.Publish(ctx, BumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// Ping verifica la conexión (usado por /health).
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
