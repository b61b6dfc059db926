// Package cache keeps the newest reading of every sensor in Redis so the
// latest-value lookups skip the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smart_home_catalog/internal/metrics"
	"smart_home_catalog/internal/models"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL drops sensors that stopped reporting out of the cache.
const DefaultTTL = 24 * time.Hour

type RedisCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, m *metrics.Metrics) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl, metrics: m}
}

// Connect opens a client for addr and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", addr, err)
	}
	return rdb, nil
}

func key(sensorID string) string {
	return "sensor:last:" + sensorID
}

// Get returns the cached reading of sensorID. A missing key is ok=false with no error.
func (c *RedisCache) Get(ctx context.Context, sensorID string) (models.SensorReading, bool, error) {
	raw, err := c.rdb.Get(ctx, key(sensorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.CacheMiss()
		return models.SensorReading{}, false, nil
	}
	if err != nil {
		c.metrics.CacheMiss()
		return models.SensorReading{}, false, fmt.Errorf("redis get %s: %w", key(sensorID), err)
	}
	r, err := decode(raw)
	if err != nil {
		c.metrics.CacheMiss()
		return models.SensorReading{}, false, err
	}
	c.metrics.CacheHit()
	return r, true, nil
}

func (c *RedisCache) Set(ctx context.Context, r models.SensorReading) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reading %s: %w", r.ID, err)
	}
	if err := c.rdb.Set(ctx, key(r.SensorID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key(r.SensorID), err)
	}
	return nil
}

func decode(raw []byte) (models.SensorReading, error) {
	var r models.SensorReading
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.SensorReading{}, fmt.Errorf("decode cached reading: %w", err)
	}
	if r.SensorID == "" {
		return models.SensorReading{}, errors.New("decode cached reading: missing sensor id")
	}
	return r, nil
}
