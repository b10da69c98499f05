// FilePath: internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const latestReadingKey = "soilsage:latest_reading"

// SnapshotCache keeps the most recent reading in Redis so current-condition
// endpoints do not hit postgres on every poll from the dashboard.
type SnapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(cfg config.RedisConfig) (*SnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewUnavailableError("failed to connect to redis", err)
	}

	nuts.L.Infof("[SnapshotCache] Connected to redis at %s:%d", cfg.Host, cfg.Port)
	return &SnapshotCache{client: client}, nil
}

// SetLatestReading caches the reading for one collection interval. A stale
// entry expires on its own if the collector stops.
func (c *SnapshotCache) SetLatestReading(ctx context.Context, reading *models.SensorReading, ttl time.Duration) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return errors.NewInternalError("failed to marshal reading for cache", err)
	}
	if err := c.client.Set(ctx, latestReadingKey, data, ttl).Err(); err != nil {
		return errors.NewUnavailableError("failed to cache latest reading", err)
	}
	return nil
}

// GetLatestReading returns the cached reading, or (nil, nil) on a cache miss.
func (c *SnapshotCache) GetLatestReading(ctx context.Context) (*models.SensorReading, error) {
	data, err := c.client.Get(ctx, latestReadingKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewUnavailableError("failed to read cached reading", err)
	}

	reading := &models.SensorReading{}
	if err := json.Unmarshal(data, reading); err != nil {
		return nil, errors.NewInternalError("failed to unmarshal cached reading", err)
	}
	return reading, nil
}

func (c *SnapshotCache) Close() error {
	return c.client.Close()
}
