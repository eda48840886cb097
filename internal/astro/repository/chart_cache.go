package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/astromapa/astromapa-backend/internal/astro/domain"
	"github.com/redis/go-redis/v9"
)

const chartKeyPrefix = "astro:chart:" // Key for a cached birth chart: astro:chart:{birth datum}

// ChartCache stores computed birth charts in Redis. The underlying
// ephemeris functions are deterministic, so identical birth data always
// maps to an identical chart; entries are TTL-bound, not records.
type ChartCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChartCache creates a ChartCache with the given entry TTL.
func NewChartCache(client *redis.Client, ttl time.Duration) *ChartCache {
	return &ChartCache{client: client, ttl: ttl}
}

// Key builds the cache key for one birth datum.
func Key(b domain.BirthData) string {
	i := b.Instant
	return fmt.Sprintf("%s%04d-%02d-%02dT%02d:%02d:%g@%g,%g",
		chartKeyPrefix, i.Year, i.Month, i.Day, i.Hour, i.Minute, i.Second,
		b.Location.Lat, b.Location.Lon)
}

// Get returns the cached chart for a birth datum, or nil on a miss.
func (c *ChartCache) Get(ctx context.Context, b domain.BirthData) (*domain.Chart, error) {
	data, err := c.client.Get(ctx, Key(b)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}

	var chart domain.Chart
	if err := json.Unmarshal([]byte(data), &chart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chart data: %w", err)
	}
	return &chart, nil
}

// Set stores a computed chart under its birth datum.
func (c *ChartCache) Set(ctx context.Context, b domain.BirthData, chart *domain.Chart) error {
	data, err := json.Marshal(chart)
	if err != nil {
		return fmt.Errorf("failed to marshal chart data: %w", err)
	}
	if err := c.client.Set(ctx, Key(b), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store chart: %w", err)
	}
	return nil
}
