// README: Redis cache for the available-rides poll page.
package ride

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	availableGenKey = "rides:available:gen"
	// Drivers poll this endpoint continuously; a short TTL keeps the DB off
	// the hot path without letting losers see a taken ride for long.
	availableTTL = 2 * time.Second
)

// Cache keys are versioned by a generation counter; bumping the counter
// invalidates every cached page at once without key scans.
type Cache struct {
	redis *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{redis: client}
}

func (c *Cache) pageKey(ctx context.Context, limit, offset int) string {
	gen, _ := c.redis.Get(ctx, availableGenKey).Result()
	return fmt.Sprintf("rides:available:%s:%d:%d", gen, limit, offset)
}

func (c *Cache) GetAvailable(ctx context.Context, limit, offset int) ([]Ride, bool) {
	data, err := c.redis.Get(ctx, c.pageKey(ctx, limit, offset)).Bytes()
	if err != nil {
		return nil, false
	}
	var rides []Ride
	if err := json.Unmarshal(data, &rides); err != nil {
		return nil, false
	}
	return rides, true
}

func (c *Cache) SetAvailable(ctx context.Context, limit, offset int, rides []Ride) {
	data, err := json.Marshal(rides)
	if err != nil {
		return
	}
	c.redis.Set(ctx, c.pageKey(ctx, limit, offset), data, availableTTL)
}

// Invalidate drops all cached pages. Called whenever the set of requested
// rides changes (creation, acceptance, cancellation from requested).
func (c *Cache) Invalidate(ctx context.Context) {
	c.redis.Incr(ctx, availableGenKey)
}
