package weather

import (
	"context"
	"sync"
	"time"

	"rmagenda/internal/model"
)

// DefaultTTL matches how often forecasts realistically change.
const DefaultTTL = 6 * time.Hour

type cacheEntry struct {
	forecast  model.Forecast
	fetchedAt time.Time
}

// Cache memoizes a Provider per calendar day with a TTL. Entries are
// replaced whole under the lock, never field-by-field, so concurrent
// readers always observe a complete forecast. It is the only shared
// mutable state in the engine.
type Cache struct {
	src Provider
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache wraps src with a TTL cache. ttl <= 0 means DefaultTTL.
func NewCache(src Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		src:     src,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Forecast returns the cached forecast for date, consulting the
// underlying provider on a miss or stale entry. A provider error is
// absorbed into the unavailable sentinel; the error is not cached so a
// later call may recover.
func (c *Cache) Forecast(ctx context.Context, date time.Time) (model.Forecast, error) {
	key := model.DayKey(date)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.forecast, nil
	}
	c.mu.Unlock()

	f, err := c.src.Forecast(ctx, date)
	if err != nil {
		return model.Unavailable(date), nil
	}

	if f.Available {
		c.mu.Lock()
		c.entries[key] = cacheEntry{forecast: f, fetchedAt: c.now()}
		c.mu.Unlock()
	}
	return f, nil
}

// WeekForecast returns forecasts for the 7 consecutive days starting at
// start. Missing days carry the unavailable sentinel.
func (c *Cache) WeekForecast(ctx context.Context, start time.Time) []model.Forecast {
	out := make([]model.Forecast, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		f, err := c.Forecast(ctx, day)
		if err != nil {
			f = model.Unavailable(day)
		}
		out = append(out, f)
	}
	return out
}
