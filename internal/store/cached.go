package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"crime-insights-go/internal/types"
)

const (
	incidentsKey = "incidents"
	logsPrefix   = "logs:"
)

func logsKey(limit int) string {
	return fmt.Sprintf("%s%d", logsPrefix, limit)
}

// CachedStore keeps list reads in memory until the TTL expires or a write
// to the same collection invalidates them. Each collection carries a
// generation bumped on every write; a read that raced a write is returned
// to its caller but never cached.
type CachedStore struct {
	Store
	cache *cache.Cache

	mu           sync.Mutex
	incidentsGen uint64
	logsGen      uint64
}

func NewCached(inner Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedStore) generations() (incidents, logs uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.incidentsGen, c.logsGen
}

// putIfCurrent caches v under key only if no write happened since gen was read.
func (c *CachedStore) putIfCurrent(key string, v interface{}, gen *uint64, seen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *gen == seen {
		c.cache.SetDefault(key, v)
	}
}

func (c *CachedStore) ListIncidents(ctx context.Context) ([]types.Incident, error) {
	if v, ok := c.cache.Get(incidentsKey); ok {
		return v.([]types.Incident), nil
	}
	gen, _ := c.generations()
	out, err := c.Store.ListIncidents(ctx)
	if err != nil {
		return nil, err
	}
	c.putIfCurrent(incidentsKey, out, &c.incidentsGen, gen)
	return out, nil
}

func (c *CachedStore) invalidateIncidents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.incidentsGen++
	c.cache.Delete(incidentsKey)
}

func (c *CachedStore) InsertIncident(ctx context.Context, in *types.Incident) error {
	if err := c.Store.InsertIncident(ctx, in); err != nil {
		return err
	}
	c.invalidateIncidents()
	return nil
}

func (c *CachedStore) InsertIncidents(ctx context.Context, ins []types.Incident) error {
	if err := c.Store.InsertIncidents(ctx, ins); err != nil {
		return err
	}
	c.invalidateIncidents()
	return nil
}

func (c *CachedStore) ListPredictionLogs(ctx context.Context, limit int) ([]types.PredictionLog, error) {
	key := logsKey(clampLimit(limit))
	if v, ok := c.cache.Get(key); ok {
		return v.([]types.PredictionLog), nil
	}
	_, gen := c.generations()
	out, err := c.Store.ListPredictionLogs(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.putIfCurrent(key, out, &c.logsGen, gen)
	return out, nil
}

func (c *CachedStore) InsertPredictionLogs(ctx context.Context, preds []types.Prediction) ([]types.PredictionLog, error) {
	logs, err := c.Store.InsertPredictionLogs(ctx, preds)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logsGen++
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, logsPrefix) {
			c.cache.Delete(key)
		}
	}
	return logs, nil
}

// Invalidate drops every cached read.
func (c *CachedStore) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.incidentsGen++
	c.logsGen++
	c.cache.Flush()
}
