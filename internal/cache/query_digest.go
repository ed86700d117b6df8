package cache

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfenderov/hermes-discovery/internal/boundedcache"
	"github.com/mfenderov/hermes-discovery/internal/metrics"
	"github.com/mfenderov/hermes-discovery/internal/model"
	"github.com/mfenderov/hermes-discovery/internal/normalize"
)

const (
	l1MaxEntries = 1000
	l1TTL        = 5 * time.Minute
	l2TTL        = 24 * time.Hour
)

// QueryDigestCache is the two-tier cache of generated query expansions
// (C4), addressed by digestKey. L1 is checked first; an L2 hit is installed
// back into L1 and its hit counter bumped asynchronously.
type QueryDigestCache struct {
	l1  *boundedcache.Store
	l2  *l2Repo
	now func() time.Time
}

// NewQueryDigestCache builds the cache with the default L1 size/TTL
// (1,000 entries, 5 minutes) over the given Postgres pool.
func NewQueryDigestCache(pool *pgxpool.Pool) (*QueryDigestCache, error) {
	l1, err := boundedcache.New(l1MaxEntries, l1TTL, "")
	if err != nil {
		return nil, err
	}
	return &QueryDigestCache{
		l1:  l1,
		l2:  newL2Repo(pool),
		now: time.Now,
	}, nil
}

// Get probes L1, then L2, installing an L2 hit back into L1. Returns nil,
// nil on a full miss.
func (c *QueryDigestCache) Get(ctx context.Context, raw string) (*model.CachedQueryExpansion, error) {
	key := normalize.CacheKey(raw)

	if v, ok := c.l1.Get(key); ok {
		metrics.Metrics.CacheHits.WithLabelValues("query_digest").Inc()
		entry := v.(model.CachedQueryExpansion)
		return &entry, nil
	}

	entry, err := c.l2.find(ctx, key, c.now())
	if err != nil {
		return nil, err
	}
	if entry == nil {
		metrics.Metrics.CacheMisses.WithLabelValues("query_digest").Inc()
		return nil, nil
	}
	metrics.Metrics.CacheHits.WithLabelValues("query_digest").Inc()

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.l2.incrementHitCount(bgCtx, key); err != nil {
			log.Printf("cache: failed to increment L2 hit count for %s: %v", key, err)
		}
	}()

	c.l1.Set(key, *entry)
	return entry, nil
}

// Put installs queries for raw in both tiers with expiresAt = now + 24h.
func (c *QueryDigestCache) Put(ctx context.Context, raw string, queries []string, tokenCost int64) error {
	key := normalize.CacheKey(raw)
	now := c.now()

	entry := model.CachedQueryExpansion{
		DigestKey:  key,
		Normalized: normalize.Normalize(raw),
		Queries:    queries,
		TokenCost:  tokenCost,
		CreatedAt:  now,
		ExpiresAt:  now.Add(l2TTL),
		HitCount:   0,
	}

	if err := c.l2.upsert(ctx, entry); err != nil {
		return err
	}
	c.l1.Set(key, entry)
	return nil
}

// HitRatio exposes the L1 hit/miss ratio for admin stats.
func (c *QueryDigestCache) HitRatio() float64 {
	return c.l1.HitRatio()
}
