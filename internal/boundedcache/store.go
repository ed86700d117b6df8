// Package boundedcache wraps ristretto into the small bounded, TTL'd,
// hit/miss-instrumented store shape this system's three in-process caches
// share: the query-digest L1, the platform channel-metadata cache, and the
// session-id L1.
package boundedcache

import (
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/mfenderov/hermes-discovery/internal/metrics"
)

// Store is a bounded, expire-after-write cache with hit/miss counters.
type Store struct {
	cache *ristretto.Cache
	ttl   time.Duration
	tier  string
}

// New builds a Store admitting up to maxEntries items, each expiring ttl
// after it was last written. tier labels this store's Get calls on the
// process-wide hermes_cache_hits_total/hermes_cache_misses_total counters
// (e.g. "channel_metadata", "session"); pass "" to opt out when the caller
// instruments a multi-level lookup itself, as QueryDigestCache does over its
// own L1/L2 pair.
func New(maxEntries int64, ttl time.Duration, tier string) (*Store, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &Store{cache: c, ttl: ttl, tier: tier}, nil
}

// Get returns the cached value for key, if present and unexpired.
func (s *Store) Get(key string) (interface{}, bool) {
	v, ok := s.cache.Get(key)
	if s.tier != "" {
		if ok {
			metrics.Metrics.CacheHits.WithLabelValues(s.tier).Inc()
		} else {
			metrics.Metrics.CacheMisses.WithLabelValues(s.tier).Inc()
		}
	}
	return v, ok
}

// Set installs value under key with the store's configured TTL.
func (s *Store) Set(key string, value interface{}) {
	s.cache.SetWithTTL(key, value, 1, s.ttl)
}

// Del evicts key, if present.
func (s *Store) Del(key string) {
	s.cache.Del(key)
}

// Clear evicts every entry, used by the admin cache-clear operation.
func (s *Store) Clear() {
	s.cache.Clear()
}

// Wait blocks until all pending Set/Del operations have been applied.
// Exposed for tests that need synchronous visibility after a Set.
func (s *Store) Wait() {
	s.cache.Wait()
}

// HitRatio returns the fraction of Get calls that were hits, or 0 if there
// have been no lookups yet.
func (s *Store) HitRatio() float64 {
	m := s.cache.Metrics
	if m == nil {
		return 0
	}
	total := m.Hits() + m.Misses()
	if total == 0 {
		return 0
	}
	return float64(m.Hits()) / float64(total)
}

// Hits returns the raw count of Get calls that found a live entry.
func (s *Store) Hits() uint64 {
	if s.cache.Metrics == nil {
		return 0
	}
	return s.cache.Metrics.Hits()
}

// Misses returns the raw count of Get calls that found nothing.
func (s *Store) Misses() uint64 {
	if s.cache.Metrics == nil {
		return 0
	}
	return s.cache.Metrics.Misses()
}
