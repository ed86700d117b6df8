package session

import "context"

// Stats reports the admin-facing session usage snapshot: active session
// count plus the session-id L1 cache's hit/miss counters.
type Stats struct {
	ActiveSessions int64   `json:"activeSessions"`
	L1CacheHits    uint64  `json:"l1CacheHits"`
	L1CacheMisses  uint64  `json:"l1CacheMisses"`
	L1HitRatio     float64 `json:"l1HitRatio"`
}

// GetStats returns the current session subsystem snapshot.
func (m *Materializer) GetStats(ctx context.Context) (Stats, error) {
	active, err := m.repo.countActive(ctx, m.now())
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		ActiveSessions: active,
		L1CacheHits:    m.l1.Hits(),
		L1CacheMisses:  m.l1.Misses(),
		L1HitRatio:     m.l1.HitRatio(),
	}, nil
}
