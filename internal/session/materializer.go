package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mfenderov/hermes-discovery/internal/boundedcache"
	"github.com/mfenderov/hermes-discovery/internal/model"
	"github.com/mfenderov/hermes-discovery/internal/normalize"
)

const (
	sessionCacheMaxEntries = 1000
	sessionCacheTTL        = 5 * time.Minute
)

// sessionCacheKey identifies the (digestKey, platform) pair the L1 cache is
// keyed on.
func sessionCacheKey(digestKey, platform string) string {
	return digestKey + ":" + platform
}

// Materializer owns the session lifecycle: creation/update at the end of a
// search, lookup and sliding-touch on re-entry, and the background sweep of
// expired sessions. It is the Go counterpart of SearchSessionService.
type Materializer struct {
	repo    *Repo
	l1      *boundedcache.Store
	ttl     time.Duration
	sliding bool
	now     func() time.Time
}

// New builds a Materializer. ttl is the session lifetime (and, when sliding
// is true, the extension granted on every touch).
func New(repo *Repo, ttl time.Duration, sliding bool) (*Materializer, error) {
	l1, err := boundedcache.New(sessionCacheMaxEntries, sessionCacheTTL, "session")
	if err != nil {
		return nil, err
	}
	return &Materializer{repo: repo, l1: l1, ttl: ttl, sliding: sliding, now: time.Now}, nil
}

// CreateSession materializes rankedResults as the session for (genre,
// platform), upserting in place if one already exists for the same
// (queryDigest, platform) pair per the unique-constraint-avoidance pattern:
// find first, update-in-place or insert.
func (m *Materializer) CreateSession(ctx context.Context, genre, platform string, rankedResults []model.GradedCreator, quotaUsed int64) (*model.SearchSession, error) {
	nq := normalize.Process(genre)
	now := m.now()

	existing, err := m.repo.findByDigestAndPlatform(ctx, nq.DigestKey, platform)
	if err != nil {
		return nil, err
	}

	isNew := existing == nil
	var s model.SearchSession
	if isNew {
		s = model.SearchSession{
			SessionID:         uuid.NewString(),
			QueryDigest:       nq.DigestKey,
			Platform:          platform,
			NormalizedQuery:   nq.Normalized,
			TotalResults:      len(rankedResults),
			ExternalUnitsUsed: quotaUsed,
			CreatedAt:         now,
			ExpiresAt:         now.Add(m.ttl),
			LastAccessedAt:    now,
		}
	} else {
		s = *existing
		s.TotalResults = len(rankedResults)
		s.ExternalUnitsUsed += quotaUsed
		s.ExpiresAt = now.Add(m.ttl)
		s.LastAccessedAt = now
	}

	// Session row and result rows are written by one transaction (repo.go's
	// materializeSession) so PaginateSorted/PaginateFiltered can never observe
	// the new totalResults with stale or missing result rows.
	results := materializeResults(s.SessionID, rankedResults)
	if err := m.repo.materializeSession(ctx, s, isNew, results); err != nil {
		return nil, err
	}

	m.l1.Set(sessionCacheKey(nq.DigestKey, platform), s.SessionID)
	return &s, nil
}

// materializeResults turns ranked creators into dense 1-indexed session
// rows, computing competitivenessScore once so it never needs to be
// recomputed at read time.
func materializeResults(sessionID string, ranked []model.GradedCreator) []model.SearchSessionResult {
	out := make([]model.SearchSessionResult, 0, len(ranked))
	for i, c := range ranked {
		out = append(out, model.SearchSessionResult{
			SessionID:            sessionID,
			Rank:                 i + 1,
			ChannelID:            c.ChannelID,
			ChannelName:          c.ChannelName,
			Description:          c.Description,
			ImageURL:             c.ProfileImageURL,
			Score:                c.Score.FinalScore,
			GenreRelevance:       c.Score.GenreRelevance,
			AudienceFit:          c.Score.AudienceFit,
			EngagementQuality:    c.Score.EngagementQuality,
			ActivityConsistency:  c.Score.ActivityConsistency,
			Freshness:            c.Score.Freshness,
			CompetitivenessScore: model.ComputeCompetitiveness(c.Score),
			SubscriberCount:      c.SubscriberCount,
			LastVideoDate:        c.LastVideoDate,
			Labels:               c.Labels,
		})
	}
	return out
}

// FindValidSession probes the L1 cache first, then storage, returning nil
// if no unexpired session exists for (genre, platform). Any hit slides the
// session's expiry forward by a full TTL when sliding expiration is on.
func (m *Materializer) FindValidSession(ctx context.Context, genre, platform string) (*model.SearchSession, error) {
	nq := normalize.Process(genre)
	now := m.now()
	key := sessionCacheKey(nq.DigestKey, platform)

	if cached, ok := m.l1.Get(key); ok {
		sessionID, _ := cached.(string)
		s, err := m.repo.findByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if s == nil || s.IsExpired(now) {
			m.l1.Del(key)
		} else {
			if err := m.touch(ctx, s, now); err != nil {
				return nil, err
			}
			return s, nil
		}
	}

	s, err := m.repo.findByDigestAndPlatform(ctx, nq.DigestKey, platform)
	if err != nil {
		return nil, err
	}
	if s == nil || s.IsExpired(now) {
		return nil, nil
	}

	m.l1.Set(key, s.SessionID)
	if err := m.touch(ctx, s, now); err != nil {
		return nil, err
	}
	return s, nil
}

// touch applies sliding expiration in place, both on the returned struct and
// in storage.
func (m *Materializer) touch(ctx context.Context, s *model.SearchSession, now time.Time) error {
	if !m.sliding {
		return nil
	}
	s.ExpiresAt = now.Add(m.ttl)
	s.LastAccessedAt = now
	return m.repo.touch(ctx, s.SessionID, s.ExpiresAt, s.LastAccessedAt)
}

// Sweep deletes every expired session and returns how many were removed.
func (m *Materializer) Sweep(ctx context.Context) (int64, error) {
	return m.repo.deleteExpired(ctx, m.now())
}
