package model

import "time"

// SearchSession is a materialized result set for a unique
// (normalizedQuery, platform) pair, paginable for its TTL with zero
// external spend once created.
type SearchSession struct {
	SessionID         string    `json:"sessionId"`
	QueryDigest       string    `json:"queryDigest"`
	Platform          string    `json:"platform"`
	NormalizedQuery   string    `json:"normalizedQuery"`
	TotalResults      int       `json:"totalResults"`
	ExternalUnitsUsed int64     `json:"externalUnitsUsed"`
	CreatedAt         time.Time `json:"createdAt"`
	ExpiresAt         time.Time `json:"expiresAt"`
	LastAccessedAt    time.Time `json:"lastAccessedAt"`
}

// IsExpired reports whether the session is no longer valid as of now.
func (s SearchSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SearchSessionResult is one materialized, ranked creator row within a
// session. Rank is dense and 1-indexed; scores are immutable snapshots.
type SearchSessionResult struct {
	SessionID            string     `json:"sessionId"`
	Rank                 int        `json:"rank"`
	ChannelID            string     `json:"channelId"`
	ChannelName          string     `json:"channelName"`
	Description          string     `json:"description"`
	ImageURL             string     `json:"imageUrl"`
	Score                float64    `json:"score"`
	GenreRelevance       float64    `json:"genreRelevance"`
	AudienceFit          float64    `json:"audienceFit"`
	EngagementQuality    float64    `json:"engagementQuality"`
	ActivityConsistency  float64    `json:"activityConsistency"`
	Freshness            float64    `json:"freshness"`
	CompetitivenessScore float64    `json:"competitivenessScore"`
	SubscriberCount      int64      `json:"subscriberCount"`
	LastVideoDate        *time.Time `json:"lastVideoDate,omitempty"`
	Labels               []string   `json:"labels"`
}

// SortKey is the whitelisted set of columns a session's results can be
// ordered by. Each variant maps to exactly one stored column — there is no
// dynamic/arbitrary sort.
type SortKey string

const (
	SortFinalScore     SortKey = "FINAL_SCORE"
	SortRelevance      SortKey = "RELEVANCE"
	SortSubscribers    SortKey = "SUBSCRIBERS"
	SortEngagement     SortKey = "ENGAGEMENT"
	SortActivity       SortKey = "ACTIVITY"
	SortCompetitiveness SortKey = "COMPETITIVENESS"
)

// ParseSortKey is case-insensitive with '-' and '_' interchangeable; invalid
// input silently maps to FINAL_SCORE — sortKey is never a source of a 4xx.
func ParseSortKey(s string) SortKey {
	switch normalizeSortToken(s) {
	case "FINAL_SCORE":
		return SortFinalScore
	case "RELEVANCE":
		return SortRelevance
	case "SUBSCRIBERS":
		return SortSubscribers
	case "ENGAGEMENT":
		return SortEngagement
	case "ACTIVITY":
		return SortActivity
	case "COMPETITIVENESS":
		return SortCompetitiveness
	default:
		return SortFinalScore
	}
}

func normalizeSortToken(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-('a'-'A'))
		case c == '-':
			out = append(out, '_')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// FilterCriteria is the multi-select, per-category filter request for the
// read-time view. Within a category the selected buckets are OR'd; across
// categories the result must pass all active categories (AND).
type FilterCriteria struct {
	Audience        []string `json:"audience,omitempty"`
	Engagement      []string `json:"engagement,omitempty"`
	Competitiveness []string `json:"competitiveness,omitempty"`
	Activity        []string `json:"activity,omitempty"`
	Genres          []string `json:"genres,omitempty"`
}

// IsEmpty reports whether no filter category is active.
func (f FilterCriteria) IsEmpty() bool {
	return len(f.Audience) == 0 && len(f.Engagement) == 0 &&
		len(f.Competitiveness) == 0 && len(f.Activity) == 0 && len(f.Genres) == 0
}

// ActiveFilterCount returns how many categories carry at least one selection.
func (f FilterCriteria) ActiveFilterCount() int {
	n := 0
	for _, bucket := range [][]string{f.Audience, f.Engagement, f.Competitiveness, f.Activity, f.Genres} {
		if len(bucket) > 0 {
			n++
		}
	}
	return n
}
