// Package filter implements the read-time view's filter predicates: a fixed
// table of half-open ranges over stored sub-scores (the BucketMapper), and
// composition of per-category selections into one pass/fail test per result
// row. Every predicate here is pure and runs entirely in memory over rows
// already fetched from a session — it never issues a query of its own.
package filter

import "github.com/mfenderov/hermes-discovery/internal/model"

// Audience buckets over audienceFit.
const (
	AudienceSmall  = "small"
	AudienceMedium = "medium"
	AudienceLarge  = "large"
)

// Engagement buckets over engagementQuality.
const (
	EngagementLow    = "low"
	EngagementMedium = "medium"
	EngagementHigh   = "high"
)

// Competitiveness buckets over competitivenessScore.
const (
	CompetitivenessNascent     = "nascent"
	CompetitivenessEmerging    = "emerging"
	CompetitivenessGrowing     = "growing"
	CompetitivenessEstablished = "established"
	CompetitivenessDominant    = "dominant"
)

// Activity buckets over activityConsistency — distinct from the sort key of
// the same name, which orders by lastVideoDate recency instead.
const (
	ActivityOccasional  = "occasional"
	ActivityConsistent  = "consistent"
	ActivityVeryActive  = "very_active"
)

// AudienceBucket maps an audienceFit score to its bucket.
func AudienceBucket(audienceFit float64) string {
	switch {
	case audienceFit >= 0.7:
		return AudienceLarge
	case audienceFit >= 0.4:
		return AudienceMedium
	default:
		return AudienceSmall
	}
}

// EngagementBucket maps an engagementQuality score to its bucket.
func EngagementBucket(engagementQuality float64) string {
	switch {
	case engagementQuality >= 0.7:
		return EngagementHigh
	case engagementQuality >= 0.4:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

// CompetitivenessBucket maps a competitivenessScore to its bucket. This
// mirrors internal/scoring.CompetitivenessBucket's thresholds exactly but
// returns the lowercase filter-token spelling rather than the
// label-generator's capitalized tier name — the two are read by different
// consumers (label text vs. filter query params).
func CompetitivenessBucket(competitivenessScore float64) string {
	switch {
	case competitivenessScore >= 0.80:
		return CompetitivenessDominant
	case competitivenessScore >= 0.60:
		return CompetitivenessEstablished
	case competitivenessScore >= 0.40:
		return CompetitivenessGrowing
	case competitivenessScore >= 0.20:
		return CompetitivenessEmerging
	default:
		return CompetitivenessNascent
	}
}

// ActivityBucket maps an activityConsistency score to its bucket.
func ActivityBucket(activityConsistency float64) string {
	switch {
	case activityConsistency >= 0.7:
		return ActivityVeryActive
	case activityConsistency >= 0.4:
		return ActivityConsistent
	default:
		return ActivityOccasional
	}
}

// Matches reports whether a result passes criteria: AND across categories,
// OR within a category. An empty category is vacuously satisfied.
func Matches(result model.SearchSessionResult, criteria model.FilterCriteria) bool {
	return matchesAny(criteria.Audience, AudienceBucket(result.AudienceFit)) &&
		matchesAny(criteria.Engagement, EngagementBucket(result.EngagementQuality)) &&
		matchesAny(criteria.Competitiveness, CompetitivenessBucket(result.CompetitivenessScore)) &&
		matchesAny(criteria.Activity, ActivityBucket(result.ActivityConsistency)) &&
		matchesGenres(criteria.Genres, result.Labels)
}

func matchesAny(selected []string, bucket string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == bucket {
			return true
		}
	}
	return false
}

// matchesGenres reports whether any selected genre label case-insensitively
// overlaps the result's label set.
func matchesGenres(selected, labels []string) bool {
	if len(selected) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[lower(l)] = struct{}{}
	}
	for _, s := range selected {
		if _, ok := set[lower(s)]; ok {
			return true
		}
	}
	return false
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
