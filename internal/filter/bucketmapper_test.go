package filter

import (
	"testing"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

func TestAudienceBucket_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.0, AudienceSmall},
		{0.39, AudienceSmall},
		{0.4, AudienceMedium},
		{0.69, AudienceMedium},
		{0.7, AudienceLarge},
		{1.0, AudienceLarge},
	}
	for _, tt := range tests {
		if got := AudienceBucket(tt.score); got != tt.want {
			t.Errorf("AudienceBucket(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestCompetitivenessBucket_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.0, CompetitivenessNascent},
		{0.19, CompetitivenessNascent},
		{0.20, CompetitivenessEmerging},
		{0.40, CompetitivenessGrowing},
		{0.60, CompetitivenessEstablished},
		{0.80, CompetitivenessDominant},
		{1.0, CompetitivenessDominant},
	}
	for _, tt := range tests {
		if got := CompetitivenessBucket(tt.score); got != tt.want {
			t.Errorf("CompetitivenessBucket(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestMatches_ANDAcrossCategoriesORWithinCategory(t *testing.T) {
	result := model.SearchSessionResult{
		AudienceFit:          0.8,  // large
		EngagementQuality:    0.5,  // medium
		CompetitivenessScore: 0.9,  // dominant
		ActivityConsistency:  0.9,  // very_active
		Labels:               []string{"Gaming", "High engagement"},
	}

	// OR within Audience: "small" OR "large" should pass since result is large.
	criteria := model.FilterCriteria{Audience: []string{"small", "large"}}
	if !Matches(result, criteria) {
		t.Error("expected match: large is in the OR set")
	}

	// AND across categories: Audience matches but Engagement does not.
	criteria = model.FilterCriteria{Audience: []string{"large"}, Engagement: []string{"high"}}
	if Matches(result, criteria) {
		t.Error("expected no match: engagement is medium, not high")
	}
}

func TestMatches_GenreOverlapCaseInsensitive(t *testing.T) {
	result := model.SearchSessionResult{Labels: []string{"Gaming", "Strong genre fit"}}

	if !Matches(result, model.FilterCriteria{Genres: []string{"gaming"}}) {
		t.Error("expected case-insensitive genre match")
	}
	if Matches(result, model.FilterCriteria{Genres: []string{"cooking"}}) {
		t.Error("expected no match for disjoint genre")
	}
}

func TestMatches_EmptyCriteriaAlwaysPasses(t *testing.T) {
	result := model.SearchSessionResult{}
	if !Matches(result, model.FilterCriteria{}) {
		t.Error("expected empty criteria to vacuously pass")
	}
}
