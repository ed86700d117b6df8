package scoring

import (
	"slices"
	"testing"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

func TestGenerateLabels_StrongAllAround(t *testing.T) {
	s := model.CreatorScore{
		GenreRelevance:      0.9,
		AudienceFit:         0.9,
		EngagementQuality:   0.9,
		ActivityConsistency: 0.9,
		Freshness:           0.9,
		FinalScore:          0.9,
	}
	labels := GenerateLabels(s)

	for _, want := range []string{"Strong genre fit", "Perfect audience size", "High engagement", "Very active", "Recently active", "Dominant", "Top match"} {
		if !slices.Contains(labels, want) {
			t.Errorf("GenerateLabels() = %v, want it to contain %q", labels, want)
		}
	}
}

func TestGenerateLabels_WeakAllAround(t *testing.T) {
	s := model.CreatorScore{
		GenreRelevance:      0.1,
		AudienceFit:         0.1,
		EngagementQuality:   0.1,
		ActivityConsistency: 0.1,
		Freshness:           0.1,
		FinalScore:          0.1,
	}
	labels := GenerateLabels(s)

	for _, want := range []string{"Low engagement", "Occasionally active", "Inactive recently"} {
		if !slices.Contains(labels, want) {
			t.Errorf("GenerateLabels() = %v, want it to contain %q", labels, want)
		}
	}
	for _, unwanted := range []string{"Top match", "Good match", "Dominant"} {
		if slices.Contains(labels, unwanted) {
			t.Errorf("GenerateLabels() = %v, unexpectedly contains %q", labels, unwanted)
		}
	}
}

func TestGenerateLabels_MidRangeProducesNoExtremeLabels(t *testing.T) {
	s := model.CreatorScore{
		GenreRelevance:      0.6,
		AudienceFit:         0.6,
		EngagementQuality:   0.6,
		ActivityConsistency: 0.6,
		Freshness:           0.6,
		FinalScore:          0.6,
	}
	labels := GenerateLabels(s)

	for _, unwanted := range []string{"Low engagement", "Inactive recently", "Top match"} {
		if slices.Contains(labels, unwanted) {
			t.Errorf("GenerateLabels() = %v, unexpectedly contains %q", labels, unwanted)
		}
	}
	if !slices.Contains(labels, "Good match") {
		t.Errorf("GenerateLabels() = %v, want it to contain %q", labels, "Good match")
	}
}

func TestCompetitivenessLabel_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, "Dominant"},
		{0.7, "Established"},
		{0.5, "Growing"},
		{0.3, "Emerging"},
		{0.1, ""},
	}

	for _, tt := range tests {
		got := competitivenessLabel(tt.score)
		if got != tt.want {
			t.Errorf("competitivenessLabel(%.2f) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
