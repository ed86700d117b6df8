package session

import (
	"testing"
	"time"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, pageSize, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
	}
	for _, tt := range tests {
		if got := totalPages(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestClampPage_RejectsNonPositive(t *testing.T) {
	if got := clampPage(0); got != 1 {
		t.Errorf("clampPage(0) = %d, want 1", got)
	}
	if got := clampPage(-5); got != 1 {
		t.Errorf("clampPage(-5) = %d, want 1", got)
	}
	if got := clampPage(3); got != 3 {
		t.Errorf("clampPage(3) = %d, want 3", got)
	}
}

func TestSortInMemory_FinalScoreDescending(t *testing.T) {
	results := []model.SearchSessionResult{
		{ChannelID: "c1", Score: 0.3, Rank: 1},
		{ChannelID: "c2", Score: 0.9, Rank: 2},
		{ChannelID: "c3", Score: 0.6, Rank: 3},
	}
	sortInMemory(results, model.SortFinalScore)
	ids := []string{results[0].ChannelID, results[1].ChannelID, results[2].ChannelID}
	want := []string{"c2", "c3", "c1"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("sortInMemory() order = %v, want %v", ids, want)
			break
		}
	}
}

func TestSortInMemory_ActivityByLastVideoDateNullsLast(t *testing.T) {
	recent := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	results := []model.SearchSessionResult{
		{ChannelID: "c1", LastVideoDate: nil, Rank: 1},
		{ChannelID: "c2", LastVideoDate: &older, Rank: 2},
		{ChannelID: "c3", LastVideoDate: &recent, Rank: 3},
	}
	sortInMemory(results, model.SortActivity)
	ids := []string{results[0].ChannelID, results[1].ChannelID, results[2].ChannelID}
	want := []string{"c3", "c2", "c1"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("sortInMemory(ACTIVITY) order = %v, want %v", ids, want)
			break
		}
	}
}

func TestSortInMemory_CompetitivenessDescending(t *testing.T) {
	results := []model.SearchSessionResult{
		{ChannelID: "c1", CompetitivenessScore: 0.2, Rank: 1},
		{ChannelID: "c2", CompetitivenessScore: 0.8, Rank: 2},
	}
	sortInMemory(results, model.SortCompetitiveness)
	if results[0].ChannelID != "c2" {
		t.Errorf("sortInMemory(COMPETITIVENESS)[0] = %s, want c2", results[0].ChannelID)
	}
}

func TestSessionCacheKey_CombinesDigestAndPlatform(t *testing.T) {
	if got := sessionCacheKey("abc123", "youtube"); got != "abc123:youtube" {
		t.Errorf("sessionCacheKey() = %q, want abc123:youtube", got)
	}
}

func TestMaterializeResults_DenseRankAndCompetitivenessComputedOnce(t *testing.T) {
	ranked := []model.GradedCreator{
		{
			ChannelID: "c1", ChannelName: "Alpha",
			Score: model.CreatorScore{AudienceFit: 0.8, EngagementQuality: 0.6, ActivityConsistency: 0.4, FinalScore: 0.7},
		},
		{
			ChannelID: "c2", ChannelName: "Beta",
			Score: model.CreatorScore{AudienceFit: 0.2, EngagementQuality: 0.3, ActivityConsistency: 0.1, FinalScore: 0.3},
		},
	}
	results := materializeResults("sess-1", ranked)

	if len(results) != 2 {
		t.Fatalf("materializeResults() len = %d, want 2", len(results))
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Errorf("materializeResults() ranks = [%d, %d], want [1, 2]", results[0].Rank, results[1].Rank)
	}

	want := model.ComputeCompetitiveness(ranked[0].Score)
	if results[0].CompetitivenessScore != want {
		t.Errorf("materializeResults()[0].CompetitivenessScore = %v, want %v", results[0].CompetitivenessScore, want)
	}
	if results[0].SessionID != "sess-1" {
		t.Errorf("materializeResults()[0].SessionID = %q, want sess-1", results[0].SessionID)
	}
}
