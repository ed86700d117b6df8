package scoring

import (
	"testing"
	"time"
)

func TestActivityConsistency_NilCreatedAtIsZero(t *testing.T) {
	got := ActivityConsistency(50, nil, time.Now(), nil)
	if got != 0 {
		t.Errorf("ActivityConsistency with nil createdAt = %.2f, want 0.00", got)
	}
}

func TestActivityConsistency_ZeroVideosIsZero(t *testing.T) {
	createdAt := time.Now().AddDate(-1, 0, 0)
	got := ActivityConsistency(0, &createdAt, time.Now(), nil)
	if got != 0 {
		t.Errorf("ActivityConsistency with zero videos = %.2f, want 0.00", got)
	}
}

func TestActivityConsistency_ModerateUploadRate(t *testing.T) {
	now := time.Now()
	createdAt := now.AddDate(0, -12, 0) // 12 months, 24 videos -> 2/month
	got := ActivityConsistency(24, &createdAt, now, nil)
	// r=2 falls in (1,4]: 0.3 + (2-1)/3*0.4 = 0.3 + 0.1333 = 0.4333
	if !almostEqual(got, 0.4333, 0.02) {
		t.Errorf("ActivityConsistency at r=2/month = %.4f, want ~0.4333", got)
	}
}

func TestActivityConsistency_HighUploadRateApproachesCeiling(t *testing.T) {
	now := time.Now()
	createdAt := now.AddDate(0, -6, 0) // 6 months, 120 videos -> 20/month
	got := ActivityConsistency(120, &createdAt, now, nil)
	if got < 0.9 {
		t.Errorf("ActivityConsistency at r=20/month = %.4f, want >= 0.90", got)
	}
}

func TestFreshness_NilIsNeutral(t *testing.T) {
	got := Freshness(nil, time.Now())
	if got != 0.5 {
		t.Errorf("Freshness(nil) = %.2f, want 0.50", got)
	}
}

func TestFreshness_RecentIsFullScore(t *testing.T) {
	now := time.Now()
	lastSeen := now.AddDate(0, 0, -2)
	got := Freshness(&lastSeen, now)
	if got != 1.0 {
		t.Errorf("Freshness(2 days ago) = %.2f, want 1.00", got)
	}
}

func TestFreshness_VeryStaleIsFloor(t *testing.T) {
	now := time.Now()
	lastSeen := now.AddDate(-1, 0, 0)
	got := Freshness(&lastSeen, now)
	if got != 0.1 {
		t.Errorf("Freshness(1 year ago) = %.2f, want 0.10", got)
	}
}

func TestFreshness_FutureTimestampIsFullScore(t *testing.T) {
	now := time.Now()
	future := now.AddDate(0, 0, 1)
	got := Freshness(&future, now)
	if got != 1.0 {
		t.Errorf("Freshness(future timestamp) = %.2f, want 1.00", got)
	}
}
