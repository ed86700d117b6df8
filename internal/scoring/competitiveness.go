package scoring

// Competitiveness bucket thresholds, view-level only — never stored, always
// derived from the stored competitivenessScore.
const (
	ThresholdEmerging    = 0.20
	ThresholdGrowing     = 0.40
	ThresholdEstablished = 0.60
	ThresholdDominant    = 0.80
)

// CompetitivenessBucket maps a competitiveness score to its human-readable
// tier. Coverage is total: every score in [0,1] maps to exactly one bucket.
func CompetitivenessBucket(score float64) string {
	switch {
	case score >= ThresholdDominant:
		return "Dominant"
	case score >= ThresholdEstablished:
		return "Established"
	case score >= ThresholdGrowing:
		return "Growing"
	case score >= ThresholdEmerging:
		return "Emerging"
	default:
		return "Nascent"
	}
}

// Competitiveness recomputes the 0.40/0.35/0.25 weighted combination of
// audience, engagement, and activity directly — the label generator uses
// this independently of model.ComputeCompetitiveness (used by the
// materializer for the stored column) so the two call sites must be kept in
// sync by hand; see DESIGN.md.
func Competitiveness(audienceFit, engagementQuality, activityConsistency float64) float64 {
	v := WeightAudience*audienceFit + WeightEngagement*engagementQuality + WeightActivity*activityConsistency
	return clamp01(v)
}

const (
	WeightAudience   = 0.40
	WeightEngagement = 0.35
	WeightActivity   = 0.25
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
