package scoring

import "math"

// AudienceScale is a user-supplied preferred subscriber-count bucket.
type AudienceScale struct {
	MinSubscribers int64
	MaxSubscribers int64 // 0 means unbounded (LARGE tier)
}

func (a AudienceScale) matches(subs int64) bool {
	if a.MaxSubscribers == 0 {
		return subs >= a.MinSubscribers
	}
	return subs >= a.MinSubscribers && subs < a.MaxSubscribers
}

// AudienceFit scores subscriber count against a flat piecewise scale, or
// against a user-preferred bucket when supplied.
func AudienceFit(subscriberCount int64, preferred *AudienceScale) float64 {
	if preferred == nil {
		switch {
		case subscriberCount >= 10_000_000:
			return 1.0
		case subscriberCount >= 1_000_000:
			return 0.9
		case subscriberCount >= 100_000:
			return 0.7
		case subscriberCount >= 10_000:
			return 0.5
		case subscriberCount >= 1_000:
			return 0.3
		default:
			return 0.2
		}
	}

	if preferred.matches(subscriberCount) {
		return 1.0
	}

	min := preferred.MinSubscribers
	max := preferred.MaxSubscribers

	if max != 0 && subscriberCount >= max {
		return 0.8
	}

	distance := float64(min-subscriberCount) / float64(min)
	score := math.Max(0.0, 1.0-distance)
	return score * 0.7
}
