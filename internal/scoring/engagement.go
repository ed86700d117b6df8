package scoring

import "math"

// EngagementPreference is a user-supplied preferred views-per-subscriber
// band.
type EngagementPreference struct {
	MinRatio float64
	MaxRatio float64
}

// recencyWeights are applied to up to the 10 most-recent videos, most
// recent first, when per-video statistics are available.
var recencyWeights = []float64{1.00, 0.85, 0.70, 0.55, 0.40, 0.40, 0.40, 0.40, 0.40, 0.40}

// EngagementQuality scores a views-per-subscriber ratio via a sigmoid,
// blended with preferred when one is given. The behavior-based weighted
// per-video form is EngagementQualityFromVideos.
func EngagementQuality(viewCount, subscriberCount int64, preferred *EngagementPreference) float64 {
	ratio := 0.5
	if subscriberCount != 0 {
		ratio = float64(viewCount) / float64(subscriberCount)
	}

	score := 1.0 / (1.0 + math.Exp(-0.05*(ratio-50)))

	if preferred != nil {
		match := matchEngagementPreference(ratio, *preferred)
		score = (score + match) / 2.0
	}

	return math.Min(1.0, math.Max(0.0, score))
}

func matchEngagementPreference(ratio float64, pref EngagementPreference) float64 {
	if ratio >= pref.MinRatio && ratio < pref.MaxRatio {
		return 1.0
	}
	var distance float64
	if ratio < pref.MinRatio {
		distance = (pref.MinRatio - ratio) / pref.MinRatio
	} else {
		distance = (ratio - pref.MaxRatio) / pref.MaxRatio
	}
	return math.Max(0.0, 1.0-distance) * 0.7
}

// EngagementQualityFromVideos computes the behavior-based engagement score
// from up to 10 most-recent videos (views >= 100 only), weighting likes and
// double-weighting comments as a stronger effort signal, then a sigmoid
// centered at a 0.15 engagement rate.
func EngagementQualityFromVideos(videos []VideoStat) float64 {
	type weighted struct {
		rate   float64
		weight float64
	}

	var considered []weighted
	for _, v := range videos {
		if len(considered) >= 10 {
			break
		}
		if v.Views < 100 {
			continue
		}
		rate := float64(v.Likes+2*v.Comments) / float64(v.Views)
		w := 0.40
		if len(considered) < len(recencyWeights) {
			w = recencyWeights[len(considered)]
		}
		considered = append(considered, weighted{rate: rate, weight: w})
	}

	if len(considered) == 0 {
		return 0.5
	}

	var weightedSum, weightTotal float64
	for _, c := range considered {
		weightedSum += c.rate * c.weight
		weightTotal += c.weight
	}
	meanRate := weightedSum / weightTotal

	score := 1.0 / (1.0 + math.Exp(-3.0*(meanRate-0.15)))
	return math.Min(1.0, math.Max(0.0, score))
}

// VideoStat is the minimal per-video signal the engagement scorer consumes.
type VideoStat struct {
	Views    int64
	Likes    int64
	Comments int64
}
