package platform

import (
	"strings"
	"sync/atomic"
)

// quotaShapedFailure markers identify a 403 response caused by the caller's
// own quota/rate limit rather than a bad request.
var quotaShapedFailure = []string{"quotaexceeded", "dailylimitexceeded", "ratelimitexceeded"}

// isQuotaShaped reports whether a YouTube API error looks like a
// quota/rate-limit rejection rather than some other failure.
func isQuotaShaped(statusCode int, message string) bool {
	if statusCode != 403 {
		return false
	}
	lower := strings.ToLower(message)
	for _, marker := range quotaShapedFailure {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// keyRotator round-robins across a fixed pool of API keys, advancing on a
// quota-shaped failure and signaling exhaustion once a full cycle fails.
type keyRotator struct {
	keys  []string
	index atomic.Int64
}

func newKeyRotator(keys []string) *keyRotator {
	return &keyRotator{keys: keys}
}

func (r *keyRotator) current() string {
	i := r.index.Load() % int64(len(r.keys))
	return r.keys[i]
}

// rotate advances to the next key and reports whether there is another key
// left to try in this cycle. When the cycle is exhausted it resets the
// index to 0 for the next caller.
func (r *keyRotator) rotate() (more bool) {
	next := r.index.Add(1)
	if int(next) >= len(r.keys) {
		r.index.Store(0)
		return false
	}
	return true
}
