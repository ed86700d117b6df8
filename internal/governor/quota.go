package governor

import (
	"sync/atomic"
	"time"

	"github.com/mfenderov/hermes-discovery/internal/metrics"
)

// SearchListCost and ChannelsListCostPerCall are the fixed unit costs of the two
// YouTube Data API calls the platform adapter makes.
const (
	SearchListCost         = 100
	ChannelsListCostPerCall = 1
	channelsBatchSize       = 50
)

// QuotaDecision is the outcome of a platform-quota check.
type QuotaDecision int

const (
	QuotaAllow QuotaDecision = iota
	QuotaReduceQueries
	QuotaReduceResults
	QuotaReject
)

func (d QuotaDecision) String() string {
	switch d {
	case QuotaAllow:
		return "ALLOW"
	case QuotaReduceQueries:
		return "REDUCE_QUERIES"
	case QuotaReduceResults:
		return "REDUCE_RESULTS"
	case QuotaReject:
		return "REJECT"
	default:
		return "UNKNOWN"
	}
}

func (d QuotaDecision) IsAllowed() bool {
	return d != QuotaReject
}

// MaxQueries returns the query-count cap for this decision tier.
func (d QuotaDecision) MaxQueries() int {
	switch d {
	case QuotaAllow:
		return 5
	case QuotaReduceQueries:
		return 3
	case QuotaReduceResults:
		return 2
	default:
		return 0
	}
}

// MaxResults returns the per-query result cap for this decision tier.
func (d QuotaDecision) MaxResults() int {
	switch d {
	case QuotaAllow:
		return 50
	case QuotaReduceQueries:
		return 50
	case QuotaReduceResults:
		return 20
	default:
		return 0
	}
}

// QuotaGovernor bounds daily YouTube Data API unit spend.
type QuotaGovernor struct {
	dailyQuota         int64
	downgradeThreshold float64

	unitsUsed   atomic.Int64
	currentDate atomic.Int64
	now         func() time.Time
}

func NewQuotaGovernor(dailyQuota int64, downgradeThreshold float64) *QuotaGovernor {
	g := &QuotaGovernor{
		dailyQuota:         dailyQuota,
		downgradeThreshold: downgradeThreshold,
		now:                time.Now,
	}
	g.currentDate.Store(dayNumber(g.now()))
	return g
}

func (g *QuotaGovernor) resetIfNewDay() {
	today := dayNumber(g.now())
	prev := g.currentDate.Load()
	if prev == today {
		return
	}
	if g.currentDate.CompareAndSwap(prev, today) {
		g.unitsUsed.Store(0)
	}
}

// EstimateCost computes the unit cost of running queryCount searches capped
// at maxResultsPerQuery results each.
func EstimateCost(queryCount, maxResultsPerQuery int) int64 {
	if queryCount <= 0 {
		return 0
	}
	batches := ceilDiv(queryCount*maxResultsPerQuery, channelsBatchSize)
	return int64(queryCount*SearchListCost) + int64(batches)
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// CheckQuota evaluates an estimated unit cost against the current quota.
func (g *QuotaGovernor) CheckQuota(estimated int64) QuotaDecision {
	decision := g.checkQuota(estimated)
	metrics.Metrics.GovernorDecisions.WithLabelValues("quota", decision.String()).Inc()
	return decision
}

func (g *QuotaGovernor) checkQuota(estimated int64) QuotaDecision {
	g.resetIfNewDay()

	used := g.unitsUsed.Load()
	if used+estimated > g.dailyQuota {
		return QuotaReject
	}

	ratio := float64(used+estimated) / float64(g.dailyQuota)
	switch {
	case ratio >= 0.9:
		return QuotaReduceResults
	case ratio >= g.downgradeThreshold:
		return QuotaReduceQueries
	default:
		return QuotaAllow
	}
}

// RecordUsage atomically adds consumed units to the daily counter.
func (g *QuotaGovernor) RecordUsage(n int64) {
	g.unitsUsed.Add(n)
}

type QuotaUsageStats struct {
	UnitsUsed  int64   `json:"unitsUsed"`
	DailyQuota int64   `json:"dailyQuota"`
	Ratio      float64 `json:"ratio"`
}

func (g *QuotaGovernor) Stats() QuotaUsageStats {
	g.resetIfNewDay()
	used := g.unitsUsed.Load()
	return QuotaUsageStats{
		UnitsUsed:  used,
		DailyQuota: g.dailyQuota,
		Ratio:      float64(used) / float64(g.dailyQuota),
	}
}
