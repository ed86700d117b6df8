// Package governor enforces daily spend budgets for external LLM tokens and
// video-platform quota units, with tiered degradation and atomic, CAS-guarded
// daily resets.
package governor

import (
	"sync/atomic"
	"time"

	"github.com/mfenderov/hermes-discovery/internal/metrics"
)

// BudgetDecision is the outcome of a token-budget check.
type BudgetDecision int

const (
	BudgetAllow BudgetDecision = iota
	BudgetEmbeddingsOnly
	BudgetFallbackOnly
	BudgetDowngrade
	BudgetReject
)

func (d BudgetDecision) String() string {
	switch d {
	case BudgetAllow:
		return "ALLOW"
	case BudgetEmbeddingsOnly:
		return "EMBEDDINGS_ONLY"
	case BudgetFallbackOnly:
		return "FALLBACK_ONLY"
	case BudgetDowngrade:
		return "DOWNGRADE"
	case BudgetReject:
		return "REJECT"
	default:
		return "UNKNOWN"
	}
}

// CanUseLLM reports whether the decision still permits an LLM call.
func (d BudgetDecision) CanUseLLM() bool {
	return d == BudgetAllow
}

// IsAllowed reports whether the decision is the fully-allowed tier.
func (d BudgetDecision) IsAllowed() bool {
	return d == BudgetAllow
}

// TokenGovernor bounds daily LLM token spend.
type TokenGovernor struct {
	dailyBudget       int64
	perRequestBudget  int64
	fallbackThreshold float64

	tokensUsed  atomic.Int64
	currentDate atomic.Int64 // days since epoch, UTC
	now         func() time.Time
}

// NewTokenGovernor builds a governor from the configured budgets.
func NewTokenGovernor(dailyBudget, perRequestBudget int64, fallbackThreshold float64) *TokenGovernor {
	g := &TokenGovernor{
		dailyBudget:       dailyBudget,
		perRequestBudget:  perRequestBudget,
		fallbackThreshold: fallbackThreshold,
		now:               time.Now,
	}
	g.currentDate.Store(dayNumber(g.now()))
	return g
}

func dayNumber(t time.Time) int64 {
	return t.UTC().Unix() / 86400
}

func (g *TokenGovernor) resetIfNewDay() {
	today := dayNumber(g.now())
	prev := g.currentDate.Load()
	if prev == today {
		return
	}
	if g.currentDate.CompareAndSwap(prev, today) {
		g.tokensUsed.Store(0)
	}
}

// CheckBudget evaluates an estimated token cost against the current budget
// and returns the degradation tier that applies.
func (g *TokenGovernor) CheckBudget(estimated int64) BudgetDecision {
	decision := g.checkBudget(estimated)
	metrics.Metrics.GovernorDecisions.WithLabelValues("token", decision.String()).Inc()
	return decision
}

func (g *TokenGovernor) checkBudget(estimated int64) BudgetDecision {
	g.resetIfNewDay()

	if estimated > g.perRequestBudget {
		return BudgetDowngrade
	}

	used := g.tokensUsed.Load()
	if used+estimated > g.dailyBudget {
		return BudgetReject
	}

	ratio := float64(used+estimated) / float64(g.dailyBudget)
	switch {
	case ratio >= g.fallbackThreshold:
		return BudgetFallbackOnly
	case ratio >= 0.5:
		return BudgetEmbeddingsOnly
	default:
		return BudgetAllow
	}
}

// RecordUsage atomically adds consumed tokens to the daily counter. A caller
// that receives a rejection MUST NOT call RecordUsage — rejects never
// increment the counter.
func (g *TokenGovernor) RecordUsage(n int64) {
	g.tokensUsed.Add(n)
}

// UsageStats is a read model for admin/monitoring endpoints.
type UsageStats struct {
	TokensUsed  int64   `json:"tokensUsed"`
	DailyBudget int64   `json:"dailyBudget"`
	Ratio       float64 `json:"ratio"`
}

func (g *TokenGovernor) Stats() UsageStats {
	g.resetIfNewDay()
	used := g.tokensUsed.Load()
	return UsageStats{
		TokensUsed:  used,
		DailyBudget: g.dailyBudget,
		Ratio:       float64(used) / float64(g.dailyBudget),
	}
}
