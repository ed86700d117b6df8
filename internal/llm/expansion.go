// Package llm implements query expansion (C5): turning a normalized genre
// phrase into a handful of high-signal search queries, with a token budget,
// a cache, and a deterministic fallback so no caller ever sees an LLM
// failure.
package llm

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/mfenderov/hermes-discovery/internal/cache"
	"github.com/mfenderov/hermes-discovery/internal/governor"
	"github.com/mfenderov/hermes-discovery/internal/normalize"
)

// estimatedTokensPerQuery is the flat per-request budget estimate used
// before the LLM call is made, since the actual completion's token usage
// is unknown until the response comes back.
const estimatedTokensPerQuery = 300

const (
	cohereModel       = "command-r-08-2024"
	cohereTemperature = 0.3
)

var listMarker = regexp.MustCompile(`^[-*\d.]+\s*`)

// Expansion is the result of generate(raw): the normalized query, the final
// ordered query list, how many tokens were spent, and when it was produced.
type Expansion struct {
	Normalized string
	Queries    []string
	TokenCost  int64
	Timestamp  time.Time
}

// Expander generates search queries for a genre phrase, backed by the
// query-digest cache and gated by the token governor.
type Expander struct {
	client   *cohereclient.Client
	cache    *cache.QueryDigestCache
	governor *governor.TokenGovernor
	now      func() time.Time
}

// NewExpander builds an Expander. apiKey may be empty, in which case every
// call falls straight to the deterministic fallback (matching step 7's
// "any LLM failure" clause).
func NewExpander(apiKey string, qc *cache.QueryDigestCache, tg *governor.TokenGovernor) *Expander {
	var client *cohereclient.Client
	if apiKey != "" {
		client = cohereclient.NewClient(cohereclient.WithToken(apiKey))
	}
	return &Expander{client: client, cache: qc, governor: tg, now: time.Now}
}

// Generate runs the full seven-step procedure from the query-expansion
// contract. It never returns an error for an LLM failure; any failure
// degrades to the deterministic fallback so every caller always sees a
// non-empty query list.
func (e *Expander) Generate(ctx context.Context, raw string) (Expansion, error) {
	normalized := normalize.Normalize(raw)
	ts := e.now()

	if cached, err := e.cache.Get(ctx, raw); err != nil {
		log.Printf("llm: cache lookup failed for %q: %v", raw, err)
	} else if cached != nil {
		return Expansion{Normalized: cached.Normalized, Queries: cached.Queries, TokenCost: 0, Timestamp: ts}, nil
	}

	decision := e.governor.CheckBudget(estimatedTokensPerQuery)
	if !decision.CanUseLLM() {
		return e.fallback(ctx, raw, normalized, ts)
	}

	queries, reportedTokens, err := e.callLLM(ctx, normalized)
	if err != nil {
		log.Printf("llm: query generation failed for %q, falling back: %v", raw, err)
		return e.fallback(ctx, raw, normalized, ts)
	}

	final := mergeQueries(normalized, queries)
	tokenCost := reportedTokens
	if tokenCost == 0 {
		tokenCost = estimatedTokensPerQuery
	}

	e.governor.RecordUsage(tokenCost)
	if err := e.cache.Put(ctx, raw, final, tokenCost); err != nil {
		log.Printf("llm: failed to cache expansion for %q: %v", raw, err)
	}

	return Expansion{Normalized: normalized, Queries: final, TokenCost: tokenCost, Timestamp: ts}, nil
}

// fallback produces the deterministic priority-variant-plus-suffix query
// set, caches it at zero token cost, and returns it.
func (e *Expander) fallback(ctx context.Context, raw, normalized string, ts time.Time) (Expansion, error) {
	queries := deterministicFallback(normalized)
	if err := e.cache.Put(ctx, raw, queries, 0); err != nil {
		log.Printf("llm: failed to cache fallback for %q: %v", raw, err)
	}
	return Expansion{Normalized: normalized, Queries: queries, TokenCost: 0, Timestamp: ts}, nil
}

func priorityVariants(normalized string) []string {
	return []string{normalized, normalized + " official", normalized + " channel"}
}

// deterministicFallback is the fixed, LLM-free query set: the three
// priority variants plus three fixed suffix variants.
func deterministicFallback(normalized string) []string {
	variants := priorityVariants(normalized)
	return append(variants, normalized+" youtuber", normalized+" creator", normalized+" best")
}

func (e *Expander) callLLM(ctx context.Context, normalized string) ([]string, int64, error) {
	if e.client == nil {
		return nil, 0, fmt.Errorf("llm: no client configured")
	}

	prompt := fmt.Sprintf(
		"Suggest 6 to 8 short, high-signal YouTube search queries for discovering channels in the genre %q. "+
			"One query per line, no numbering, no extra commentary.",
		normalized,
	)

	temp := cohereTemperature
	resp, err := e.client.Chat(ctx, &cohereclient.ChatRequest{
		Message:     prompt,
		Model:       cohereStringPtr(cohereModel),
		Temperature: &temp,
	})
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(resp.Text, "\n")
	var tokens int64
	if resp.Meta != nil && resp.Meta.Tokens != nil && resp.Meta.Tokens.OutputTokens != nil {
		tokens = int64(*resp.Meta.Tokens.OutputTokens)
	}

	return parseQueryLines(lines), tokens, nil
}

func cohereStringPtr(s string) *string { return &s }

// parseQueryLines strips leading list markers and dedupes case-insensitively
// while preserving first-occurrence order.
func parseQueryLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	var out []string
	for _, line := range lines {
		q := listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

// mergeQueries puts the three priority variants first, then appends any
// LLM-suggested query not already present case-insensitively.
func mergeQueries(normalized string, llmQueries []string) []string {
	result := priorityVariants(normalized)
	seen := make(map[string]struct{}, len(result))
	for _, q := range result {
		seen[strings.ToLower(q)] = struct{}{}
	}
	for _, q := range llmQueries {
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, q)
	}
	return result
}
