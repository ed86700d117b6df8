// Package search wires the query-execution core end to end: normalize →
// find-or-generate queries → platform search → score → rank → materialize
// → first page. It is the thin glue the handler layer calls into, sitting
// between handler and repository the way a service layer does.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mfenderov/hermes-discovery/internal/ingestion"
	"github.com/mfenderov/hermes-discovery/internal/llm"
	"github.com/mfenderov/hermes-discovery/internal/metrics"
	"github.com/mfenderov/hermes-discovery/internal/model"
	"github.com/mfenderov/hermes-discovery/internal/platform"
	"github.com/mfenderov/hermes-discovery/internal/ranking"
	"github.com/mfenderov/hermes-discovery/internal/scoring"
	"github.com/mfenderov/hermes-discovery/internal/session"
)

// Orchestrator runs one search end to end, reusing a materialized session
// whenever the same normalized query + platform is still valid so a repeat
// search costs zero external calls.
type Orchestrator struct {
	expander     *llm.Expander
	adapter      *platform.YouTubeAdapter
	materializer *session.Materializer
	ingestion    *ingestion.Pipeline

	maxResultsPerQuery int
	now                func() time.Time
}

// New builds an Orchestrator. maxResultsPerQuery is the per-query result cap
// (before any governor downgrade further reduces it).
func New(expander *llm.Expander, adapter *platform.YouTubeAdapter, materializer *session.Materializer, pipeline *ingestion.Pipeline, maxResultsPerQuery int) *Orchestrator {
	return &Orchestrator{
		expander:           expander,
		adapter:            adapter,
		materializer:       materializer,
		ingestion:          pipeline,
		maxResultsPerQuery: maxResultsPerQuery,
		now:                time.Now,
	}
}

// Result bundles everything a POST /search response needs.
type Result struct {
	Session           *model.SearchSession
	Page              session.SessionPage
	FromCache         bool
	ExternalUnitsUsed int64
}

// Run executes one search for (genre, platform). If a valid session already
// exists for the same normalized query and platform, it is reused and only
// the first page is read (zero external calls) — the data-flow contract in
// the system overview.
func (o *Orchestrator) Run(ctx context.Context, genre, platform string, page, pageSize int) (Result, error) {
	if existing, err := o.materializer.FindValidSession(ctx, genre, platform); err != nil {
		return Result{}, fmt.Errorf("search: find valid session: %w", err)
	} else if existing != nil {
		pg, err := o.materializer.Paginate(ctx, existing.SessionID, page, pageSize)
		if err != nil {
			return Result{}, fmt.Errorf("search: paginate cached session: %w", err)
		}
		return Result{Session: existing, Page: pg, FromCache: true}, nil
	}

	expansion, err := o.expander.Generate(ctx, genre)
	if err != nil {
		return Result{}, fmt.Errorf("search: query expansion: %w", err)
	}

	byQuery, quotaSpent, err := o.adapter.SearchChannels(ctx, expansion.Queries, o.maxResultsPerQuery)
	if err != nil {
		return Result{}, fmt.Errorf("search: platform search: %w", err)
	}

	ranked := o.scoreAndRank(byQuery, expansion.Queries, genre, platform)

	sess, err := o.materializer.CreateSession(ctx, genre, platform, ranked, quotaSpent)
	if err != nil {
		return Result{}, fmt.Errorf("search: create session: %w", err)
	}

	if o.ingestion != nil {
		o.ingestion.EnqueueBatch(flattenProfiles(byQuery), genre, genre)
	}

	pg, err := o.materializer.Paginate(ctx, sess.SessionID, page, pageSize)
	if err != nil {
		return Result{}, fmt.Errorf("search: paginate fresh session: %w", err)
	}

	return Result{Session: sess, Page: pg, FromCache: false, ExternalUnitsUsed: quotaSpent}, nil
}

// PaginateSession reads a session's materialized results directly — the
// zero-external-call read path for GET /search/session/{sessionId}.
func (o *Orchestrator) PaginateSession(ctx context.Context, sessionID string, page, pageSize int, sortKey model.SortKey) (session.SessionPage, error) {
	return o.materializer.PaginateSorted(ctx, sessionID, page, pageSize, sortKey)
}

// PaginateSessionFiltered is the filtered counterpart for
// GET /search/session/{sessionId}/filtered.
func (o *Orchestrator) PaginateSessionFiltered(ctx context.Context, sessionID string, page, pageSize int, sortKey model.SortKey, criteria model.FilterCriteria) (session.FilteredSessionPage, error) {
	return o.materializer.PaginateFiltered(ctx, sessionID, page, pageSize, sortKey, criteria)
}

// scoreAndRank turns the raw per-query platform results into a single
// ranked, deduped list. Each profile is scored once per query it appears
// under, using that query's words for name relevance; MergeDedupeRank then
// collapses the duplicates.
func (o *Orchestrator) scoreAndRank(byQuery map[string][]model.CreatorProfile, queryOrder []string, genre, platformName string) []model.GradedCreator {
	start := time.Now()
	defer func() { metrics.Metrics.ScoringDuration.Observe(time.Since(start).Seconds()) }()

	now := o.now()
	graded := make(map[string][]model.GradedCreator, len(byQuery))

	for query, profiles := range byQuery {
		queryWords := strings.Fields(query)
		out := make([]model.GradedCreator, 0, len(profiles))
		for _, p := range profiles {
			score := scoreProfile(p, genre, queryWords, now)
			out = append(out, model.GradedCreator{
				ChannelID:       p.ChannelID,
				ChannelName:     p.DisplayName,
				Description:     p.Bio,
				ProfileImageURL: p.ImageURL,
				Platform:        platformName,
				SubscriberCount: p.Subscribers,
				LastVideoDate:   p.LastVideoDate,
				Score:           score,
				Labels:          scoring.GenerateLabels(score),
			})
		}
		graded[query] = out
	}

	return ranking.MergeDedupeRank(graded, queryOrder)
}

// scoreProfile computes the five-dimension score vector for one platform
// profile, matching the scorer-set contract (C7): no user-supplied
// preferences are applied in v1, only the base profile signals. At
// materialization, genre relevance is the higher of the keyword-overlap
// score and the name-relevance variant — queryWords lets an exact or
// near-exact channel-name match override a weak keyword overlap, per the
// "boosts exact-name matches" clause.
func scoreProfile(p model.CreatorProfile, genre string, queryWords []string, now time.Time) model.CreatorScore {
	genreRelevance := scoring.GenreRelevance(p.DisplayName, p.Bio, genre)
	if nameRelevance := scoring.NameRelevance(p.DisplayName, queryWords); nameRelevance > genreRelevance {
		genreRelevance = nameRelevance
	}

	s := model.CreatorScore{
		GenreRelevance:      genreRelevance,
		AudienceFit:         scoring.AudienceFit(p.Subscribers, nil),
		EngagementQuality:   scoring.EngagementQuality(p.Views, p.Subscribers, nil),
		ActivityConsistency: scoring.ActivityConsistency(p.Videos, p.ChannelCreatedAt, now, nil),
		Freshness:           scoring.Freshness(p.LastVideoDate, now),
	}
	s.FinalScore = model.ComputeFinalScore(s)
	return s
}

// flattenProfiles dedupes by channel ID across every query's result set,
// the set of creators eligible for background ingestion.
func flattenProfiles(byQuery map[string][]model.CreatorProfile) []model.CreatorProfile {
	seen := make(map[string]struct{})
	var out []model.CreatorProfile
	for _, profiles := range byQuery {
		for _, p := range profiles {
			if _, dup := seen[p.ChannelID]; dup {
				continue
			}
			seen[p.ChannelID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
