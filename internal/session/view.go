package session

import (
	"context"
	"sort"
	"strings"

	"github.com/mfenderov/hermes-discovery/internal/filter"
	"github.com/mfenderov/hermes-discovery/internal/model"
)

// SessionPage is one page of a session's materialized results, or a marker
// for a missing/expired session.
type SessionPage struct {
	SessionID    string                      `json:"sessionId"`
	Results      []model.SearchSessionResult `json:"results"`
	TotalResults int                         `json:"totalResults"`
	CurrentPage  int                         `json:"currentPage"`
	PageSize     int                         `json:"pageSize"`
	TotalPages   int                         `json:"totalPages"`
	Missing      bool                        `json:"-"`
	Expired      bool                        `json:"-"`
}

// EmptySessionPage marks a session that was never materialized.
func EmptySessionPage() SessionPage {
	return SessionPage{Missing: true}
}

// ExpiredSessionPage marks a session that existed but has expired.
func ExpiredSessionPage(sessionID string) SessionPage {
	return SessionPage{SessionID: sessionID, Expired: true}
}

// FilteredSessionPage is the paginateFiltered counterpart of SessionPage,
// additionally reporting how many rows matched the filter before paging.
type FilteredSessionPage struct {
	SessionID    string                      `json:"sessionId"`
	Results      []model.SearchSessionResult `json:"results"`
	MatchedTotal int                         `json:"matchedTotal"`
	TotalResults int                         `json:"totalResults"`
	CurrentPage  int                         `json:"currentPage"`
	PageSize     int                         `json:"pageSize"`
	TotalPages   int                         `json:"totalPages"`
	Missing      bool                        `json:"-"`
	Expired      bool                        `json:"-"`
}

// EmptyFilteredSessionPage marks a session that was never materialized.
func EmptyFilteredSessionPage() FilteredSessionPage {
	return FilteredSessionPage{Missing: true}
}

// ExpiredFilteredSessionPage marks a session that existed but has expired.
func ExpiredFilteredSessionPage(sessionID string) FilteredSessionPage {
	return FilteredSessionPage{SessionID: sessionID, Expired: true}
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Paginate returns one page of a session's results ordered by storage rank,
// the zero-external-call read path (C10). It resolves the session by id
// directly — no genre/platform lookup — and applies sliding-touch exactly
// as FindValidSession does.
func (m *Materializer) Paginate(ctx context.Context, sessionID string, page, pageSize int) (SessionPage, error) {
	return m.PaginateSorted(ctx, sessionID, page, pageSize, model.SortFinalScore)
}

// PaginateSorted pages a session's results ordered by sortKey's storage
// column, pushing the sort and the limit/offset to SQL.
func (m *Materializer) PaginateSorted(ctx context.Context, sessionID string, page, pageSize int, sortKey model.SortKey) (SessionPage, error) {
	s, err := m.repo.findByID(ctx, sessionID)
	if err != nil {
		return SessionPage{}, err
	}
	if s == nil {
		return EmptySessionPage(), nil
	}
	now := m.now()
	if s.IsExpired(now) {
		return ExpiredSessionPage(sessionID), nil
	}
	if err := m.touch(ctx, s, now); err != nil {
		return SessionPage{}, err
	}

	page = clampPage(page)
	offset := (page - 1) * pageSize
	results, err := m.repo.findPage(ctx, sessionID, sortKey, offset, pageSize)
	if err != nil {
		return SessionPage{}, err
	}

	return SessionPage{
		SessionID:    sessionID,
		Results:      results,
		TotalResults: s.TotalResults,
		CurrentPage:  page,
		PageSize:     pageSize,
		TotalPages:   totalPages(s.TotalResults, pageSize),
	}, nil
}

// PaginateFiltered runs the mandatory five-step sequence — resolve session,
// fetch every result, filter in memory, sort in memory, then slice — never
// recomputing a score or re-issuing an external call.
func (m *Materializer) PaginateFiltered(ctx context.Context, sessionID string, page, pageSize int, sortKey model.SortKey, criteria model.FilterCriteria) (FilteredSessionPage, error) {
	s, err := m.repo.findByID(ctx, sessionID)
	if err != nil {
		return FilteredSessionPage{}, err
	}
	if s == nil {
		return EmptyFilteredSessionPage(), nil
	}
	now := m.now()
	if s.IsExpired(now) {
		return ExpiredFilteredSessionPage(sessionID), nil
	}
	if err := m.touch(ctx, s, now); err != nil {
		return FilteredSessionPage{}, err
	}

	all, err := m.repo.findAll(ctx, sessionID)
	if err != nil {
		return FilteredSessionPage{}, err
	}

	matched := make([]model.SearchSessionResult, 0, len(all))
	for _, r := range all {
		if filter.Matches(r, criteria) {
			matched = append(matched, r)
		}
	}

	sortInMemory(matched, sortKey)

	page = clampPage(page)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return FilteredSessionPage{
		SessionID:    sessionID,
		Results:      matched[start:end],
		MatchedTotal: len(matched),
		TotalResults: s.TotalResults,
		CurrentPage:  page,
		PageSize:     pageSize,
		TotalPages:   totalPages(len(matched), pageSize),
	}, nil
}

// sortInMemory orders results per sortKey. ACTIVITY sorts by lastVideoDate
// recency (nulls last), intentionally distinct from the activityConsistency
// score the ACTIVITY filter bucket uses — the sort answers "how recently?",
// the filter answers "how consistently?".
func sortInMemory(results []model.SearchSessionResult, sortKey model.SortKey) {
	less := func(i, j int) bool {
		a, b := results[i], results[j]
		switch sortKey {
		case model.SortRelevance:
			if a.GenreRelevance != b.GenreRelevance {
				return a.GenreRelevance > b.GenreRelevance
			}
		case model.SortSubscribers:
			if a.SubscriberCount != b.SubscriberCount {
				return a.SubscriberCount > b.SubscriberCount
			}
		case model.SortEngagement:
			if a.EngagementQuality != b.EngagementQuality {
				return a.EngagementQuality > b.EngagementQuality
			}
		case model.SortActivity:
			if cmp, ok := compareLastVideoDate(a, b); ok {
				return cmp
			}
		case model.SortCompetitiveness:
			if a.CompetitivenessScore != b.CompetitivenessScore {
				return a.CompetitivenessScore > b.CompetitivenessScore
			}
		default: // SortFinalScore
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return strings.ToLower(a.ChannelName) < strings.ToLower(b.ChannelName)
	}
	sort.SliceStable(results, less)
}

// compareLastVideoDate reports (isLess, decided) for descending recency
// with nulls sorted last.
func compareLastVideoDate(a, b model.SearchSessionResult) (bool, bool) {
	switch {
	case a.LastVideoDate == nil && b.LastVideoDate == nil:
		return false, false
	case a.LastVideoDate == nil:
		return false, true
	case b.LastVideoDate == nil:
		return true, true
	case !a.LastVideoDate.Equal(*b.LastVideoDate):
		return a.LastVideoDate.After(*b.LastVideoDate), true
	default:
		return false, false
	}
}
