// Package session implements the session materializer (C9) and the
// zero-external-call read-time view over it (C10): once a search has been
// scored and ranked, its results are written once and paginated many times
// without ever re-touching the LLM or the platform.
package session

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

// Repo is the Postgres-backed store for sessions and their materialized
// results, following the teacher's one-hand-written-SQL-string-per-method
// repository style.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo builds a Repo over pool.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// findByDigestAndPlatform returns the session for (digestKey, platform) if
// one exists, valid or expired, or nil if none has ever been materialized.
func (r *Repo) findByDigestAndPlatform(ctx context.Context, digestKey, platform string) (*model.SearchSession, error) {
	query := `
		SELECT session_id, query_digest, platform, normalized_query, total_results,
		       external_units_used, created_at, expires_at, last_accessed_at
		FROM search_sessions
		WHERE query_digest = $1 AND platform = $2`

	var s model.SearchSession
	err := r.pool.QueryRow(ctx, query, digestKey, platform).Scan(
		&s.SessionID, &s.QueryDigest, &s.Platform, &s.NormalizedQuery, &s.TotalResults,
		&s.ExternalUnitsUsed, &s.CreatedAt, &s.ExpiresAt, &s.LastAccessedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// findByID loads a session by its id, or nil if it does not exist.
func (r *Repo) findByID(ctx context.Context, sessionID string) (*model.SearchSession, error) {
	query := `
		SELECT session_id, query_digest, platform, normalized_query, total_results,
		       external_units_used, created_at, expires_at, last_accessed_at
		FROM search_sessions
		WHERE session_id = $1`

	var s model.SearchSession
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&s.SessionID, &s.QueryDigest, &s.Platform, &s.NormalizedQuery, &s.TotalResults,
		&s.ExternalUnitsUsed, &s.CreatedAt, &s.ExpiresAt, &s.LastAccessedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// materializeSession persists the session row (update-in-place for an
// existing (queryDigest, platform) pair, or insert for a brand-new one) and
// replaces its result rows, all inside one transaction — matching the
// teacher's SubmitVote shape (vote_repo.go) of wrapping the full
// ensure-row/mutate/replace-children sequence in a single pool.Begin…
// tx.Commit so a reader can never observe the row between steps. isNew
// selects the insert-session branch; otherwise the existing row is updated
// and its prior results deleted before the new ones are inserted.
func (r *Repo) materializeSession(ctx context.Context, s model.SearchSession, isNew bool, results []model.SearchSessionResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if isNew {
		_, err = tx.Exec(ctx, `
			INSERT INTO search_sessions
				(session_id, query_digest, platform, normalized_query, total_results,
				 external_units_used, created_at, expires_at, last_accessed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			s.SessionID, s.QueryDigest, s.Platform, s.NormalizedQuery, s.TotalResults,
			s.ExternalUnitsUsed, s.CreatedAt, s.ExpiresAt, s.LastAccessedAt)
		if err != nil {
			return err
		}
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE search_sessions
			SET total_results = $1, external_units_used = $2, expires_at = $3, last_accessed_at = $4
			WHERE session_id = $5`,
			s.TotalResults, s.ExternalUnitsUsed, s.ExpiresAt, s.LastAccessedAt, s.SessionID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM search_session_results WHERE session_id = $1`, s.SessionID)
		if err != nil {
			return err
		}
	}

	for _, res := range results {
		_, err = tx.Exec(ctx, `
			INSERT INTO search_session_results
				(session_id, rank, channel_id, channel_name, description, image_url, score,
				 genre_relevance, audience_fit, engagement_quality, activity_consistency, freshness,
				 competitiveness_score, subscriber_count, last_video_date, labels)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			res.SessionID, res.Rank, res.ChannelID, res.ChannelName, res.Description, res.ImageURL, res.Score,
			res.GenreRelevance, res.AudienceFit, res.EngagementQuality, res.ActivityConsistency, res.Freshness,
			res.CompetitivenessScore, res.SubscriberCount, res.LastVideoDate, res.Labels)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// touch advances a session's expiry and last-accessed timestamp.
func (r *Repo) touch(ctx context.Context, sessionID string, expiresAt, now time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE search_sessions SET expires_at = $1, last_accessed_at = $2 WHERE session_id = $3`,
		expiresAt, now, sessionID)
	return err
}

// deleteExpired sweeps every session whose expiry has passed; results
// cascade via the foreign key. Returns the number of sessions removed.
func (r *Repo) deleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM search_sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// countActive returns the number of sessions not yet expired.
func (r *Repo) countActive(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM search_sessions WHERE expires_at >= $1`, now).Scan(&n)
	return n, err
}

// sortColumns maps each whitelisted SortKey to its stored column. findPage
// splices the column name into its one ORDER BY clause; the name always
// comes from this map, never from the caller.
var sortColumns = map[model.SortKey]string{
	model.SortFinalScore:     "score",
	model.SortRelevance:      "genre_relevance",
	model.SortSubscribers:    "subscriber_count",
	model.SortEngagement:     "engagement_quality",
	model.SortActivity:       "last_video_date",
	model.SortCompetitiveness: "competitiveness_score",
}

// findPage returns one page of results ordered by sortKey's column
// descending, ties broken by rank ascending.
func (r *Repo) findPage(ctx context.Context, sessionID string, sortKey model.SortKey, offset, limit int) ([]model.SearchSessionResult, error) {
	column, ok := sortColumns[sortKey]
	if !ok {
		column = sortColumns[model.SortFinalScore]
	}

	query := `
		SELECT session_id, rank, channel_id, channel_name, description, image_url, score,
		       genre_relevance, audience_fit, engagement_quality, activity_consistency, freshness,
		       competitiveness_score, subscriber_count, last_video_date, labels
		FROM search_session_results
		WHERE session_id = $1
		ORDER BY ` + column + ` DESC NULLS LAST, rank ASC
		OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, sessionID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// findAll returns every result row for a session, in stored rank order —
// used by paginateFiltered, which does its filtering and sorting in memory
// over the full set rather than pushing a dynamic predicate to SQL.
func (r *Repo) findAll(ctx context.Context, sessionID string) ([]model.SearchSessionResult, error) {
	query := `
		SELECT session_id, rank, channel_id, channel_name, description, image_url, score,
		       genre_relevance, audience_fit, engagement_quality, activity_consistency, freshness,
		       competitiveness_score, subscriber_count, last_video_date, labels
		FROM search_session_results
		WHERE session_id = $1
		ORDER BY rank ASC`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

func scanResults(rows pgx.Rows) ([]model.SearchSessionResult, error) {
	var out []model.SearchSessionResult
	for rows.Next() {
		var res model.SearchSessionResult
		if err := rows.Scan(
			&res.SessionID, &res.Rank, &res.ChannelID, &res.ChannelName, &res.Description, &res.ImageURL, &res.Score,
			&res.GenreRelevance, &res.AudienceFit, &res.EngagementQuality, &res.ActivityConsistency, &res.Freshness,
			&res.CompetitivenessScore, &res.SubscriberCount, &res.LastVideoDate, &res.Labels,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
