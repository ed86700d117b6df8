package cache

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

// l2Repo is the durable, 24h-TTL tier of the query-digest cache, backed by
// the query_cache_l2 table.
type l2Repo struct {
	pool *pgxpool.Pool
}

func newL2Repo(pool *pgxpool.Pool) *l2Repo {
	return &l2Repo{pool: pool}
}

// find returns the cached expansion for digestKey if it exists and has not
// expired, per the `now < expiresAt` predicate.
func (r *l2Repo) find(ctx context.Context, digestKey string, now time.Time) (*model.CachedQueryExpansion, error) {
	query := `
		SELECT digest_key, normalized, queries, token_cost, created_at, expires_at, hit_count
		FROM query_cache_l2
		WHERE digest_key = $1 AND expires_at > $2`

	var e model.CachedQueryExpansion
	err := r.pool.QueryRow(ctx, query, digestKey, now).Scan(
		&e.DigestKey, &e.Normalized, &e.Queries, &e.TokenCost, &e.CreatedAt, &e.ExpiresAt, &e.HitCount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// incrementHitCount bumps the stored hit counter; called asynchronously on
// an L2 hit so the read path never blocks on it.
func (r *l2Repo) incrementHitCount(ctx context.Context, digestKey string) error {
	_, err := r.pool.Exec(ctx, `UPDATE query_cache_l2 SET hit_count = hit_count + 1 WHERE digest_key = $1`, digestKey)
	return err
}

// upsert installs or refreshes an entry with expiresAt = createdAt + 24h.
func (r *l2Repo) upsert(ctx context.Context, e model.CachedQueryExpansion) error {
	query := `
		INSERT INTO query_cache_l2 (digest_key, normalized, queries, token_cost, created_at, expires_at, hit_count)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		ON CONFLICT (digest_key) DO UPDATE SET
			normalized = EXCLUDED.normalized,
			queries = EXCLUDED.queries,
			token_cost = EXCLUDED.token_cost,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at,
			hit_count = 0`

	_, err := r.pool.Exec(ctx, query, e.DigestKey, e.Normalized, e.Queries, e.TokenCost, e.CreatedAt, e.ExpiresAt)
	return err
}
