package ingestion

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

// Repo is the Postgres-backed store for creators, including their
// pgvector-typed profile embedding.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo builds a Repo over pool.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// FindByPlatformAndChannelID returns the creator row for (platform,
// channelId), or nil if it has never been seen.
func (r *Repo) FindByPlatformAndChannelID(ctx context.Context, platform, channelID string) (*model.Creator, error) {
	query := `
		SELECT id, platform, channel_id, channel_name, description, profile_image_url,
		       base_genre, origin_query, country, discovered_at, last_seen_at, status, source,
		       profile_embedding, embedding_model, embedding_created_at, compressed_bio,
		       content_tags, ingestion_status
		FROM creators
		WHERE platform = $1 AND channel_id = $2`

	var c model.Creator
	var embedding pgvector.Vector
	err := r.pool.QueryRow(ctx, query, platform, channelID).Scan(
		&c.ID, &c.Platform, &c.ChannelID, &c.ChannelName, &c.Description, &c.ProfileImageURL,
		&c.BaseGenre, &c.OriginQuery, &c.Country, &c.DiscoveredAt, &c.LastSeenAt, &c.Status, &c.Source,
		&embedding, &c.EmbeddingModel, &c.EmbeddingCreatedAt, &c.CompressedBio,
		&c.ContentTags, &c.IngestionStatus,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.ProfileEmbedding = embedding.Slice()
	return &c, nil
}

// InsertPending creates a new creator row in the "pending" ingestion state.
func (r *Repo) InsertPending(ctx context.Context, c model.Creator) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO creators
			(platform, channel_id, channel_name, description, profile_image_url,
			 base_genre, origin_query, country, discovered_at, last_seen_at, status, source, ingestion_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $10, $11, $12)
		RETURNING id`,
		c.Platform, c.ChannelID, c.ChannelName, c.Description, c.ProfileImageURL,
		c.BaseGenre, c.OriginQuery, c.Country, c.DiscoveredAt, c.Status, c.Source, c.IngestionStatus,
	).Scan(&id)
	return id, err
}

// TouchLastSeen advances last_seen_at for a creator that does not need
// re-ingestion.
func (r *Repo) TouchLastSeen(ctx context.Context, id int64, now time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE creators SET last_seen_at = $1 WHERE id = $2`, now, id)
	return err
}

// MarkDeferred sets ingestion_status = 'deferred' (budget exhaustion).
func (r *Repo) MarkDeferred(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE creators SET ingestion_status = $1 WHERE id = $2`, model.IngestionDeferred, id)
	return err
}

// MarkFailed sets ingestion_status = 'failed'.
func (r *Repo) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE creators SET ingestion_status = $1 WHERE id = $2`, model.IngestionFailed, id)
	return err
}

// CompleteIngestion persists the embedding, compressed bio, content tags and
// marks ingestion_status = 'complete'.
func (r *Repo) CompleteIngestion(ctx context.Context, id int64, embedding []float32, compressedBio string, contentTags []string, now time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE creators
		SET profile_embedding = $1, embedding_model = $2, embedding_created_at = $3,
		    compressed_bio = $4, content_tags = $5, ingestion_status = $6
		WHERE id = $7`,
		pgvector.NewVector(embedding), embeddingModel, now, compressedBio, contentTags, model.IngestionComplete, id)
	return err
}

// FindByIngestionStatus returns every creator in the given status.
func (r *Repo) FindByIngestionStatus(ctx context.Context, status model.IngestionStatus) ([]model.Creator, error) {
	query := `
		SELECT id, platform, channel_id, channel_name, description, profile_image_url,
		       base_genre, origin_query, country, discovered_at, last_seen_at, status, source,
		       embedding_model, compressed_bio, content_tags, ingestion_status
		FROM creators
		WHERE ingestion_status = $1`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Creator
	for rows.Next() {
		var c model.Creator
		if err := rows.Scan(
			&c.ID, &c.Platform, &c.ChannelID, &c.ChannelName, &c.Description, &c.ProfileImageURL,
			&c.BaseGenre, &c.OriginQuery, &c.Country, &c.DiscoveredAt, &c.LastSeenAt, &c.Status, &c.Source,
			&c.EmbeddingModel, &c.CompressedBio, &c.ContentTags, &c.IngestionStatus,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
