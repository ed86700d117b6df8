package ingestion

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mfenderov/hermes-discovery/internal/metrics"
	"github.com/mfenderov/hermes-discovery/internal/model"
)

const (
	platform          = "youtube"
	embeddingBudget   = 500
	maxBatchSize      = 50
	pipelineQueueSize = 256
)

// job is one batch of freshly materialized profiles to ingest.
type job struct {
	profiles  []model.CreatorProfile
	baseGenre string
	originQuery string
}

// Pipeline is the background creator-ingestion worker: a buffered-channel
// queue drained by a single goroutine, grounded on the teacher's
// ChannelWorker/ScoreWorker background-goroutine idiom. Ingestion never
// blocks the search response — EnqueueBatch is non-blocking (a full queue
// drops the batch and logs, rather than stalling the caller).
type Pipeline struct {
	repo      *Repo
	embedding *EmbeddingClient
	queue     chan job

	mu      sync.Mutex
	inFlight map[string]struct{}

	now func() time.Time
}

// NewPipeline builds a Pipeline. Call Start to begin draining it.
func NewPipeline(repo *Repo, embedding *EmbeddingClient) *Pipeline {
	return &Pipeline{
		repo:      repo,
		embedding: embedding,
		queue:     make(chan job, pipelineQueueSize),
		inFlight:  make(map[string]struct{}),
		now:       time.Now,
	}
}

// EnqueueBatch submits up to maxBatchSize distinct profiles for background
// ingestion. It never blocks: if the queue is full the batch is dropped and
// logged, matching the "best-effort" contract.
func (p *Pipeline) EnqueueBatch(profiles []model.CreatorProfile, baseGenre, originQuery string) {
	if len(profiles) > maxBatchSize {
		profiles = profiles[:maxBatchSize]
	}
	select {
	case p.queue <- job{profiles: profiles, baseGenre: baseGenre, originQuery: originQuery}:
	default:
		log.Printf("ingestion: queue full, dropping batch of %d profiles", len(profiles))
	}
}

// Start runs the drain loop until ctx is cancelled.
func (p *Pipeline) Start(ctx context.Context) {
	log.Println("ingestion-pipeline: starting")
	for {
		select {
		case j := <-p.queue:
			p.runBatch(ctx, j)
		case <-ctx.Done():
			log.Println("ingestion-pipeline: stopping (context cancelled)")
			return
		}
	}
}

func (p *Pipeline) runBatch(ctx context.Context, j job) {
	ingested := 0
	for _, profile := range j.profiles {
		if p.IngestCreator(ctx, profile, j.baseGenre, j.originQuery) {
			ingested++
		}
	}
	log.Printf("ingestion-pipeline: batch complete: %d/%d creators ingested", ingested, len(j.profiles))
}

// IngestCreator upserts a single creator by (platform, channelId) and
// processes it if it is new or not yet fully ingested. Returns true only
// when ingestion completed and was persisted; the already-ingested skip,
// the in-flight skip, a lookup or insert error, and a failed, deferred or
// unpersisted processing attempt all return false.
func (p *Pipeline) IngestCreator(ctx context.Context, profile model.CreatorProfile, baseGenre, originQuery string) bool {
	if !p.claim(profile.ChannelID) {
		return false
	}
	defer p.release(profile.ChannelID)

	now := p.now()
	existing, err := p.repo.FindByPlatformAndChannelID(ctx, platform, profile.ChannelID)
	if err != nil {
		log.Printf("ingestion: lookup failed for %s: %v", profile.ChannelID, err)
		return false
	}

	var id int64
	if existing != nil {
		if len(existing.ProfileEmbedding) > 0 && existing.IngestionStatus != model.IngestionPending {
			if err := p.repo.TouchLastSeen(ctx, existing.ID, now); err != nil {
				log.Printf("ingestion: touch failed for %s: %v", profile.ChannelID, err)
			}
			return false
		}
		id = existing.ID
	} else {
		id, err = p.repo.InsertPending(ctx, model.Creator{
			Platform:        platform,
			ChannelID:       profile.ChannelID,
			ChannelName:     profile.DisplayName,
			BaseGenre:       baseGenre,
			OriginQuery:     originQuery,
			Description:     truncate(profile.Bio, descriptionMaxLen),
			ProfileImageURL: profile.ImageURL,
			Country:         profile.Country,
			Status:          model.CreatorActive,
			Source:          model.SourceAPI,
			DiscoveredAt:    now,
			IngestionStatus: model.IngestionPending,
		})
		if err != nil {
			log.Printf("ingestion: insert failed for %s: %v", profile.ChannelID, err)
			return false
		}
	}

	return p.process(ctx, id, profile)
}

// process generates the embedding and content tags for a creator and
// persists the result, matching the original's budget-check-then-embed-
// then-tag-then-persist sequence.
func (p *Pipeline) process(ctx context.Context, id int64, profile model.CreatorProfile) bool {
	embeddingText := buildEmbeddingText(profile.DisplayName, profile.Bio, profile.Subscribers, profile.Country)

	vec, err := p.embedding.Embed(ctx, embeddingText)
	if err != nil {
		log.Printf("ingestion: embed failed for %s: %v", profile.ChannelID, err)
		if markErr := p.repo.MarkFailed(ctx, id); markErr != nil {
			log.Printf("ingestion: failed to mark %s failed: %v", profile.ChannelID, markErr)
		}
		metrics.Metrics.IngestionOutcomes.WithLabelValues("failed").Inc()
		return false
	}
	if isZeroVector(vec) {
		if err := p.repo.MarkDeferred(ctx, id); err != nil {
			log.Printf("ingestion: failed to mark %s deferred: %v", profile.ChannelID, err)
		}
		metrics.Metrics.IngestionOutcomes.WithLabelValues("deferred").Inc()
		return false
	}

	tags := ExtractContentTags(profile.DisplayName, profile.Bio)
	compressedBio := truncate(embeddingText, compressedBioMaxLen)

	if err := p.repo.CompleteIngestion(ctx, id, vec, compressedBio, tags, p.now()); err != nil {
		log.Printf("ingestion: persist failed for %s: %v", profile.ChannelID, err)
		metrics.Metrics.IngestionOutcomes.WithLabelValues("persist_error").Inc()
		return false
	}

	log.Printf("ingestion: successfully ingested creator: %s", profile.DisplayName)
	metrics.Metrics.IngestionOutcomes.WithLabelValues("ingested").Inc()
	return true
}

// claim reports whether channelID was not already being processed, and if
// so marks it in-flight. Prevents two concurrent batches from double-
// ingesting the same creator.
func (p *Pipeline) claim(channelID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[channelID]; busy {
		return false
	}
	p.inFlight[channelID] = struct{}{}
	return true
}

func (p *Pipeline) release(channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, channelID)
}

func isZeroVector(v []float32) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}
