package ingestion

import (
	"context"
	"fmt"
	"log"
	"math"

	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/mfenderov/hermes-discovery/internal/governor"
)

const (
	embeddingModel     = "embed-english-v3.0"
	embeddingDimension = 1024

	// estimatedCharsPerToken is the rough token estimate used to size a
	// budget check before the embedding call is made.
	estimatedCharsPerToken = 4
)

// EmbeddingClient generates fixed-dimensional semantic vectors for creator
// profile text via Cohere, gated by the same token governor query expansion
// uses.
type EmbeddingClient struct {
	client   *cohereclient.Client
	governor *governor.TokenGovernor
}

// NewEmbeddingClient builds an EmbeddingClient. apiKey may be empty, in
// which case Embed always returns a zero vector with a nil error. With a
// key set, a failed embedding API call is returned as an error.
func NewEmbeddingClient(apiKey string, tg *governor.TokenGovernor) *EmbeddingClient {
	var client *cohereclient.Client
	if apiKey != "" {
		client = cohereclient.NewClient(cohereclient.WithToken(apiKey))
	}
	return &EmbeddingClient{client: client, governor: tg}
}

// Embed returns a 1024-dimensional embedding for text. A budget rejection or
// a disabled client (no API key configured) is not an error: it returns a
// zero vector with a nil error, the deferred-for-budget case the caller
// retries later. A real Cohere API failure is returned as a non-nil error so
// the caller can distinguish "deferred, try again" from "failed" — ingestion
// only ever degrades to a zero vector for the budget-gated case, never to
// silently swallow a genuine call failure.
func (e *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	estimated := int64(len(text) / estimatedCharsPerToken)

	decision := e.governor.CheckBudget(estimated)
	if !decision.IsAllowed() {
		log.Printf("ingestion: budget exceeded (%s), returning zero embedding", decision)
		return make([]float32, embeddingDimension), nil
	}

	if e.client == nil {
		return make([]float32, embeddingDimension), nil
	}

	vec, tokensUsed, err := e.callEmbed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("ingestion: embedding call failed: %w", err)
	}

	if tokensUsed == 0 {
		tokensUsed = estimated
	}
	e.governor.RecordUsage(tokensUsed)
	return vec, nil
}

func (e *EmbeddingClient) callEmbed(ctx context.Context, text string) ([]float32, int64, error) {
	model := embeddingModel
	inputType := cohereclient.EmbedInputTypeSearchDocument

	resp, err := e.client.Embed(ctx, &cohereclient.EmbedRequest{
		Texts:     []string{text},
		Model:     &model,
		InputType: &inputType,
	})
	if err != nil {
		return nil, 0, err
	}
	if resp.EmbeddingsFloats == nil || len(resp.EmbeddingsFloats.Embeddings) == 0 {
		return nil, 0, fmt.Errorf("ingestion: embed response had no vectors")
	}

	raw := resp.EmbeddingsFloats.Embeddings[0]
	vec := make([]float32, embeddingDimension)
	for i := 0; i < len(raw) && i < embeddingDimension; i++ {
		vec[i] = float32(raw[i])
	}

	var tokens int64
	if resp.Meta != nil && resp.Meta.BilledUnits != nil && resp.Meta.BilledUnits.InputTokens != nil {
		tokens = int64(*resp.Meta.BilledUnits.InputTokens)
	}
	return vec, tokens, nil
}

// CosineSimilarity computes the cosine similarity between two equal-length
// embeddings, 0 if either is the zero vector.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
