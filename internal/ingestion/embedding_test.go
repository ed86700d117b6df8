package ingestion

import (
	"context"
	"testing"

	"github.com/mfenderov/hermes-discovery/internal/governor"
)

func TestCosineSimilarity_IdenticalVectorsIsOne(t *testing.T) {
	v := []float32{1, 2, 3}
	if got := CosineSimilarity(v, v); got < 0.999 || got > 1.001 {
		t.Errorf("CosineSimilarity(v, v) = %v, want ~1.0", got)
	}
}

func TestCosineSimilarity_OrthogonalVectorsIsZero(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(a, b) = %v, want 0", got)
	}
}

func TestCosineSimilarity_ZeroVectorIsZero(t *testing.T) {
	a := []float32{0, 0}
	b := []float32{1, 1}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(zero, b) = %v, want 0", got)
	}
}

func TestCosineSimilarity_MismatchedLengthIsZero(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{1, 2, 3}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(mismatched) = %v, want 0", got)
	}
}

func TestEmbeddingClient_NoAPIKeyReturnsZeroVector(t *testing.T) {
	tg := governor.NewTokenGovernor(1_000_000, 2000, 0.9)
	client := NewEmbeddingClient("", tg)

	vec, err := client.Embed(context.Background(), "some creator bio")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != embeddingDimension {
		t.Fatalf("Embed() len = %d, want %d", len(vec), embeddingDimension)
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatalf("Embed() with no client = %v, want all-zero", vec)
		}
	}
}

func TestEmbeddingClient_ExhaustedBudgetReturnsZeroVector(t *testing.T) {
	tg := governor.NewTokenGovernor(10, 2000, 0.9)
	tg.RecordUsage(10)
	client := NewEmbeddingClient("fake-key", tg)

	vec, err := client.Embed(context.Background(), "some creator bio text that is long enough to estimate tokens")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatalf("Embed() over budget = %v, want all-zero", vec)
		}
	}
}
