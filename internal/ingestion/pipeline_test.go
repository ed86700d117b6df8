package ingestion

import (
	"testing"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

func TestIsZeroVector(t *testing.T) {
	if !isZeroVector(make([]float32, 4)) {
		t.Error("isZeroVector(zeros) = false, want true")
	}
	if isZeroVector([]float32{0, 0, 0.001, 0}) {
		t.Error("isZeroVector(mostly zero) = true, want false")
	}
}

func TestPipeline_ClaimAndRelease(t *testing.T) {
	p := NewPipeline(nil, nil)

	if !p.claim("c1") {
		t.Fatal("claim(c1) first call = false, want true")
	}
	if p.claim("c1") {
		t.Fatal("claim(c1) second call while in-flight = true, want false")
	}
	p.release("c1")
	if !p.claim("c1") {
		t.Fatal("claim(c1) after release = false, want true")
	}
}

func makeProfiles(n int) []model.CreatorProfile {
	out := make([]model.CreatorProfile, n)
	for i := range out {
		out[i] = model.CreatorProfile{ChannelID: "c"}
	}
	return out
}

func TestPipeline_EnqueueBatchCapsAtMaxBatchSize(t *testing.T) {
	p := NewPipeline(nil, nil)
	p.EnqueueBatch(makeProfiles(maxBatchSize+10), "genre", "query")

	j := <-p.queue
	if len(j.profiles) != maxBatchSize {
		t.Errorf("EnqueueBatch() queued %d profiles, want capped at %d", len(j.profiles), maxBatchSize)
	}
}

func TestPipeline_EnqueueBatchDropsWhenQueueFullWithoutBlocking(t *testing.T) {
	p := NewPipeline(nil, nil)
	for i := 0; i < pipelineQueueSize; i++ {
		p.EnqueueBatch(makeProfiles(1), "g", "q")
	}

	done := make(chan struct{})
	go func() {
		p.EnqueueBatch(makeProfiles(1), "g", "q")
		close(done)
	}()
	<-done // must return promptly; a blocking send here would hang the test
}
