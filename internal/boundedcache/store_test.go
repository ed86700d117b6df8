package boundedcache

import (
	"testing"
	"time"
)

func TestStore_SetThenGet(t *testing.T) {
	s, err := New(100, time.Minute, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Set("k1", "v1")
	s.Wait()

	got, ok := s.Get("k1")
	if !ok {
		t.Fatalf("Get(k1) ok = false, want true after Set")
	}
	if got != "v1" {
		t.Errorf("Get(k1) = %v, want v1", got)
	}
}

func TestStore_MissForUnknownKey(t *testing.T) {
	s, err := New(100, time.Minute, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, ok := s.Get("never-set")
	if ok {
		t.Errorf("Get(never-set) ok = true, want false")
	}
}

func TestStore_DelRemovesEntry(t *testing.T) {
	s, err := New(100, time.Minute, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Set("k1", "v1")
	s.Wait()
	s.Del("k1")
	s.Wait()

	_, ok := s.Get("k1")
	if ok {
		t.Errorf("Get(k1) ok = true after Del, want false")
	}
}

func TestStore_ClearRemovesAllEntries(t *testing.T) {
	s, err := New(100, time.Minute, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Set("k1", "v1")
	s.Set("k2", "v2")
	s.Wait()

	s.Clear()
	s.Wait()

	if _, ok := s.Get("k1"); ok {
		t.Errorf("Get(k1) ok = true after Clear, want false")
	}
	if _, ok := s.Get("k2"); ok {
		t.Errorf("Get(k2) ok = true after Clear, want false")
	}
}

func TestStore_HitRatioTracksLookups(t *testing.T) {
	s, err := New(100, time.Minute, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if ratio := s.HitRatio(); ratio != 0 {
		t.Errorf("HitRatio() before any lookups = %.2f, want 0.00", ratio)
	}

	s.Set("k1", "v1")
	s.Wait()
	s.Get("k1")
	s.Get("missing")

	ratio := s.HitRatio()
	if ratio <= 0 || ratio >= 1 {
		t.Errorf("HitRatio() after 1 hit + 1 miss = %.2f, want strictly between 0 and 1", ratio)
	}
}

func TestStore_HitsAndMissesCountSeparately(t *testing.T) {
	s, err := New(100, time.Minute, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Set("k1", "v1")
	s.Wait()
	s.Get("k1")
	s.Get("k1")
	s.Get("missing")

	if s.Hits() != 2 {
		t.Errorf("Hits() = %d, want 2", s.Hits())
	}
	if s.Misses() != 1 {
		t.Errorf("Misses() = %d, want 1", s.Misses())
	}
}
