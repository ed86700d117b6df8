package normalize

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Anime Edits", "anime edits"},
		{"strips stopwords", "the best anime edits for you", "anime best edits you"},
		{"sorts tokens", "edits anime", "anime edits"},
		{"collapses separators", "anime   --edits", "anime edits"},
		{"strips punctuation", "anime! edits??", "anime edits"},
		{"empty input", "   ", ""},
		{"only stopwords", "the a an", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCommutative(t *testing.T) {
	a := Normalize("anime edits cool")
	b := Normalize("cool edits anime")
	if a != b {
		t.Errorf("normalize not commutative over token order: %q vs %q", a, b)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize("Anime Edits For You")
	twice := Normalize(once)
	if once != twice {
		t.Errorf("normalize not idempotent: %q vs %q", once, twice)
	}
}

func TestDigestStable(t *testing.T) {
	d1 := Digest(Normalize("anime edits"))
	d2 := Digest(Normalize("Edits Anime"))
	if d1 != d2 {
		t.Errorf("digest differs for equal normalized forms: %q vs %q", d1, d2)
	}
	if len(d1) != 16 {
		t.Errorf("digest length = %d, want 16", len(d1))
	}
}

func TestCacheKeyEmpty(t *testing.T) {
	if got := CacheKey("the a an"); got != "query:v1:empty" {
		t.Errorf("CacheKey for empty-normalizing input = %q, want query:v1:empty", got)
	}
}

func TestCacheKeyEqualForEquivalentInputs(t *testing.T) {
	k1 := CacheKey("Anime Edits")
	k2 := CacheKey("edits anime")
	if k1 != k2 {
		t.Errorf("CacheKey differs for equivalent inputs: %q vs %q", k1, k2)
	}
}

func TestProcess(t *testing.T) {
	nq := Process("Anime Edits")
	if nq.Original != "Anime Edits" {
		t.Errorf("Original = %q", nq.Original)
	}
	if nq.Normalized != "anime edits" {
		t.Errorf("Normalized = %q", nq.Normalized)
	}
	if len(nq.DigestKey) != 16 {
		t.Errorf("DigestKey length = %d, want 16", len(nq.DigestKey))
	}
}
