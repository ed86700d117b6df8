package scoring

import "testing"

func TestGenreRelevance_EmptyGenreIsNeutral(t *testing.T) {
	score := GenreRelevance("Some Channel", "a description", "")
	if score != 0.5 {
		t.Errorf("score = %.2f, want 0.50 (no genre to match against)", score)
	}
}

func TestGenreRelevance_FullKeywordOverlap(t *testing.T) {
	// Every genre token appears in the combined name+description.
	score := GenreRelevance("Retro Gaming Channel", "speedrun gaming videos", "retro gaming")
	if score < 0.9 {
		t.Errorf("score = %.2f, want >= 0.90 (full overlap plus name-contains boost)", score)
	}
}

func TestGenreRelevance_NoOverlap(t *testing.T) {
	score := GenreRelevance("Cooking With Sam", "recipes and kitchen tips", "speedrun gaming")
	if score != 0 {
		t.Errorf("score = %.2f, want 0.00 (no keyword overlap)", score)
	}
}

func TestGenreRelevance_PartialOverlapRatio(t *testing.T) {
	// "gaming highlights" -> tokens {gaming, highlights}; only "gaming" appears.
	score := GenreRelevance("Pro Gaming Clips", "daily uploads", "gaming highlights")
	if !almostEqual(score, 0.5, 0.01) {
		t.Errorf("score = %.2f, want ~0.50 (1 of 2 tokens matched)", score)
	}
}

func TestGenreRelevance_ShortTokensSkipped(t *testing.T) {
	// "to" and "in" are length <= 2 and should be dropped as tokens.
	score := GenreRelevance("anything", "anything", "to in")
	if score != 0.5 {
		t.Errorf("score = %.2f, want 0.50 (all tokens too short, falls back to neutral)", score)
	}
}

func TestNameRelevance_ExactMatch(t *testing.T) {
	score := NameRelevance("Retro Gaming", []string{"retro", "gaming"})
	if score != 1.0 {
		t.Errorf("score = %.2f, want 1.00 (exact normalized match)", score)
	}
}

func TestNameRelevance_PrefixMatch(t *testing.T) {
	score := NameRelevance("Retro Gaming Weekly", []string{"retro", "gaming"})
	if score != 0.95 {
		t.Errorf("score = %.2f, want 0.95 (name-prefix match)", score)
	}
}

func TestNameRelevance_ContainsMatch(t *testing.T) {
	score := NameRelevance("Weekly Retro Gaming Show", []string{"retro", "gaming"})
	if score != 0.8 {
		t.Errorf("score = %.2f, want 0.80 (contains-normalized match)", score)
	}
}

func TestNameRelevance_WordHitFloor(t *testing.T) {
	score := NameRelevance("Totally Unrelated Channel", []string{"retro", "gaming"})
	if score < 0.3 {
		t.Errorf("score = %.2f, want >= 0.30 (floor on word-hit ratio)", score)
	}
}

func TestNameRelevance_EmptyQueryWords(t *testing.T) {
	score := NameRelevance("Some Channel", nil)
	if score != 0.3 {
		t.Errorf("score = %.2f, want 0.30 (no query words to match)", score)
	}
}
