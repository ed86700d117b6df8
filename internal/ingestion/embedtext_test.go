package ingestion

import "testing"

func TestBuildEmbeddingText_MajorCreator(t *testing.T) {
	got := buildEmbeddingText("Mega Channel", "We make big videos.", 5_000_000, "Canada")
	want := "Mega Channel. We make big videos. Major creator. Based in Canada."
	if got != want {
		t.Errorf("buildEmbeddingText() = %q, want %q", got, want)
	}
}

func TestBuildEmbeddingText_EstablishedCreator(t *testing.T) {
	got := buildEmbeddingText("Mid Channel", "Decent videos.", 200_000, "")
	want := "Mid Channel. Decent videos. Established creator."
	if got != want {
		t.Errorf("buildEmbeddingText() = %q, want %q", got, want)
	}
}

func TestBuildEmbeddingText_SmallCreatorNoQualifier(t *testing.T) {
	got := buildEmbeddingText("Small Channel", "Just starting out.", 500, "")
	want := "Small Channel. Just starting out."
	if got != want {
		t.Errorf("buildEmbeddingText() = %q, want %q", got, want)
	}
}

func TestTruncate_CutsLongStrings(t *testing.T) {
	s := "0123456789"
	if got := truncate(s, 5); got != "01234" {
		t.Errorf("truncate() = %q, want %q", got, "01234")
	}
	if got := truncate(s, 100); got != s {
		t.Errorf("truncate() with generous limit = %q, want unchanged %q", got, s)
	}
}
