package ingestion

import (
	"reflect"
	"testing"
)

func TestExtractContentTags_MatchesMultipleCategories(t *testing.T) {
	got := ExtractContentTags("Gamer Gourmet", "Daily gameplay and cooking recipe videos, plus workout tips")
	want := []string{"gaming", "lifestyle", "fitness", "food"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractContentTags() = %v, want %v", got, want)
	}
}

func TestExtractContentTags_NoMatchIsEmpty(t *testing.T) {
	got := ExtractContentTags("Random Channel", "just a guy talking")
	if len(got) != 0 {
		t.Errorf("ExtractContentTags() = %v, want empty", got)
	}
}

func TestExtractContentTags_CapsAtFive(t *testing.T) {
	bio := "gaming music comedy tech lifestyle education fitness food beauty commentary"
	got := ExtractContentTags("", bio)
	if len(got) != 5 {
		t.Fatalf("ExtractContentTags() len = %d, want 5", len(got))
	}
	want := []string{"gaming", "music", "comedy", "tech", "lifestyle"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractContentTags() = %v, want %v (dictionary order, capped)", got, want)
	}
}

func TestExtractContentTags_CaseInsensitive(t *testing.T) {
	got := ExtractContentTags("GAMING Channel", "")
	want := []string{"gaming"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractContentTags() = %v, want %v", got, want)
	}
}
