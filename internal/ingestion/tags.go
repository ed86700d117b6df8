package ingestion

import "strings"

// maxContentTags caps the number of tags extracted per creator.
const maxContentTags = 5

// tagDictionary is the fixed, deterministic keyword→tag table. Order here
// is the order categories are checked in, and also the order tags appear in
// the output.
var tagDictionary = []struct {
	tag      string
	keywords []string
}{
	{"gaming", []string{"gaming", "gamer", "gameplay"}},
	{"music", []string{"music", "song", "singer"}},
	{"comedy", []string{"comedy", "funny", "humor"}},
	{"tech", []string{"tech", "technology", "review"}},
	{"lifestyle", []string{"vlog", "daily", "lifestyle"}},
	{"education", []string{"education", "learn", "tutorial"}},
	{"fitness", []string{"fitness", "workout", "gym"}},
	{"food", []string{"cooking", "recipe", "food"}},
	{"beauty", []string{"beauty", "makeup", "fashion"}},
	{"commentary", []string{"news", "politics", "commentary"}},
}

// ExtractContentTags returns up to maxContentTags tags matched against
// displayName+bio by deterministic keyword lookup, no LLM involved,
// preserving dictionary order (the dictionary is checked top to bottom
// against the full combined text; where a keyword occurs in that text does
// not affect the order).
func ExtractContentTags(displayName, bio string) []string {
	text := strings.ToLower(displayName + " " + bio)

	tags := make([]string, 0, maxContentTags)
	for _, entry := range tagDictionary {
		if len(tags) >= maxContentTags {
			break
		}
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				tags = append(tags, entry.tag)
				break
			}
		}
	}
	return tags
}
