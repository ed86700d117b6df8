package ingestion

import "strings"

const (
	bioTruncateLen      = 300
	compressedBioMaxLen = 500
	descriptionMaxLen   = 2000

	majorCreatorThreshold       = 1_000_000
	establishedCreatorThreshold = 100_000
)

// buildEmbeddingText assembles the text that gets embedded for semantic
// search: name, truncated bio, a subscriber-size qualifier, and a location
// line, in that fixed order.
func buildEmbeddingText(displayName, bio string, subscribers int64, country string) string {
	var sb strings.Builder
	sb.WriteString(displayName)
	sb.WriteString(". ")
	sb.WriteString(truncate(bio, bioTruncateLen))
	sb.WriteString(" ")

	switch {
	case subscribers > majorCreatorThreshold:
		sb.WriteString("Major creator. ")
	case subscribers > establishedCreatorThreshold:
		sb.WriteString("Established creator. ")
	}

	if country != "" {
		sb.WriteString("Based in ")
		sb.WriteString(country)
		sb.WriteString(". ")
	}

	return strings.TrimSpace(sb.String())
}

// truncate cuts s to at most maxLength bytes; a multi-byte rune at the cut
// point may be split.
func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength]
}
