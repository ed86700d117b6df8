// Package normalize turns a free-text genre phrase into a stable cache key.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

var (
	nonAllowedChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	runsOfSeparators = regexp.MustCompile(`[\s-]+`)
)

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {}, "of": {},
	"in": {}, "on": {}, "to": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {}, "can": {},
	"need": {}, "dare": {}, "ought": {}, "used": {}, "with": {}, "at": {},
	"by": {}, "from": {}, "as": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "between": {}, "under": {},
}

// NormalizedQuery is the canonical form of a genre phrase plus its cache digest.
type NormalizedQuery struct {
	Original   string
	Normalized string
	DigestKey  string
}

// Normalize lowercases, strips disallowed characters, drops stopwords, and
// sorts the remaining tokens alphabetically so token order in the input never
// affects the result.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = nonAllowedChars.ReplaceAllString(s, "")
	s = runsOfSeparators.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	tokens := strings.Split(s, " ")
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		kept = append(kept, t)
	}
	sort.Strings(kept)
	return strings.Join(kept, " ")
}

// Digest returns the first 16 hex characters (64 bits) of the SHA-256 of the
// normalized query.
func Digest(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

// CacheKey builds the "query:v1:" prefixed cache key used by the digest cache.
func CacheKey(raw string) string {
	n := Normalize(raw)
	if n == "" {
		return "query:v1:empty"
	}
	return "query:v1:" + Digest(n)
}

// Process runs the full normalization pipeline and returns the NormalizedQuery
// triple required by the data model.
func Process(raw string) NormalizedQuery {
	n := Normalize(raw)
	digest := "empty"
	if n != "" {
		digest = Digest(n)
	}
	return NormalizedQuery{
		Original:   raw,
		Normalized: n,
		DigestKey:  digest,
	}
}
