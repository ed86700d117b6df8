// Package ranking implements merge, dedup, and rank (C8): turning a
// per-query map of scored creators into a single, ordered, deduplicated
// list. Every function here is pure and deterministic.
package ranking

import (
	"sort"
	"strings"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

// Merge flattens a per-query result map into a single slice, preserving
// the iteration order given by queryOrder (the order queries were issued
// in, not map iteration order, which Go does not guarantee).
func Merge(byQuery map[string][]model.GradedCreator, queryOrder []string) []model.GradedCreator {
	var out []model.GradedCreator
	for _, q := range queryOrder {
		out = append(out, byQuery[q]...)
	}
	return out
}

// Dedupe collapses duplicate channelIds, keeping the instance with the
// highest FinalScore and unioning every label seen for that channelId onto
// the chosen instance.
func Dedupe(creators []model.GradedCreator) []model.GradedCreator {
	best := make(map[string]model.GradedCreator)
	labelSets := make(map[string]map[string]struct{})
	order := make([]string, 0, len(creators))

	for _, c := range creators {
		if _, ok := best[c.ChannelID]; !ok {
			order = append(order, c.ChannelID)
			labelSets[c.ChannelID] = make(map[string]struct{})
		}
		for _, l := range c.Labels {
			labelSets[c.ChannelID][l] = struct{}{}
		}

		existing, ok := best[c.ChannelID]
		if !ok || c.Score.FinalScore > existing.Score.FinalScore {
			best[c.ChannelID] = c
		}
	}

	out := make([]model.GradedCreator, 0, len(order))
	for _, id := range order {
		chosen := best[id]
		chosen.Labels = sortedLabels(labelSets[id])
		out = append(out, chosen)
	}
	return out
}

func sortedLabels(set map[string]struct{}) []string {
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Rank sorts descending by FinalScore, breaking ties by ChannelName
// ascending case-insensitive.
func Rank(creators []model.GradedCreator) []model.GradedCreator {
	sorted := make([]model.GradedCreator, len(creators))
	copy(sorted, creators)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score.FinalScore != b.Score.FinalScore {
			return a.Score.FinalScore > b.Score.FinalScore
		}
		return strings.ToLower(a.ChannelName) < strings.ToLower(b.ChannelName)
	})
	return sorted
}

// MergeDedupeRank runs the full C8 pipeline: merge, dedupe, then rank.
func MergeDedupeRank(byQuery map[string][]model.GradedCreator, queryOrder []string) []model.GradedCreator {
	return Rank(Dedupe(Merge(byQuery, queryOrder)))
}
