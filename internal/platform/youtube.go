// Package platform implements the platform search adapter (C6): turning a
// set of expanded queries into creator profiles, under a shared daily
// quota, with a channel-metadata cache and credential rotation on
// quota-shaped failures.
package platform

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/mfenderov/hermes-discovery/internal/boundedcache"
	"github.com/mfenderov/hermes-discovery/internal/governor"
	"github.com/mfenderov/hermes-discovery/internal/model"
)

const (
	channelCacheMaxEntries = 2000
	channelCacheTTL        = time.Hour
	maxChannelBatchSize    = 50
)

// YouTubeAdapter implements the single video-platform adapter this system
// ships today ("youtube"), per the platform-search contract in C6.
type YouTubeAdapter struct {
	keys          *keyRotator
	quota         *governor.QuotaGovernor
	channelCache  *boundedcache.Store
	crossInstance CrossInstanceCache
	newService    func(ctx context.Context, apiKey string) (*youtube.Service, error)
}

// CrossInstanceCache is the optional, advisory, cross-process layer in
// front of the in-process channel-metadata cache. A nil implementation
// (backed by a nil Redis client) makes every call a no-op.
type CrossInstanceCache interface {
	GetChannel(ctx context.Context, channelID string) (*model.CreatorProfile, bool)
	SetChannel(ctx context.Context, channelID string, profile model.CreatorProfile)
}

// NewYouTubeAdapter builds the adapter over a comma-trimmed list of API
// keys (credential rotation round-robins across them) and the quota
// governor. crossInstance may be nil.
func NewYouTubeAdapter(apiKeys []string, quota *governor.QuotaGovernor, crossInstance CrossInstanceCache) (*YouTubeAdapter, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("platform: no YouTube API keys configured")
	}

	channelCache, err := boundedcache.New(channelCacheMaxEntries, channelCacheTTL, "channel_metadata")
	if err != nil {
		return nil, err
	}

	return &YouTubeAdapter{
		keys:          newKeyRotator(apiKeys),
		quota:         quota,
		channelCache:  channelCache,
		crossInstance: crossInstance,
		newService: func(ctx context.Context, apiKey string) (*youtube.Service, error) {
			return youtube.NewService(ctx, option.WithAPIKey(apiKey))
		},
	}, nil
}

// SearchChannels implements the C6 procedure: estimate and check quota,
// apply the decision's caps, dedupe queries, then run each query
// sequentially against the provider with credential rotation on
// quota-shaped failures.
func (a *YouTubeAdapter) SearchChannels(ctx context.Context, queries []string, maxResultsPerQuery int) (map[string][]model.CreatorProfile, int64, error) {
	estimated := governor.EstimateCost(len(queries), maxResultsPerQuery)
	decision := a.quota.CheckQuota(estimated)
	if !decision.IsAllowed() {
		return map[string][]model.CreatorProfile{}, 0, nil
	}

	queries = dedupeQueriesCaseInsensitive(queries)
	if max := decision.MaxQueries(); len(queries) > max {
		queries = queries[:max]
	}
	if maxResultsPerQuery > decision.MaxResults() {
		maxResultsPerQuery = decision.MaxResults()
	}
	if maxResultsPerQuery > maxChannelBatchSize {
		maxResultsPerQuery = maxChannelBatchSize
	}

	result := make(map[string][]model.CreatorProfile, len(queries))
	var totalQuotaSpent int64

	for _, q := range queries {
		profiles, spent, err := a.searchOneQuery(ctx, q, maxResultsPerQuery)
		if err != nil {
			a.quota.RecordUsage(totalQuotaSpent)
			return nil, totalQuotaSpent, err
		}
		result[q] = profiles
		totalQuotaSpent += spent
	}

	a.quota.RecordUsage(totalQuotaSpent)
	return result, totalQuotaSpent, nil
}

func (a *YouTubeAdapter) searchOneQuery(ctx context.Context, query string, maxResults int) ([]model.CreatorProfile, int64, error) {
	attempted := 0
	for {
		apiKey := a.keys.current()
		svc, err := a.newService(ctx, apiKey)
		if err != nil {
			return nil, 0, fmt.Errorf("platform: youtube client init: %w", err)
		}

		channelIDs, err := a.searchChannelIDs(ctx, svc, query, maxResults)
		if err != nil {
			if statusCode, message, ok := apiError(err); ok && isQuotaShaped(statusCode, message) {
				attempted++
				log.Printf("platform: quota-shaped failure for key index, rotating (attempt %d)", attempted)
				a.keys.rotate()
				if attempted < a.keys.len() {
					continue
				}
				return nil, 0, fmt.Errorf("platform: all API keys exhausted for query %q", query)
			}
			return nil, 0, err
		}

		if len(channelIDs) == 0 {
			return nil, governor.SearchListCost, nil
		}

		profiles, channelsListCalls, err := a.enrichChannels(ctx, svc, apiKey, channelIDs)
		if err != nil {
			return nil, 0, err
		}

		spent := int64(governor.SearchListCost) + int64(channelsListCalls)*governor.ChannelsListCostPerCall
		return profiles, spent, nil
	}
}

func (a *YouTubeAdapter) searchChannelIDs(ctx context.Context, svc *youtube.Service, query string, maxResults int) ([]string, error) {
	call := svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(int64(maxResults)).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(resp.Items))
	var ids []string
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.ChannelId == "" {
			continue
		}
		id := item.Snippet.ChannelId
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// enrichChannels partitions channelIDs into cache-hits and misses, fetches
// the misses in one batched channels.list call, and returns the combined
// profiles plus the number of channels.list calls actually made (0 or 1).
func (a *YouTubeAdapter) enrichChannels(ctx context.Context, svc *youtube.Service, apiKey string, channelIDs []string) ([]model.CreatorProfile, int, error) {
	profiles := make([]model.CreatorProfile, 0, len(channelIDs))
	var misses []string

	for _, id := range channelIDs {
		if p, ok := a.lookupChannelCache(ctx, id); ok {
			profiles = append(profiles, p)
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		return profiles, 0, nil
	}

	call := svc.Channels.List([]string{"snippet", "statistics"}).
		Id(misses...).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, 0, err
	}

	for _, ch := range resp.Items {
		profile := mapChannelToProfile(ch)
		a.storeChannelCache(ctx, profile.ChannelID, profile)
		profiles = append(profiles, profile)
	}

	return profiles, 1, nil
}

func (a *YouTubeAdapter) lookupChannelCache(ctx context.Context, channelID string) (model.CreatorProfile, bool) {
	if v, ok := a.channelCache.Get(channelID); ok {
		return v.(model.CreatorProfile), true
	}
	if a.crossInstance != nil {
		if p, ok := a.crossInstance.GetChannel(ctx, channelID); ok {
			a.channelCache.Set(channelID, *p)
			return *p, true
		}
	}
	return model.CreatorProfile{}, false
}

// ClearChannelCache drops the in-process channel-metadata cache, used by
// the admin cache-clear operation. The cross-instance layer, if any, is
// left alone — it is advisory and self-expires via its own TTL.
func (a *YouTubeAdapter) ClearChannelCache() {
	a.channelCache.Clear()
}

func (a *YouTubeAdapter) storeChannelCache(ctx context.Context, channelID string, profile model.CreatorProfile) {
	a.channelCache.Set(channelID, profile)
	if a.crossInstance != nil {
		a.crossInstance.SetChannel(ctx, channelID, profile)
	}
}

func mapChannelToProfile(ch *youtube.Channel) model.CreatorProfile {
	var subscribers, videos, views int64
	if ch.Statistics != nil {
		subscribers = int64(ch.Statistics.SubscriberCount)
		videos = int64(ch.Statistics.VideoCount)
		views = int64(ch.Statistics.ViewCount)
	}

	var handle, displayName, bio, country string
	var imageURL string
	var createdAt *time.Time
	if ch.Snippet != nil {
		handle = ch.Snippet.CustomUrl
		displayName = ch.Snippet.Title
		bio = ch.Snippet.Description
		country = ch.Snippet.Country
		imageURL = bestThumbnail(ch.Snippet.Thumbnails)
		if t, err := time.Parse(time.RFC3339, ch.Snippet.PublishedAt); err == nil {
			createdAt = &t
		}
	}

	return model.CreatorProfile{
		ChannelID:        ch.Id,
		Handle:           handle,
		DisplayName:      displayName,
		Bio:              bio,
		ImageURL:         imageURL,
		Subscribers:      subscribers,
		Videos:           videos,
		Views:            views,
		Country:          country,
		ChannelCreatedAt: createdAt,
	}
}

// bestThumbnail prefers maxres > high > medium > default, matching the
// original adapter's resolution preference.
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	switch {
	case t.Maxres != nil:
		return t.Maxres.Url
	case t.High != nil:
		return t.High.Url
	case t.Medium != nil:
		return t.Medium.Url
	case t.Default != nil:
		return t.Default.Url
	default:
		return ""
	}
}

func dedupeQueriesCaseInsensitive(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

func apiError(err error) (statusCode int, message string, ok bool) {
	var gerr *googleapi.Error
	if ok := asGoogleAPIError(err, &gerr); ok {
		return gerr.Code, gerr.Message, true
	}
	return 0, "", false
}

func asGoogleAPIError(err error, target **googleapi.Error) bool {
	if gerr, ok := err.(*googleapi.Error); ok {
		*target = gerr
		return true
	}
	return false
}

func (r *keyRotator) len() int { return len(r.keys) }
