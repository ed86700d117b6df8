package feature

import (
	"github.com/mfenderov/hermes-discovery/internal/config"
	"github.com/mfenderov/hermes-discovery/internal/middleware"
)

// Registry resolves every Flag to a State exactly once, at startup, and
// hands back the same immutable answer for the lifetime of the process —
// mirroring the original's "resolve once in initialize(), never re-check"
// contract so a hot credential change requires a restart, not a race.
type Registry struct {
	states map[Flag]State
}

// NewRegistry builds a Registry from cfg and logs a startup banner.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{states: make(map[Flag]State, len(allFlags))}
	for _, flag := range allFlags {
		r.states[flag] = resolveFlag(flag, cfg)
	}
	r.logStates()
	return r
}

// resolveFlag computes the State for one flag from cfg's credentials and
// explicit enable switches.
func resolveFlag(flag Flag, cfg *config.Config) State {
	if alwaysEnabled(flag) {
		return Enabled
	}

	hasCreds, flagEnabled := false, false
	switch flag {
	case RedditEnrichment:
		hasCreds = cfg.RedditClientID != "" && cfg.RedditClientSecret != ""
		flagEnabled = cfg.FeatureRedditEnabled
	case InstagramEnrichment:
		hasCreds = cfg.InstagramAccessToken != ""
		flagEnabled = cfg.FeatureInstagramEnabled
	case TwitterEnrichment:
		hasCreds = cfg.TwitterBearerToken != ""
		flagEnabled = cfg.FeatureTwitterEnabled
	case TwitchEnrichment:
		hasCreds = cfg.TwitchClientID != "" && cfg.TwitchClientSecret != ""
		flagEnabled = cfg.FeatureTwitchEnabled
	}
	return resolve(hasCreds, flagEnabled)
}

// GetState returns the resolved State for flag, or Disabled if flag is
// unknown.
func (r *Registry) GetState(flag Flag) State {
	state, ok := r.states[flag]
	if !ok {
		return Disabled
	}
	return state
}

// IsEnabled reports whether flag is active.
func (r *Registry) IsEnabled(flag Flag) bool {
	return r.states[flag].IsActive()
}

// IsConfigured reports whether flag has usable credentials, enabled or not.
func (r *Registry) IsConfigured(flag Flag) bool {
	return r.states[flag].HasCredentials()
}

// AllStates returns a copy of the full flag-to-state map.
func (r *Registry) AllStates() map[Flag]State {
	out := make(map[Flag]State, len(r.states))
	for k, v := range r.states {
		out[k] = v
	}
	return out
}

// EnabledFlags returns the flags currently in the Enabled state, in
// enumeration order.
func (r *Registry) EnabledFlags() []Flag {
	var out []Flag
	for _, flag := range allFlags {
		if r.states[flag].IsActive() {
			out = append(out, flag)
		}
	}
	return out
}

// StatusSummary is the admin-facing rollup of feature state counts.
type StatusSummary struct {
	EnabledCount    int            `json:"enabledCount"`
	ConfiguredCount int            `json:"configuredCount"`
	DisabledCount   int            `json:"disabledCount"`
	Features        map[Flag]State `json:"features"`
}

// StatusSummary computes the counts used by the admin features endpoint.
func (r *Registry) StatusSummary() StatusSummary {
	summary := StatusSummary{Features: r.AllStates()}
	for _, state := range r.states {
		switch state {
		case Enabled:
			summary.EnabledCount++
		case Configured:
			summary.ConfiguredCount++
		default:
			summary.DisabledCount++
		}
	}
	return summary
}

// logStates prints a banner-style startup summary, one line per flag,
// matching the original's icon-per-state logging convention.
func (r *Registry) logStates() {
	for _, flag := range allFlags {
		state := r.states[flag]
		icon := "✗"
		switch state {
		case Enabled:
			icon = "✓"
		case Configured:
			icon = "○"
		}
		middleware.Logger.Info().Str("feature", string(flag)).Str("state", string(state)).Msg(icon + " feature state resolved")
	}
}
