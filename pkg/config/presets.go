package config

import (
	"os"
	"time"

	"github.com/gitfolio/gitfolio/pkg/secrets"
)

const (
	// DefaultPresetName names the bundle that seeds every cascade
	DefaultPresetName = "default"

	// DefaultAPIEndpoint is applied when no layer sets an api endpoint
	DefaultAPIEndpoint = "https://api.github.com"

	// TokenEnvVar names the environment variable consulted for the
	// default token when no layer sets one
	TokenEnvVar = "GITHUB_TOKEN"
)

// collectPresets extracts the named bundles from the raw tree. This is
// the loose pre-pass: malformed bundles contribute nothing here and are
// only rejected by the strict pass. The default bundle is completed with
// the fixed field defaults, so a partial user-defined default cannot
// strip baseline values.
func collectPresets(raw map[string]any) map[string]PresetBundle {
	bundles := make(map[string]PresetBundle)

	if rawPresets, ok := raw["presets"].(map[string]any); ok {
		for name, rawBundle := range rawPresets {
			bundle, ok := rawBundle.(map[string]any)
			if !ok {
				continue
			}
			pb := PresetBundle{}
			if plugins, ok := bundle["plugins"].(map[string]any); ok {
				pb.Plugins = copyTree(plugins)
			}
			if processors, ok := bundle["processors"].(map[string]any); ok {
				pb.Processors = copyTree(processors)
			}
			bundles[name] = pb
		}
	}

	synthesized := synthesizeDefaultBundle()
	if user, ok := bundles[DefaultPresetName]; ok {
		bundles[DefaultPresetName] = PresetBundle{
			Plugins:    mergeLayers(synthesized.Plugins, user.Plugins),
			Processors: mergeLayers(synthesized.Processors, user.Processors),
		}
	} else {
		bundles[DefaultPresetName] = synthesized
	}

	return bundles
}

// synthesizeDefaultBundle builds the baseline bundle from the fixed
// field defaults. Environment-sourced values (token, timezone) are read
// here, at synthesis time, never during the merge itself. An absent
// token variable simply leaves the token unset.
func synthesizeDefaultBundle() PresetBundle {
	plugins := map[string]any{
		"handle":   nil,
		"entity":   string(EntityUser),
		"template": "classic",
		"fatal":    false,
		"logs":     string(LogLevelInfo),
		"retries":  map[string]any{"attempts": 3, "delay": 120},
		"mock":     false,
		"api":      DefaultAPIEndpoint,
		"timezone": hostTimezone(),
	}
	if token, ok := secrets.FromEnv(TokenEnvVar); ok {
		plugins["token"] = token
	}

	processors := map[string]any{
		"fatal":   false,
		"logs":    string(LogLevelInfo),
		"retries": map[string]any{"attempts": 1, "delay": 120},
	}

	return PresetBundle{Plugins: plugins, Processors: processors}
}

// hostTimezone resolves the zone the host is configured with. TZ wins
// when it names a loadable zone, otherwise UTC.
func hostTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	return "UTC"
}
