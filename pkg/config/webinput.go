package config

import (
	"fmt"
	"log/slog"
	"sort"
)

// Web-supplied documents go through a narrower shape than the settings
// file: keys that could alter credentials, endpoints, retry budgets or
// mock mode are stripped before resolution ever sees them, so an
// external payload can never influence the executing plugin's token,
// api, retries or mock fields.

// webPluginKeys are the plugin fields accepted from web input. The
// processors key is the container for processor entries, themselves
// restricted to webProcessorKeys.
var webPluginKeys = map[string]bool{
	"id":         true,
	"args":       true,
	"fatal":      true,
	"handle":     true,
	"entity":     true,
	"template":   true,
	"timezone":   true,
	"preset":     true,
	"processors": true,
}

// webProcessorKeys are the processor fields accepted from web input
var webProcessorKeys = map[string]bool{
	"id":    true,
	"args":  true,
	"fatal": true,
}

// webRootKeys are the top-level keys accepted from web input
var webRootKeys = map[string]bool{
	"plugins": true,
	"presets": true,
}

// ResolveWebInput sanitizes an externally supplied settings tree and
// resolves it. Bundles in base, typically the serving configuration's
// presets, underlie any presets the payload itself declares; the payload
// is stripped to the web shape, base is trusted as-is. The paths of
// dropped keys are returned so callers can surface them.
func ResolveWebInput(raw map[string]any, base map[string]PresetBundle) (*Config, []string, error) {
	sanitized, dropped := SanitizeWebInput(raw)
	if len(dropped) > 0 {
		slog.Warn("Dropped restricted keys from web input", "keys", dropped)
	}
	if len(base) > 0 {
		sanitized["presets"] = overlayPresets(base, sanitized["presets"])
	}
	cfg, err := Resolve(sanitized)
	if err != nil {
		return nil, dropped, err
	}
	return cfg, dropped, nil
}

// overlayPresets lowers base bundles under the payload's sanitized
// presets. Same-named bundles deep-merge, payload fields winning.
func overlayPresets(base map[string]PresetBundle, payload any) map[string]any {
	lowered := make(map[string]any, len(base))
	for name, bundle := range base {
		raw := map[string]any{}
		if bundle.Plugins != nil {
			raw["plugins"] = copyTree(bundle.Plugins)
		}
		if bundle.Processors != nil {
			raw["processors"] = copyTree(bundle.Processors)
		}
		lowered[name] = raw
	}
	if overrides, ok := payload.(map[string]any); ok {
		mergeTree(lowered, overrides)
	}
	return lowered
}

// SanitizeWebInput returns a deep copy of the tree with every key
// outside the restricted web shape removed, plus the sorted paths of
// the removed keys. Sugar normalization runs before stripping so terse
// declarations keep their identity. Shape errors are not reported here;
// a malformed subtree passes through for Resolve to reject with a
// proper path.
func SanitizeWebInput(raw map[string]any) (map[string]any, []string) {
	s := &sanitizer{}
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		if !webRootKeys[key] {
			s.drop(key)
			continue
		}
		switch key {
		case "plugins":
			out[key] = s.plugins(value)
		case "presets":
			out[key] = s.presets(value)
		}
	}
	sort.Strings(s.dropped)
	return out, s.dropped
}

type sanitizer struct {
	dropped []string
}

func (s *sanitizer) drop(path string) {
	s.dropped = append(s.dropped, path)
}

func (s *sanitizer) plugins(value any) any {
	list, ok := value.([]any)
	if !ok {
		return copyValue(value)
	}
	out := make([]any, 0, len(list))
	for i, entry := range list {
		out = append(out, s.plugin(entry, fmt.Sprintf("plugins[%d]", i)))
	}
	return out
}

func (s *sanitizer) plugin(entry any, path string) any {
	record, ok := normalizePlugin(entry).(map[string]any)
	if !ok {
		return copyValue(entry)
	}
	out := make(map[string]any, len(record))
	for key, value := range record {
		if !webPluginKeys[key] {
			s.drop(joinPath(path, key))
			continue
		}
		if key == "processors" {
			out[key] = s.processors(value, joinPath(path, "processors"))
			continue
		}
		out[key] = copyValue(value)
	}
	return out
}

func (s *sanitizer) processors(value any, path string) any {
	list, ok := value.([]any)
	if !ok {
		return copyValue(value)
	}
	out := make([]any, 0, len(list))
	for j, entry := range list {
		out = append(out, s.processor(entry, fmt.Sprintf("%s[%d]", path, j)))
	}
	return out
}

func (s *sanitizer) processor(entry any, path string) any {
	record, ok := normalizeProcessor(entry).(map[string]any)
	if !ok {
		return copyValue(entry)
	}
	out := make(map[string]any, len(record))
	for key, value := range record {
		if !webProcessorKeys[key] {
			s.drop(joinPath(path, key))
			continue
		}
		out[key] = copyValue(value)
	}
	return out
}

func (s *sanitizer) presets(value any) any {
	presets, ok := value.(map[string]any)
	if !ok {
		return copyValue(value)
	}
	out := make(map[string]any, len(presets))
	for name, rawBundle := range presets {
		path := "presets." + name
		bundle, ok := rawBundle.(map[string]any)
		if !ok {
			out[name] = copyValue(rawBundle)
			continue
		}
		cleaned := make(map[string]any, len(bundle))
		for key, v := range bundle {
			switch key {
			case "plugins":
				cleaned[key] = s.bundleSection(v, joinPath(path, "plugins"), webPluginKeys)
			case "processors":
				cleaned[key] = s.bundleSection(v, joinPath(path, "processors"), webProcessorKeys)
			default:
				s.drop(joinPath(path, key))
			}
		}
		out[name] = cleaned
	}
	return out
}

// bundleSection strips a preset bundle's field defaults to the allowed
// set. Defaults cascade into every referencing entry, so a restricted
// key hiding in a bundle would defeat the per-entry stripping.
func (s *sanitizer) bundleSection(value any, path string, allowed map[string]bool) any {
	section, ok := value.(map[string]any)
	if !ok {
		return copyValue(value)
	}
	out := make(map[string]any, len(section))
	for key, v := range section {
		if !allowed[key] {
			s.drop(joinPath(path, key))
			continue
		}
		if key == "processors" {
			out[key] = s.processors(v, joinPath(path, "processors"))
			continue
		}
		out[key] = copyValue(v)
	}
	return out
}
