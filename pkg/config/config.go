package config

// Config is the root resolved settings document. It is built in a
// single pass and never mutated afterwards.
type Config struct {
	source string // settings file the document came from, if any

	// Plugins holds the resolved entries in document order.
	Plugins []PluginEntry `json:"plugins" yaml:"plugins"`

	// Presets holds every named bundle plus the default bundle,
	// synthesized when the document does not define one.
	Presets map[string]PresetBundle `json:"presets" yaml:"presets"`

	// Server carries the transport options resolved by Load alongside
	// the document. It never participates in plugin resolution.
	Server *ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`
}

// Resolve turns a raw settings tree into a validated Config.
//
// The pass is synchronous and side-effect-free apart from reading the
// environment-sourced defaults (token, timezone) while the default
// bundle is synthesized. The input tree is never mutated: resolving the
// same tree twice yields deep-equal configs. Transport options under
// the server key are only shape-checked here; Load decodes and
// attaches them.
func Resolve(raw map[string]any) (*Config, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	r := &resolver{raw: raw, presets: collectPresets(raw)}

	if err := validateRootKeys(raw); err != nil {
		return nil, err
	}
	if err := validatePresetsShape(raw); err != nil {
		return nil, err
	}
	if err := validateServerShape(raw); err != nil {
		return nil, err
	}

	candidates, err := r.resolveEntries()
	if err != nil {
		return nil, err
	}

	plugins := make([]PluginEntry, 0, len(candidates))
	for _, c := range candidates {
		entry, err := validateEntry(c)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, entry)
	}

	return &Config{
		Plugins: plugins,
		Presets: r.presets,
	}, nil
}

// Source returns the settings file the config was loaded from.
// Empty when the config was resolved from an in-memory tree.
func (c *Config) Source() string {
	return c.source
}

// Stats contains statistics about a resolved document
type Stats struct {
	Plugins    int
	Nops       int
	Processors int
	Presets    int
}

// Stats returns resolution statistics for logging/monitoring
func (c *Config) Stats() Stats {
	s := Stats{Presets: len(c.Presets)}
	for _, entry := range c.Plugins {
		if entry.Nop() {
			s.Nops++
		} else {
			s.Plugins++
		}
		s.Processors += len(entry.Chain())
	}
	return s
}
