package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is the settings file consulted when no path is given
const DefaultSettingsFile = "gitfolio.yml"

// settingsShell is the typed view of the document parts that bypass
// resolution. Plugins and presets stay generic trees and go through
// Resolve instead.
type settingsShell struct {
	Server *ServerConfig `yaml:"server"`
}

// Load reads, resolves and validates a settings file.
// This is the primary entry point for configuration loading.
//
// A missing file is not an error: resolution proceeds against an empty
// tree, yielding an empty plugin list and the synthesized default
// bundle. Any other read failure, a non-mapping document root, and
// every validation failure abort the load.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultSettingsFile
	}
	log := slog.With("settings", path)
	log.Info("Loading settings")

	raw, shell, err := readSettings(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	server, err := resolveServer(shell.Server)
	if err != nil {
		return nil, NewLoadError(path, err)
	}
	cfg.Server = server
	cfg.source = path

	stats := cfg.Stats()
	log.Info("Settings loaded",
		"plugins", stats.Plugins,
		"nops", stats.Nops,
		"processors", stats.Processors,
		"presets", stats.Presets)

	return cfg, nil
}

// readSettings reads the file and parses the two views of the document:
// the raw tree fed to resolution and the typed shell for transport
// options.
func readSettings(path string) (map[string]any, *settingsShell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Settings file not found, resolving defaults only", "settings", path)
			return map[string]any{}, &settingsShell{}, nil
		}
		return nil, nil, NewLoadError(path, err)
	}

	data = expandEnv(data)

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}
	if raw == nil {
		raw = map[string]any{}
	}

	var shell settingsShell
	if err := yaml.Unmarshal(data, &shell); err != nil {
		return nil, nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}

	return raw, &shell, nil
}

// expandEnv expands environment variables in the settings document using
// Go template syntax, {{.VAR_NAME}}. The $ forms stay untouched, so
// regex patterns and shell snippets inside plugin args survive literally.
//
// Missing variables expand to empty string. On a malformed template the
// original bytes pass through unchanged, letting the YAML parser report
// the content with a clearer error message.
func expandEnv(data []byte) []byte {
	tmpl, err := template.New("settings").Option("missingkey=zero").Parse(string(data))
	if err != nil {
		return data
	}

	envMap := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			envMap[key] = value
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, envMap); err != nil {
		return data
	}
	return buf.Bytes()
}
