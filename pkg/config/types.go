package config

import (
	"time"

	"github.com/gitfolio/gitfolio/pkg/secrets"
)

// Shared types used across settings structs

// RetryPolicy defines retry behavior for a component.
// It is a value handed to the runtime; resolution itself never retries.
type RetryPolicy struct {
	Attempts int     `json:"attempts" yaml:"attempts"` // At least 1
	Delay    float64 `json:"delay" yaml:"delay"`       // Seconds between attempts
}

// DelayDuration returns the delay between attempts as a time.Duration
func (r RetryPolicy) DelayDuration() time.Duration {
	return time.Duration(r.Delay * float64(time.Second))
}

// ComponentConfig holds the base fields shared by every runnable unit
type ComponentConfig struct {
	ID      string         `json:"id" yaml:"id"`
	Args    map[string]any `json:"args" yaml:"args"`
	Retries RetryPolicy    `json:"retries" yaml:"retries"`
	Fatal   bool           `json:"fatal" yaml:"fatal"`
	Logs    LogLevel       `json:"logs" yaml:"logs"`
}

// RequestsConfig holds the network-facing fields shared by plugin entries
type RequestsConfig struct {
	Mock     bool           `json:"mock" yaml:"mock"`
	API      string         `json:"api" yaml:"api"`
	Token    secrets.Secret `json:"token" yaml:"token"`
	Timezone string         `json:"timezone" yaml:"timezone"`
}

// PluginEntry is one resolved element of Config.Plugins: either a full
// *PluginConfig or a *PluginNopConfig placeholder.
type PluginEntry interface {
	// Nop reports whether the entry carries no plugin identity
	Nop() bool
	// Chain returns the processors attached to the entry
	Chain() []*ProcessorConfig
}

// PluginConfig is a fully resolved plugin entry
type PluginConfig struct {
	ComponentConfig `yaml:",inline"`
	RequestsConfig  `yaml:",inline"`

	Handle     *string            `json:"handle" yaml:"handle"`
	Entity     Entity             `json:"entity" yaml:"entity"`
	Template   *string            `json:"template" yaml:"template"`
	Processors []*ProcessorConfig `json:"processors" yaml:"processors"`
}

// Nop reports whether the entry carries no plugin identity
func (p *PluginConfig) Nop() bool { return false }

// Chain returns the processors attached to the entry
func (p *PluginConfig) Chain() []*ProcessorConfig { return p.Processors }

// PluginNopConfig is a plugin entry that intentionally carries no
// executable identity. It keeps the request defaults and the processor
// chain so attached processors can still run against upstream output.
type PluginNopConfig struct {
	RequestsConfig `yaml:",inline"`

	Fatal      bool               `json:"fatal" yaml:"fatal"`
	Logs       LogLevel           `json:"logs" yaml:"logs"`
	Handle     *string            `json:"handle" yaml:"handle"`
	Entity     Entity             `json:"entity" yaml:"entity"`
	Template   *string            `json:"template" yaml:"template"` // Always null
	Processors []*ProcessorConfig `json:"processors" yaml:"processors"`
}

// Nop reports whether the entry carries no plugin identity
func (p *PluginNopConfig) Nop() bool { return true }

// Chain returns the processors attached to the entry
func (p *PluginNopConfig) Chain() []*ProcessorConfig { return p.Processors }

// ProcessorConfig is a resolved post-processing step attached to a plugin entry
type ProcessorConfig struct {
	ComponentConfig `yaml:",inline"`

	// parent is the entry this processor belongs to. Read-only context
	// for the runtime, never serialized.
	parent PluginEntry
}

// Parent returns the resolved entry this processor is attached to
func (p *ProcessorConfig) Parent() PluginEntry { return p.parent }

var (
	_ PluginEntry = (*PluginConfig)(nil)
	_ PluginEntry = (*PluginNopConfig)(nil)
)

// PresetBundle is a named set of partial defaults layered under plugin
// and processor declarations during resolution. Bundle contents stay
// generic trees: fields are optional and only validated after merging
// into a concrete candidate.
type PresetBundle struct {
	Plugins    map[string]any `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Processors map[string]any `json:"processors,omitempty" yaml:"processors,omitempty"`
}

// pluginKeys are the keys accepted in a plugin declaration.
// Kept in sync with the plugin shape checked by the validator.
var pluginKeys = map[string]bool{
	"id":         true,
	"args":       true,
	"retries":    true,
	"fatal":      true,
	"logs":       true,
	"mock":       true,
	"api":        true,
	"token":      true,
	"timezone":   true,
	"handle":     true,
	"entity":     true,
	"template":   true,
	"preset":     true,
	"processors": true,
}

// processorKeys are the keys accepted in a processor declaration
var processorKeys = map[string]bool{
	"id":      true,
	"args":    true,
	"retries": true,
	"fatal":   true,
	"logs":    true,
	"preset":  true,
}

// retriesKeys are the keys accepted in a retries mapping
var retriesKeys = map[string]bool{
	"attempts": true,
	"delay":    true,
}

// bundleKeys are the keys accepted in a preset bundle
var bundleKeys = map[string]bool{
	"plugins":    true,
	"processors": true,
}

// rootKeys are the keys accepted at the top level of a settings document
var rootKeys = map[string]bool{
	"plugins": true,
	"presets": true,
	"server":  true,
}

// serverKeys are the keys accepted in the server section
var serverKeys = map[string]bool{
	"listen":           true,
	"token":            true,
	"rate_limit":       true,
	"shutdown_timeout": true,
}

// rateLimitKeys are the keys accepted in a rate_limit mapping
var rateLimitKeys = map[string]bool{
	"enabled":  true,
	"requests": true,
	"burst":    true,
}

// BoolPtr returns a pointer to b. Convenience for *bool struct fields.
func BoolPtr(b bool) *bool { return &b }

// StringPtr returns a pointer to s. Convenience for *string struct fields.
func StringPtr(s string) *string { return &s }
