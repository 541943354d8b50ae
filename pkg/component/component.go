// Package component gives resolved plugin and processor records a runtime
// identity: a tag derived from their position in the tree and a logger
// bound to that tag at the record's configured level.
package component

import (
	"context"
	"log/slog"

	"github.com/gitfolio/gitfolio/pkg/config"
)

// Component is the runnable identity of a resolved record. It carries no
// execution logic itself; executors embed or hold one for its tag,
// logger and per-record knobs.
type Component struct {
	tag     string
	args    map[string]any
	retries config.RetryPolicy
	fatal   bool
	logger  *slog.Logger
}

// ForPlugin returns the runtime component for a resolved plugin entry.
// Nop entries carry no identifier and share the fixed tag "plugins/nop".
// Entries outside the resolver's record types yield nil.
func ForPlugin(entry config.PluginEntry) *Component {
	switch e := entry.(type) {
	case *config.PluginConfig:
		return newComponent("plugins/"+e.ID, e.Args, e.Retries, e.Fatal, e.Logs)
	case *config.PluginNopConfig:
		return newComponent("plugins/nop", nil, config.RetryPolicy{}, e.Fatal, e.Logs)
	default:
		return nil
	}
}

// ForProcessor returns the runtime component for a processor, tagged
// beneath its parent plugin.
func ForProcessor(proc *config.ProcessorConfig) *Component {
	base := "plugins/nop"
	if parent, ok := proc.Parent().(*config.PluginConfig); ok {
		base = "plugins/" + parent.ID
	}
	return newComponent(base+"/processors/"+proc.ID, proc.Args, proc.Retries, proc.Fatal, proc.Logs)
}

// ForConfig builds components for every entry of a resolved
// configuration in document order, each plugin followed by its chain.
func ForConfig(cfg *config.Config) []*Component {
	var components []*Component
	for _, entry := range cfg.Plugins {
		if c := ForPlugin(entry); c != nil {
			components = append(components, c)
		}
		for _, proc := range entry.Chain() {
			components = append(components, ForProcessor(proc))
		}
	}
	return components
}

func newComponent(tag string, args map[string]any, retries config.RetryPolicy, fatal bool, logs config.LogLevel) *Component {
	handler := &levelHandler{
		min:     logs.SlogLevel(),
		handler: slog.Default().Handler(),
	}
	return &Component{
		tag:     tag,
		args:    args,
		retries: retries,
		fatal:   fatal,
		logger:  slog.New(handler).With("component", tag),
	}
}

// Tag returns the component's position in the tree, e.g.
// plugins/activity/processors/inject-style.
func (c *Component) Tag() string {
	return c.tag
}

// Args returns the component's free-form argument mapping.
func (c *Component) Args() map[string]any {
	return c.args
}

// Retries returns the component's retry policy.
func (c *Component) Retries() config.RetryPolicy {
	return c.retries
}

// Fatal reports whether a failure of this component aborts the run.
func (c *Component) Fatal() bool {
	return c.fatal
}

// Logger returns the logger bound to the component's tag. Records below
// the configured level are dropped regardless of the process-wide level.
func (c *Component) Logger() *slog.Logger {
	return c.logger
}

// levelHandler raises the floor of a wrapped handler to the component's
// configured level.
type levelHandler struct {
	min     slog.Level
	handler slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min && h.handler.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.handler.Handle(ctx, record)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{min: h.min, handler: h.handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{min: h.min, handler: h.handler.WithGroup(name)}
}
