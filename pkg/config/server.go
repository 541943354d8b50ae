package config

import (
	"fmt"
	"reflect"
	"time"

	"dario.cat/mergo"

	"github.com/gitfolio/gitfolio/pkg/secrets"
)

// ServerConfig contains the HTTP transport options that extend a
// resolved document. These shape how the API serves resolutions; they
// add no resolution logic of their own.
type ServerConfig struct {
	// Listen is the address the API server binds to.
	Listen string `json:"listen" yaml:"listen"`

	// Token guards the resolve endpoints when set. Clients present it
	// as a bearer token; comparison is constant-time.
	Token secrets.Secret `json:"token" yaml:"token"`

	// RateLimit bounds per-client request rates on the API.
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	// ShutdownTimeout is the max time to wait for in-flight requests
	// during shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// RateLimitConfig bounds request rates per client address.
// Enabled is a *bool: nil means "use default" (enabled), explicit false disables.
type RateLimitConfig struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Requests is the sustained number of requests per second.
	Requests int `json:"requests" yaml:"requests"`

	// Burst is the bucket size, allowing short spikes above the
	// sustained rate.
	Burst int `json:"burst" yaml:"burst"`
}

// Disabled returns true only when Enabled is explicitly set to false.
func (r RateLimitConfig) Disabled() bool {
	return r.Enabled != nil && !*r.Enabled
}

// DefaultServerConfig returns the built-in server defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Listen: ":8080",
		RateLimit: RateLimitConfig{
			Enabled:  BoolPtr(true),
			Requests: 10,
			Burst:    20,
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// resolveServer merges user server options into the built-in defaults
// (non-zero values override) and validates the result.
func resolveServer(user *ServerConfig) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if user != nil {
		if err := mergo.Merge(cfg, user, mergo.WithOverride, mergo.WithTransformers(overlayTransformer{})); err != nil {
			return nil, fmt.Errorf("failed to merge server options: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayTransformer teaches mergo to carry two field types over
// wholesale. A Secret keeps its value unexported, so the field-wise
// merge would never copy one. A *bool on both sides gets dereferenced
// to plain bool, where false is the empty value WithOverride refuses
// to write; setting the pointer itself keeps an explicit
// "enabled: false".
type overlayTransformer struct{}

func (overlayTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	switch typ {
	case reflect.TypeOf(secrets.Secret{}):
		return func(dst, src reflect.Value) error {
			if dst.CanSet() && !src.Interface().(secrets.Secret).IsZero() {
				dst.Set(src)
			}
			return nil
		}
	case reflect.TypeOf((*bool)(nil)):
		return func(dst, src reflect.Value) error {
			if dst.CanSet() && !src.IsNil() {
				dst.Set(src)
			}
			return nil
		}
	}
	return nil
}

// Validate checks server options for consistency
func (c *ServerConfig) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("server listen address must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown_timeout must be positive")
	}
	if !c.RateLimit.Disabled() {
		if c.RateLimit.Requests < 1 {
			return fmt.Errorf("server rate_limit requests must be at least 1")
		}
		if c.RateLimit.Burst < c.RateLimit.Requests {
			return fmt.Errorf("server rate_limit burst must be at least the request rate")
		}
	}
	return nil
}
