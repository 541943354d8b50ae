package api

import "github.com/gitfolio/gitfolio/pkg/config"

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// PresetsResponse is returned by GET /api/v1/presets.
type PresetsResponse struct {
	Presets []string `json:"presets"`
}

// ResolveResponse is returned by POST /api/v1/resolve. Secrets inside
// the records marshal redacted.
type ResolveResponse struct {
	Plugins []config.PluginEntry `json:"plugins"`
	Dropped []string             `json:"dropped,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
