package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePluginFields(t *testing.T) {
	tests := []struct {
		name    string
		plugin  map[string]any
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid minimal plugin",
			plugin:  map[string]any{"id": "activity"},
			wantErr: false,
		},
		{
			name:    "id not a string",
			plugin:  map[string]any{"id": 42},
			wantErr: true,
			errMsg:  "a string identifier",
		},
		{
			name:    "args not a mapping",
			plugin:  map[string]any{"id": "activity", "args": "dark"},
			wantErr: true,
			errMsg:  "an args mapping",
		},
		{
			name:    "retries not a mapping",
			plugin:  map[string]any{"id": "activity", "retries": "forever"},
			wantErr: true,
			errMsg:  "a retries mapping",
		},
		{
			name: "retries with stray key",
			plugin: map[string]any{
				"id":      "activity",
				"retries": map[string]any{"attempts": 2, "delay": 1, "backoff": "cubic"},
			},
			wantErr: true,
			errMsg:  "retries.backoff",
		},
		{
			name: "zero attempts",
			plugin: map[string]any{
				"id":      "activity",
				"retries": map[string]any{"attempts": 0},
			},
			wantErr: true,
			errMsg:  "a positive integer",
		},
		{
			name: "fractional attempts",
			plugin: map[string]any{
				"id":      "activity",
				"retries": map[string]any{"attempts": 3.5},
			},
			wantErr: true,
			errMsg:  "a positive integer",
		},
		{
			name: "integral float attempts",
			plugin: map[string]any{
				"id":      "activity",
				"retries": map[string]any{"attempts": 3.0},
			},
			wantErr: false,
		},
		{
			name: "negative delay",
			plugin: map[string]any{
				"id":      "activity",
				"retries": map[string]any{"delay": -1},
			},
			wantErr: true,
			errMsg:  "a non-negative number of seconds",
		},
		{
			name: "fractional delay",
			plugin: map[string]any{
				"id":      "activity",
				"retries": map[string]any{"delay": 2.5},
			},
			wantErr: false,
		},
		{
			name:    "fatal not a boolean",
			plugin:  map[string]any{"id": "activity", "fatal": "yes"},
			wantErr: true,
			errMsg:  "a boolean",
		},
		{
			name:    "unknown log level",
			plugin:  map[string]any{"id": "activity", "logs": "verbose"},
			wantErr: true,
			errMsg:  "one of none, error, warn, info, message, debug, trace",
		},
		{
			name:    "mock not a boolean",
			plugin:  map[string]any{"id": "activity", "mock": 1},
			wantErr: true,
			errMsg:  "a boolean",
		},
		{
			name:    "api with wrong scheme",
			plugin:  map[string]any{"id": "activity", "api": "ftp://example.com"},
			wantErr: true,
			errMsg:  "an http(s) endpoint URL",
		},
		{
			name:    "api not a URL",
			plugin:  map[string]any{"id": "activity", "api": "not a url"},
			wantErr: true,
			errMsg:  "an http(s) endpoint URL",
		},
		{
			name:    "token not a string",
			plugin:  map[string]any{"id": "activity", "token": 42},
			wantErr: true,
			errMsg:  "a token string",
		},
		{
			name:    "unknown timezone",
			plugin:  map[string]any{"id": "activity", "timezone": "Mars/Crater"},
			wantErr: true,
			errMsg:  "a valid IANA timezone",
		},
		{
			name:    "empty timezone",
			plugin:  map[string]any{"id": "activity", "timezone": ""},
			wantErr: true,
			errMsg:  "a valid IANA timezone",
		},
		{
			name:    "empty handle",
			plugin:  map[string]any{"id": "activity", "handle": ""},
			wantErr: true,
			errMsg:  "a non-empty string or null",
		},
		{
			name:    "unknown entity",
			plugin:  map[string]any{"id": "activity", "entity": "starship"},
			wantErr: true,
			errMsg:  "one of user, organization, repository",
		},
		{
			name:    "template with spaces",
			plugin:  map[string]any{"id": "activity", "template": "two words"},
			wantErr: true,
			errMsg:  "a template name or http(s) URL",
		},
		{
			name:    "template as URL",
			plugin:  map[string]any{"id": "activity", "template": "https://example.com/custom.html"},
			wantErr: false,
		},
		{
			name:    "community template name",
			plugin:  map[string]any{"id": "activity", "template": "@neon"},
			wantErr: false,
		},
		{
			name:    "organization without handle",
			plugin:  map[string]any{"id": "activity", "entity": "organization"},
			wantErr: true,
			errMsg:  "an organization handle when entity is organization",
		},
		{
			name:    "repository handle without owner",
			plugin:  map[string]any{"id": "activity", "entity": "repository", "handle": "hello-world"},
			wantErr: true,
			errMsg:  "an owner/repository handle",
		},
		{
			name:    "repository with owner prefix",
			plugin:  map[string]any{"id": "activity", "entity": "repository", "handle": "octocat/hello-world"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinEnv(t)

			_, err := Resolve(map[string]any{"plugins": []any{tt.plugin}})

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProcessorFields(t *testing.T) {
	tests := []struct {
		name      string
		processor map[string]any
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid minimal processor",
			processor: map[string]any{"id": "inject-style"},
			wantErr:   false,
		},
		{
			name:      "plugin-only key rejected",
			processor: map[string]any{"id": "inject-style", "token": "ghp_x"},
			wantErr:   true,
			errMsg:    "processors[0].token",
		},
		{
			name:      "unknown log level",
			processor: map[string]any{"id": "inject-style", "logs": "loud"},
			wantErr:   true,
			errMsg:    "processors[0].logs",
		},
		{
			name: "zero attempts",
			processor: map[string]any{
				"id":      "inject-style",
				"retries": map[string]any{"attempts": 0},
			},
			wantErr: true,
			errMsg:  "a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinEnv(t)

			_, err := Resolve(map[string]any{
				"plugins": []any{
					map[string]any{"id": "activity", "processors": []any{tt.processor}},
				},
			})

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorsUnwrap(t *testing.T) {
	pinEnv(t)

	_, err := Resolve(map[string]any{
		"plugins": []any{
			map[string]any{"id": "activity", "entity": "starship"},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidValue))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "plugins[0].entity", verr.Path)
	assert.Equal(t, "starship", verr.Value)
}
