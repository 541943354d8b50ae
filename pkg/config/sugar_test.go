package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePluginSugar(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		{
			name: "single unrecognized key becomes id and args",
			input: map[string]any{
				"readme": map[string]any{"sections": []any{"intro"}},
			},
			want: map[string]any{
				"id":   "readme",
				"args": map[string]any{"sections": []any{"intro"}},
			},
		},
		{
			name: "recognized siblings survive the rewrite",
			input: map[string]any{
				"readme": map[string]any{"sections": []any{"intro"}},
				"fatal":  true,
				"preset": "ci",
			},
			want: map[string]any{
				"id":     "readme",
				"args":   map[string]any{"sections": []any{"intro"}},
				"fatal":  true,
				"preset": "ci",
			},
		},
		{
			name: "explicit id passes through",
			input: map[string]any{
				"id":     "readme",
				"langs":  map[string]any{},
				"sneaky": true,
			},
			want: map[string]any{
				"id":     "readme",
				"langs":  map[string]any{},
				"sneaky": true,
			},
		},
		{
			name: "non-empty args suppresses the rewrite",
			input: map[string]any{
				"args":   map[string]any{"sections": []any{"intro"}},
				"readme": map[string]any{},
			},
			want: map[string]any{
				"args":   map[string]any{"sections": []any{"intro"}},
				"readme": map[string]any{},
			},
		},
		{
			name: "empty args does not suppress the rewrite",
			input: map[string]any{
				"args":   map[string]any{},
				"readme": map[string]any{"sections": []any{"intro"}},
			},
			want: map[string]any{
				"id":   "readme",
				"args": map[string]any{"sections": []any{"intro"}},
			},
		},
		{
			name: "ambiguous declaration gains an empty id",
			input: map[string]any{
				"foo": map[string]any{},
				"bar": map[string]any{},
			},
			want: map[string]any{
				"id":  "",
				"foo": map[string]any{},
				"bar": map[string]any{},
			},
		},
		{
			name:  "all keys recognized passes through",
			input: map[string]any{"fatal": true, "logs": "debug"},
			want:  map[string]any{"fatal": true, "logs": "debug"},
		},
		{
			name:  "scalar passes through",
			input: "readme",
			want:  "readme",
		},
		{
			name:  "sequence passes through",
			input: []any{"readme"},
			want:  []any{"readme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePlugin(tt.input))
		})
	}
}

func TestNormalizeProcessorSugar(t *testing.T) {
	// The processor shape recognizes fewer keys than the plugin shape, so
	// a key like "handle" is treated as the declared id here.
	input := map[string]any{
		"handle": map[string]any{"value": "octocat"},
	}

	got := normalizeProcessor(input)
	want := map[string]any{
		"id":   "handle",
		"args": map[string]any{"value": "octocat"},
	}
	assert.Equal(t, want, got)
}

func TestNormalizeComponentDoesNotMutateInput(t *testing.T) {
	input := map[string]any{
		"readme": map[string]any{"sections": []any{"intro"}},
	}

	got := normalizePlugin(input)

	assert.NotContains(t, got, "readme")
	assert.Contains(t, input, "readme")
	assert.NotContains(t, input, "id")
}
