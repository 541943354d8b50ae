package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLayersPrecedence(t *testing.T) {
	base := map[string]any{
		"fatal":  false,
		"logs":   "info",
		"entity": "user",
	}
	preset := map[string]any{
		"fatal": true,
		"logs":  "debug",
	}
	explicit := map[string]any{
		"fatal": false,
	}

	result := mergeLayers(base, preset, explicit)

	// Explicit beats preset beats base
	assert.Equal(t, false, result["fatal"])
	assert.Equal(t, "debug", result["logs"])
	assert.Equal(t, "user", result["entity"])
}

func TestMergeLayersNestedMappings(t *testing.T) {
	base := map[string]any{
		"retries": map[string]any{
			"attempts": 3,
			"delay":    120,
		},
	}
	overlay := map[string]any{
		"retries": map[string]any{
			"attempts": 5,
		},
	}

	result := mergeLayers(base, overlay)

	retries := result["retries"].(map[string]any)
	assert.Equal(t, 5, retries["attempts"])
	assert.Equal(t, 120, retries["delay"])
}

func TestMergeLayersArraysReplace(t *testing.T) {
	base := map[string]any{
		"processors": []any{
			map[string]any{"id": "inject.style"},
			map[string]any{"id": "render.svg"},
		},
	}
	overlay := map[string]any{
		"processors": []any{
			map[string]any{"id": "optimize"},
		},
	}

	result := mergeLayers(base, overlay)

	// Arrays never concatenate: the higher layer wins wholesale
	processors := result["processors"].([]any)
	assert.Len(t, processors, 1)
	assert.Equal(t, "optimize", processors[0].(map[string]any)["id"])
}

func TestMergeLayersNullWins(t *testing.T) {
	base := map[string]any{
		"handle": "octocat",
	}
	overlay := map[string]any{
		"handle": nil,
	}

	result := mergeLayers(base, overlay)

	// An explicit null is present, so it overrides lower layers
	assert.Contains(t, result, "handle")
	assert.Nil(t, result["handle"])
}

func TestMergeLayersScalarReplacesMapping(t *testing.T) {
	base := map[string]any{
		"args": map[string]any{"sections": []any{"intro"}},
	}
	overlay := map[string]any{
		"args": "oops",
	}

	result := mergeLayers(base, overlay)
	assert.Equal(t, "oops", result["args"])
}

func TestMergeLayersDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{
		"retries": map[string]any{"attempts": 3},
		"tags":    []any{"a", "b"},
	}
	overlay := map[string]any{
		"retries": map[string]any{"attempts": 5},
	}

	result := mergeLayers(base, overlay)
	result["retries"].(map[string]any)["attempts"] = 99
	result["tags"].([]any)[0] = "mutated"

	assert.Equal(t, 3, base["retries"].(map[string]any)["attempts"])
	assert.Equal(t, "a", base["tags"].([]any)[0])
	assert.Equal(t, 5, overlay["retries"].(map[string]any)["attempts"])
}

func TestCopyTree(t *testing.T) {
	original := map[string]any{
		"scalar": "value",
		"nested": map[string]any{"key": 1},
		"list":   []any{map[string]any{"id": "x"}},
	}

	clone := copyTree(original)
	assert.Equal(t, original, clone)

	clone["nested"].(map[string]any)["key"] = 2
	clone["list"].([]any)[0].(map[string]any)["id"] = "y"

	assert.Equal(t, 1, original["nested"].(map[string]any)["key"])
	assert.Equal(t, "x", original["list"].([]any)[0].(map[string]any)["id"])

	assert.Nil(t, copyTree(nil))
}
