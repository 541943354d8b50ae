package secrets

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSecretRedaction(t *testing.T) {
	s := New("ghp_abc123")

	// Every implicit textual path yields the placeholder.
	assert.Equal(t, Placeholder, s.String())
	assert.Equal(t, Placeholder, fmt.Sprintf("%v", s))
	assert.Equal(t, Placeholder, fmt.Sprintf("%s", s))
	assert.Equal(t, Placeholder, fmt.Sprintf("%#v", s))
	assert.Equal(t, Placeholder, s.LogValue().String())

	// The raw value is only reachable through Reveal.
	assert.Equal(t, "ghp_abc123", s.Reveal())
}

func TestSecretMarshalJSON(t *testing.T) {
	payload := struct {
		Token Secret `json:"token"`
	}{Token: New("ghp_abc123")}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"[secret]"}`, string(data))
	assert.NotContains(t, string(data), "ghp_abc123")
}

func TestSecretMarshalYAML(t *testing.T) {
	payload := struct {
		Token Secret `yaml:"token"`
	}{Token: New("ghp_abc123")}

	data, err := yaml.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[secret]")
	assert.NotContains(t, string(data), "ghp_abc123")
}

func TestSecretUnmarshalYAML(t *testing.T) {
	var target struct {
		Token Secret `yaml:"token"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`token: ghp_abc123`), &target))
	assert.Equal(t, "ghp_abc123", target.Token.Reveal())

	err := yaml.Unmarshal([]byte("token:\n  nested: map"), &target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret must be a string")
}

func TestFromAnyIdempotentWrap(t *testing.T) {
	original := New("value")

	tests := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"string", "value", "value", true},
		{"secret value", original, "value", true},
		{"secret pointer", &original, "value", true},
		{"nil", nil, "", true},
		{"nil secret pointer", (*Secret)(nil), "", true},
		{"int rejected", 42, "", false},
		{"map rejected", map[string]any{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := FromAny(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, s.Reveal())
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		t.Setenv("GITFOLIO_TEST_TOKEN", "tok-1")
		s, ok := FromEnv("GITFOLIO_TEST_TOKEN")
		assert.True(t, ok)
		assert.Equal(t, "tok-1", s.Reveal())
	})

	t.Run("unset", func(t *testing.T) {
		s, ok := FromEnv("GITFOLIO_TEST_TOKEN_MISSING")
		assert.False(t, ok)
		assert.True(t, s.IsZero())
	})
}

func TestSecretMatches(t *testing.T) {
	s := New("hunter2")
	assert.True(t, s.Matches("hunter2"))
	assert.False(t, s.Matches("hunter"))
	assert.False(t, s.Matches("hunter22"))
	assert.False(t, s.Matches(""))
}

func TestSecretZeroValue(t *testing.T) {
	var s Secret
	assert.True(t, s.IsZero())
	assert.Equal(t, "", s.Reveal())
	assert.Equal(t, Placeholder, s.String())
}
