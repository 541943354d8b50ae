// Package secrets provides the Secret wrapper used for sensitive
// configuration values (API tokens, auth credentials).
//
// A Secret renders as a fixed placeholder through every implicit textual
// path: fmt verbs, slog attributes, JSON and YAML marshaling. The raw value
// is only reachable through an explicit Reveal() call, so accidental logging
// or serialization of a resolved configuration never leaks credentials.
package secrets

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Placeholder is the fixed textual form of every Secret, regardless of content.
const Placeholder = "[secret]"

// Secret wraps a sensitive string value.
//
// The zero value is a valid "unset" secret: IsZero reports true and Reveal
// returns the empty string.
type Secret struct {
	value string
}

// New wraps a raw string in a Secret.
func New(value string) Secret {
	return Secret{value: value}
}

// FromEnv wraps the value of the named environment variable. The second
// return is false when the variable is unset or empty, leaving the secret
// zero. Used by default providers that populate credentials lazily.
func FromEnv(name string) (Secret, bool) {
	value := os.Getenv(name)
	if value == "" {
		return Secret{}, false
	}
	return Secret{value: value}, true
}

// FromAny converts an untyped configuration value into a Secret.
// Wrapping is idempotent: an existing Secret (value or pointer) is returned
// unchanged, a string is wrapped, anything else is rejected.
func FromAny(v any) (Secret, bool) {
	switch s := v.(type) {
	case Secret:
		return s, true
	case *Secret:
		if s == nil {
			return Secret{}, true
		}
		return *s, true
	case string:
		return Secret{value: s}, true
	case nil:
		return Secret{}, true
	default:
		return Secret{}, false
	}
}

// Reveal returns the raw wrapped value. This is the only unwrap path; call
// sites should be deliberate (e.g. attaching an Authorization header).
func (s Secret) Reveal() string {
	return s.value
}

// IsZero reports whether the secret holds no value.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// Matches compares the wrapped value against a candidate in constant time,
// without revealing it to the caller.
func (s Secret) Matches(candidate string) bool {
	if len(s.value) != len(candidate) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(candidate)) == 1
}

// String implements fmt.Stringer. Always the placeholder.
func (s Secret) String() string {
	return Placeholder
}

// GoString implements fmt.GoStringer so %#v cannot leak the value.
func (s Secret) GoString() string {
	return Placeholder
}

// LogValue implements slog.LogValuer. Always the placeholder.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(Placeholder)
}

// MarshalJSON serializes the placeholder, never the value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(Placeholder)
}

// MarshalYAML serializes the placeholder, never the value.
func (s Secret) MarshalYAML() (any, error) {
	return Placeholder, nil
}

// UnmarshalYAML wraps a scalar string node. Secrets never arrive through
// JSON (the web-input boundary strips credential fields), so only the YAML
// side is implemented.
func (s *Secret) UnmarshalYAML(node *yaml.Node) error {
	var value string
	if err := node.Decode(&value); err != nil {
		return fmt.Errorf("secret must be a string: %w", err)
	}
	s.value = value
	return nil
}

var (
	_ fmt.Stringer   = Secret{}
	_ fmt.GoStringer = Secret{}
	_ slog.LogValuer = Secret{}
	_ json.Marshaler = Secret{}
	_ yaml.Marshaler = Secret{}
)
