package config

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gitfolio/gitfolio/pkg/secrets"
)

// The strict pass. Candidates arrive fully merged from the cascade;
// every check here is fail-fast: the first invalid leaf aborts the
// whole document.

// templateNamePattern matches builtin template names, optionally with a
// community "@" prefix. Anything else must be an http(s) URL.
var templateNamePattern = regexp.MustCompile(`^@?[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// validateEntry checks a merged candidate against the full plugin or
// nop shape and produces the typed record.
func validateEntry(c candidate) (PluginEntry, error) {
	if c.nop {
		return validateNopCandidate(c)
	}
	return validatePluginCandidate(c)
}

func validatePluginCandidate(c candidate) (*PluginConfig, error) {
	record := c.record

	plugin := &PluginConfig{}
	var err error

	// The id check runs before the unknown-key sweep: an ambiguous terse
	// declaration keeps its original keys plus an empty id marker, and
	// must fail on the id, not on whichever stray key sorts first.
	plugin.ID, err = idField(record, c.path)
	if err != nil {
		return nil, err
	}
	if err := checkKnownKeys(c.path, record, pluginKeys); err != nil {
		return nil, err
	}

	plugin.Args, err = argsField(record, c.path)
	if err != nil {
		return nil, err
	}
	plugin.Retries, err = retriesField(record, c.path)
	if err != nil {
		return nil, err
	}
	plugin.Fatal, err = boolField(record, c.path, "fatal")
	if err != nil {
		return nil, err
	}
	plugin.Logs, err = levelField(record, c.path)
	if err != nil {
		return nil, err
	}
	plugin.Mock, err = boolField(record, c.path, "mock")
	if err != nil {
		return nil, err
	}
	plugin.API, err = apiField(record, c.path)
	if err != nil {
		return nil, err
	}
	plugin.Token, err = tokenField(record, c.path)
	if err != nil {
		return nil, err
	}
	plugin.Timezone, err = timezoneField(record, c.path)
	if err != nil {
		return nil, err
	}
	plugin.Handle, err = handleField(record, c.path)
	if err != nil {
		return nil, err
	}
	plugin.Entity, err = entityField(record, c.path)
	if err != nil {
		return nil, err
	}
	plugin.Template, err = templateField(record, c.path)
	if err != nil {
		return nil, err
	}

	if err := checkHandleCombination(plugin, c.path); err != nil {
		return nil, err
	}

	plugin.Processors, err = validateProcessors(c, plugin)
	if err != nil {
		return nil, err
	}
	return plugin, nil
}

func validateNopCandidate(c candidate) (*PluginNopConfig, error) {
	record := c.record
	if err := checkKnownKeys(c.path, record, pluginKeys); err != nil {
		return nil, err
	}

	// id, args, retries and template residue contributed by lower layers
	// is discarded: the entry declared no identity of its own.
	nop := &PluginNopConfig{}
	var err error

	nop.Fatal, err = boolField(record, c.path, "fatal")
	if err != nil {
		return nil, err
	}
	nop.Logs, err = levelField(record, c.path)
	if err != nil {
		return nil, err
	}
	nop.Mock, err = boolField(record, c.path, "mock")
	if err != nil {
		return nil, err
	}
	nop.API, err = apiField(record, c.path)
	if err != nil {
		return nil, err
	}
	nop.Token, err = tokenField(record, c.path)
	if err != nil {
		return nil, err
	}
	nop.Timezone, err = timezoneField(record, c.path)
	if err != nil {
		return nil, err
	}
	nop.Handle, err = handleField(record, c.path)
	if err != nil {
		return nil, err
	}
	nop.Entity, err = entityField(record, c.path)
	if err != nil {
		return nil, err
	}
	nop.Template = nil

	nop.Processors, err = validateProcessors(c, nop)
	if err != nil {
		return nil, err
	}
	return nop, nil
}

func validateProcessors(c candidate, parent PluginEntry) ([]*ProcessorConfig, error) {
	processors := make([]*ProcessorConfig, 0, len(c.processors))
	for j, record := range c.processors {
		path := fmt.Sprintf("%s.processors[%d]", c.path, j)
		proc, err := validateProcessor(path, record)
		if err != nil {
			return nil, err
		}
		proc.parent = parent
		processors = append(processors, proc)
	}
	return processors, nil
}

func validateProcessor(path string, record map[string]any) (*ProcessorConfig, error) {
	proc := &ProcessorConfig{}
	var err error

	proc.ID, err = idField(record, path)
	if err != nil {
		return nil, err
	}
	if err := checkKnownKeys(path, record, processorKeys); err != nil {
		return nil, err
	}

	proc.Args, err = argsField(record, path)
	if err != nil {
		return nil, err
	}
	proc.Retries, err = retriesField(record, path)
	if err != nil {
		return nil, err
	}
	proc.Fatal, err = boolField(record, path, "fatal")
	if err != nil {
		return nil, err
	}
	proc.Logs, err = levelField(record, path)
	if err != nil {
		return nil, err
	}
	return proc, nil
}

// validateRootKeys rejects top-level keys outside the document shape.
// The loose pre-pass tolerates them; the strict pass does not.
func validateRootKeys(raw map[string]any) error {
	return checkKnownKeys("", raw, rootKeys)
}

// validatePresetsShape strictly checks the presets subtree: bundle
// values must be mappings holding only plugins/processors sections.
// Bundle contents stay unvalidated here; they are checked per candidate
// once merged.
func validatePresetsShape(raw map[string]any) error {
	rawPresets, ok := raw["presets"]
	if !ok || rawPresets == nil {
		return nil
	}
	presets, ok := rawPresets.(map[string]any)
	if !ok {
		return NewValidationError("presets", "a mapping of preset bundles", rawPresets, ErrInvalidValue)
	}

	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := "presets." + name
		bundle, ok := presets[name].(map[string]any)
		if !ok {
			return NewValidationError(path, "a preset bundle mapping", presets[name], ErrInvalidValue)
		}
		if err := checkKnownKeys(path, bundle, bundleKeys); err != nil {
			return err
		}
		for _, section := range []string{"plugins", "processors"} {
			if v, ok := bundle[section]; ok && v != nil {
				if _, ok := v.(map[string]any); !ok {
					return NewValidationError(joinPath(path, section), "a mapping of field defaults", v, ErrInvalidValue)
				}
			}
		}
	}
	return nil
}

// validateServerShape strictly checks the keys of the server section.
// Values are decoded and bounds-checked by resolveServer; this pass only
// rejects unknown keys, which the plain shell decode would drop.
func validateServerShape(raw map[string]any) error {
	rawServer, ok := raw["server"]
	if !ok || rawServer == nil {
		return nil
	}
	server, ok := rawServer.(map[string]any)
	if !ok {
		return NewValidationError("server", "a server options mapping", rawServer, ErrInvalidValue)
	}
	if err := checkKnownKeys("server", server, serverKeys); err != nil {
		return err
	}
	if v, ok := server["rate_limit"]; ok && v != nil {
		limits, ok := v.(map[string]any)
		if !ok {
			return NewValidationError("server.rate_limit", "a rate limit mapping", v, ErrInvalidValue)
		}
		return checkKnownKeys("server.rate_limit", limits, rateLimitKeys)
	}
	return nil
}

// checkKnownKeys rejects keys outside the allowed set. Keys are visited
// in sorted order so the reported path is deterministic.
func checkKnownKeys(path string, record map[string]any, allowed map[string]bool) error {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !allowed[key] {
			return NewValidationError(joinPath(path, key), "", nil, ErrUnknownKey)
		}
	}
	return nil
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// Field extractors. Each returns a typed value or a validation error
// carrying the full path, the expected kind and the supplied value.

func idField(record map[string]any, base string) (string, error) {
	path := joinPath(base, "id")
	v, ok := record["id"]
	if !ok {
		return "", NewValidationError(path, "a non-empty identifier", nil, ErrMissingRequiredField)
	}
	s, ok := v.(string)
	if !ok {
		return "", NewValidationError(path, "a string identifier", v, ErrInvalidValue)
	}
	if s == "" {
		return "", NewValidationError(path, "a non-empty identifier", nil, ErrMissingRequiredField)
	}
	return s, nil
}

func argsField(record map[string]any, base string) (map[string]any, error) {
	v, ok := record["args"]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, NewValidationError(joinPath(base, "args"), "an args mapping", v, ErrInvalidValue)
	}
	return m, nil
}

func retriesField(record map[string]any, base string) (RetryPolicy, error) {
	path := joinPath(base, "retries")
	v, ok := record["retries"]
	if !ok {
		return RetryPolicy{}, NewValidationError(path, "a retries mapping", nil, ErrMissingRequiredField)
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return RetryPolicy{}, NewValidationError(path, "a retries mapping", v, ErrInvalidValue)
	}
	if err := checkKnownKeys(path, rec, retriesKeys); err != nil {
		return RetryPolicy{}, err
	}

	attemptsRaw, ok := rec["attempts"]
	if !ok {
		return RetryPolicy{}, NewValidationError(joinPath(path, "attempts"), "a positive integer", nil, ErrMissingRequiredField)
	}
	attempts, err := intValue(joinPath(path, "attempts"), "a positive integer", attemptsRaw)
	if err != nil {
		return RetryPolicy{}, err
	}
	if attempts < 1 {
		return RetryPolicy{}, NewValidationError(joinPath(path, "attempts"), "a positive integer", attempts, ErrInvalidValue)
	}

	delayRaw, ok := rec["delay"]
	if !ok {
		return RetryPolicy{}, NewValidationError(joinPath(path, "delay"), "a non-negative number of seconds", nil, ErrMissingRequiredField)
	}
	delay, err := floatValue(joinPath(path, "delay"), "a non-negative number of seconds", delayRaw)
	if err != nil {
		return RetryPolicy{}, err
	}
	if delay < 0 {
		return RetryPolicy{}, NewValidationError(joinPath(path, "delay"), "a non-negative number of seconds", delay, ErrInvalidValue)
	}

	return RetryPolicy{Attempts: attempts, Delay: delay}, nil
}

func boolField(record map[string]any, base, key string) (bool, error) {
	path := joinPath(base, key)
	v, ok := record[key]
	if !ok {
		return false, NewValidationError(path, "a boolean", nil, ErrMissingRequiredField)
	}
	b, ok := v.(bool)
	if !ok {
		return false, NewValidationError(path, "a boolean", v, ErrInvalidValue)
	}
	return b, nil
}

func levelField(record map[string]any, base string) (LogLevel, error) {
	path := joinPath(base, "logs")
	expected := "one of " + strings.Join(LogLevelNames(), ", ")
	v, ok := record["logs"]
	if !ok {
		return "", NewValidationError(path, expected, nil, ErrMissingRequiredField)
	}
	s, ok := v.(string)
	if !ok {
		return "", NewValidationError(path, expected, v, ErrInvalidValue)
	}
	level := LogLevel(s)
	if !level.IsValid() {
		return "", NewValidationError(path, expected, s, ErrInvalidValue)
	}
	return level, nil
}

func entityField(record map[string]any, base string) (Entity, error) {
	path := joinPath(base, "entity")
	expected := "one of " + strings.Join(EntityNames(), ", ")
	v, ok := record["entity"]
	if !ok {
		return "", NewValidationError(path, expected, nil, ErrMissingRequiredField)
	}
	s, ok := v.(string)
	if !ok {
		return "", NewValidationError(path, expected, v, ErrInvalidValue)
	}
	entity := Entity(s)
	if !entity.IsValid() {
		return "", NewValidationError(path, expected, s, ErrInvalidValue)
	}
	return entity, nil
}

func apiField(record map[string]any, base string) (string, error) {
	path := joinPath(base, "api")
	expected := "an http(s) endpoint URL"
	v, ok := record["api"]
	if !ok {
		return "", NewValidationError(path, expected, nil, ErrMissingRequiredField)
	}
	s, ok := v.(string)
	if !ok {
		return "", NewValidationError(path, expected, v, ErrInvalidValue)
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", NewValidationError(path, expected, s, ErrInvalidValue)
	}
	return s, nil
}

func tokenField(record map[string]any, base string) (secrets.Secret, error) {
	v, ok := record["token"]
	if !ok || v == nil {
		return secrets.Secret{}, nil
	}
	secret, ok := secrets.FromAny(v)
	if !ok {
		return secrets.Secret{}, NewValidationError(joinPath(base, "token"), "a token string", v, ErrInvalidValue)
	}
	return secret, nil
}

func timezoneField(record map[string]any, base string) (string, error) {
	path := joinPath(base, "timezone")
	expected := "a valid IANA timezone"
	v, ok := record["timezone"]
	if !ok {
		return "", NewValidationError(path, expected, nil, ErrMissingRequiredField)
	}
	s, ok := v.(string)
	if !ok {
		return "", NewValidationError(path, expected, v, ErrInvalidValue)
	}
	if s == "" {
		return "", NewValidationError(path, expected, s, ErrInvalidValue)
	}
	if _, err := time.LoadLocation(s); err != nil {
		return "", NewValidationError(path, expected, s, ErrInvalidValue)
	}
	return s, nil
}

func handleField(record map[string]any, base string) (*string, error) {
	v, ok := record["handle"]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil, NewValidationError(joinPath(base, "handle"), "a non-empty string or null", v, ErrInvalidValue)
	}
	return &s, nil
}

func templateField(record map[string]any, base string) (*string, error) {
	path := joinPath(base, "template")
	expected := "a template name or http(s) URL, or null"
	v, ok := record["template"]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, NewValidationError(path, expected, v, ErrInvalidValue)
	}
	if !validTemplateRef(s) {
		return nil, NewValidationError(path, expected, s, ErrInvalidValue)
	}
	return &s, nil
}

// validTemplateRef reports whether s names a builtin template or is an
// http(s) URL pointing at a custom one
func validTemplateRef(s string) bool {
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	}
	return templateNamePattern.MatchString(s)
}

// checkHandleCombination enforces when a null handle is acceptable. A
// user target can fall back to the token owner at run time; organization
// and repository targets need an explicit handle, and repository handles
// carry the owner prefix.
func checkHandleCombination(plugin *PluginConfig, base string) error {
	path := joinPath(base, "handle")
	switch plugin.Entity {
	case EntityOrganization:
		if plugin.Handle == nil {
			return NewValidationError(path, "an organization handle when entity is organization", nil, ErrMissingRequiredField)
		}
	case EntityRepository:
		if plugin.Handle == nil {
			return NewValidationError(path, "an owner/repository handle when entity is repository", nil, ErrMissingRequiredField)
		}
		if !strings.Contains(*plugin.Handle, "/") {
			return NewValidationError(path, "an owner/repository handle", *plugin.Handle, ErrInvalidValue)
		}
	}
	return nil
}

func intValue(path, expected string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, NewValidationError(path, expected, v, ErrInvalidValue)
}

func floatValue(path, expected string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, NewValidationError(path, expected, v, ErrInvalidValue)
}
