package config

import "log/slog"

// LogLevel defines component logging verbosity levels, ordered from
// silent to most verbose
type LogLevel string

const (
	// LogLevelNone disables component logging entirely
	LogLevelNone LogLevel = "none"
	// LogLevelError logs failures only
	LogLevelError LogLevel = "error"
	// LogLevelWarn logs failures and degraded behavior
	LogLevelWarn LogLevel = "warn"
	// LogLevelInfo logs high-level progress (default)
	LogLevelInfo LogLevel = "info"
	// LogLevelMessage logs per-item progress
	LogLevelMessage LogLevel = "message"
	// LogLevelDebug logs internal state transitions
	LogLevelDebug LogLevel = "debug"
	// LogLevelTrace logs everything including raw payloads
	LogLevelTrace LogLevel = "trace"
)

// logLevels lists all levels in order, silent first
var logLevels = []LogLevel{
	LogLevelNone,
	LogLevelError,
	LogLevelWarn,
	LogLevelInfo,
	LogLevelMessage,
	LogLevelDebug,
	LogLevelTrace,
}

// IsValid checks if the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelNone,
		LogLevelError,
		LogLevelWarn,
		LogLevelInfo,
		LogLevelMessage,
		LogLevelDebug,
		LogLevelTrace:
		return true
	default:
		return false
	}
}

// SlogLevel maps the level onto the slog scale. The message and trace
// levels have no slog counterpart and use the gaps below info and debug,
// while none maps above error so nothing is emitted.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelNone:
		return slog.LevelError + 4
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelMessage:
		return slog.LevelInfo - 2
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelTrace:
		return slog.LevelDebug - 4
	default:
		return slog.LevelInfo
	}
}

// LogLevelNames returns the valid level names in order, silent first
func LogLevelNames() []string {
	names := make([]string, len(logLevels))
	for i, l := range logLevels {
		names[i] = string(l)
	}
	return names
}

// Entity defines the account kinds a plugin can target
type Entity string

const (
	// EntityUser targets a user account
	EntityUser Entity = "user"
	// EntityOrganization targets an organization account
	EntityOrganization Entity = "organization"
	// EntityRepository targets a single repository
	EntityRepository Entity = "repository"
)

// IsValid checks if the entity kind is valid
func (e Entity) IsValid() bool {
	return e == EntityUser || e == EntityOrganization || e == EntityRepository
}

// EntityNames returns the valid entity kind names
func EntityNames() []string {
	return []string{string(EntityUser), string(EntityOrganization), string(EntityRepository)}
}
