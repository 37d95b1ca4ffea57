package debugger

import (
	"strings"
	"time"
)

// Level is the severity of a LogEntry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Unavailable is recorded as agent or location when the environment cannot supply one.
const Unavailable = "Server"

// LogEntry is one captured event. Entries are values and are never modified
// after they are appended to a LogStore.
type LogEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Level     Level       `json:"level"`
	Message   string      `json:"message"`
	Context   interface{} `json:"context,omitempty"`
	UserAgent string      `json:"userAgent"`
	URL       string      `json:"url"`
}

// Valid reports whether l is one of the four defined severities.
func (l Level) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

func levelRank(level Level) int {
	switch level {
	case LevelDebug:
		return 0
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	default:
		return 1
	}
}

// LevelAtLeast reports whether level is at or above minLevel.
// An empty minLevel accepts everything.
func LevelAtLeast(level, minLevel Level) bool {
	if minLevel == "" {
		return true
	}
	return levelRank(level) >= levelRank(minLevel)
}

// ParseLevel parses a severity name. "warning" is accepted for warn.
func ParseLevel(value string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return "", false
	}
}
