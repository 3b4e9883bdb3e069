package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/user/avatarcrop/pkg/ports"
)

// LogEntry is a message captured by Logger.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Message   string
}

// Logger is a ports.Logger that records formatted messages.
type Logger struct {
	component string
	store     *logStore
}

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogger creates a recording logger.
func NewLogger() *Logger {
	return &Logger{store: &logStore{}}
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.record(ports.LevelDebug, msg, args) }
func (m *Logger) Info(msg string, args ...interface{})  { m.record(ports.LevelInfo, msg, args) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.record(ports.LevelWarn, msg, args) }
func (m *Logger) Error(msg string, args ...interface{}) { m.record(ports.LevelError, msg, args) }

func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{component: component, store: m.store}
}

func (m *Logger) record(level ports.LogLevel, msg string, args []interface{}) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.entries = append(m.store.entries, LogEntry{
		Level:     level,
		Component: m.component,
		Message:   fmt.Sprintf(msg, args...),
	})
}

// Entries returns the recorded entries at or above level.
func (m *Logger) Entries(level ports.LogLevel) []LogEntry {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []LogEntry
	for _, e := range m.store.entries {
		if e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether a message at level contains substr.
func (m *Logger) Contains(level ports.LogLevel, substr string) bool {
	for _, e := range m.Entries(level) {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

var _ ports.Logger = (*Logger)(nil)
