package logger

import "github.com/user/avatarcrop/pkg/ports"

var _ ports.Logger = (*NoopLogger)(nil)

// NoopLogger discards everything. The CLI uses it for --quiet and tests
// use it where log output is irrelevant.
type NoopLogger struct{}

// NewNoop creates a new no-op logger.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...interface{}) {}
func (l *NoopLogger) Info(msg string, args ...interface{})  {}
func (l *NoopLogger) Warn(msg string, args ...interface{})  {}
func (l *NoopLogger) Error(msg string, args ...interface{}) {}

// WithComponent returns l; there is no prefix to carry.
func (l *NoopLogger) WithComponent(component string) ports.Logger {
	return l
}
