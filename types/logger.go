package types

// Logger is the structured logger used throughout the service.
type Logger interface {
	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger
	Debug(msg string)
	Debugf(format string, args ...any)
	Info(msg string)
	Infof(format string, args ...any)
	Warn(msg string)
	Warnf(format string, args ...any)
	Error(msg string)
	Errorf(format string, args ...any)
}

// NoopLogger discards everything.
type NoopLogger struct{}

// NewNoopLogger returns a Logger that discards everything.
//
//nolint:ireturn
func NewNoopLogger() Logger {
	return NoopLogger{}
}

//nolint:ireturn
func (l NoopLogger) WithField(_ string, _ any) Logger { return l }

//nolint:ireturn
func (l NoopLogger) WithFields(_ map[string]any) Logger { return l }
func (NoopLogger) Debug(_ string)                       {}
func (NoopLogger) Debugf(_ string, _ ...any)            {}
func (NoopLogger) Info(_ string)                        {}
func (NoopLogger) Infof(_ string, _ ...any)             {}
func (NoopLogger) Warn(_ string)                        {}
func (NoopLogger) Warnf(_ string, _ ...any)             {}
func (NoopLogger) Error(_ string)                       {}
func (NoopLogger) Errorf(_ string, _ ...any)            {}
