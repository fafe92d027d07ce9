package temp

import "go.uber.org/zap"

// Logger denotes the minimal logging interface the sensor uses for its
// diagnostic output. *zap.SugaredLogger satisfies it directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// NullLogger discards all messages. It is the default.
type NullLogger struct{}

// Debugf fulfils the Logger interface
func (l *NullLogger) Debugf(format string, args ...interface{}) {}

// Infof fulfils the Logger interface
func (l *NullLogger) Infof(format string, args ...interface{}) {}

// Warnf fulfils the Logger interface
func (l *NullLogger) Warnf(format string, args ...interface{}) {}

// Errorf fulfils the Logger interface
func (l *NullLogger) Errorf(format string, args ...interface{}) {}

// Fatalf fulfils the Logger interface
func (l *NullLogger) Fatalf(format string, args ...interface{}) {}

// NewDefaultLogger instantiates a new zap backed logger. Debug mode enables
// development output, including the per-conversion diagnostics.
func NewDefaultLogger(debug bool) Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return logger.Sugar()
}
