package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = newDevelopment()

func newDevelopment() *zap.SugaredLogger {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic("cannot initialize zap")
	}
	return l.Sugar()
}

// Init replaces the process logger. Production builds log JSON; everything
// else uses the human readable development encoder.
func Init(level string, production bool) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	if production {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	logger = l.Sugar()
	return logger, nil
}

// L returns the process logger
func L() *zap.SugaredLogger {
	return logger
}

// SetLogger swaps the process logger (primarily for testing)
func SetLogger(l *zap.SugaredLogger) {
	logger = l
}
