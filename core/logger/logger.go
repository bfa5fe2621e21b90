package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	// Set format based on configuration
	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// Track logs msg at debug level and returns a function that logs it again at
// info level with the elapsed time and any extra fields.
//
//	done := logger.Track(l, "comparison")
//	defer done(zap.Int("rows", n))
func Track(l *zap.Logger, msg string, fields ...zap.Field) func(...zap.Field) {
	start := time.Now()
	l.Debug(msg+" started", fields...)
	return func(extra ...zap.Field) {
		all := append(append([]zap.Field{}, fields...), extra...)
		all = append(all, zap.Duration("elapsed", time.Since(start)))
		l.Info(msg, all...)
	}
}
