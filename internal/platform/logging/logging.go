// Package logging builds the structured logger shared by the daemon.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the logger flavour. Tags omit the SHELFSIM_ prefix.
type Config struct {
	Mode  string `env:"LOG_MODE" envDefault:"dev"`
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// New returns a zap logger for mode ("dev" or "prod") at the given level.
func New(cfg Config) (*zap.Logger, error) {
	var zcfg zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "prod", "production":
		zcfg = zap.NewProductionConfig()
	case "", "dev", "development":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log mode %q", cfg.Mode)
	}

	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
