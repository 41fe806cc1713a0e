package app

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/shelfsim/internal/platform/logging"
	"go.uber.org/zap"
)

// RuntimeConfig controls the tick loop. Tags omit the SHELFSIM_ prefix.
type RuntimeConfig struct {
	Tick           time.Duration `env:"TICK" envDefault:"1s"`
	MinutesPerTick int           `env:"MINUTES_PER_TICK" envDefault:"1"`
}

// Runtime drives a session clock until its context ends.
type Runtime struct {
	session *Session
	cfg     RuntimeConfig
	logger  *zap.Logger
}

// NewRuntime validates cfg and returns a runtime for session.
func NewRuntime(session *Session, cfg RuntimeConfig, logger *zap.Logger) (*Runtime, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("tick must be positive, got %s", cfg.Tick)
	}
	if cfg.MinutesPerTick <= 0 {
		return nil, fmt.Errorf("minutes per tick must be positive, got %d", cfg.MinutesPerTick)
	}
	logger = logging.OrNop(logger)
	return &Runtime{session: session, cfg: cfg, logger: logger}, nil
}

// Run ticks until ctx is done, then writes the quit checkpoint. The quit
// checkpoint ignores ctx cancellation so it always completes.
func (r *Runtime) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Tick)
	defer ticker.Stop()

	r.logger.Info("runtime started",
		zap.Duration("tick", r.cfg.Tick),
		zap.Int("minutes_per_tick", r.cfg.MinutesPerTick),
	)
	for {
		select {
		case <-ctx.Done():
			if err := r.session.Checkpoint(context.WithoutCancel(ctx), ReasonQuit); err != nil {
				return fmt.Errorf("quit checkpoint: %w", err)
			}
			r.logger.Info("runtime stopped")
			return nil
		case <-ticker.C:
			r.session.Tick(r.cfg.MinutesPerTick)
		}
	}
}
