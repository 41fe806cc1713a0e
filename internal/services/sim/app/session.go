// Package app composes the simulation components into a running session.
//
// Session is the composition root: it loads or initializes the aggregate
// state, rebuilds the live world, owns the single mutation lock and performs
// checkpoints.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/louisbranch/shelfsim/internal/platform/logging"
	platformotel "github.com/louisbranch/shelfsim/internal/platform/otel"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/clock"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/ledger"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/licensing"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/mission"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/notify"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/progression"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/world"
	"github.com/louisbranch/shelfsim/internal/services/sim/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Reason names what triggered a checkpoint.
type Reason string

const (
	ReasonPause   Reason = "pause"
	ReasonQuit    Reason = "quit"
	ReasonRequest Reason = "request"
)

// Options configures Open.
type Options struct {
	Catalog    *catalog.Registry
	Repository *storage.Repository
	Curve      progression.Curve
	Bus        *notify.Bus
	Metrics    *Metrics
	Logger     *zap.Logger
	Tracer     trace.Tracer
}

// Sim exposes the live components to mutations run through Session.Do.
type Sim struct {
	State       *state.State
	Catalog     *catalog.Registry
	Bus         *notify.Bus
	Ledger      *ledger.Ledger
	Progression *progression.Engine
	Missions    *mission.Machine
	Licensing   *licensing.Overlay
	Clock       *clock.Clock
	Stage       *world.Stage
}

// Session owns the aggregate state of one running simulation.
type Session struct {
	mu      sync.Mutex
	sim     Sim
	repo    *storage.Repository
	metrics *Metrics
	logger  *zap.Logger
	tracer  trace.Tracer
	paused  bool
	loaded  bool
}

// Open loads the saved state, or builds a fresh one from the catalog, and
// rebuilds the live world before returning.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if opts.Repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	curve := opts.Curve
	if curve == (progression.Curve{}) {
		curve = progression.DefaultCurve()
	}
	if err := curve.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	logger = logging.OrNop(logger)
	tracer := opts.Tracer
	if tracer == nil {
		tracer = platformotel.Tracer()
	}
	bus := opts.Bus
	if bus == nil {
		bus = notify.NewBus()
	}

	ctx, span := tracer.Start(ctx, "session.open")
	defer span.End()

	st, found, err := opts.Repository.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		st = world.NewState(opts.Catalog)
		logger.Info("starting fresh session", zap.String("store", st.Name), zap.String("slot", opts.Repository.Slot()))
	}
	span.SetAttributes(attribute.Bool("shelfsim.save.found", found))

	l := ledger.New(st, bus)
	stage := world.NewStage(opts.Catalog, world.NewParticipants(), logger.Named("world"))
	s := &Session{
		sim: Sim{
			State:       st,
			Catalog:     opts.Catalog,
			Bus:         bus,
			Ledger:      l,
			Progression: progression.New(st, curve, bus),
			Missions:    mission.New(st, opts.Catalog, l, bus, logger.Named("mission")),
			Licensing:   licensing.New(st, opts.Catalog, l, bus, logger.Named("licensing")),
			Clock:       clock.New(st, opts.Catalog, bus),
			Stage:       stage,
		},
		repo:    opts.Repository,
		metrics: opts.Metrics,
		logger:  logger,
		tracer:  tracer,
		loaded:  found,
	}

	bus.OnBalanceChanged(func(c state.Cents) { s.metrics.SetBalance(int64(c)) })
	bus.OnLevelUp(func(level int) {
		s.metrics.SetLevel(level)
		s.logger.Info("level up", zap.Int("level", level))
	})
	bus.OnDayClosed(func(p state.Period) {
		s.metrics.IncrementDaysClosed()
		s.logger.Info("day closed",
			zap.Int64("revenue", int64(p.Revenue)),
			zap.Int64("spending", int64(p.Spending)),
			zap.Int64("opening_balance", int64(p.OpeningBalance)),
		)
	})

	if found {
		report := stage.Rebuild(st, l)
		span.SetAttributes(
			attribute.Int("shelfsim.world.fixtures", report.Fixtures),
			attribute.Int("shelfsim.world.crates", report.Crates),
			attribute.Int("shelfsim.world.skipped", report.Skipped),
		)
		if gained := s.sim.Progression.Settle(); gained > 0 {
			logger.Warn("save owed level-ups under the configured curve",
				zap.Int("levels", gained),
				zap.Int("level", st.Level),
			)
		}
		fields := []zap.Field{zap.String("slot", opts.Repository.Slot()), zap.Int("day", st.Day)}
		if savedAt, ok, err := opts.Repository.SavedAt(ctx); err != nil {
			logger.Warn("read save time", zap.Error(err))
		} else if ok {
			fields = append(fields, zap.Time("saved_at", savedAt))
			span.SetAttributes(attribute.String("shelfsim.save.saved_at", savedAt.Format(time.RFC3339)))
		}
		logger.Info("resuming saved session", fields...)
	}
	s.metrics.SetBalance(int64(st.Balance))
	s.metrics.SetLevel(st.Level)
	return s, nil
}

// Loaded reports whether the session came from a saved slot.
func (s *Session) Loaded() bool {
	return s.loaded
}

// Do runs fn on the mutation thread.
func (s *Session) Do(fn func(*Sim) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.sim)
}

// Checkpoint gathers every participant into the state and persists it.
func (s *Session) Checkpoint(ctx context.Context, reason Reason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpointLocked(ctx, reason)
}

func (s *Session) checkpointLocked(ctx context.Context, reason Reason) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "session.checkpoint",
		trace.WithAttributes(attribute.String("shelfsim.checkpoint.reason", string(reason))),
	)
	defer func() {
		s.metrics.ObserveCheckpoint(reason, err, start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "checkpoint failed")
			s.logger.Error("checkpoint failed", zap.String("reason", string(reason)), zap.Error(err))
		} else {
			s.logger.Debug("checkpoint written", zap.String("reason", string(reason)), zap.Duration("took", time.Since(start)))
		}
		span.End()
	}()

	s.sim.Stage.Participants().Gather(s.sim.State)
	span.SetAttributes(
		attribute.Int("shelfsim.state.placed_objects", len(s.sim.State.PlacedObjects)),
		attribute.Int("shelfsim.state.containers", len(s.sim.State.Containers)),
	)
	return s.repo.Save(ctx, s.sim.State)
}

// Pause writes a pause checkpoint and stops the clock. The clock keeps
// running when the checkpoint fails, so a later Pause retries the save.
// Pausing an already paused session does nothing.
func (s *Session) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return nil
	}
	if err := s.checkpointLocked(ctx, ReasonPause); err != nil {
		return err
	}
	s.paused = true
	return nil
}

// Resume restarts the clock.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
}

// Paused reports whether the clock is stopped.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Tick advances the clock unless paused and returns the days closed.
func (s *Session) Tick(minutes int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return 0
	}
	return s.sim.Clock.Advance(minutes)
}

// AdvanceMission claims the reward of the completed mission and activates
// the next one.
func (s *Session) AdvanceMission() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Missions.Advance()
}

// PurchaseLicense buys the named license.
func (s *Session) PurchaseLicense(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Licensing.PurchaseLicense(name)
}
