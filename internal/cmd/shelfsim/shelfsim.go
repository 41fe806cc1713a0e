// Package shelfsim parses daemon flags and runs a simulation session.
package shelfsim

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"

	entrypoint "github.com/louisbranch/shelfsim/internal/platform/cmd"
	"github.com/louisbranch/shelfsim/internal/platform/logging"
	platformotel "github.com/louisbranch/shelfsim/internal/platform/otel"
	"github.com/louisbranch/shelfsim/internal/platform/timeouts"
	httpapi "github.com/louisbranch/shelfsim/internal/services/sim/api/http"
	"github.com/louisbranch/shelfsim/internal/services/sim/app"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/progression"
	"github.com/louisbranch/shelfsim/internal/services/sim/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds daemon configuration. Tags omit the SHELFSIM_ prefix.
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8090"`
	CatalogPath string `env:"CATALOG_PATH"`

	Storage app.StorageConfig
	Runtime app.RuntimeConfig
	Curve   progression.Curve
	Log     logging.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "Operations HTTP listen address (empty disables it)")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "Catalog YAML path (defaults to the embedded catalog)")
	fs.StringVar(&cfg.Storage.Driver, "storage", cfg.Storage.Driver, "Slot store driver: sqlite, bbolt, redis or memory")
	fs.StringVar(&cfg.Storage.Slot, "slot", cfg.Storage.Slot, "Save slot name")
	fs.DurationVar(&cfg.Runtime.Tick, "tick", cfg.Runtime.Tick, "Wall-clock duration of one tick")
	fs.IntVar(&cfg.Runtime.MinutesPerTick, "minutes-per-tick", cfg.Runtime.MinutesPerTick, "Simulated minutes per tick")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the session and serves it until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceShelfsim, func(ctx context.Context) error {
		return serve(ctx, cfg, serveHooks{})
	})
}

// serveHooks lets tests observe the listener and wrap the router.
type serveHooks struct {
	ready func(addr string)
	wrap  func(http.Handler) http.Handler
}

func serve(ctx context.Context, cfg Config, hooks serveHooks) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	store, closeStore, err := app.OpenStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close slot store", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	session, err := app.Open(ctx, app.Options{
		Catalog:    reg,
		Repository: storage.NewRepository(store, cfg.Storage.Slot),
		Curve:      cfg.Curve,
		Metrics:    app.NewMetrics(registry),
		Logger:     logger.Named("session"),
		Tracer:     platformotel.Tracer(),
	})
	if err != nil {
		return err
	}
	runtime, err := app.NewRuntime(session, cfg.Runtime, logger.Named("runtime"))
	if err != nil {
		return err
	}
	logger.Info("session ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("slot", cfg.Storage.Slot),
		zap.Bool("loaded", session.Loaded()),
	)

	var listener net.Listener
	if cfg.HTTPAddr != "" {
		listener, err = net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
		}
		logger.Info("operations http listening", zap.String("addr", listener.Addr().String()))
	}

	var handler http.Handler
	if listener != nil {
		handler = httpapi.New(session, registry, logger.Named("http")).Router()
		if hooks.wrap != nil {
			handler = hooks.wrap(handler)
		}
	}

	// The runtime owns the quit checkpoint, so it stops only after the HTTP
	// server has drained every in-flight mutation.
	runtimeCtx, stopRuntime := context.WithCancel(context.WithoutCancel(ctx))
	defer stopRuntime()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runtime.Run(runtimeCtx)
	})
	if listener != nil {
		server := &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		}
		g.Go(func() error {
			if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			defer stopRuntime()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), timeouts.Shutdown)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				// Drop connections still open after the grace period.
				_ = server.Close()
				return fmt.Errorf("shutdown http: %w", err)
			}
			return nil
		})
	} else {
		g.Go(func() error {
			<-gctx.Done()
			stopRuntime()
			return nil
		})
	}
	if hooks.ready != nil {
		addr := ""
		if listener != nil {
			addr = listener.Addr().String()
		}
		hooks.ready(addr)
	}

	return g.Wait()
}
