// Package cmd holds the startup plumbing shared by command entrypoints.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/shelfsim/internal/platform/config"
	"github.com/louisbranch/shelfsim/internal/platform/otel"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// ServiceShelfsim names the simulation daemon in telemetry and logs.
const ServiceShelfsim = "shelfsim"

// ParseConfig loads SHELFSIM_-prefixed environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnvPrefixed(cfg, config.EnvPrefix)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry configures tracing, executes run and flushes spans on the
// way out. Flushing uses a fresh context so a cancelled run still exports
// its final checkpoint span.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var otelCfg otel.Config
	if err := ParseConfig(&otelCfg); err != nil {
		return err
	}
	shutdown, err := otel.Setup(ctx, service, otelCfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultOTelShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()

	return run(ctx)
}
