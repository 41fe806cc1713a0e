// Package otel wires OpenTelemetry tracing for the simulation daemon.
package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans created by this module.
const InstrumentationName = "github.com/louisbranch/shelfsim"

// Config controls trace export. Tags omit the SHELFSIM_ prefix.
type Config struct {
	Endpoint    string  `env:"OTEL_ENDPOINT"`
	Enabled     string  `env:"OTEL_ENABLED"`
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether cfg asks for a real exporter.
func (c Config) Active() bool {
	if strings.EqualFold(strings.TrimSpace(c.Enabled), "false") {
		return false
	}
	return strings.TrimSpace(c.Endpoint) != ""
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: with no endpoint, or Enabled set to "false", Setup
// returns a no-op shutdown function and leaves the global no-op provider in
// place, so Tracer still hands out usable (discarding) tracers.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(cfg.Endpoint)),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the module tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}
