// Package telemetry provides OpenTelemetry tracing exported to Honeycomb.
package telemetry

import (
	"context"
	"errors"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "turnbattle"
	serviceVersion = "0.1.0"

	// DefaultEndpoint is the Honeycomb OTLP/HTTP ingest endpoint.
	DefaultEndpoint = "https://api.honeycomb.io"
	// DefaultDataset is used when no dataset is configured.
	DefaultDataset = "turnbattle"
)

// ErrDisabled is returned by Setup when no API key is configured.
var ErrDisabled = errors.New("telemetry disabled: no api key")

// Options selects where spans are exported.
type Options struct {
	Endpoint string // OTLP/HTTP base URL, DefaultEndpoint if empty
	APIKey   string // Honeycomb team key; tracing is disabled without it
	Dataset  string // Honeycomb dataset, DefaultDataset if empty
}

// Headers returns the OTLP headers Honeycomb expects.
func (o Options) Headers() map[string]string {
	dataset := o.Dataset
	if dataset == "" {
		dataset = DefaultDataset
	}
	return map[string]string{
		"x-honeycomb-team":    o.APIKey,
		"x-honeycomb-dataset": dataset,
	}
}

// Setup installs a global tracer provider that batches spans to the OTLP
// HTTP exporter. It returns a shutdown function that flushes pending spans
// and should be called on application exit.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	if opts.APIKey == "" {
		return nil, ErrDisabled
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
		otlptracehttp.WithHeaders(opts.Headers()),
	)
	if err != nil {
		return nil, err
	}

	// Own resource, not merged with Default(), to avoid schema URL conflicts.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for the given component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer("turnbattle/" + name)
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("turnbattle/noop")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
