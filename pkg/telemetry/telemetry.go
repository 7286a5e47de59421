// Package telemetry bootstraps the global OpenTelemetry TracerProvider
// from standard OTEL_* environment variables. When OTEL_ENABLED is not
// "true" the provider stays the default no-op one, so the spans the
// join/lookup drivers open cost nothing.
//
//	OTEL_ENABLED                 enable tracing (default false)
//	OTEL_SERVICE_NAME            service name (default "simjoin")
//	OTEL_SERVICE_VERSION         service version (default "unknown")
//	OTEL_EXPORTER_OTLP_ENDPOINT  OTLP collector endpoint
//	OTEL_EXPORTER_OTLP_PROTOCOL  "grpc" (default) or "http/protobuf"
//	OTEL_EXPORTER_OTLP_HEADERS   "k1=v1,k2=v2" auth headers
//	OTEL_EXPORTER_OTLP_INSECURE  plaintext connection (default false)
//	OTEL_TRACES_SAMPLER          sampler name (default always_on)
//	OTEL_TRACES_SAMPLER_ARG      sampler argument (ratio)
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	globalConfig *Config
	configOnce   sync.Once
)

// ShutdownFunc flushes and stops the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init wires the global TracerProvider per the environment. The
// environment is read once per process; every call with tracing enabled
// builds and installs a new provider.
func Init(ctx context.Context) (ShutdownFunc, error) {
	cfg := loadConfig()
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := buildResource(cfg)
	if err != nil {
		return noopShutdown, err
	}
	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(newSampler(cfg)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// Enabled reports whether tracing is on for this process.
func Enabled() bool { return loadConfig().Enabled }

// GetConfig returns the cached telemetry configuration.
func GetConfig() *Config { return loadConfig() }

func loadConfig() *Config {
	configOnce.Do(func() { globalConfig = LoadFromEnv() })
	return globalConfig
}
