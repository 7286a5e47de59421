package telemetry

import (
	"context"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"google.golang.org/grpc/credentials/insecure"
)

// newExporter builds the OTLP trace exporter for the configured
// protocol, gRPC unless http/protobuf was requested.
func newExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	if p := strings.ToLower(cfg.Protocol); p == "http/protobuf" || p == "http" {
		return newHTTPExporter(ctx, cfg)
	}
	return newGRPCExporter(ctx, cfg)
}

func newGRPCExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	var opts []otlptracegrpc.Option
	if cfg.Endpoint != "" {
		endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
		opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}
	if cfg.Insecure || strings.HasPrefix(cfg.Endpoint, "http://") {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}
	return otlptracegrpc.New(ctx, opts...)
}

func newHTTPExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	var opts []otlptracehttp.Option
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if strings.HasPrefix(endpoint, "http://") {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.New(ctx, opts...)
}

// buildResource tags spans with the service identity and host name.
func buildResource(cfg *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		attrs = append(attrs, semconv.HostName(hostname))
	}
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

// newSampler maps the OTEL_TRACES_SAMPLER name to an SDK sampler,
// defaulting to full sampling.
func newSampler(cfg *Config) trace.Sampler {
	switch cfg.Sampler {
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(parseRatio(cfg.SamplerArg))
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(parseRatio(cfg.SamplerArg)))
	default:
		return trace.AlwaysSample()
	}
}

// parseRatio clamps the sampler argument to [0, 1], defaulting to 1.
func parseRatio(s string) float64 {
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1.0
	}
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1.0
	}
	return ratio
}
