package telemetry

import (
	"os"
	"strings"
)

// Config is the telemetry configuration as read from the environment.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Protocol       string
	Headers        map[string]string
	Insecure       bool
	Sampler        string
	SamplerArg     string
}

// LoadFromEnv reads the OTEL_* variables.
func LoadFromEnv() *Config {
	return &Config{
		Enabled:        strings.EqualFold(os.Getenv("OTEL_ENABLED"), "true"),
		ServiceName:    envOr("OTEL_SERVICE_NAME", "simjoin"),
		ServiceVersion: envOr("OTEL_SERVICE_VERSION", "unknown"),
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Protocol:       envOr("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
		Headers:        parsePairs(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Insecure:       strings.EqualFold(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"), "true"),
		Sampler:        os.Getenv("OTEL_TRACES_SAMPLER"),
		SamplerArg:     os.Getenv("OTEL_TRACES_SAMPLER_ARG"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parsePairs parses "k1=v1,k2=v2"; values may contain '='.
func parsePairs(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(pair[:idx])
		if key != "" {
			out[key] = strings.TrimSpace(pair[idx+1:])
		}
	}
	return out
}
