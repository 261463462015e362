package observability

import "testing"

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc ,bad, =x,team=core")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "core" {
		t.Fatalf("headers=%v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestOtelConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_SAMPLER_RATIO", "7")
	cfg := OtelConfigFromEnv("svc")
	if !cfg.Enabled || cfg.Endpoint != "collector:4318" || cfg.SampleRatio != 1 || cfg.ServiceName != "svc" {
		t.Fatalf("cfg=%+v", cfg)
	}
}
