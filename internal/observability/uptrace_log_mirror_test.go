package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/j-evans1/CPR/internal/domain/sheet"
	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	for _, path := range []string{"/healthz", "/metrics"} {
		if !shouldSkipUptraceLog("http_request", []any{"http_method", "GET", "http_path", path}) {
			t.Fatalf("expected %s request log to be skipped", path)
		}
	}
	if shouldSkipUptraceLog("http_request", []any{"http_path", "/v1/matches"}) {
		t.Fatalf("did not expect API request log to be skipped")
	}
	if shouldSkipUptraceLog("sheet fetched", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-http_request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"source", sheet.SourceFines, "rows", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "source" || attrs[0].Value.AsString() != string(sheet.SourceFines) {
		t.Fatalf("unexpected source attribute: %v", attrs[0].Value)
	}
	if attrs[1].Key != "rows" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected rows attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestBuildOTelLogAttributes_RedactsSecrets(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"Authorization", "Bearer abc", 7, "unnamed"})
	if attrs[0].Value.AsString() != redactedValue {
		t.Fatalf("expected authorization to be redacted, got %q", attrs[0].Value.AsString())
	}
	if attrs[1].Key != "arg_1" {
		t.Fatalf("expected positional key for non-string key, got %q", attrs[1].Key)
	}
}

func TestToOTelLogValue(t *testing.T) {
	if v := toOTelLogValue(1500*time.Millisecond, 0); v.AsString() != "1.5s" {
		t.Fatalf("unexpected duration value %q", v.AsString())
	}
	if v := toOTelLogValue(errors.New("boom"), 0); v.AsString() != "boom" {
		t.Fatalf("unexpected error value %q", v.AsString())
	}
	if v := toOTelLogValue(uint16(42), 0); v.AsInt64() != 42 {
		t.Fatalf("unexpected uint value %d", v.AsInt64())
	}

	v := toOTelLogValue(map[string]any{"rows": 11, "cached": true}, 0)
	if v.Kind() != otellog.KindMap || len(v.AsMap()) != 2 {
		t.Fatalf("expected 2-item map value, got %s", v.Kind())
	}
	if v := toOTelLogValue([]sheet.Source{sheet.SourceFines}, maxLogValueDepth); v.Kind() != otellog.KindString {
		t.Fatalf("expected string fallback past max depth, got %s", v.Kind())
	}
}
