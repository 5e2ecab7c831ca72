package httpapi

import (
	"context"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "payments handler", in: "httpapi.Handler.ListPayments", want: true},
		{name: "validation handler", in: "httpapi.Handler.ListValidation", want: true},
		{name: "warm cache job", in: "httpapi.Handler.RunWarmCacheJob", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "envelope helper", in: "httpapi.writeSuccess", want: false},
		{name: "blank", in: "  ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartSpan_UntracedRequestStaysSpanFree(t *testing.T) {
	ctx := context.Background()

	gotCtx, span := startSpan(ctx, "httpapi.Handler.ListFines")
	defer span.End()

	if gotCtx != ctx {
		t.Fatalf("expected untraced context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected no-op span without a parent trace")
	}
}
