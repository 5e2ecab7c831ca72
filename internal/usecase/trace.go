package usecase

import (
	"context"
	"strings"

	"github.com/j-evans1/CPR/internal/domain/sheet"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	sheetSourceAttr = attribute.Key("cpr.sheet.source")
	sheetRowsAttr   = attribute.Key("cpr.sheet.rows")
)

var usecaseTracer = otel.Tracer("cpr/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan only creates child spans; aggregations run outside a
// traced request (the report CLI, tests) stay span-free.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func sourceAttr(source sheet.Source) attribute.KeyValue {
	return sheetSourceAttr.String(string(source))
}
