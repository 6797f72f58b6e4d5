package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("prediction-league/internal/usecase")

// Ending this span is a no-op, so services can defer End unconditionally.
var usecasePassthroughSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan opens a child span under the request span. Calls that
// arrive without a recorded parent stay unspanned rather than starting
// orphan roots.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecasePassthroughSpan
	}
	return usecaseTracer.Start(ctx, name)
}
