package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("prediction-league/internal/interfaces/httpapi")

// Ending this span is a no-op, so call sites can defer End unconditionally.
var passthroughSpan = trace.SpanFromContext(context.Background())

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		// Filtered routes (health checks, docs) carry no recorded parent;
		// helpers must not open root spans for them.
		return ctx, passthroughSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, passthroughSpan
	}
	return apiTracer.Start(ctx, name)
}

// Only handler entry points get a child span of their own. Middleware and
// render helpers ride on the request span to keep traces shallow.
func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}
