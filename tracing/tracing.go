// Package tracing provides OpenTelemetry instrumentation for the fetch
// pipeline and its gRPC surface. It is entirely optional — spans are only
// created when a [Config] is wired in via the WithTracing options.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the OpenTelemetry configuration used by the fetch span helper
// and the gRPC tracing interceptor.
type Config struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider

	// Propagators extracts trace context from incoming carriers. When nil
	// the global otel.GetTextMapPropagator() is used.
	Propagators propagation.TextMapPropagator
}

// tracer returns a configured [trace.Tracer].
func (c *Config) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer("github.com/nordveil/goPageStash/tracing")
}

// propagators returns the configured propagator (or global default).
func (c *Config) propagators() propagation.TextMapPropagator {
	if c.Propagators != nil {
		return c.Propagators
	}
	return otel.GetTextMapPropagator()
}

// FetchSpan wraps one pass through the fetch pipeline. Created by
// [Config.StartFetch] and finished with [FetchSpan.End].
type FetchSpan struct {
	span trace.Span
}

// StartFetch opens a client span for a fetch of url and returns the derived
// context alongside the span. If cfg is nil the call is a no-op passthrough.
func (c *Config) StartFetch(ctx context.Context, url string) (context.Context, FetchSpan) {
	if c == nil {
		return ctx, FetchSpan{}
	}
	ctx, span := c.tracer().Start(ctx, "pagestash.Fetch", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("url.full", url))
	return ctx, FetchSpan{span: span}
}

// End records the outcome of the fetch and finishes the span. hit reports
// whether the request was served from cache.
func (s FetchSpan) End(hit bool, err error) {
	if s.span == nil {
		return
	}
	s.span.SetAttributes(attribute.Bool("cache.hit", hit))
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
