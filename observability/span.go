package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/discoverykit/errors"
)

const instrumentationName = "github.com/kbukum/discoverykit"

// Span names.
const (
	SpanResolve  = "discovery.resolve"
	SpanRegister = "discovery.register"
	SpanStart    = "discovery.component.start"
)

// Span attribute keys.
const (
	ClientTypeKey  attribute.Key = "discovery.client_type"
	ServiceNameKey attribute.Key = "discovery.service_name"
	BindingKey     attribute.Key = "discovery.binding"
	SourceKey      attribute.Key = "discovery.source"
	ErrorCodeKey   attribute.Key = "error.code"
)

// StartSpan starts a span on the global tracer provider.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// Annotate sets attributes on the span in ctx if it is recording.
func Annotate(ctx context.Context, attrs ...attribute.KeyValue) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// RecordError fails the span in ctx and tags it with the error code.
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(ErrorCodeKey.String(string(errors.CodeOf(err))))
}
