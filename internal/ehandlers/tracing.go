package ehandlers

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/ehandlers/internal/logging"
)

// recordSpanError attaches err to the span in ctx, if one is recording.
// Error and critical entries also mark the span as failed.
func recordSpanError(ctx context.Context, err error, level logging.Level) {
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err, trace.WithAttributes(
		attribute.String("ehandlers.level", level.String()),
		attribute.String("ehandlers.error_type", typeName(err)),
	))
	if level >= logging.ErrorLevel {
		span.SetStatus(codes.Error, err.Error())
	}
}
