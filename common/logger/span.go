package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "intent-relay"

// SpanContext pairs a span with the context that carries it. End is nil-safe.
type SpanContext struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan starts a child of whatever span ctx carries.
//
//	sc := logger.StartSpan(ctx, "automation.dispatch_task", trace.WithSpanKind(trace.SpanKindClient))
//	defer sc.End()
//	ctx = sc.Context()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) *SpanContext {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, opts...)
	return &SpanContext{ctx: ctx, span: span}
}

// StartSpanFromTraceID continues a trace whose ID arrived out of band, such as the
// trace_id field of an audit stream entry. An empty or malformed ID starts a new
// root span instead.
func StartSpanFromTraceID(ctx context.Context, traceIDHex string, name string, opts ...trace.SpanStartOption) *SpanContext {
	traceID, err := trace.TraceIDFromHex(traceIDHex)
	if traceIDHex == "" || err != nil {
		return StartSpan(ctx, name, opts...)
	}

	remote := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     remoteSpanID(traceID),
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	opts = append(opts, trace.WithLinks(trace.Link{SpanContext: remote}))
	return StartSpan(trace.ContextWithRemoteSpanContext(ctx, remote), name, opts...)
}

// remoteSpanID stands in for the unknown upstream span. A span context without a
// span ID is invalid, and tracers then start a fresh trace instead of continuing it.
func remoteSpanID(traceID trace.TraceID) trace.SpanID {
	var sid trace.SpanID
	copy(sid[:], traceID[8:])
	if !sid.IsValid() {
		sid[7] = 1
	}
	return sid
}

func (sc *SpanContext) Context() context.Context {
	return sc.ctx
}

func (sc *SpanContext) End() {
	if sc.span != nil {
		sc.span.End()
	}
}

// RecordError records err and marks the span failed.
func (sc *SpanContext) RecordError(err error) {
	if sc.span == nil || err == nil {
		return
	}
	sc.span.RecordError(err)
	sc.span.SetStatus(codes.Error, err.Error())
}

func (sc *SpanContext) SetAttributes(kv ...attribute.KeyValue) {
	if sc.span != nil {
		sc.span.SetAttributes(kv...)
	}
}
