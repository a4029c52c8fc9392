package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for codec operations.
const (
	AttrDecodeID   = "netwire.decode_id"
	AttrSource     = "netwire.source"
	AttrInputSize  = "netwire.input.size"
	AttrRoundTrip  = "netwire.round_trip"
	AttrErrorKind  = "netwire.error.kind"
	AttrErrorPos   = "netwire.error.position"
	AttrErrorField = "netwire.error.field"

	AttrIPVersion = "network.protocol.version"
	AttrProtocol  = "network.transport"
	AttrOptions   = "ip.options.count"
	AttrPayload   = "ip.payload.size"
)

// Span names.
const (
	SpanInspect = "netwire.inspect"
	SpanDecode  = "netwire.decode"
	SpanVerify  = "netwire.verify"
)

func DecodeID(id string) attribute.KeyValue {
	return attribute.String(AttrDecodeID, id)
}

func Source(s string) attribute.KeyValue {
	return attribute.String(AttrSource, s)
}

// InputSize returns an attribute for the raw input length in bytes
func InputSize(n int) attribute.KeyValue {
	return attribute.Int(AttrInputSize, n)
}

func RoundTrip(ok bool) attribute.KeyValue {
	return attribute.Bool(AttrRoundTrip, ok)
}

// ErrorKind returns an attribute for a codec error classification
func ErrorKind(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

// ErrorPosition returns an attribute for the byte:bit position of a failure
func ErrorPosition(pos string) attribute.KeyValue {
	return attribute.String(AttrErrorPos, pos)
}

func ErrorField(name string) attribute.KeyValue {
	return attribute.String(AttrErrorField, name)
}

func IPVersion(v int) attribute.KeyValue {
	return attribute.Int(AttrIPVersion, v)
}

// Protocol returns an attribute for the carried protocol name (UDP, TCP...)
func Protocol(name string) attribute.KeyValue {
	return attribute.String(AttrProtocol, name)
}

func Options(n int) attribute.KeyValue {
	return attribute.Int(AttrOptions, n)
}

func Payload(n int) attribute.KeyValue {
	return attribute.Int(AttrPayload, n)
}

// StartInspectSpan starts the top-level span of one inspect call.
func StartInspectSpan(ctx context.Context, decodeID, source string, size int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	base := []attribute.KeyValue{DecodeID(decodeID), InputSize(size)}
	if source != "" {
		base = append(base, Source(source))
	}
	return StartSpan(ctx, SpanInspect,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(append(base, attrs...)...),
	)
}

// StartCodecSpan starts a child span for a decode or verify step.
func StartCodecSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, name, trace.WithAttributes(attrs...))
}
