package logger

import (
	"fmt"
	"log/slog"
	"time"
)

// Standard field keys for structured logging. Use these keys consistently
// so decode logs can be aggregated and queried.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Decode Request
	// ========================================================================
	KeyDecodeID  = "decode_id"  // Per-call identifier (UUID)
	KeySource    = "source"     // Input origin: file path, "stdin", "arg"
	KeyProtocol  = "protocol"   // Decoded protocol: ipv4, ipv6, ndr
	KeyOperation = "operation"  // decode, encode, verify
	KeyVersion   = "ip_version" // IP version nibble

	// ========================================================================
	// Wire Data
	// ========================================================================
	KeySize      = "size"       // Input size in bytes
	KeyLimit     = "limit"      // Configured size limit in bytes
	KeyPosition  = "position"   // Cursor position as byte:bit
	KeyField     = "field"      // Layout field or option name
	KeyOptions   = "options"    // Number of decoded options
	KeyPayload   = "payload"    // Payload size in bytes
	KeyCharset   = "charset"    // Text encoding
	KeyRoundTrip = "round_trip" // Re-encoding reproduced the input

	// ========================================================================
	// Outcome
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorKind  = "error_kind"  // Codec error classification
	KeyPath       = "path"        // Config or output file path
)

// ----------------------------------------------------------------------------
// Distributed Tracing
// ----------------------------------------------------------------------------

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// ----------------------------------------------------------------------------
// Decode Request
// ----------------------------------------------------------------------------

func DecodeID(id string) slog.Attr {
	return slog.String(KeyDecodeID, id)
}

func Source(s string) slog.Attr {
	return slog.String(KeySource, s)
}

// Protocol returns a slog.Attr for the decoded protocol (ipv4, ipv6, ndr)
func Protocol(proto string) slog.Attr {
	return slog.String(KeyProtocol, proto)
}

func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// IPVersion returns a slog.Attr for the IP version nibble
func IPVersion(v int) slog.Attr {
	return slog.Int(KeyVersion, v)
}

// ----------------------------------------------------------------------------
// Wire Data
// ----------------------------------------------------------------------------

// Size returns a slog.Attr for an input size in bytes
func Size(n int) slog.Attr {
	return slog.Int(KeySize, n)
}

func Limit(n int) slog.Attr {
	return slog.Int(KeyLimit, n)
}

// Position returns a slog.Attr for a cursor position. Any fmt.Stringer
// works; wire.Position renders as byte:bit.
func Position(p fmt.Stringer) slog.Attr {
	return slog.String(KeyPosition, p.String())
}

func Field(name string) slog.Attr {
	return slog.String(KeyField, name)
}

func Options(n int) slog.Attr {
	return slog.Int(KeyOptions, n)
}

func Payload(n int) slog.Attr {
	return slog.Int(KeyPayload, n)
}

func Charset(name string) slog.Attr {
	return slog.String(KeyCharset, name)
}

// RoundTrip returns a slog.Attr for the result of re-encoding verification
func RoundTrip(ok bool) slog.Attr {
	return slog.Bool(KeyRoundTrip, ok)
}

// ----------------------------------------------------------------------------
// Outcome
// ----------------------------------------------------------------------------

// DurationMs returns a slog.Attr for an elapsed time in milliseconds
func DurationMs(start time.Time) slog.Attr {
	return slog.Float64(KeyDurationMs, Duration(start))
}

// Err returns a slog.Attr for an error. A nil error yields an empty attr,
// which handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

func ErrorKind(kind string) slog.Attr {
	return slog.String(KeyErrorKind, kind)
}

func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}
