// Package inspect wraps the pure packet codecs with the concerns a caller
// running them on untrusted input needs: an input size limit, context
// cancellation, decode IDs, structured logs, trace spans, metrics and an
// optional decode/encode round-trip check.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/marmos91/netwire/internal/logger"
	"github.com/marmos91/netwire/internal/telemetry"
	"github.com/marmos91/netwire/pkg/bufpool"
	"github.com/marmos91/netwire/pkg/ip"
	"github.com/marmos91/netwire/pkg/ip/ipv4"
	"github.com/marmos91/netwire/pkg/metrics"
	"github.com/marmos91/netwire/pkg/wire"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
)

// DefaultMaxPacketSize is the largest datagram an IPv4 total length can
// describe.
const DefaultMaxPacketSize = 65535

// ErrTooLarge is returned for input longer than Options.MaxPacketSize.
var ErrTooLarge = errors.New("inspect: input exceeds max packet size")

// Options configures an Inspector. The zero value is usable.
type Options struct {
	// MaxPacketSize rejects larger inputs before decoding. Zero means
	// DefaultMaxPacketSize.
	MaxPacketSize int

	// VerifyRoundTrip re-encodes every decoded packet and compares the
	// result with the input.
	VerifyRoundTrip bool

	// Charset renders the payload as text in reports. Payloads that are
	// not valid in the charset are left out.
	Charset wire.Charset

	// Metrics is optional; nil disables collection.
	Metrics metrics.CodecMetrics

	// Pool provides verification buffers. Nil uses the global pool.
	Pool *bufpool.Pool
}

// Inspector decodes packets. It is safe for concurrent use.
type Inspector struct {
	opts Options
}

// New creates an Inspector.
func New(opts Options) *Inspector {
	if opts.MaxPacketSize <= 0 {
		opts.MaxPacketSize = DefaultMaxPacketSize
	}
	return &Inspector{opts: opts}
}

// MaxPacketSize returns the effective input limit.
func (in *Inspector) MaxPacketSize() int {
	return in.opts.MaxPacketSize
}

// Inspect decodes buf. The source recorded in logs and spans is taken
// from a logger.LogContext on ctx when one is present.
func (in *Inspector) Inspect(ctx context.Context, buf []byte) (*Report, error) {
	source := "buffer"
	if lc := logger.FromContext(ctx); lc != nil && lc.Source != "" {
		source = lc.Source
	}
	return in.inspect(ctx, source, buf)
}

// InspectReader reads at most MaxPacketSize bytes from r into a pooled
// buffer and inspects them. Input beyond the limit fails with ErrTooLarge.
func (in *Inspector) InspectReader(ctx context.Context, source string, r io.Reader) (*Report, error) {
	buf := in.get(in.opts.MaxPacketSize + 1)
	defer in.put(buf)

	n, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s has more than %d bytes", ErrTooLarge, source, in.opts.MaxPacketSize)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	// Decoders copy what they keep, so buf can go back to the pool on return.
	return in.inspect(ctx, source, buf[:n])
}

func (in *Inspector) inspect(ctx context.Context, source string, buf []byte) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	decodeID := uuid.NewString()

	ctx, span := telemetry.StartInspectSpan(ctx, decodeID, source, len(buf))
	defer span.End()

	lc := logger.NewLogContext(decodeID, source).WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	ctx = logger.WithContext(ctx, lc)

	if len(buf) > in.opts.MaxPacketSize {
		err := fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(buf), in.opts.MaxPacketSize)
		telemetry.RecordError(ctx, err)
		logger.DebugCtx(ctx, "input rejected", logger.Size(len(buf)), logger.Limit(in.opts.MaxPacketSize))
		return nil, err
	}

	pkt, err := in.decode(ctx, buf)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithContext(ctx, lc.WithProtocol(protocolName(pkt.IPVersion())))

	report := &Report{
		DecodeID:     decodeID,
		Source:       source,
		Size:         len(buf),
		Version:      pkt.IPVersion(),
		Summary:      pkt.String(),
		Fields:       fieldRows(pkt),
		Packet:       pkt,
		Verification: Verification{Offset: -1},
	}
	payload := payloadOf(pkt)
	report.PayloadSize = len(payload)
	if len(payload) > 0 {
		if text, err := in.opts.Charset.Decode(payload); err == nil {
			report.PayloadText = text
		}
	}
	if v4, ok := pkt.(*ipv4.Packet); ok {
		report.Options = optionRows(v4)
		report.OptionPad = len(v4.OptionPadding)
		if in.opts.Metrics != nil {
			for _, o := range v4.Options {
				in.opts.Metrics.RecordOption(protocolName(ipv4.Version), o.Name)
			}
		}
	}
	telemetry.SetAttributes(ctx,
		telemetry.IPVersion(report.Version),
		telemetry.Options(len(report.Options)),
		telemetry.Payload(report.PayloadSize),
	)

	if in.opts.VerifyRoundTrip {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Verification = in.verify(ctx, pkt, buf)
	}

	report.Duration = time.Since(start)
	logger.DebugCtx(ctx, "packet decoded",
		logger.IPVersion(report.Version),
		logger.Options(len(report.Options)),
		logger.Payload(report.PayloadSize),
		logger.DurationMs(start),
	)
	return report, nil
}

func (in *Inspector) decode(ctx context.Context, buf []byte) (ip.Packet, error) {
	version, _ := ip.Version(buf)
	ctx, span := telemetry.StartCodecSpan(ctx, telemetry.SpanDecode, telemetry.IPVersion(version))
	defer span.End()

	start := time.Now()
	pkt, err := ip.Decode(buf)
	elapsed := time.Since(start)

	kind := ""
	if err != nil {
		kind = wire.KindOf(err).String()
	}
	if in.opts.Metrics != nil {
		in.opts.Metrics.ObserveDecode(protocolName(version), len(buf), elapsed, kind)
	}

	if err != nil {
		telemetry.RecordError(ctx, err)
		telemetry.SetAttributes(ctx, errorAttrs(err)...)
		logger.DebugCtx(ctx, "decode failed", logger.Err(err), logger.ErrorKind(kind), logger.Size(len(buf)))
		return nil, err
	}
	return pkt, nil
}

func (in *Inspector) verify(ctx context.Context, pkt ip.Packet, input []byte) Verification {
	ctx, span := telemetry.StartCodecSpan(ctx, telemetry.SpanVerify)
	defer span.End()

	protocol := protocolName(pkt.IPVersion())
	scratch := in.get(len(input))
	defer in.put(scratch)

	w := bitcursor.NewWriterBuffer(scratch)
	start := time.Now()
	err := pkt.EncodeTo(w)
	elapsed := time.Since(start)

	v := Verification{Checked: true, Offset: -1, Encoded: w.Len()}
	kind := ""
	switch {
	case err != nil && wire.KindOf(err) == wire.KindOutOfRange:
		// The packet encodes to more bytes than it was decoded from.
		v.Error = err.Error()
		v.Offset = len(input)
		kind = wire.KindOutOfRange.String()
	case err != nil:
		v.Error = err.Error()
		kind = wire.KindOf(err).String()
	default:
		v.Offset = firstDiff(w.Bytes(), input)
		v.Match = v.Offset < 0
	}

	if in.opts.Metrics != nil {
		in.opts.Metrics.ObserveEncode(protocol, v.Encoded, elapsed, kind)
		in.opts.Metrics.RecordRoundTrip(protocol, v.Match)
	}
	telemetry.SetAttributes(ctx, telemetry.RoundTrip(v.Match))

	if !v.Match {
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
		logger.WarnCtx(ctx, "round trip mismatch",
			logger.RoundTrip(false), logger.Size(len(input)), logger.Err(err))
	}
	return v
}

func (in *Inspector) get(n int) []byte {
	if in.opts.Pool != nil {
		return in.opts.Pool.Get(n)
	}
	return bufpool.Get(n)
}

func (in *Inspector) put(b []byte) {
	if in.opts.Pool != nil {
		in.opts.Pool.Put(b)
		return
	}
	bufpool.Put(b)
}

// firstDiff returns the index of the first differing byte, or -1 when a
// and b are equal.
func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

func protocolName(version int) string {
	switch version {
	case 4:
		return "ipv4"
	case 6:
		return "ipv6"
	default:
		return "unknown"
	}
}

func errorAttrs(err error) []attribute.KeyValue {
	attrs := []attribute.KeyValue{telemetry.ErrorKind(wire.KindOf(err).String())}
	if pos, ok := wire.PositionOf(err); ok {
		attrs = append(attrs, telemetry.ErrorPosition(pos.String()))
	}
	var we *wire.Error
	if errors.As(err, &we) && we.Field != "" {
		attrs = append(attrs, telemetry.ErrorField(we.Field))
	}
	return attrs
}
