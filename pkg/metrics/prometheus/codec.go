package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/netwire/pkg/metrics"
)

// codecMetrics is the Prometheus implementation of metrics.CodecMetrics.
type codecMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	bytes      *prometheus.HistogramVec
	roundTrips *prometheus.CounterVec
	options    *prometheus.CounterVec
}

// NewCodecMetrics creates a new Prometheus-backed CodecMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewCodecMetrics() metrics.CodecMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	return newCodecMetrics(metrics.GetRegistry())
}

func newCodecMetrics(reg prometheus.Registerer) *codecMetrics {
	return &codecMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "netwire_codec_operations_total",
				Help: "Total number of decode and encode operations by protocol and outcome",
			},
			[]string{"operation", "protocol", "status"}, // status: "ok" or a wire error kind
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "netwire_codec_duration_microseconds",
				Help: "Duration of decode and encode operations in microseconds",
				Buckets: []float64{
					1,    // header-only packets
					5,    // 5us
					10,   // 10us
					50,   // 50us
					100,  // 100us
					500,  // 500us
					1000, // 1ms - jumbo payloads
				},
			},
			[]string{"operation", "protocol"},
		),
		bytes: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "netwire_codec_bytes",
				Help: "Distribution of packet sizes seen by the codec",
				Buckets: []float64{
					20,    // bare IPv4 header
					40,    // bare IPv6 header
					60,    // IPv4 header with full options
					576,   // IPv4 minimum reassembly size
					1280,  // IPv6 minimum MTU
					1500,  // Ethernet MTU
					9000,  // jumbo frame
					65535, // largest IPv4 datagram
				},
			},
			[]string{"operation", "protocol"},
		),
		roundTrips: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "netwire_roundtrip_checks_total",
				Help: "Total number of decode/encode round-trip checks by result",
			},
			[]string{"protocol", "result"}, // result: "match", "mismatch"
		),
		options: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "netwire_header_options_total",
				Help: "Total number of decoded header options by name",
			},
			[]string{"protocol", "option"},
		),
	}
}

func (m *codecMetrics) observe(op, protocol string, bytes int, duration time.Duration, errorKind string) {
	status := "ok"
	if errorKind != "" {
		status = errorKind
	}
	m.operations.WithLabelValues(op, protocol, status).Inc()
	m.duration.WithLabelValues(op, protocol).Observe(float64(duration.Nanoseconds()) / 1000)
	if bytes > 0 {
		m.bytes.WithLabelValues(op, protocol).Observe(float64(bytes))
	}
}

func (m *codecMetrics) ObserveDecode(protocol string, bytes int, duration time.Duration, errorKind string) {
	if m == nil {
		return
	}
	m.observe("decode", protocol, bytes, duration, errorKind)
}

func (m *codecMetrics) ObserveEncode(protocol string, bytes int, duration time.Duration, errorKind string) {
	if m == nil {
		return
	}
	m.observe("encode", protocol, bytes, duration, errorKind)
}

func (m *codecMetrics) RecordRoundTrip(protocol string, match bool) {
	if m == nil {
		return
	}
	result := "match"
	if !match {
		result = "mismatch"
	}
	m.roundTrips.WithLabelValues(protocol, result).Inc()
}

func (m *codecMetrics) RecordOption(protocol string, option string) {
	if m == nil {
		return
	}
	m.options.WithLabelValues(protocol, option).Inc()
}
