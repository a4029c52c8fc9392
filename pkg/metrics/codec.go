package metrics

import (
	"time"
)

// CodecMetrics provides observability for packet decoding and encoding.
//
// This interface is optional. Pass nil to disable metrics collection;
// callers check for nil before recording.
//
// Example usage:
//
//	metrics.InitRegistry()
//	m := prometheus.NewCodecMetrics()
//	insp := inspect.New(inspect.Options{Metrics: m})
type CodecMetrics interface {
	// ObserveDecode records one decode attempt.
	//
	// Parameters:
	//   - protocol: "ipv4", "ipv6" or "unknown" when the version nibble was bad
	//   - bytes: input size
	//   - duration: time spent decoding
	//   - errorKind: wire.Kind name of the failure, empty on success
	ObserveDecode(protocol string, bytes int, duration time.Duration, errorKind string)

	// ObserveEncode records one encode attempt, with the same parameters
	// as ObserveDecode.
	ObserveEncode(protocol string, bytes int, duration time.Duration, errorKind string)

	// RecordRoundTrip records the outcome of re-encoding a decoded packet
	// and comparing it with the input.
	RecordRoundTrip(protocol string, match bool)

	// RecordOption counts one decoded header option by its catalog name.
	RecordOption(protocol string, option string)
}
