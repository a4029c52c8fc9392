package prometheus

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/netwire/pkg/metrics"
)

func TestNewCodecMetrics_Disabled(t *testing.T) {
	metrics.Disable()
	assert.Nil(t, NewCodecMetrics())
}

func TestNewCodecMetrics_Enabled(t *testing.T) {
	metrics.InitRegistry()
	t.Cleanup(metrics.Disable)

	m := NewCodecMetrics()
	require.NotNil(t, m)

	m.ObserveDecode("ipv4", 24, 3*time.Microsecond, "")

	var buf bytes.Buffer
	require.NoError(t, metrics.WriteText(&buf))
	assert.Contains(t, buf.String(), `netwire_codec_operations_total{operation="decode",protocol="ipv4",status="ok"} 1`)
}

func TestCodecMetrics_Operations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newCodecMetrics(reg)

	m.ObserveDecode("ipv4", 60, time.Microsecond, "")
	m.ObserveDecode("ipv4", 60, time.Microsecond, "")
	m.ObserveDecode("ipv4", 3, time.Microsecond, "out_of_range")
	m.ObserveEncode("ipv6", 44, time.Microsecond, "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("decode", "ipv4", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("decode", "ipv4", "out_of_range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("encode", "ipv6", "ok")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.operations))
}

func TestCodecMetrics_HistogramsSkipEmptyInput(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newCodecMetrics(reg)

	m.ObserveDecode("unknown", 0, time.Microsecond, "out_of_range")

	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
	assert.Equal(t, 0, testutil.CollectAndCount(m.bytes))
}

func TestCodecMetrics_RoundTripAndOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newCodecMetrics(reg)

	m.RecordRoundTrip("ipv4", true)
	m.RecordRoundTrip("ipv4", false)
	m.RecordOption("ipv4", "Record Route")
	m.RecordOption("ipv4", "Record Route")

	expected := `
# HELP netwire_roundtrip_checks_total Total number of decode/encode round-trip checks by result
# TYPE netwire_roundtrip_checks_total counter
netwire_roundtrip_checks_total{protocol="ipv4",result="match"} 1
netwire_roundtrip_checks_total{protocol="ipv4",result="mismatch"} 1
`
	require.NoError(t, testutil.CollectAndCompare(m.roundTrips, strings.NewReader(expected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.options.WithLabelValues("ipv4", "Record Route")))
}

func TestCodecMetrics_NilSafe(t *testing.T) {
	var m *codecMetrics
	assert.NotPanics(t, func() {
		m.ObserveDecode("ipv4", 20, time.Microsecond, "")
		m.ObserveEncode("ipv4", 20, time.Microsecond, "")
		m.RecordRoundTrip("ipv4", true)
		m.RecordOption("ipv4", "No Operation")
	})
}
