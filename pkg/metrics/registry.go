package metrics

import (
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates the process-wide registry and enables metrics.
// Constructors in the prometheus subpackage return nil until it is called,
// and a nil collector costs nothing to call.
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	registry = prometheus.NewRegistry()
	return registry
}

// GetRegistry returns the registry, or nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}

// Disable drops the registry. Collectors created earlier keep working but
// are no longer gathered.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	registry = nil
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format. It writes nothing when metrics are disabled.
func WriteText(w io.Writer) error {
	reg := GetRegistry()
	if reg == nil {
		return nil
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
