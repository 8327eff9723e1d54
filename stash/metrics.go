package stash

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Chunk actions recorded by Metrics.
const (
	actionCopy  = "copy"
	actionSkip  = "skip"
	actionRead  = "read"
	actionDrop  = "drop"
	actionWrite = "write"
)

// Metrics groups the collectors updated by every operation.
type Metrics struct {
	chunks   *prometheus.CounterVec
	payload  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the collectors registered with
// prometheus.DefaultRegisterer.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	chunks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pngfiles",
			Subsystem: "stash",
			Name:      "chunks_total",
			Help:      "PNG chunks handled, by operation and what was done with the chunk.",
		},
		[]string{"operation", "action"},
	)
	payload := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pngfiles",
			Subsystem: "stash",
			Name:      "payload_bytes_total",
			Help:      "Embedded file bytes written by encode or returned by decode.",
		},
		[]string{"operation"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pngfiles",
			Subsystem: "stash",
			Name:      "operation_duration_seconds",
			Help:      "The time spent in encode, decode, remove and list.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5, 30},
		},
		[]string{"operation", "result"},
	)

	return &Metrics{
		chunks:   registerOrGetMetric(chunks, "pngfiles_stash_chunks_total", reg).(*prometheus.CounterVec),
		payload:  registerOrGetMetric(payload, "pngfiles_stash_payload_bytes_total", reg).(*prometheus.CounterVec),
		duration: registerOrGetMetric(duration, "pngfiles_stash_operation_duration_seconds", reg).(*prometheus.HistogramVec),
	}
}

// registerOrGetMetric registers metric with reg and returns the collector
// already registered under the same description, if any.
func registerOrGetMetric(metric prometheus.Collector, name string, reg prometheus.Registerer) prometheus.Collector {
	if err := reg.Register(metric); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		log.Errorf("failed to register %s: %v", name, err)
	}
	return metric
}

func (m *Metrics) chunk(op, action string) {
	m.chunks.WithLabelValues(op, action).Inc()
}

func (m *Metrics) bytes(op string, n int64) {
	m.payload.WithLabelValues(op).Add(float64(n))
}

func (m *Metrics) observe(op string, err error, begin time.Time) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.duration.WithLabelValues(op, result).Observe(time.Since(begin).Seconds())
}
