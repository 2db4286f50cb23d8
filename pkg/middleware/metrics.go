package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	socketerrors "github.com/vango-dev/socketio/internal/errors"
	"github.com/vango-dev/socketio/pkg/socketio"
)

// Event statuses recorded by socketio_events_total.
const (
	StatusOK      = "ok"
	StatusUnknown = "unknown"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "socketio").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "socketio",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the socket server metrics.
type Metrics struct {
	eventsTotal      *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	connections      prometheus.Gauge
}

// globalMetrics is created by the first call to Prometheus. Collectors can
// only be registered once per registry.
var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of inbound socket events",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Event handler duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"event"}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connections",
			Help:        "Number of connected sockets",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus returns the process-wide socket metrics, creating them on the
// first call. Options only apply to that first call.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	return globalMetrics
}

// Middleware records the status of every inbound event and, for known
// events, the handler duration.
func (m *Metrics) Middleware() socketio.Middleware {
	return func(ctx context.Context, call *socketio.Call, next func(context.Context) error) error {
		start := time.Now()
		err := next(ctx)

		status := Status(err)
		if status != StatusUnknown {
			// Unknown names come from the peer; keep them out of label values.
			m.dispatchDuration.WithLabelValues(call.Event).Observe(time.Since(start).Seconds())
		}
		m.eventsTotal.WithLabelValues(status).Inc()
		return err
	}
}

// SocketConnected implements socketio.ConnectionObserver.
func (m *Metrics) SocketConnected(*socketio.Socket) {
	m.connections.Inc()
}

// SocketDisconnected implements socketio.ConnectionObserver.
func (m *Metrics) SocketDisconnected(*socketio.Socket) {
	m.connections.Dec()
}

// Status classifies a dispatch result.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, socketerrors.New("E303")):
		return StatusUnknown
	case errors.Is(err, socketerrors.New("E321")):
		return StatusInvalid
	default:
		return StatusError
	}
}
