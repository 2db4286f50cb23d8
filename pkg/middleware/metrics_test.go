package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	socketerrors "github.com/vango-dev/socketio/internal/errors"
	"github.com/vango-dev/socketio/pkg/socketio"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestPrometheusMiddleware_RecordsStatuses(t *testing.T) {
	resetGlobalMetricsForTest()
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))
	mw := m.Middleware()

	results := []error{
		nil,
		nil,
		socketerrors.New("E303").WithDetail("nope"),
		socketerrors.New("E321"),
		errors.New("boom"),
	}
	for _, res := range results {
		call := &socketio.Call{Event: "chat/send"}
		got := mw(context.Background(), call, func(context.Context) error { return res })
		if got != res {
			t.Fatalf("middleware changed the result: got %v, want %v", got, res)
		}
	}

	tests := map[string]float64{
		StatusOK:      2,
		StatusUnknown: 1,
		StatusInvalid: 1,
		StatusError:   1,
	}
	for status, want := range tests {
		if got := metricCounterValue(t, m.eventsTotal.WithLabelValues(status)); got != want {
			t.Errorf("events_total(%s) = %v, want %v", status, got, want)
		}
	}

	// Unknown events are not observed.
	if got := metricHistogramCount(t, m.dispatchDuration.WithLabelValues("chat/send")); got != 4 {
		t.Errorf("dispatch_duration_seconds count = %d, want 4", got)
	}
}

func TestPrometheus_Singleton(t *testing.T) {
	resetGlobalMetricsForTest()
	a := Prometheus(WithRegistry(prometheus.NewRegistry()))
	b := Prometheus()
	if a != b {
		t.Fatal("expected Prometheus to return the same metrics")
	}
}

func TestMetrics_ConnectionObserver(t *testing.T) {
	resetGlobalMetricsForTest()
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))

	var _ socketio.ConnectionObserver = m

	m.SocketConnected(nil)
	m.SocketConnected(nil)
	m.SocketDisconnected(nil)

	if got := metricGaugeValue(t, m.connections); got != 1 {
		t.Fatalf("connections = %v, want 1", got)
	}
}

func TestStatus(t *testing.T) {
	wrapped := socketerrors.New("E302").Wrap(errors.New("panic"))
	tests := []struct {
		err  error
		want string
	}{
		{nil, StatusOK},
		{socketerrors.New("E303"), StatusUnknown},
		{socketerrors.New("E321").WithDetail("argument 0"), StatusInvalid},
		{wrapped, StatusError},
		{context.Canceled, StatusError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
