// Package metrics exposes Prometheus instrumentation for detector calls
// and highlighting.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/textlens/textlens/internal/highlight"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	segmentsTotal   *prometheus.CounterVec
}

// New creates a registry with process/Go collectors and textlens metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textlens_detector_requests_total",
				Help: "Requests sent to the detection service by endpoint and status.",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textlens_detector_request_duration_seconds",
				Help:    "Detection service latency by endpoint.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		segmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textlens_highlight_segments_total",
				Help: "Annotated segments produced, by sign.",
			},
			[]string{"sign"},
		),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.segmentsTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveSegments counts annotated segments by sign.
func (m *Metrics) ObserveSegments(segs []highlight.Segment) {
	if m == nil {
		return
	}
	for _, s := range segs {
		if s.Annotated {
			m.segmentsTotal.WithLabelValues(string(s.Sign)).Inc()
		}
	}
}

// InstrumentTransport wraps next so every round trip is counted and timed.
// A nil next uses http.DefaultTransport.
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if m == nil {
		return next
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		endpoint := req.URL.Path
		start := time.Now()
		resp, err := next.RoundTrip(req)
		m.requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

		status := "error"
		if err == nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		m.requestsTotal.WithLabelValues(endpoint, status).Inc()
		return resp, err
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
