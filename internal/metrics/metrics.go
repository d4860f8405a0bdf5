// Package metrics exposes drop-target activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"textdrop/internal/errors"
	"textdrop/internal/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements drop.Recorder
type Metrics struct {
	gatherer prometheus.Gatherer

	// Gestures counts drag gestures that entered a target.
	Gestures prometheus.Counter
	// Items counts dropped items.
	Items prometheus.Counter
	// Reads counts finished drop reads by result (ok, failed, superseded).
	Reads *prometheus.CounterVec
	// ContentBytes observes the size of combined text handed to the host.
	ContentBytes prometheus.Histogram
	// ReadDuration observes how long reading one drop took.
	ReadDuration prometheus.Histogram
}

// New registers the textdrop metrics on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the metrics on reg and serves them from g
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		Gestures: factory.NewCounter(prometheus.CounterOpts{
			Name: "textdrop_gestures_total",
			Help: "Total number of drag gestures that entered a drop target",
		}),
		Items: factory.NewCounter(prometheus.CounterOpts{
			Name: "textdrop_items_dropped_total",
			Help: "Total number of items dropped onto a drop target",
		}),
		Reads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textdrop_reads_total",
				Help: "Total number of finished drop reads",
			},
			[]string{"result"},
		),
		ContentBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "textdrop_content_bytes",
			Help:    "Size of the combined text of successful drops",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		}),
		ReadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "textdrop_read_duration_seconds",
			Help:    "Time spent reading the items of one drop",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
	}
}

func (m *Metrics) GestureStarted() {
	m.Gestures.Inc()
}

func (m *Metrics) ItemsDropped(n int) {
	m.Items.Add(float64(n))
}

func (m *Metrics) ReadFinished(result string, bytes int, elapsed time.Duration) {
	m.Reads.WithLabelValues(result).Inc()
	m.ReadDuration.Observe(elapsed.Seconds())
	if result == "ok" {
		m.ContentBytes.Observe(float64(bytes))
	}
}

// Handler serves the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.LogWithFields(log.F("address", addr)).Info("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "metrics server on %s", addr)
	}
	return nil
}
