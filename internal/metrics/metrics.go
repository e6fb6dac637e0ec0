package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tick results used as the "result" label of orbit_ticks_total.
const (
	ResultOK                  = "ok"
	ResultFetchError          = "fetch_error"
	ResultMalformed           = "malformed"
	ResultNonPositiveInterval = "non_positive_interval"
	ResultStoreError          = "store_error"
)

// Collector bundles the tracker's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Ticks          *prometheus.CounterVec
	Speed          *prometheus.GaugeVec
	Samples        *prometheus.GaugeVec
	FetchDurations *prometheus.HistogramVec
	PublishDropped prometheus.Counter
}

// NewCollector registers the tracker metrics against reg, defaulting to the
// global Prometheus registry when nil. Registering twice on the same
// registry returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbit_ticks_total",
		Help: "Sampling ticks per tracked object, labeled by result.",
	}, []string{"object", "result"}))
	if err != nil {
		return nil, err
	}

	speed, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orbit_speed_km_per_second",
		Help: "Ground-track speed of the latest sample in km/s.",
	}, []string{"object"}))
	if err != nil {
		return nil, err
	}

	samples, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orbit_trajectory_samples",
		Help: "Number of samples in the stored trajectory.",
	}, []string{"object"}))
	if err != nil {
		return nil, err
	}

	fetch, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orbit_fetch_duration_seconds",
		Help:    "Feed fetch latency in seconds.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"object"}))
	if err != nil {
		return nil, err
	}

	dropped, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbit_publish_dropped_total",
		Help: "Updates discarded because the publish queue was full.",
	}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Ticks:          ticks,
		Speed:          speed,
		Samples:        samples,
		FetchDurations: fetch,
		PublishDropped: dropped,
	}, nil
}

// register adds c to reg, reusing an already registered collector of the
// same type.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		return c, err
	}
	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Tick counts one tick outcome.
func (c *Collector) Tick(object, result string) {
	if c == nil {
		return
	}
	c.Ticks.WithLabelValues(object, result).Inc()
}

// Accepted records the state after a sample was appended.
func (c *Collector) Accepted(object string, speed float64, length int) {
	if c == nil {
		return
	}
	c.Ticks.WithLabelValues(object, ResultOK).Inc()
	c.Speed.WithLabelValues(object).Set(speed)
	c.Samples.WithLabelValues(object).Set(float64(length))
}

// ObserveFetch records how long a feed fetch took.
func (c *Collector) ObserveFetch(object string, d time.Duration) {
	if c == nil {
		return
	}
	c.FetchDurations.WithLabelValues(object).Observe(d.Seconds())
}

// Dropped counts updates discarded by the publish queue.
func (c *Collector) Dropped() {
	if c == nil {
		return
	}
	c.PublishDropped.Inc()
}
