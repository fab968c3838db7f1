package instrument

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "formctl").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for cycle durations.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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
		Namespace: "formctl",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a form.Observer exporting Prometheus metrics: validation and
// submit counts labeled by outcome, cycle duration histograms, and an
// in-flight validation gauge.
type Metrics struct {
	validationsTotal   *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	validationsActive  prometheus.Gauge
	submitsTotal       *prometheus.CounterVec
	submitDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers the metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		validationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "validations_total",
			Help:        "Completed validation cycles by outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"outcome"}),
		validationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "validation_duration_seconds",
			Help:        "Validation cycle duration in seconds.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"outcome"}),
		validationsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "validations_active",
			Help:        "Validation cycles currently in flight.",
			ConstLabels: cfg.ConstLabels,
		}),
		submitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "submits_total",
			Help:        "Completed submits by outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"outcome"}),
		submitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "submit_duration_seconds",
			Help:        "Submit duration in seconds, including validation and callbacks.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"outcome"}),
	}
}

// ValidateStart implements form.Observer.
func (m *Metrics) ValidateStart(ctx context.Context) context.Context {
	m.validationsActive.Inc()
	return ctx
}

// ValidateEnd implements form.Observer.
func (m *Metrics) ValidateEnd(ctx context.Context, valid bool, elapsed time.Duration) {
	m.validationsActive.Dec()
	outcome := validityOutcome(valid)
	m.validationsTotal.WithLabelValues(outcome).Inc()
	m.validationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// SubmitStart implements form.Observer.
func (m *Metrics) SubmitStart(ctx context.Context) context.Context {
	return ctx
}

// SubmitEnd implements form.Observer.
func (m *Metrics) SubmitEnd(ctx context.Context, valid bool, err error, elapsed time.Duration) {
	outcome := validityOutcome(valid)
	if err != nil {
		outcome = "error"
	}
	m.submitsTotal.WithLabelValues(outcome).Inc()
	m.submitDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func validityOutcome(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
