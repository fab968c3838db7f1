package instrument

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/formctl/formctl/pkg/form"
)

func TestMetricsValidationOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	ctx := context.Background()

	ctx = m.ValidateStart(ctx)
	if got := testutil.ToFloat64(m.validationsActive); got != 1 {
		t.Errorf("active gauge = %v, want 1", got)
	}
	m.ValidateEnd(ctx, true, time.Millisecond)

	ctx = m.ValidateStart(context.Background())
	m.ValidateEnd(ctx, false, time.Millisecond)

	if got := testutil.ToFloat64(m.validationsActive); got != 0 {
		t.Errorf("active gauge = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.validationsTotal.WithLabelValues("valid")); got != 1 {
		t.Errorf("valid count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.validationsTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("invalid count = %v, want 1", got)
	}
}

func TestMetricsSubmitOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	ctx := context.Background()

	m.SubmitEnd(m.SubmitStart(ctx), true, nil, time.Millisecond)
	m.SubmitEnd(m.SubmitStart(ctx), false, nil, time.Millisecond)
	// An error from the callback overrides the validity outcome.
	m.SubmitEnd(m.SubmitStart(ctx), true, errors.New("boom"), time.Millisecond)

	for _, tc := range []struct {
		outcome string
		want    float64
	}{
		{"valid", 1},
		{"invalid", 1},
		{"error", 1},
	} {
		if got := testutil.ToFloat64(m.submitsTotal.WithLabelValues(tc.outcome)); got != tc.want {
			t.Errorf("submits_total{outcome=%q} = %v, want %v", tc.outcome, got, tc.want)
		}
	}
}

func TestMetricsNamespaceAndLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("myapp"),
		WithSubsystem("signup"),
		WithConstLabels(prometheus.Labels{"tier": "web"}),
		WithBuckets([]float64{0.01, 0.1, 1}),
	)

	m.ValidateEnd(m.ValidateStart(context.Background()), true, time.Millisecond)

	names, err := testutil.GatherAndCount(reg,
		"myapp_signup_validations_total",
		"myapp_signup_validations_active",
		"myapp_signup_validation_duration_seconds",
	)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if names == 0 {
		t.Error("expected namespaced metrics to be registered")
	}
}

func TestMetricsObserverOnForm(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	f := form.New(map[string]any{"name": ""},
		form.WithObserver[map[string]any](m),
	)
	form.NewField(form.FieldConfig[string]{
		Control:  f,
		Name:     "name",
		Validate: form.Required[string]("req"),
	})

	f.HandleSubmit(context.Background(), nil, nil)

	if got := testutil.ToFloat64(m.submitsTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("invalid submits = %v, want 1", got)
	}
	// HandleSubmit validates internally, so one validation cycle is recorded.
	if got := testutil.ToFloat64(m.validationsTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("invalid validations = %v, want 1", got)
	}
}
