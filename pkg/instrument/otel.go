package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is the tracer name used when none is configured.
const defaultTracerName = "formctl"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "formctl").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.TracerProvider = tp
	}
}

// WithAttributes sets constant attributes added to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = attrs
	}
}

// Tracing is a form.Observer that wraps validate and submit cycles in
// OpenTelemetry spans. Validation spans started inside a submit nest under
// the submit span through the returned contexts.
type Tracing struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// NewTracing creates the tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	cfg := TracingConfig{
		TracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var tracer trace.Tracer
	if cfg.TracerProvider != nil {
		tracer = cfg.TracerProvider.Tracer(cfg.TracerName)
	} else {
		tracer = otel.Tracer(cfg.TracerName)
	}

	return &Tracing{
		tracer: tracer,
		attrs:  cfg.Attributes,
	}
}

// ValidateStart implements form.Observer.
func (t *Tracing) ValidateStart(ctx context.Context) context.Context {
	ctx, _ = t.tracer.Start(ctx, "form.validate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(t.attrs...),
	)
	return ctx
}

// ValidateEnd implements form.Observer.
func (t *Tracing) ValidateEnd(ctx context.Context, valid bool, elapsed time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Bool("form.valid", valid))
	span.End()
}

// SubmitStart implements form.Observer.
func (t *Tracing) SubmitStart(ctx context.Context) context.Context {
	ctx, _ = t.tracer.Start(ctx, "form.submit",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(t.attrs...),
	)
	return ctx
}

// SubmitEnd implements form.Observer.
func (t *Tracing) SubmitEnd(ctx context.Context, valid bool, err error, elapsed time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Bool("form.valid", valid))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
