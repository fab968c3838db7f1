package form

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/formctl/formctl/pkg/reactive"
)

// Trigger selects when a value change schedules an automatic Validate of
// the whole tree.
type Trigger int

const (
	// TriggerNever disables change-driven validation; only explicit
	// Validate and HandleSubmit calls run validators.
	TriggerNever Trigger = iota

	// TriggerChange validates after every root value change.
	TriggerChange

	// TriggerChangeAfterSubmit validates after value changes, but only once
	// the form has been submitted at least once.
	TriggerChangeAfterSubmit
)

// Observer receives submit and validate lifecycle callbacks. The instrument
// package provides Prometheus and OpenTelemetry implementations.
type Observer interface {
	ValidateStart(ctx context.Context) context.Context
	ValidateEnd(ctx context.Context, valid bool, elapsed time.Duration)
	SubmitStart(ctx context.Context) context.Context
	SubmitEnd(ctx context.Context, valid bool, err error, elapsed time.Duration)
}

type config[T any] struct {
	validate Validate[T]
	trigger  Trigger
	observer Observer
	logger   *slog.Logger
}

// Option configures a Form.
type Option[T any] func(*config[T])

// WithValidate sets the root validator.
func WithValidate[T any](v Validate[T]) Option[T] {
	return func(c *config[T]) {
		c.validate = v
	}
}

// WithTrigger sets the change-driven validation policy.
// Default: TriggerNever.
func WithTrigger[T any](tr Trigger) Option[T] {
	return func(c *config[T]) {
		c.trigger = tr
	}
}

// WithObserver sets the submit/validate observer.
func WithObserver[T any](o Observer) Option[T] {
	return func(c *config[T]) {
		c.observer = o
	}
}

// WithLogger sets the logger used for recovered panics.
// Default: no logging.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(c *config[T]) {
		c.logger = l
	}
}

// Form is the entry point of a control tree: the root Control over the
// whole value plus submit orchestration. Field bindings attach under it.
type Form[T any] struct {
	*Control[T]

	value *reactive.Signal[T]
	scope *reactive.Scope

	submitCount *reactive.Signal[int]
	submitting  *reactive.Signal[bool]
	submitted   *reactive.Signal[bool]
	response    *reactive.Signal[any]

	trigger  Trigger
	observer Observer
	logger   *slog.Logger
}

// New creates a Form whose root Control owns initial as its value and
// initial-value snapshot.
func New[T any](initial T, opts ...Option[T]) *Form[T] {
	var cfg config[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	// The value cell compares by identity, not structure: a replacement
	// with identical content is still a change.
	value := reactive.NewSignal(initial).
		WithEquals(func(a, b T) bool { return identical(any(a), any(b)) })

	f := &Form[T]{
		value:       value,
		scope:       reactive.NewScope(nil),
		submitCount: reactive.NewSignal(0),
		submitting:  reactive.NewSignal(false),
		submitted:   reactive.NewSignal(false),
		response:    reactive.NewSignal[any](nil),
		trigger:     cfg.trigger,
		observer:    cfg.observer,
		logger:      cfg.logger,
	}

	f.Control = NewControl(ControlConfig[T]{
		Value:    value.Get,
		SetValue: value.Update,
		Validate: cfg.validate,
	})

	if f.trigger != TriggerNever {
		f.watchChanges()
	}

	return f
}

// watchChanges installs the change-driven validation effect. Each change
// schedules its own Validate on a fresh goroutine; overlapping cycles are
// not serialized, the last to settle wins.
func (f *Form[T]) watchChanges() {
	first := true
	f.scope.Run(func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			_ = f.value.Get()
			if first {
				first = false
				return nil
			}
			if f.trigger == TriggerChangeAfterSubmit && !f.submitted.Peek() {
				return nil
			}
			go f.Validate(context.Background())
			return nil
		})
	})
}

// Scope returns the lifecycle scope owning this form's effects. Field
// bindings created inside scope.Run unmount when the form is disposed.
func (f *Form[T]) Scope() *reactive.Scope {
	return f.scope
}

// Dispose tears down the form's scope: its effects and every binding
// mounted inside it.
func (f *Form[T]) Dispose() {
	f.scope.Dispose()
}

// Validate runs the root validate cycle, reporting to the observer when
// one is configured.
func (f *Form[T]) Validate(ctx context.Context) bool {
	start := time.Now()
	if f.observer != nil {
		ctx = f.observer.ValidateStart(ctx)
	}

	ok := f.Control.Validate(ctx)

	if f.observer != nil {
		f.observer.ValidateEnd(ctx, ok, time.Since(start))
	}
	return ok
}

// HandleSubmit validates the whole live tree. When valid, onValid runs with
// the current value and its result becomes the response. When invalid, the
// first invalid node is focused and onInvalid runs with the root control.
// Errors and panics from either callback, or from validation itself, are
// captured as the response, never rethrown. The submit counter and flags
// are maintained on both paths.
func (f *Form[T]) HandleSubmit(
	ctx context.Context,
	onValid func(ctx context.Context, value T) (any, error),
	onInvalid func(ctx context.Context, root AnyControl) (any, error),
) any {
	start := time.Now()
	if f.observer != nil {
		ctx = f.observer.SubmitStart(ctx)
	}

	f.submitting.Set(true)

	var (
		resp  any
		err   error
		valid bool
	)

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%v", r)
				if f.logger != nil {
					f.logger.Error("submit handler panicked", "panic", r)
				}
			}
		}()

		valid = f.Validate(ctx)
		if valid {
			if onValid != nil {
				var value T
				reactive.Untracked(func() { value = f.Value() })
				resp, err = onValid(ctx, value)
			}
		} else {
			f.FocusError()
			if onInvalid != nil {
				resp, err = onInvalid(ctx, f)
			}
		}
	}()

	if err != nil {
		resp = err
	}

	reactive.Batch(func() {
		f.response.Set(resp)
		f.submitting.Set(false)
		f.submitted.Set(true)
		f.submitCount.Update(func(n int) int { return n + 1 })
	})

	if f.observer != nil {
		f.observer.SubmitEnd(ctx, valid, err, time.Since(start))
	}
	return resp
}

// Response returns the result of the last submit: whatever the callback
// returned, or the error/panic it produced. Callers distinguish by
// inspecting the value.
func (f *Form[T]) Response() any {
	return f.response.Get()
}

// SubmitCount returns how many times HandleSubmit has completed.
func (f *Form[T]) SubmitCount() int {
	return f.submitCount.Get()
}

// IsSubmitting reports whether a HandleSubmit call is in progress.
func (f *Form[T]) IsSubmitting() bool {
	return f.submitting.Get()
}

// IsSubmitted reports whether HandleSubmit has completed at least once
// since construction or the last Reset.
func (f *Form[T]) IsSubmitted() bool {
	return f.submitted.Get()
}

// Reset restores the initial value and clears the root's validation state
// and all submit state. Field bindings stay mounted; their touched counts
// are tied to mount lifetime and survive a reset.
func (f *Form[T]) Reset() {
	reactive.Batch(func() {
		f.value.Set(f.InitialValue())
		f.err.Set("")
		f.validating.Set(false)
		f.validated.Set(false)
		f.response.Set(nil)
		f.submitCount.Set(0)
		f.submitting.Set(false)
		f.submitted.Set(false)
	})
}
