package form

import (
	"sync/atomic"

	"github.com/formctl/formctl/pkg/reactive"
)

// FieldConfig configures a Field binding.
type FieldConfig[T any] struct {
	// Control is the parent whose value the field projects.
	Control AnyControl

	// Name is the key in the parent's value: a struct field (by `form` tag
	// or name), a map key, or a numeric slice index.
	Name string

	// Validate is the optional validator for the projected value.
	Validate Validate[T]
}

// Field projects a Control over one key of a parent's value. Reads derive
// from the parent's value; writes shallow-copy the parent's value with the
// one key rewritten, which is how edits flow upward through arbitrarily
// many nesting levels. Creating the field registers it in the parent's
// tree; Unmount detaches it.
//
// A Field is itself an AnyControl, so nested bindings at any depth are
// built by passing it as the Control of another NewField call.
type Field[T any] struct {
	*Control[T]

	parent AnyControl
	name   string

	touches   *reactive.Signal[int]
	unmounted atomic.Bool
}

// NewField creates a Field bound to cfg.Name on cfg.Control and mounts it.
// The field's initial value snapshot is taken from the parent's current
// value at that key; a remount at the same key starts fresh.
//
// If a reactive scope is active, the field unmounts when the scope is
// disposed.
func NewField[T any](cfg FieldConfig[T]) *Field[T] {
	parent := cfg.Control
	name := cfg.Name

	ctrl := NewControl(ControlConfig[T]{
		Value: func() T {
			return asType[T](keyValue(parent.valueAny(), name))
		},
		SetValue: func(fn func(T) T) {
			parent.updateAny(func(pv any) any {
				prev := asType[T](keyValue(pv, name))
				return withKey(pv, name, any(fn(prev)))
			})
		},
		Validate: cfg.Validate,
	})

	f := &Field[T]{
		Control: ctrl,
		parent:  parent,
		name:    name,
		touches: reactive.NewSignal(0),
	}

	parent.registerChild(name, ctrl)
	reactive.OnCleanup(f.Unmount)

	return f
}

// Name returns the key this field is bound to.
func (f *Field[T]) Name() string {
	return f.name
}

// Blur records one leave interaction. The touched state is independent of
// the control's error and validity.
func (f *Field[T]) Blur() {
	f.touches.Update(func(n int) int { return n + 1 })
}

// TouchCount returns how many times the field has been left.
func (f *Field[T]) TouchCount() int {
	return f.touches.Get()
}

// IsTouched reports whether the field has been left at least once.
func (f *Field[T]) IsTouched() bool {
	return f.touches.Get() > 0
}

// Unmount detaches the field from its parent's tree. The parent's
// validation fan-out and aggregates stop seeing it immediately. Safe to
// call more than once.
func (f *Field[T]) Unmount() {
	if f.unmounted.Swap(true) {
		return
	}
	f.parent.unregisterChild(f.name, f.Control)
}

var _ AnyControl = (*Field[string])(nil)
