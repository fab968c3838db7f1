package form

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/formctl/formctl/pkg/reactive"
)

// Focuser is a handle to a focusable element, supplied by the consuming UI
// layer. The core stores it and calls Focus from FocusError; it never
// interprets it further.
type Focuser interface {
	Focus()
}

// childEntry is one registered child binding. Entries keep registration
// order, which drives FocusError and the error walks.
type childEntry struct {
	key  string
	ctrl AnyControl
}

// AnyControl is the type-erased view of a Control, used wherever the tree
// holds children of different value types.
type AnyControl interface {
	// Validate runs this node's validator and every currently registered
	// child concurrently, waits for all to settle, and reports whether the
	// whole subtree came back clean.
	Validate(ctx context.Context) bool

	// FocusError focuses the first invalid node with an attached element
	// handle, depth first, parent before children in registration order.
	FocusError() bool

	// Error returns this node's own validation message; "" means none.
	// Children's errors are not included.
	Error() string

	IsValidating() bool
	IsValidated() bool
	IsValid() bool
	IsInvalid() bool
	IsPristine() bool
	IsDirty() bool

	// Fields returns the currently registered children by key.
	Fields() map[string]AnyControl

	// Ref is the element handle slot for this node.
	Ref() *reactive.Ref[Focuser]

	children() []childEntry
	registerChild(key string, child AnyControl)
	unregisterChild(key string, child AnyControl)
	valueAny() any
	peekAny() any
	updateAny(fn func(any) any)
}

// Control is a node in the validation/value tree for one piece of form
// state. It owns the node's error and validation-status cells and an
// ordered registry of child controls; its aggregate accessors fold over
// the children.
type Control[T any] struct {
	get       func() T
	set       func(func(T) T)
	initial   T
	validator Validate[T]

	err        *reactive.Signal[string]
	validating *reactive.Signal[bool]
	validated  *reactive.Signal[bool]
	kids       *reactive.Signal[[]childEntry]
	ref        *reactive.Ref[Focuser]

	dirty    *reactive.Memo[bool]
	valid    *reactive.Memo[bool]
	invalid  *reactive.Memo[bool]
	inFlight *reactive.Memo[bool]
}

// ControlConfig carries the three inputs of a Control: a tracked value
// accessor, a setter that must always produce a new top-level value, and an
// optional validator.
type ControlConfig[T any] struct {
	Value    func() T
	SetValue func(func(T) T)
	Validate Validate[T]
}

// NewControl creates a Control over the given accessor/setter pair.
// The initial value is snapshotted now and fixed for the Control's
// lifetime.
func NewControl[T any](cfg ControlConfig[T]) *Control[T] {
	c := &Control[T]{
		get:        cfg.Value,
		set:        cfg.SetValue,
		validator:  cfg.Validate,
		err:        reactive.NewSignal(""),
		validating: reactive.NewSignal(false),
		validated:  reactive.NewSignal(false),
		ref:        reactive.NewRef[Focuser](nil),
	}

	// Child lists are rebuilt on every registration change; identity of the
	// slice is the change signal.
	c.kids = reactive.NewSignal([]childEntry(nil)).
		WithEquals(func(a, b []childEntry) bool { return false })

	reactive.Untracked(func() {
		c.initial = c.get()
	})

	c.dirty = reactive.NewMemo(func() bool {
		if !identical(any(c.get()), any(c.initial)) {
			return true
		}
		for _, e := range c.kids.Get() {
			if e.ctrl.IsDirty() {
				return true
			}
		}
		return false
	})

	c.valid = reactive.NewMemo(func() bool {
		if !c.validated.Get() || c.err.Get() != "" {
			return false
		}
		for _, e := range c.kids.Get() {
			if !e.ctrl.IsValid() {
				return false
			}
		}
		return true
	})

	c.invalid = reactive.NewMemo(func() bool {
		if !c.validated.Get() {
			return false
		}
		if c.err.Get() != "" {
			return true
		}
		for _, e := range c.kids.Get() {
			if e.ctrl.IsInvalid() {
				return true
			}
		}
		return false
	})

	c.inFlight = reactive.NewMemo(func() bool {
		if c.validating.Get() {
			return true
		}
		for _, e := range c.kids.Get() {
			if e.ctrl.IsValidating() {
				return true
			}
		}
		return false
	})

	return c
}

// Value returns the current value, subscribing the current listener.
func (c *Control[T]) Value() T {
	return c.get()
}

// InitialValue returns the value captured at construction time.
func (c *Control[T]) InitialValue() T {
	return c.initial
}

// SetValue replaces the current value. The replacement resets this node's
// validated flag; children and parents keep their own state.
func (c *Control[T]) SetValue(value T) {
	c.Update(func(T) T { return value })
}

// Update replaces the current value with fn(previous). fn must return a new
// top-level value and never mutate previous in place; identity-based dirty
// tracking depends on it.
func (c *Control[T]) Update(fn func(T) T) {
	reactive.Batch(func() {
		c.set(fn)
		c.validated.Set(false)
	})
}

// Error returns this node's own validation message; "" means none.
func (c *Control[T]) Error() string {
	return c.err.Get()
}

// IsValidating reports whether this node or any registered descendant has a
// validate cycle in flight.
func (c *Control[T]) IsValidating() bool {
	return c.inFlight.Get()
}

// IsValidated reports whether this node's last validate cycle has settled
// and no value write happened since.
func (c *Control[T]) IsValidated() bool {
	return c.validated.Get()
}

// IsValid reports whether this node is validated with no error and every
// registered child is valid. A node that has never been validated is
// neither valid nor invalid.
func (c *Control[T]) IsValid() bool {
	return c.valid.Get()
}

// IsInvalid reports whether this node is validated and carries an error
// itself or through a registered child. Not the negation of IsValid: an
// unvalidated node reads false on both.
func (c *Control[T]) IsInvalid() bool {
	return c.invalid.Get()
}

// IsPristine reports whether the live value is still identical to the
// initial value and every registered child is pristine. Identity, not deep
// equality: a setter call always allocates a new top-level value, so any
// write flips the node to dirty.
func (c *Control[T]) IsPristine() bool {
	return !c.dirty.Get()
}

// IsDirty is the negation of IsPristine.
func (c *Control[T]) IsDirty() bool {
	return c.dirty.Get()
}

// Fields returns the currently registered children by key. Mounted bindings
// only; an unmounted child has no entry.
func (c *Control[T]) Fields() map[string]AnyControl {
	entries := c.kids.Get()
	out := make(map[string]AnyControl, len(entries))
	for _, e := range entries {
		out[e.key] = e.ctrl
	}
	return out
}

// Ref returns the element handle slot for this node. The consuming layer
// sets it; FocusError reads it.
func (c *Control[T]) Ref() *reactive.Ref[Focuser] {
	return c.ref
}

// Validate runs in three phases: flip to validating (one batched
// transition), run the node's own validator concurrently with a recursive
// Validate of every child registered at call time, then settle back to
// validated in a second batched transition. Overlapping calls are not
// serialized; whichever settles last owns the final state.
func (c *Control[T]) Validate(ctx context.Context) bool {
	reactive.Batch(func() {
		c.validating.Set(true)
		c.validated.Set(false)
	})

	// Snapshot the fan-out set; children registered mid-cycle are not
	// awaited by this call.
	entries := c.kids.Peek()

	var (
		wg     sync.WaitGroup
		ownMsg string
		kidsOK atomic.Bool
	)
	kidsOK.Store(true)

	wg.Add(1)
	go func() {
		defer wg.Done()
		ownMsg = runValidator(ctx, c.validator, c.get())
	}()

	for _, e := range entries {
		wg.Add(1)
		go func(child AnyControl) {
			defer wg.Done()
			if !child.Validate(ctx) {
				kidsOK.Store(false)
			}
		}(e.ctrl)
	}

	wg.Wait()

	reactive.Batch(func() {
		c.err.Set(ownMsg)
		c.validating.Set(false)
		c.validated.Set(true)
	})

	return ownMsg == "" && kidsOK.Load()
}

// FocusError performs a depth-first search for the first invalid node with
// an attached element handle, focuses it, and reports success. Parent
// before children, children in registration order.
func (c *Control[T]) FocusError() bool {
	if c.ref.IsSet() && c.IsInvalid() {
		if f := c.ref.Current(); f != nil {
			f.Focus()
			return true
		}
	}
	for _, e := range c.kids.Peek() {
		if e.ctrl.FocusError() {
			return true
		}
	}
	return false
}

// children returns the registered children in registration order.
func (c *Control[T]) children() []childEntry {
	return c.kids.Get()
}

// registerChild inserts or replaces the entry for key. The child's own
// state is left untouched; only the parent's aggregates re-derive.
func (c *Control[T]) registerChild(key string, child AnyControl) {
	c.kids.Update(func(entries []childEntry) []childEntry {
		out := make([]childEntry, 0, len(entries)+1)
		replaced := false
		for _, e := range entries {
			if e.key == key {
				out = append(out, childEntry{key: key, ctrl: child})
				replaced = true
			} else {
				out = append(out, e)
			}
		}
		if !replaced {
			out = append(out, childEntry{key: key, ctrl: child})
		}
		return out
	})
}

// unregisterChild removes the entry for key, but only while it still points
// at child: a remount may already have replaced the entry by the time the
// old binding detaches.
func (c *Control[T]) unregisterChild(key string, child AnyControl) {
	c.kids.Update(func(entries []childEntry) []childEntry {
		out := make([]childEntry, 0, len(entries))
		for _, e := range entries {
			if e.key == key && e.ctrl == child {
				continue
			}
			out = append(out, e)
		}
		return out
	})
}

// valueAny returns the current value as a tracked, type-erased read.
func (c *Control[T]) valueAny() any {
	return any(c.get())
}

// peekAny returns the current value without subscribing anything.
func (c *Control[T]) peekAny() (v any) {
	reactive.Untracked(func() {
		v = any(c.get())
	})
	return v
}

// updateAny applies a type-erased value rewrite through the typed setter.
func (c *Control[T]) updateAny(fn func(any) any) {
	c.Update(func(prev T) T {
		return asType[T](fn(any(prev)))
	})
}

var _ AnyControl = (*Control[string])(nil)
