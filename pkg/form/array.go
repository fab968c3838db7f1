package form

import (
	"strconv"
	"sync"

	"github.com/formctl/formctl/pkg/reactive"
)

// ArrayFieldConfig configures an ArrayField binding.
type ArrayFieldConfig[E any] struct {
	// Control is the parent whose value holds the sequence at Name.
	Control AnyControl

	// Name is the key of the slice in the parent's value.
	Name string

	// Validate is the optional validator for the whole sequence.
	Validate Validate[[]E]

	// Item is the optional validator applied to each element's binding.
	Item Validate[E]
}

// ArrayField specializes Field for slice values. Every mutation rewrites
// the sequence immutably and commits it through the lens, then reconciles
// the per-item bindings.
//
// Item bindings are keyed purely by position. After Insert or Remove at
// index i, the bindings at i and later are unmounted and recreated at
// their new indices; touched counts and in-progress validation state for
// those positions are lost. Replace and Swap leave the bindings in place,
// the new content flows through the lens.
type ArrayField[E any] struct {
	*Field[[]E]

	itemValidate Validate[E]

	items *reactive.Signal[[]*Field[E]]
	mu    sync.Mutex
}

// NewArrayField creates an ArrayField bound to cfg.Name on cfg.Control,
// mounts it, and creates one item binding per element of the current
// sequence.
func NewArrayField[E any](cfg ArrayFieldConfig[E]) *ArrayField[E] {
	f := NewField(FieldConfig[[]E]{
		Control:  cfg.Control,
		Name:     cfg.Name,
		Validate: cfg.Validate,
	})

	a := &ArrayField[E]{
		Field:        f,
		itemValidate: cfg.Item,
	}
	a.items = reactive.NewSignal([]*Field[E](nil)).
		WithEquals(func(x, y []*Field[E]) bool { return false })

	a.reconcile(0)
	return a
}

// Items returns the current item bindings in positional order, subscribing
// the current listener to structural changes.
func (a *ArrayField[E]) Items() []*Field[E] {
	return a.items.Get()
}

// Append adds item to the end of the sequence.
func (a *ArrayField[E]) Append(item E) {
	n := a.length()
	a.Update(func(s []E) []E {
		out := make([]E, len(s)+1)
		copy(out, s)
		out[len(s)] = item
		return out
	})
	a.reconcile(n)
}

// Prepend adds item to the front; every existing element shifts by one.
func (a *ArrayField[E]) Prepend(item E) {
	a.Insert(0, item)
}

// Insert splices item in at index i, shifting later elements by one.
// i may equal the current length, which appends. Out-of-range indices are
// ignored.
func (a *ArrayField[E]) Insert(i int, item E) {
	if i < 0 || i > a.length() {
		return
	}
	a.Update(func(s []E) []E {
		out := make([]E, 0, len(s)+1)
		out = append(out, s[:i]...)
		out = append(out, item)
		out = append(out, s[i:]...)
		return out
	})
	a.reconcile(i)
}

// Replace overwrites the element at index i in place; no positions shift
// and no item bindings are recreated.
func (a *ArrayField[E]) Replace(i int, item E) {
	if i < 0 || i >= a.length() {
		return
	}
	a.Update(func(s []E) []E {
		out := make([]E, len(s))
		copy(out, s)
		out[i] = item
		return out
	})
}

// Remove splices out the element at index i, shifting later elements back
// by one.
func (a *ArrayField[E]) Remove(i int) {
	if i < 0 || i >= a.length() {
		return
	}
	a.Update(func(s []E) []E {
		out := make([]E, 0, len(s)-1)
		out = append(out, s[:i]...)
		out = append(out, s[i+1:]...)
		return out
	})
	a.reconcile(i)
}

// Swap exchanges the elements at i and j; other positions are unaffected
// and item bindings stay in place.
func (a *ArrayField[E]) Swap(i, j int) {
	n := a.length()
	if i < 0 || i >= n || j < 0 || j >= n || i == j {
		return
	}
	a.Update(func(s []E) []E {
		out := make([]E, len(s))
		copy(out, s)
		out[i], out[j] = out[j], out[i]
		return out
	})
}

// Unmount detaches the item bindings and then the array binding itself.
func (a *ArrayField[E]) Unmount() {
	a.mu.Lock()
	items := a.items.Peek()
	a.items.Set(nil)
	a.mu.Unlock()

	for _, it := range items {
		it.Unmount()
	}
	a.Field.Unmount()
}

// length reads the current sequence length without subscribing.
func (a *ArrayField[E]) length() int {
	var n int
	reactive.Untracked(func() {
		n = len(a.Value())
	})
	return n
}

// reconcile rebuilds the item bindings for positions from and later:
// existing bindings there are unmounted and fresh ones created up to the
// current sequence length. Earlier positions keep their bindings.
func (a *ArrayField[E]) reconcile(from int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur := a.items.Peek()
	if from < 0 {
		from = 0
	}
	if from > len(cur) {
		from = len(cur)
	}

	for _, it := range cur[from:] {
		it.Unmount()
	}

	n := a.length()
	out := make([]*Field[E], 0, n)
	out = append(out, cur[:from]...)
	for i := from; i < n; i++ {
		out = append(out, NewField(FieldConfig[E]{
			Control:  a.Field,
			Name:     strconv.Itoa(i),
			Validate: a.itemValidate,
		}))
	}

	a.items.Set(out)
}
