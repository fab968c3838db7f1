package reactive

import "testing"

func TestBatchCoalesces(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = a.Get()
		_ = b.Get()
	})

	Batch(func() {
		a.Set(1)
		b.Set(1)

		if listener.getDirtyCount() != 0 {
			t.Errorf("notifications should be deferred inside batch, got %d", listener.getDirtyCount())
		}
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 deduplicated notification, got %d", listener.getDirtyCount())
	}
}

func TestBatchNesting(t *testing.T) {
	a := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = a.Get()
	})

	Batch(func() {
		Batch(func() {
			a.Set(1)
		})
		if listener.getDirtyCount() != 0 {
			t.Errorf("inner batch completion must not notify, got %d", listener.getDirtyCount())
		}
		a.Set(2)
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification at outermost exit, got %d", listener.getDirtyCount())
	}
}

func TestBatchNoPending(t *testing.T) {
	// A batch with no writes completes without notifications.
	Batch(func() {})
}
