package reactive

import (
	"sync"
	"testing"
)

// testListener counts MarkDirty notifications.
type testListener struct {
	id    uint64
	mu    sync.Mutex
	dirty int
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirty++
}

func (l *testListener) ID() uint64 {
	return l.id
}

func (l *testListener) getDirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalPeek(t *testing.T) {
	count := NewSignal(42)

	listener := newTestListener()
	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Peek should not subscribe listener, got %d notifications", listener.getDirtyCount())
	}
}

func TestSignalSubscription(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}

	// Same value should not notify.
	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("same value should not notify, got %d", listener.getDirtyCount())
	}

	count.Set(2)
	if listener.getDirtyCount() != 2 {
		t.Errorf("expected 2 notifications, got %d", listener.getDirtyCount())
	}
}

func TestSignalNoTrackingOutsideContext(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	_ = count.Get()

	count.Set(1)
	if listener.getDirtyCount() != 0 {
		t.Errorf("read outside tracked context should not subscribe, got %d", listener.getDirtyCount())
	}
}

func TestSignalWithEquals(t *testing.T) {
	// Identity equality: every write counts as a change, even with equal
	// contents.
	s := NewSignal([]string{"a"}).WithEquals(func(a, b []string) bool { return false })
	listener := newTestListener()

	WithListener(listener, func() {
		_ = s.Get()
	})

	s.Set([]string{"a"})
	if listener.getDirtyCount() != 1 {
		t.Errorf("identity equals should notify on equal contents, got %d", listener.getDirtyCount())
	}
}

func TestSignalUnsubscribe(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.base.unsubscribe(listener)
	count.Set(1)
	if listener.getDirtyCount() != 0 {
		t.Errorf("unsubscribed listener should not be notified, got %d", listener.getDirtyCount())
	}
}

func TestUntracked(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		Untracked(func() {
			_ = count.Get()
		})
	})

	count.Set(1)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Untracked read should not subscribe, got %d", listener.getDirtyCount())
	}

	if UntrackedGet(count) != 1 {
		t.Errorf("UntrackedGet returned %d, want 1", UntrackedGet(count))
	}
}
