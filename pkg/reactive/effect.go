package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect that re-runs when its dependencies
// change. Effects run immediately when created and re-run synchronously on
// notification (inside a Batch, once at batch completion). They can return
// a Cleanup that runs before each re-run and on disposal.
type Effect struct {
	id uint64

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the cleanup from the last run.
	cleanup Cleanup

	// sources are the signals/memos this effect depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// scope owns this effect's lifetime, if any.
	scope *Scope

	// disposed indicates the effect has been torn down.
	disposed atomic.Bool

	// running guards against re-entrant runs when the effect body writes
	// one of its own dependencies.
	running atomic.Bool
}

// CreateEffect creates and immediately runs an effect. The effect re-runs
// whenever any signal or memo it read during its last run changes. If a
// scope is active on this goroutine, the effect is disposed with it.
func CreateEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		scope: getCurrentScope(),
	}

	if e.scope != nil {
		e.scope.registerEffect(e)
	}

	e.run()
	return e
}

// MarkDirty re-runs the effect. Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if !e.running.CompareAndSwap(false, true) {
		return
	}
	defer e.running.Store(false)
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect body, re-tracking dependencies from scratch.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(old)
}

// addSource records a dependency. Implements sourceTracker.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose tears the effect down: runs the pending cleanup and unsubscribes
// from all sources. Safe to call more than once.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

var _ sourceTracker = (*Effect)(nil)
