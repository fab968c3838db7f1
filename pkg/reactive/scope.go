package reactive

import (
	"sync"
	"sync/atomic"
)

// Scope owns reactive primitives. Disposing a scope disposes the effects
// and child scopes it contains and runs registered cleanup functions, so a
// dynamically mounted subtree can be torn down in one call.
//
// Scopes form a hierarchy: a scope created while another is current becomes
// its child and is disposed with it.
type Scope struct {
	id uint64

	// parent is the parent scope, nil for a root.
	parent *Scope

	// children are child scopes.
	children   []*Scope
	childrenMu sync.Mutex

	// effects owned by this scope.
	effects   []*Effect
	effectsMu sync.Mutex

	// cleanups are functions registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	disposed atomic.Bool
}

// NewScope creates a scope under parent. If parent is nil and a scope is
// current on this goroutine, the current scope becomes the parent.
func NewScope(parent *Scope) *Scope {
	if parent == nil {
		parent = getCurrentScope()
	}

	s := &Scope{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(s)
	}

	return s
}

// ID returns the unique identifier for this scope.
func (s *Scope) ID() uint64 {
	return s.id
}

// Parent returns the parent scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsDisposed reports whether Dispose has been called.
func (s *Scope) IsDisposed() bool {
	return s.disposed.Load()
}

func (s *Scope) addChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()
	s.children = append(s.children, child)
}

func (s *Scope) removeChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()

	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// registerEffect ties an effect's lifetime to this scope.
func (s *Scope) registerEffect(e *Effect) {
	if s.disposed.Load() {
		return
	}

	s.effectsMu.Lock()
	defer s.effectsMu.Unlock()
	s.effects = append(s.effects, e)
}

// OnCleanup registers fn to run when this scope is disposed.
// If the scope is already disposed, fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed.Load() {
		fn()
		return
	}

	s.cleanupsMu.Lock()
	defer s.cleanupsMu.Unlock()
	s.cleanups = append(s.cleanups, fn)
}

// Run executes fn with this scope current on the calling goroutine, so
// effects and child scopes created inside fn are owned by it.
func (s *Scope) Run(fn func()) {
	old := setCurrentScope(s)
	defer setCurrentScope(old)
	fn()
}

// Dispose tears down the scope: child scopes first, then effects, then
// cleanups in registration order. Safe to call more than once.
func (s *Scope) Dispose() {
	if s.disposed.Swap(true) {
		return
	}

	s.childrenMu.Lock()
	children := s.children
	s.children = nil
	s.childrenMu.Unlock()
	for _, child := range children {
		child.Dispose()
	}

	s.effectsMu.Lock()
	effects := s.effects
	s.effects = nil
	s.effectsMu.Unlock()
	for _, e := range effects {
		e.Dispose()
	}

	s.cleanupsMu.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	s.cleanupsMu.Unlock()
	for _, fn := range cleanups {
		fn()
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}
}

// OnCleanup registers fn with the current scope, if one is active.
// Returns true if a scope accepted the cleanup.
func OnCleanup(fn func()) bool {
	s := getCurrentScope()
	if s == nil {
		return false
	}
	s.OnCleanup(fn)
	return true
}
