// Package reactive provides the fine-grained reactivity runtime the form
// core is built on: signals (reactive cells), memos (cached derivations),
// effects (reactive side effects), batching, and lifecycle scopes.
//
// Reading a Signal or Memo inside a tracked context (a memo computation or
// an effect body) automatically subscribes the current listener, so derived
// state recomputes when its inputs change without manual wiring.
//
//	count := reactive.NewSignal(0)
//	double := reactive.NewMemo(func() int { return count.Get() * 2 })
//
//	reactive.CreateEffect(func() reactive.Cleanup {
//	    fmt.Println("double is", double.Get())
//	    return nil
//	})
//
//	count.Set(3) // effect re-runs, prints "double is 6"
//
// Writes can be grouped with Batch so listeners are notified once:
//
//	reactive.Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	})
package reactive
