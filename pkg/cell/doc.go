// Package cell provides the reactive core for asyncell.
//
// A cell is a mutable value container that notifies subscribers when its
// value changes. Reading a cell during an effect run automatically
// subscribes the effect, so dependencies are tracked at runtime rather
// than declared up front.
//
// # Core Types
//
// Cell[T] is a synchronous reactive value container:
//
//	count := cell.New(0)
//	value := count.Get()  // Read (subscribes current effect, if any)
//	count.Set(5)          // Write (notifies subscribers)
//	count.Update(func(n int) int { return n + 1 })
//
// AsyncCell[T] holds an AsyncValue[T], which is exactly one of Loading,
// Data(T), or Err(error) at any instant:
//
//	todos := cell.NewAsync[[]string]()
//	todos.Mutate(ctx, func(ctx context.Context) ([]string, error) {
//	    return repo.List(ctx)
//	})
//	todos.Get().When(
//	    func() { render("loading…") },
//	    func(items []string) { render(items) },
//	    func(err error) { render(err.Error()) },
//	)
//
// Effect runs side effects when dependencies change:
//
//	cell.NewEffect(scope, func() cell.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Ownership
//
// Reactive primitives are owned by a Scope. Disposing a scope disposes its
// effects, child scopes, and registered cleanups, in reverse creation
// order. A cell created by a controller lives exactly as long as the
// controller's scope.
//
// # Batching
//
// Multiple updates can be batched into a single notification phase:
//
//	cell.Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // Subscribers notified once, after both writes
//
// # Thread Safety
//
// All primitives are safe for concurrent use. Subscriber notification is
// synchronous and happens in subscription order, outside internal locks.
package cell
