// Package asyncell provides the public API for the asyncell library.
//
// This is the recommended import for most applications:
//
//	import "github.com/asyncell-dev/asyncell"
//
// Usage:
//
//	scope := asyncell.NewScope(nil)
//	count := asyncell.New(0)
//	todos := asyncell.NewAsync[[]string]()
//	asyncell.NewEffect(scope, func() asyncell.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
package asyncell

import (
	"context"

	"github.com/asyncell-dev/asyncell/pkg/cell"
)

// =============================================================================
// Reactive primitives (re-export from pkg/cell)
// =============================================================================

// Cell is a reactive container holding a single value. Setting a new value
// notifies subscribers unless it compares equal to the current one.
type Cell[T any] = cell.Cell[T]

// AsyncValue holds exactly one of loading, data, or error.
type AsyncValue[T any] = cell.AsyncValue[T]

// AsyncCell is a Cell specialized to AsyncValue. Every state transition
// notifies subscribers, even when the payload is unchanged.
type AsyncCell[T any] = cell.AsyncCell[T]

// New creates a cell with the given initial value.
//
// Example:
//
//	count := asyncell.New(0)
//	count.Set(1)
//	value := count.Get() // 1
func New[T any](initial T) *Cell[T] {
	return cell.New(initial)
}

// NewAsync creates an async cell starting in the loading state.
func NewAsync[T any]() *AsyncCell[T] {
	return cell.NewAsync[T]()
}

// Loading returns the loading variant of AsyncValue.
func Loading[T any]() AsyncValue[T] { return cell.Loading[T]() }

// Data returns the data variant carrying v.
func Data[T any](v T) AsyncValue[T] { return cell.Data(v) }

// Err returns the error variant carrying err.
func Err[T any](err error) AsyncValue[T] { return cell.Err[T](err) }

// MapAsync transforms the data payload of an AsyncValue, passing loading and
// error states through untouched.
func MapAsync[T, U any](v AsyncValue[T], fn func(T) U) AsyncValue[U] {
	return cell.MapAsync(v, fn)
}

// =============================================================================
// Effects and ownership
// =============================================================================

// Scope owns effects and cleanups; disposing it releases everything it owns.
type Scope = cell.Scope

// Effect re-runs a function whenever any cell it read changes.
type Effect = cell.Effect

// Cleanup is run before an effect re-executes and when it is disposed.
type Cleanup = cell.Cleanup

// Listener receives change notifications from cells.
type Listener = cell.Listener

// NewScope creates a scope. A nil parent makes a root scope; otherwise the
// scope is disposed along with its parent.
func NewScope(parent *Scope) *Scope {
	return cell.NewScope(parent)
}

// NewEffect registers an effect in scope and runs it immediately.
//
// Example:
//
//	asyncell.NewEffect(scope, func() asyncell.Cleanup {
//	    fmt.Println("count changed to", count.Get())
//	    return nil
//	})
func NewEffect(scope *Scope, fn func() Cleanup) *Effect {
	return cell.NewEffect(scope, fn)
}

// Batch defers subscriber notification until fn returns, delivering at most
// one notification per cell.
func Batch(fn func()) {
	cell.Batch(fn)
}

// Untracked runs fn without dependency tracking, so cells read inside it are
// not captured as effect sources.
func Untracked(fn func()) {
	cell.Untracked(fn)
}

// Feed forwards values from ch into c as data states until ctx is cancelled
// or ch is closed.
func Feed[T any](ctx context.Context, c *AsyncCell[T], ch <-chan T) {
	cell.Feed(ctx, c, ch)
}
