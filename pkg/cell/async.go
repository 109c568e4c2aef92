package cell

import (
	"context"
	"fmt"
)

// asyncKind discriminates the variants of AsyncValue.
type asyncKind uint8

const (
	kindLoading asyncKind = iota
	kindData
	kindError
)

// AsyncValue is an immutable snapshot of an asynchronous computation.
// Exactly one of the three variants is active: Loading, Data(T), or
// Err(error).
type AsyncValue[T any] struct {
	kind  asyncKind
	value T
	err   error
}

// Loading returns the loading variant.
func Loading[T any]() AsyncValue[T] {
	return AsyncValue[T]{kind: kindLoading}
}

// Data returns the data variant holding v.
func Data[T any](v T) AsyncValue[T] {
	return AsyncValue[T]{kind: kindData, value: v}
}

// Err returns the error variant holding err.
func Err[T any](err error) AsyncValue[T] {
	return AsyncValue[T]{kind: kindError, err: err}
}

// IsLoading reports whether the loading variant is active.
func (v AsyncValue[T]) IsLoading() bool {
	return v.kind == kindLoading
}

// HasData reports whether the data variant is active.
func (v AsyncValue[T]) HasData() bool {
	return v.kind == kindData
}

// HasError reports whether the error variant is active.
func (v AsyncValue[T]) HasError() bool {
	return v.kind == kindError
}

// Value returns the held data and true when the data variant is active.
func (v AsyncValue[T]) Value() (T, bool) {
	return v.value, v.kind == kindData
}

// ValueOr returns the held data, or fallback for the other variants.
func (v AsyncValue[T]) ValueOr(fallback T) T {
	if v.kind == kindData {
		return v.value
	}
	return fallback
}

// Error returns the held error, or nil for the other variants.
func (v AsyncValue[T]) Error() error {
	if v.kind == kindError {
		return v.err
	}
	return nil
}

// When pattern-matches on the active variant. Nil handlers are skipped.
func (v AsyncValue[T]) When(onLoading func(), onData func(T), onError func(error)) {
	switch v.kind {
	case kindLoading:
		if onLoading != nil {
			onLoading()
		}
	case kindData:
		if onData != nil {
			onData(v.value)
		}
	case kindError:
		if onError != nil {
			onError(v.err)
		}
	}
}

// String returns a short human-readable description of the value.
func (v AsyncValue[T]) String() string {
	switch v.kind {
	case kindData:
		return fmt.Sprintf("data(%v)", v.value)
	case kindError:
		return fmt.Sprintf("error(%v)", v.err)
	default:
		return "loading"
	}
}

// MapAsync transforms the data variant with fn, passing the other
// variants through unchanged.
func MapAsync[T, U any](v AsyncValue[T], fn func(T) U) AsyncValue[U] {
	switch v.kind {
	case kindData:
		return Data(fn(v.value))
	case kindError:
		return Err[U](v.err)
	default:
		return Loading[U]()
	}
}

// AsyncCell is a reactive container for an AsyncValue.
//
// Unlike Cell, writes are not equality-gated: every SetLoading, SetData,
// and SetError delivers exactly one synchronous notification to each
// subscriber, even when the variant did not change. The cell is owned by
// whichever controller created it; observers hold only the unsubscribe
// handle returned by Watch.
type AsyncCell[T any] struct {
	cell *Cell[AsyncValue[T]]
}

// NewAsync creates an async cell starting in the Loading state.
func NewAsync[T any]() *AsyncCell[T] {
	c := New(Loading[T]())
	// Every transition notifies, including same-variant overwrites.
	c.WithEquals(func(AsyncValue[T], AsyncValue[T]) bool { return false })
	return &AsyncCell[T]{cell: c}
}

// Get returns the current snapshot and subscribes the current listener.
func (c *AsyncCell[T]) Get() AsyncValue[T] {
	return c.cell.Get()
}

// Peek returns the current snapshot without subscribing.
func (c *AsyncCell[T]) Peek() AsyncValue[T] {
	return c.cell.Peek()
}

// State is the accessor for one-shot consumers: the current snapshot,
// without subscribing. Equivalent to Peek.
func (c *AsyncCell[T]) State() AsyncValue[T] {
	return c.cell.Peek()
}

// SetLoading transitions to the loading variant and notifies subscribers.
func (c *AsyncCell[T]) SetLoading() {
	c.cell.Set(Loading[T]())
}

// SetData transitions to the data variant and notifies subscribers.
func (c *AsyncCell[T]) SetData(v T) {
	c.cell.Set(Data(v))
}

// SetError transitions to the error variant and notifies subscribers.
func (c *AsyncCell[T]) SetError(err error) {
	c.cell.Set(Err[T](err))
}

// Watch subscribes fn to every state transition and returns an idempotent
// unsubscribe handle. Delivery is synchronous, in subscription order.
func (c *AsyncCell[T]) Watch(fn func(AsyncValue[T])) func() {
	return c.cell.Watch(fn)
}

// Watchers returns the number of current subscribers.
func (c *AsyncCell[T]) Watchers() int {
	return c.cell.Watchers()
}

// ID returns the unique identifier for this cell.
func (c *AsyncCell[T]) ID() uint64 {
	return c.cell.ID()
}

// Mutate is the guard around an asynchronous operation: it transitions to
// Loading, runs op, and settles in Data on success or Err on failure.
// A panic inside op is recovered and settles the cell in the error
// variant. The settling error is also returned to the caller.
//
// No Data transition is ever observed for a failed operation.
func (c *AsyncCell[T]) Mutate(ctx context.Context, op func(context.Context) (T, error)) error {
	c.SetLoading()

	v, err := runGuarded(ctx, op)
	if err != nil {
		c.SetError(err)
		return err
	}

	c.SetData(v)
	return nil
}

// runGuarded runs op, converting a panic into an error.
func runGuarded[T any](ctx context.Context, op func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("async operation panicked: %v", r)
		}
	}()
	return op(ctx)
}
