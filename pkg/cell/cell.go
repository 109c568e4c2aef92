package cell

import (
	"reflect"
	"sync"
)

// cellBase provides type-erased subscriber management.
// It is embedded in Cell[T] to share subscription logic.
//
// Unlike a dependency graph where notification order is irrelevant, cells
// guarantee delivery in subscription order, so removal shifts instead of
// swapping with the last element.
type cellBase struct {
	id uint64

	// subs are the listeners subscribed to this cell, in subscription order.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a listener, deduplicating by listener ID.
func (b *cellBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	b.subMu.Lock()
	defer b.subMu.Unlock()

	lid := l.ID()
	for _, existing := range b.subs {
		if existing.ID() == lid {
			return
		}
	}

	b.subs = append(b.subs, l)
}

// unsubscribe removes a listener. Removing a listener that is not
// subscribed is a no-op, which makes unsubscription idempotent.
func (b *cellBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	b.subMu.Lock()
	defer b.subMu.Unlock()

	lid := l.ID()
	for i, existing := range b.subs {
		if existing.ID() == lid {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// notifySubscribers notifies all subscribers that this cell changed.
// Copy-before-notify: the lock is never held while listener code runs.
// Inside a batch, notifications are queued instead and delivered once
// when the outermost batch completes.
func (b *cellBase) notifySubscribers() {
	b.subMu.RLock()
	subs := make([]Listener, len(b.subs))
	copy(subs, b.subs)
	b.subMu.RUnlock()

	if batchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// watcherCount returns the number of current subscribers.
func (b *cellBase) watcherCount() int {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	return len(b.subs)
}

// Cell is a synchronous reactive value container.
// Reading a Cell's value during an effect run automatically subscribes
// the effect to receive notifications when the value changes.
type Cell[T any] struct {
	base cellBase

	// value is the current cell value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal determines whether a write changed the value.
	// If nil, defaultEquals is used.
	equal func(T, T) bool
}

// New creates a cell with the given initial value.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{
		base: cellBase{
			id: nextID(),
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
// If called during an effect run, the effect will be notified when this
// cell's value changes.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	// Track dependency after releasing the value lock to prevent deadlock.
	if l := currentListener(); l != nil {
		c.base.subscribe(l)
		if e, ok := l.(*Effect); ok {
			e.addSource(&c.base)
		}
	}

	return value
}

// Peek returns the current value without subscribing.
func (c *Cell[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set updates the cell's value and notifies subscribers if it changed.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	changed := !c.equals(c.value, value)
	if changed {
		c.value = value
	}
	c.mu.Unlock()

	if changed {
		c.base.notifySubscribers()
	}
}

// Update atomically reads and updates the cell's value.
// The function receives the current value and returns the new one.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	oldValue := c.value
	newValue := fn(oldValue)
	changed := !c.equals(oldValue, newValue)
	if changed {
		c.value = newValue
	}
	c.mu.Unlock()

	if changed {
		c.base.notifySubscribers()
	}
}

// WithEquals returns the cell configured with a custom equality function.
// Useful for types where reflect.DeepEqual is too expensive or has the
// wrong semantics.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// Watch subscribes fn to value changes and returns an unsubscribe handle.
// fn is invoked synchronously on every notification, in subscription
// order, with the cell's value at that point. Unsubscribing is idempotent;
// after it returns, fn receives no further notifications.
func (c *Cell[T]) Watch(fn func(T)) func() {
	w := &watcher[T]{
		id:   nextID(),
		cell: c,
		fn:   fn,
	}
	c.base.subscribe(w)
	return func() {
		c.base.unsubscribe(w)
	}
}

// Watchers returns the number of current subscribers.
func (c *Cell[T]) Watchers() int {
	return c.base.watcherCount()
}

// ID returns the unique identifier for this cell.
func (c *Cell[T]) ID() uint64 {
	return c.base.id
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

// watcher adapts a plain callback to the Listener interface.
type watcher[T any] struct {
	id   uint64
	cell *Cell[T]
	fn   func(T)
}

func (w *watcher[T]) MarkDirty() {
	w.fn(w.cell.Peek())
}

func (w *watcher[T]) ID() uint64 {
	return w.id
}

// defaultEquals provides type-appropriate equality checking:
// == for common comparable types, reflect.DeepEqual otherwise.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
