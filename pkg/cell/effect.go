package cell

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect that re-runs when its dependencies
// change. Dependencies are tracked automatically: every cell read via Get
// during the run subscribes the effect.
//
// Effects run immediately when created and re-run synchronously when a
// dependency changes. A Cleanup returned by the function runs before each
// re-run and on disposal. Writes to a cell the effect itself reads are
// ignored while the effect is running, so an effect cannot retrigger
// itself.
type Effect struct {
	id uint64

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the cells this effect currently depends on.
	sources   []*cellBase
	sourcesMu sync.Mutex

	// running guards against re-entrant runs.
	running atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// NewEffect creates and immediately runs an effect owned by scope.
// The effect is disposed when the scope is disposed. A nil scope creates
// an unowned effect; dispose it via the scope mechanism it is later
// attached to, or let it live for the process lifetime.
func NewEffect(scope *Scope, fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}

	if scope != nil {
		scope.registerEffect(e)
	}

	e.run()
	return e
}

// MarkDirty re-runs the effect. Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect function, re-collecting dependencies.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	if !e.running.CompareAndSwap(false, true) {
		// Re-entrant trigger from the effect's own body.
		return
	}
	defer e.running.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Unsubscribe from old sources; the run below re-subscribes the
	// dependencies that are still read.
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

// addSource records a dependency. Called by cells read during the run.
func (e *Effect) addSource(source *cellBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// dispose runs the final cleanup and unsubscribes from all sources.
func (e *Effect) dispose() {
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
