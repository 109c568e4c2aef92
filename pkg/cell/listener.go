package cell

// Listener is anything that can be notified when a cell changes.
// Effects implement it, as do the function subscriptions created by Watch.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For effects this triggers a re-run; for Watch subscriptions it
	// invokes the callback with the cell's current value.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing and unsubscription.
	ID() uint64
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()
