package cell

// Batch groups multiple cell updates into a single notification phase.
// All updates within the batch function are collected, deduplicated by
// listener ID, and the affected listeners are notified once when the
// outermost batch completes. Batches nest.
//
// Example:
//
//	cell.Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	})
//	// Watchers fire once with both changes applied
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
			releaseTrackingContext()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, l := range updates {
		id := l.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, l)
		}
	}

	for _, l := range unique {
		l.MarkDirty()
	}
}

// Untracked runs fn without tracking cell reads as dependencies.
// For single reads, Peek is clearer and cheaper.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
