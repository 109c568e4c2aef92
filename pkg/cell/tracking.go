package cell

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine: the listener
// currently collecting dependencies, and the batch bookkeeping for that
// goroutine. Per-goroutine state keeps concurrent effect runs independent.
type trackingContext struct {
	// currentListener is what's currently tracking dependencies.
	// When a cell is read, it subscribes this listener.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// batchDepth tracks nested Batch() calls. When > 0, cell updates
	// queue notifications instead of firing immediately.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when the outermost
	// batch completes. Deduplicated by ID before notification.
	pendingUpdates []Listener
}

// trackingContexts stores per-goroutine tracking contexts. Goroutine IDs
// are never reused, so every entry must be released when its effect run
// or batch finishes; a leftover entry lives in the map forever.
var trackingContexts sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack.
// An implementation detail; never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> ".
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating one if needed. Only the write paths (starting a
// listener run, entering a batch) may call this; read paths go through
// peekTrackingContext so a plain Get or Set never allocates an entry.
func getTrackingContext() *trackingContext {
	gid := goroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// peekTrackingContext returns the current goroutine's tracking context,
// or nil if none exists.
func peekTrackingContext() *trackingContext {
	if ctx, ok := trackingContexts.Load(goroutineID()); ok {
		return ctx.(*trackingContext)
	}
	return nil
}

// releaseTrackingContext removes the goroutine's entry once nothing
// references it: no active listener, no open batch, no queued updates.
func releaseTrackingContext() {
	gid := goroutineID()
	v, ok := trackingContexts.Load(gid)
	if !ok {
		return
	}
	ctx := v.(*trackingContext)
	if ctx.currentListener == nil && ctx.batchDepth == 0 && len(ctx.pendingUpdates) == 0 {
		trackingContexts.Delete(gid)
	}
}

// currentListener returns the listener being tracked, or nil.
func currentListener() Listener {
	if ctx := peekTrackingContext(); ctx != nil {
		return ctx.currentListener
	}
	return nil
}

// setCurrentListener sets the current listener for dependency tracking.
// Returns the previous listener so it can be restored. Restoring to nil
// releases the goroutine's entry when no batch state remains.
func setCurrentListener(l Listener) Listener {
	if l == nil {
		ctx := peekTrackingContext()
		if ctx == nil {
			return nil
		}
		old := ctx.currentListener
		ctx.currentListener = nil
		releaseTrackingContext()
		return old
	}

	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func batchDepth() int {
	if ctx := peekTrackingContext(); ctx != nil {
		return ctx.batchDepth
	}
	return 0
}

func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth returns true when the outermost batch completes.
func decrementBatchDepth() bool {
	ctx := peekTrackingContext()
	if ctx == nil {
		return false
	}
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// queuePendingUpdate records a listener to notify when the batch ends.
// Only called with an open batch, so the context already exists.
func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// drainPendingUpdates returns and clears the pending updates queue.
func drainPendingUpdates() []Listener {
	ctx := peekTrackingContext()
	if ctx == nil {
		return nil
	}
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	return updates
}
