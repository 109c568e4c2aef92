package todo

import (
	"context"
	"sync"
	"time"
)

// Repository loads the todo list. Implementations may be arbitrarily
// slow; callers pass a context and get either the list or an error.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
}

// MemoryRepo is an in-memory Repository with configurable simulated
// latency and failure injection. It stands in for the network-backed
// loaders the library is normally paired with.
type MemoryRepo struct {
	mu      sync.Mutex
	items   []Item
	latency time.Duration
	failErr error
}

// MemoryRepoOption configures a MemoryRepo.
type MemoryRepoOption func(*MemoryRepo)

// WithLatency sets the simulated network delay per List call.
func WithLatency(d time.Duration) MemoryRepoOption {
	return func(r *MemoryRepo) {
		r.latency = d
	}
}

// WithSeed sets the initial list contents.
func WithSeed(items []Item) MemoryRepoOption {
	return func(r *MemoryRepo) {
		r.items = append([]Item(nil), items...)
	}
}

// NewMemoryRepo creates a repository seeded with a single item unless
// WithSeed overrides it.
func NewMemoryRepo(opts ...MemoryRepoOption) *MemoryRepo {
	r := &MemoryRepo{
		items: []Item{{ID: 0, Title: "hello"}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns a copy of the current items after the configured latency.
// It returns early with ctx.Err() if the context is cancelled while
// waiting, and the injected error if failure injection is active.
func (r *MemoryRepo) List(ctx context.Context) ([]Item, error) {
	r.mu.Lock()
	latency := r.latency
	failErr := r.failErr
	r.mu.Unlock()

	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if failErr != nil {
		return nil, failErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

// Store replaces the repository contents. Used by the controller after a
// successful mutation so a later refresh observes the same list.
func (r *MemoryRepo) Store(items []Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]Item(nil), items...)
}

// FailWith makes subsequent List calls return err; nil restores normal
// operation.
func (r *MemoryRepo) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}
