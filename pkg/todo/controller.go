package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asyncell-dev/asyncell/pkg/cell"
)

// ErrClosed is returned by controller operations after the owning scope
// has been disposed.
var ErrClosed = errors.New("todo: controller closed")

// Storer is the optional Repository extension that persists a mutated
// list back, so a later refresh observes the mutation.
type Storer interface {
	Store(items []Item)
}

// Controller owns an AsyncCell holding the todo list and performs all
// mutations on it. Observers subscribe to the cell; only the controller
// writes it. Its lifetime is tied to the scope passed at construction.
type Controller struct {
	cell *cell.AsyncCell[[]Item]
	repo Repository
	log  *slog.Logger

	// Refresh retry policy. Disabled by default; WithRetry opts in.
	retryCount int
	retryDelay time.Duration

	// mu serializes mutations so concurrent Adds cannot interleave
	// their read-modify-write cycles.
	mu     sync.Mutex
	closed bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithRetry enables automatic retry for Refresh: count additional
// attempts with delay between them. All other operations never retry.
func WithRetry(count int, delay time.Duration) ControllerOption {
	return func(c *Controller) {
		c.retryCount = count
		c.retryDelay = delay
	}
}

// WithLogger sets the controller's logger.
func WithLogger(log *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// NewController creates a controller owning a fresh cell in the Loading
// state. Disposing scope closes the controller: later mutations return
// ErrClosed and the cell stays in whatever state it last had.
func NewController(scope *cell.Scope, repo Repository, opts ...ControllerOption) *Controller {
	c := &Controller{
		cell: cell.NewAsync[[]Item](),
		repo: repo,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if scope != nil {
		scope.OnCleanup(c.close)
	}

	return c
}

// Cell returns the controller's cell for observation. Callers must not
// hold on to it past the controller's scope.
func (c *Controller) Cell() *cell.AsyncCell[[]Item] {
	return c.cell
}

func (c *Controller) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Refresh reloads the list from the repository through the Mutate guard.
// With WithRetry configured, failed loads are retried; otherwise a single
// failure settles the cell in the error state.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	return c.cell.Mutate(ctx, func(ctx context.Context) ([]Item, error) {
		var items []Item
		var err error

		attempts := 1 + c.retryCount
		for i := 0; i < attempts; i++ {
			if i > 0 {
				c.log.Debug("retrying refresh", "attempt", i+1)
				timer := time.NewTimer(c.retryDelay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil, ctx.Err()
				case <-timer.C:
				}
			}
			items, err = c.repo.List(ctx)
			if err == nil {
				return items, nil
			}
		}
		c.log.Error("refresh failed", "error", err)
		return nil, err
	})
}

// Add appends a new item titled title under the next identifier and
// settles the cell with the grown list.
func (c *Controller) Add(ctx context.Context, title string) error {
	return c.mutateList(ctx, func(items []Item) []Item {
		return Add(items, title)
	})
}

// RemoveLast drops the last item. On a single-element list it settles
// back to the unchanged list.
func (c *Controller) RemoveLast(ctx context.Context) error {
	return c.mutateList(ctx, RemoveLast)
}

// mutateList runs a pure list transform through the Mutate guard. The
// base list is the current Data snapshot when one exists, otherwise a
// fresh load from the repository.
func (c *Controller) mutateList(ctx context.Context, fn func([]Item) []Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	base, ok := c.cell.Peek().Value()

	return c.cell.Mutate(ctx, func(ctx context.Context) ([]Item, error) {
		if !ok {
			loaded, err := c.repo.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("load before mutate: %w", err)
			}
			base = loaded
		}

		next := fn(base)
		if s, ok := c.repo.(Storer); ok {
			s.Store(next)
		}
		return next, nil
	})
}
