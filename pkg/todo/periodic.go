package todo

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PeriodicAdder appends an item to a controller's list on a fixed
// interval until a limit is reached or its context is cancelled.
// Cancellation is first-class: the loop never outlives the caller.
type PeriodicAdder struct {
	ctrl     *Controller
	interval time.Duration
	limit    int
	log      *slog.Logger
}

// NewPeriodicAdder creates an adder for ctrl. limit <= 0 means run until
// the context is cancelled.
func NewPeriodicAdder(ctrl *Controller, interval time.Duration, limit int) *PeriodicAdder {
	return &PeriodicAdder{
		ctrl:     ctrl,
		interval: interval,
		limit:    limit,
		log:      slog.Default(),
	}
}

// Run blocks, adding one item per tick. It returns nil once the limit is
// reached and ctx.Err() if cancelled first. A failed add is logged and
// counted; the loop keeps ticking so a transiently failing repository
// does not stall it.
func (p *PeriodicAdder) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	added := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			title := fmt.Sprintf("auto #%d", added+1)
			if err := p.ctrl.Add(ctx, title); err != nil {
				p.log.Warn("periodic add failed", "error", err)
			}
			added++
			if p.limit > 0 && added >= p.limit {
				return nil
			}
		}
	}
}
