package cell

import "context"

// Feed pumps values from ch into c, setting each received value as the
// data variant. It blocks until ctx is cancelled or ch is closed; a
// closed channel leaves the cell in its last state. Run it on its own
// goroutine to bridge a producer into the reactive world:
//
//	ticks := make(chan int)
//	go produce(ticks)
//	go cell.Feed(ctx, counter, ticks)
func Feed[T any](ctx context.Context, c *AsyncCell[T], ch <-chan T) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			c.SetData(v)
		}
	}
}
