package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/asyncell-dev/asyncell/pkg/cell"
	"github.com/asyncell-dev/asyncell/pkg/todo"
)

// cellMetrics tracks the observable life of the controller's cell:
// state transitions by variant, current watcher count, and mutation
// latency by operation.
type cellMetrics struct {
	transitionsTotal *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec
}

// newCellMetrics registers the collectors and a watcher-count gauge that
// reads the cell on scrape.
func newCellMetrics(registry prometheus.Registerer, namespace string, c *cell.AsyncCell[[]todo.Item]) *cellMetrics {
	factory := promauto.With(registry)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cell",
		Name:      "watchers",
		Help:      "Number of active subscriptions on the todo cell",
	}, func() float64 {
		return float64(c.Watchers())
	})

	return &cellMetrics{
		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cell",
			Name:      "transitions_total",
			Help:      "Total cell state transitions by resulting variant",
		}, []string{"state"}),

		mutationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mutation_duration_seconds",
			Help:      "Duration of controller mutations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// observe subscribes the transition counter to the cell and returns the
// unsubscribe handle.
func (m *cellMetrics) observe(c *cell.AsyncCell[[]todo.Item]) func() {
	return c.Watch(func(v cell.AsyncValue[[]todo.Item]) {
		m.transitionsTotal.WithLabelValues(stateLabel(v)).Inc()
	})
}

// timeMutation records the duration of op around fn.
func (m *cellMetrics) timeMutation(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.mutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return err
}

// stateLabel returns the metric label for the active variant.
func stateLabel(v cell.AsyncValue[[]todo.Item]) string {
	switch {
	case v.HasData():
		return "data"
	case v.HasError():
		return "error"
	default:
		return "loading"
	}
}
