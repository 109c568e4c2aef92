package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/asyncell-dev/asyncell/pkg/cell"
	"github.com/asyncell-dev/asyncell/pkg/todo"
)

func demoCmd() *cobra.Command {
	var (
		interval time.Duration
		limit    int
		latency  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the console periodic-add demo",
		Long: `Print every cell transition while a periodic adder grows the
todo list. Stops at the limit or on Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			scope := cell.NewScope(nil)
			defer scope.Dispose()

			repo := todo.NewMemoryRepo(todo.WithLatency(latency))
			ctrl := todo.NewController(scope, repo, todo.WithLogger(log))

			unsub := ctrl.Cell().Watch(func(v cell.AsyncValue[[]todo.Item]) {
				v.When(
					func() { fmt.Println("⏳ loading") },
					func(items []todo.Item) {
						fmt.Printf("✓ %d items", len(items))
						for _, it := range items {
							fmt.Printf("  [%d] %s", it.ID, it.Title)
						}
						fmt.Println()
					},
					func(err error) { fmt.Printf("✗ %v\n", err) },
				)
			})
			defer unsub()

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := ctrl.Refresh(ctx); err != nil {
				return err
			}

			adder := todo.NewPeriodicAdder(ctrl, interval, limit)
			if err := adder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Tick interval")
	cmd.Flags().IntVar(&limit, "limit", 5, "Items to add before stopping (0 = until Ctrl-C)")
	cmd.Flags().DurationVar(&latency, "latency", 200*time.Millisecond,
		"Simulated repository latency")

	return cmd
}
