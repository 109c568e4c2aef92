package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/asyncell-dev/asyncell/pkg/cell"
	"github.com/asyncell-dev/asyncell/pkg/server"
	"github.com/asyncell-dev/asyncell/pkg/todo"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		latency time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo todo server",
		Long: `Serve a todo cell over HTTP.

REST mutations on /api/todos, live transitions on /ws, Prometheus
metrics on /metrics. The repository simulates network latency so the
loading state is visible.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			slog.SetDefault(log)

			scope := cell.NewScope(nil)
			defer scope.Dispose()

			repo := todo.NewMemoryRepo(todo.WithLatency(latency))
			ctrl := todo.NewController(scope, repo, todo.WithLogger(log))

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := ctrl.Refresh(ctx); err != nil {
				log.Warn("initial load failed, serving anyway", "error", err)
			}

			cfg := server.DefaultConfig()
			cfg.Addr = addr
			cfg.Logger = log

			return server.New(ctrl, cfg).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().DurationVar(&latency, "latency", 300*time.Millisecond,
		"Simulated repository latency")

	return cmd
}
