package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "asyncell",
		Short: "Reactive async-state cells for Go",
		Long: `asyncell is a small reactive state-management library.

Cells hold a value and notify subscribers on change; async cells hold
exactly one of loading, data, or error. The CLI ships two demos:

  serve    Expose a todo cell over REST, WebSocket, and /metrics
  demo     Print cell transitions while a periodic adder runs`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
