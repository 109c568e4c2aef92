// Package server exposes a todo controller over HTTP: REST endpoints
// for mutations, a WebSocket that pushes every cell transition, a
// Prometheus metrics endpoint, and a health check.
//
// The server observes the controller's cell exactly the way any other
// client would (through Watch subscriptions) and never writes the cell
// directly.
//
//	ctrl := todo.NewController(scope, repo)
//	srv := server.New(ctrl, server.DefaultConfig())
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
