// Package middleware provides net/http middleware for asyncell demo
// servers: Prometheus request metrics and OpenTelemetry tracing.
//
// Both are configured with functional options and mount on any chi or
// stdlib router:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(middleware.WithNamespace("myapp")))
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("myapp")))
package middleware
