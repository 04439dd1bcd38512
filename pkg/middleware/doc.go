// Package middleware provides production-grade HTTP middleware for
// lumen applications.
//
// This package includes:
//   - Request id assignment (ULIDs, proxy-friendly)
//   - Structured request logging via log/slog
//   - Prometheus metrics middleware
//   - OpenTelemetry distributed tracing middleware
//
// All middleware uses the standard func(http.Handler) http.Handler
// shape and mounts through App.Use. Order matters only for the
// request id, which the logger and tracer pick up when it runs first:
//
//	app.Use(
//	    middleware.RequestID(),
//	    middleware.Logger(logger),
//	    middleware.Prometheus(),
//	    middleware.OpenTelemetry(),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects request counts, durations,
// sizes, and in-flight totals, plus stream counts for event-stream
// responses. Expose them on a separate port:
//
//	http.Handle("/metrics", promhttp.Handler())
//	go http.ListenAndServe(":9090", nil)
//
// Configure with options:
//
//	middleware.Prometheus(
//	    middleware.WithNamespace("myapp"),
//	    middleware.WithBuckets([]float64{0.01, 0.1, 1, 10}),
//	)
//
// # OpenTelemetry Tracing
//
// The OpenTelemetry middleware opens a server span per request and
// injects it into the request context, so handlers that declare a
// context.Context parameter inherit the trace:
//
//	func show(ctx context.Context, p ShowParams) (any, error) {
//	    // Database call inherits the span
//	    row := db.QueryRowContext(ctx, "SELECT ...")
//	    ...
//	}
//
// Skip noisy endpoints with a filter:
//
//	middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	)
package middleware
