// Package middleware provides HTTP middleware components for the promptflow API.
//
// The middleware package is organized into separate files by concern:
//
//   - recovery.go: Panic recovery middleware
//   - logging.go: Request logging middleware
//   - security_headers.go: Security headers middleware
//   - body_limit.go: Request body size limiting middleware
//   - request_id.go: Request ID generation and tracking middleware
//   - metrics.go: HTTP metrics collection middleware
//   - response_writer.go: status-capturing writer that keeps streaming support
//
// All middleware follows the standard pattern: func(http.Handler) http.Handler
// so it plugs straight into chi's Use.
//
// Example usage:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID())
//	r.Use(middleware.PanicRecovery(logger))
//	r.Use(middleware.Logging(logger, middleware.GetRequestID))
//	r.Use(middleware.Metrics(registry))
package middleware
