// Package logging defines the structured-logging interface the rest of the
// project depends on, keeping call sites decoupled from the backend.
package logging

import "context"

// Logger is a leveled, context-aware structured logger. Variadic args are
// alternating key-value pairs:
//
//	log.Warn(ctx, "refresh failed", "source", src.ID, "error", err)
type Logger interface {
	// Debug logs fine-grained diagnostics, normally filtered out.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs an unusual but non-fatal condition.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given pairs.
	With(args ...any) Logger
}
