// Package logging defines the structured logger the sync engine is written
// against, plus an slog-backed implementation with optional file rotation.
package logging

import "context"

// Logger is the leveled, key-value logger injected into every component.
// Args alternate key and value:
//
//	log.Warn(ctx, "upload attempt failed", "key", key, "attempt", n)
//
// Components derive scoped loggers with With rather than repeating fields on
// every call.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs on
	// every record it emits.
	With(args ...any) Logger
}
