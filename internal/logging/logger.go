// Package logging is the log sink for SteamKeeper services, repositories
// and the CLI. SlogLogger backs it with log/slog.
package logging

import "context"

// Logger takes a message plus alternating attribute names and values:
//
//	log.Warn(ctx, "unreadable cooldown expiry ignored", "id", id)
//
// The context is passed through to the handler.
type Logger interface {
	// Debug output is dropped unless the level is "debug".
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for conditions the app recovers from, such as a skipped record.
	Warn(ctx context.Context, msg string, args ...any)
	// Error is for operations that failed and were reported to the user.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
