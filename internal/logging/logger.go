// Package logging defines the structured-logging interface the server is
// written against. The rest of the code never imports a logging backend
// directly; it receives a Logger through its constructor.
package logging

import "context"

// Logger logs structured messages. Variadic args are alternating key-value
// pairs, as in:
//
//	log.Info(ctx, "diary created", "user_id", userID, "seq", seq)
type Logger interface {
	// Info records normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records unusual conditions the request still survived.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that attaches the given key-value pairs to
	// every record it emits.
	With(args ...any) Logger
}
