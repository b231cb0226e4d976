// Package logging builds the slog loggers used by the api, seed and
// articlectl binaries and carries a request-scoped logger through
// context.Context.
//
// The HTTP layer enriches the logger once per request and stores it:
//
//	logger := logging.WithTrace(ctx, logging.WithRequestID(ctx, base))
//	ctx = logging.WithLogger(ctx, logger)
//
// Code further down asks for it with logging.FromContext(ctx), which falls
// back to slog.Default().
package logging
