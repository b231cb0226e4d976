// Package tracing sets up the OpenTelemetry SDK and traces HTTP requests.
//
// Middleware opens one server span per request, named after the method and
// normalized path, and echoes the trace id in X-Trace-Id. Resolvers open
// child spans with StartSpan:
//
//	ctx, span := tracing.StartSpan(ctx, "graphql.articles")
//	defer span.End()
package tracing
