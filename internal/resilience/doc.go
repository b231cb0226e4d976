// Package resilience groups the fault tolerance helpers used around the article database
// and the article API client.
//
//   - circuitbreaker wraps database and HTTP calls in a gobreaker circuit
//   - retry repeats transient failures with exponential backoff and jitter
//
// Usage Example:
//
//	dcb := circuitbreaker.NewDBCircuitBreaker(database)
//	repo := postgres.NewArticleRepo(dcb)
//
//	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    return database.PingContext(ctx)
//	})
package resilience
