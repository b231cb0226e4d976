package metrics

import "time"

// RecordGraphQLOperation records one executed GraphQL operation.
// An empty operation name is recorded as "anonymous".
func RecordGraphQLOperation(operation string, ok bool, duration time.Duration) {
	if operation == "" {
		operation = "anonymous"
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	GraphQLOperationsTotal.WithLabelValues(operation, status).Inc()
	GraphQLOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordArticleMutation records the outcome of an article mutation.
// Action is one of "create", "update", "delete".
func RecordArticleMutation(action, result string) {
	ArticleMutationsTotal.WithLabelValues(action, result).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
