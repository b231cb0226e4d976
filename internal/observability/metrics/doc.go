// Package metrics declares the Prometheus collectors exposed on /metrics.
// Everything registers with the default registry at init.
//
//	defer metrics.TimeOperation("list_active")()
package metrics
