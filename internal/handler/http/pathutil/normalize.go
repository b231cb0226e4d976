// Package pathutil normalizes request paths for use as metric labels and span names.
package pathutil

import "strings"

// Other is the label used for any path the server does not route.
const Other = "/other"

// knownPaths lists every route the server registers.
var knownPaths = map[string]struct{}{
	"/":        {},
	"/graphql": {},
	"/health":  {},
	"/ready":   {},
	"/live":    {},
	"/metrics": {},
}

// NormalizePath maps a request path to a bounded set of labels so that
// scanners probing random URLs cannot inflate metric cardinality.
//
// Examples:
//
//	NormalizePath("/graphql")          // "/graphql"
//	NormalizePath("/graphql/")         // "/graphql"
//	NormalizePath("/health?verbose=1") // "/health"
//	NormalizePath("/wp-admin/login")   // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return Other
}

// ExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func ExpectedCardinality() int {
	return len(knownPaths) + 1
}
