// Package observability holds the logging, metrics and tracing subpackages
// shared by every binary in this module.
package observability
