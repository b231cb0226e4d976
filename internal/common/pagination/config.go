// Package pagination holds the limit/offset rules shared by every list
// operation: defaults, clamping, hasMore calculation and list metrics.
package pagination

// Config holds pagination configuration settings.
type Config struct {
	DefaultLimit int // Used when the caller omits limit or passes a non-positive one
	MaxLimit     int // Upper bound applied silently to larger limits
}

// DefaultConfig returns the default pagination configuration (limit=10, max=50).
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 10,
		MaxLimit:     50,
	}
}

// Valid reports whether the limits are positive and consistent.
func (c Config) Valid() bool {
	return c.DefaultLimit > 0 && c.MaxLimit >= c.DefaultLimit
}
