// Package middleware provides the CORS and per-client rate limiting middleware
// used in front of the GraphQL endpoint.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// OriginValidator decides whether a cross-origin request is allowed.
type OriginValidator interface {
	IsAllowed(origin string) bool
}

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// Validator is the origin validation strategy.
	Validator OriginValidator

	// AllowedMethods specifies which HTTP methods are allowed in CORS requests.
	AllowedMethods []string

	// AllowedHeaders specifies which request headers are allowed in CORS requests.
	AllowedHeaders []string

	// MaxAge specifies how long preflight results can be cached (in seconds).
	MaxAge int

	// Logger receives rejected-origin warnings. Nil disables logging.
	Logger *slog.Logger
}

// NewCORSConfig builds a config for the given origins with the methods and
// headers the GraphQL endpoint needs. A single "*" allows every origin.
func NewCORSConfig(origins []string, logger *slog.Logger) (CORSConfig, error) {
	validator, err := NewWhitelistValidator(origins)
	if err != nil {
		return CORSConfig{}, err
	}
	return CORSConfig{
		Validator:      validator,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "traceparent"},
		MaxAge:         86400,
		Logger:         logger,
	}, nil
}

// CORS returns an HTTP middleware that handles CORS for cross-origin requests.
//
// Behavior:
//   - If Origin header is empty, skip CORS processing (same-origin request)
//   - If Origin is not allowed, log a warning and continue without CORS headers
//   - If Origin is allowed and request is OPTIONS (preflight), answer 204 without calling next
//   - If Origin is allowed and request is not OPTIONS, set Access-Control-Allow-Origin and continue
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if config.Validator == nil || !config.Validator.IsAllowed(origin) {
				if config.Logger != nil {
					config.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method))
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WhitelistValidator implements case-insensitive exact-match origin validation.
type WhitelistValidator struct {
	allowAll       bool
	allowedOrigins map[string]struct{}
}

// NewWhitelistValidator validates and normalizes origins.
// Each origin must be an http(s) URL without path, query or fragment.
func NewWhitelistValidator(origins []string) (*WhitelistValidator, error) {
	v := &WhitelistValidator{allowedOrigins: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			v.allowAll = true
			continue
		}

		u, err := url.Parse(origin)
		if err != nil {
			return nil, fmt.Errorf("invalid origin URL '%s': %w", origin, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("origin must use http or https scheme: %s", origin)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("origin must include a host: %s", origin)
		}
		if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
			return nil, fmt.Errorf("origin must not include path, query or fragment: %s", origin)
		}

		v.allowedOrigins[normalizeOrigin(origin)] = struct{}{}
	}

	if !v.allowAll && len(v.allowedOrigins) == 0 {
		return nil, fmt.Errorf("at least one allowed origin must be configured")
	}
	return v, nil
}

// IsAllowed checks if the given origin is in the whitelist.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	if v.allowAll {
		return true
	}
	_, ok := v.allowedOrigins[normalizeOrigin(origin)]
	return ok
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}
