// Package http provides the HTTP plumbing around the GraphQL endpoint:
// health probes, metrics, logging, panic recovery, timeouts and input limits.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"sports-cms/internal/handler/http/respond"
	"sports-cms/internal/observability/metrics"
)

// Check and overall statuses. Degraded checks still answer 200.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// poolSaturation is the in-use fraction above which the pool is reported degraded.
const poolSaturation = 0.8

// HealthResponse is the /health body.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"` // RFC 3339, UTC
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the outcome of one named check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerState exposes the state of the database circuit breaker.
type BreakerState interface {
	State() gobreaker.State
}

// HealthHandler reports database reachability, pool usage and, when set,
// the database circuit breaker state.
type HealthHandler struct {
	DB      *sql.DB
	Driver  string
	Version string
	Breaker BreakerState
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{"database": h.database(ctx)}
	if h.Breaker != nil {
		checks["circuit_breaker"] = breakerCheck(h.Breaker.State())
	}

	overall, code := StatusHealthy, http.StatusOK
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			overall, code = StatusUnhealthy, http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) database(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: StatusUnhealthy, Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Default().Warn("health: database ping failed",
			slog.Any("error", respond.SanitizeError(err)))
		return CheckStatus{Status: StatusUnhealthy, Message: "database unreachable"}
	}

	s := h.DB.Stats()
	metrics.UpdateDBConnectionStats(s.InUse, s.Idle)
	check := CheckStatus{
		Status: StatusHealthy,
		Details: map[string]any{
			"driver":               h.Driver,
			"max_open_connections": s.MaxOpenConnections,
			"open_connections":     s.OpenConnections,
			"in_use":               s.InUse,
			"idle":                 s.Idle,
			"wait_count":           s.WaitCount,
			"wait_duration_ms":     s.WaitDuration.Milliseconds(),
		},
	}

	switch {
	case s.MaxOpenConnections == 0:
		check.Status = StatusDegraded
		check.Message = "connection pool has no upper bound"
	case s.MaxOpenConnections > 1:
		// sqlite runs a single connection that is always busy serving this check
		used := float64(s.InUse) / float64(s.MaxOpenConnections)
		check.Details["utilization_percent"] = used * 100
		if used >= poolSaturation {
			check.Status = StatusDegraded
			check.Message = "connection pool nearly exhausted"
		}
	}
	return check
}

func breakerCheck(state gobreaker.State) CheckStatus {
	check := CheckStatus{Status: StatusHealthy, Details: map[string]any{"state": state.String()}}
	switch state {
	case gobreaker.StateHalfOpen:
		check.Status = StatusDegraded
	case gobreaker.StateOpen:
		check.Status = StatusUnhealthy
		check.Message = "database circuit breaker is open"
	}
	return check
}

// ReadyHandler answers 200 once the database responds to a ping within two seconds.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	plainText(w, "ready")
}

// LiveHandler answers 200 whenever the process can serve a request.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	plainText(w, "alive")
}

func plainText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
