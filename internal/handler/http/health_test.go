package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBreaker gobreaker.State

func (s stubBreaker) State() gobreaker.State { return gobreaker.State(s) }

func newPingMock(t *testing.T, pingErr error) *HealthHandler {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(10)

	exp := mock.ExpectPing()
	if pingErr != nil {
		exp.WillReturnError(pingErr)
	}
	return &HealthHandler{DB: db, Driver: "postgres", Version: "1.2.3"}
}

func serveHealth(t *testing.T, h http.Handler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	return rec.Code, body
}

func TestHealthHandler_Healthy(t *testing.T) {
	h := newPingMock(t, nil)

	code, body := serveHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "healthy", body.Checks["database"].Status)
	assert.Equal(t, "postgres", body.Checks["database"].Details["driver"])
	assert.NotContains(t, body.Checks, "circuit_breaker")
}

func TestHealthHandler_PingFails(t *testing.T) {
	h := newPingMock(t, errors.New("dial tcp: postgres://app:secret@db/cms refused"))

	code, body := serveHealth(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "database unreachable", body.Checks["database"].Message)
}

func TestHealthHandler_NoDatabase(t *testing.T) {
	code, body := serveHealth(t, &HealthHandler{})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not configured", body.Checks["database"].Message)
}

func TestHealthHandler_Breaker(t *testing.T) {
	tests := []struct {
		name       string
		state      gobreaker.State
		wantCode   int
		wantStatus string
	}{
		{name: "closed", state: gobreaker.StateClosed, wantCode: http.StatusOK, wantStatus: "healthy"},
		{name: "half-open", state: gobreaker.StateHalfOpen, wantCode: http.StatusOK, wantStatus: "degraded"},
		{name: "open", state: gobreaker.StateOpen, wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newPingMock(t, nil)
			h.Breaker = stubBreaker(tt.state)

			code, body := serveHealth(t, h)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Checks["circuit_breaker"].Status)
			assert.Equal(t, tt.state.String(), body.Checks["circuit_breaker"].Details["state"])
		})
	}
}

func TestHealthHandler_UnlimitedPoolIsDegraded(t *testing.T) {
	h := newPingMock(t, nil)
	h.DB.SetMaxOpenConns(0)

	code, body := serveHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body.Checks["database"].Status)
}

func TestReadyHandler(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		h := newPingMock(t, nil)
		rec := httptest.NewRecorder()
		(&ReadyHandler{DB: h.DB}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		h := newPingMock(t, errors.New("down"))
		rec := httptest.NewRecorder()
		(&ReadyHandler{DB: h.DB}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("no database", func(t *testing.T) {
		rec := httptest.NewRecorder()
		(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}
