// Package gqlclient is a GraphQL client for the sports article API.
//
// Reads are retried with exponential backoff on transient failures; mutations
// are sent once. All calls pass through a circuit breaker and an optional
// token-bucket rate limiter.
package gqlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"sports-cms/internal/handler/http/requestid"
	"sports-cms/internal/resilience/circuitbreaker"
	"sports-cms/internal/resilience/retry"
)

// Config configures a Client.
type Config struct {
	// Endpoint is the GraphQL URL, e.g. http://localhost:4000/graphql
	Endpoint string

	// Timeout bounds a single HTTP round trip
	Timeout time.Duration

	// RequestsPerSecond enables client-side throttling when positive
	RequestsPerSecond float64
	Burst             int

	Retry   retry.Config
	Breaker circuitbreaker.Config
}

// DefaultConfig returns the configuration used by interactive tools.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:          endpoint,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 10,
		Burst:             5,
		Retry:             retry.APIClientConfig(),
		Breaker:           circuitbreaker.APIClientConfig(),
	}
}

// Client talks to the article GraphQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	retry      retry.Config
	logger     *slog.Logger
}

// New creates a client from cfg.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = retry.APIClientConfig()
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.APIClientConfig()
	}

	c := &Client{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    circuitbreaker.New(cfg.Breaker),
		retry:      cfg.Retry,
		logger:     logger,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// graphQLRequest represents a GraphQL request
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLResponse represents a GraphQL response
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code  string `json:"code"`
			Field string `json:"field"`
		} `json:"extensions"`
	} `json:"errors,omitempty"`
}

// do executes a GraphQL document and decodes data into result.
// Idempotent documents are retried on transient transport failures.
// Errors reported inside a well-formed response do not count against the breaker.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, idempotent bool, result any) error {
	var resp *graphQLResponse
	call := func() error {
		out, err := circuitbreaker.Do(c.breaker, func() (*graphQLResponse, error) {
			return c.roundTrip(ctx, query, variables)
		})
		if err != nil {
			return err
		}
		resp = out
		return nil
	}

	var err error
	if idempotent {
		err = retry.WithBackoff(ctx, c.retry, call)
	} else {
		err = call()
	}
	if err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		first := resp.Errors[0]
		return &ResponseError{Message: first.Message, Code: first.Extensions.Code, Field: first.Extensions.Field}
	}
	if result != nil {
		if err := json.Unmarshal(resp.Data, result); err != nil {
			return fmt.Errorf("unmarshal data: %w", err)
		}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, query string, variables map[string]any) (*graphQLResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	jsonData, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		httpReq.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("graphql round trip",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &gqlResp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
