// Package resiliency provides the shared HTTP client every adapter fetches
// through: bounded exponential backoff with jitter, a per-source circuit
// breaker, and W3C traceparent injection. Spec.md §7 specifies 2 retries,
// base 1s, cap 8s for transient network errors; that schedule is the
// default here.
package resiliency

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// Config controls the retry schedule. Defaults match spec.md §7.
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	ConnectTimeout  time.Duration
	TotalTimeout    time.Duration
	BreakerThreshold int
	BreakerReset    time.Duration
}

// DefaultConfig returns spec.md §7's retry schedule (2 retries, base 1s,
// cap 8s) and §5's adapter timeouts (15s connect, 60s total).
func DefaultConfig() Config {
	return Config{
		MaxRetries:       2,
		BaseDelay:        1 * time.Second,
		MaxDelay:         8 * time.Second,
		ConnectTimeout:   15 * time.Second,
		TotalTimeout:     60 * time.Second,
		BreakerThreshold: 5,
		BreakerReset:     30 * time.Second,
	}
}

// EnhancedClient wraps http.Client with retry/backoff, a circuit breaker,
// and trace-context injection, so adapters never hand-roll retry loops.
type EnhancedClient struct {
	client  *http.Client
	cfg     Config
	breaker *CircuitBreaker
}

// NewEnhancedClient builds a client for one named federal source (used as
// the circuit breaker's label in logs and errors).
func NewEnhancedClient(sourceName string, cfg Config) *EnhancedClient {
	return &EnhancedClient{
		client:  &http.Client{Timeout: cfg.TotalTimeout},
		cfg:     cfg,
		breaker: NewCircuitBreaker(sourceName, cfg.BreakerThreshold, cfg.BreakerReset),
	}
}

// Do executes req with retry/backoff and circuit breaking. A request that
// never succeeds after MaxRetries returns the last error, or, when the last
// attempt got a 5xx response, that response with a nil error; callers in
// internal/adapters treat that as an AdapterError and fall back to an
// empty sequence rather than propagating it.
func (c *EnhancedClient) Do(req *http.Request) (*http.Response, error) {
	injectTraceparent(req)

	if !c.breaker.Allow() {
		return nil, fmt.Errorf("resiliency: circuit breaker open for %s", c.breaker.name)
	}

	var resp *http.Response
	var err error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		resp, err = c.client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			c.breaker.Success()
			return resp, nil
		}
		if attempt == c.cfg.MaxRetries {
			break
		}
		select {
		case <-req.Context().Done():
			c.breaker.Failure()
			return nil, req.Context().Err()
		case <-time.After(backoffWithJitter(attempt, c.cfg.BaseDelay, c.cfg.MaxDelay)):
		}
	}

	c.breaker.Failure()
	return resp, err
}

func backoffWithJitter(attempt int, base, maxDelay time.Duration) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * base
	if delay > maxDelay {
		delay = maxDelay
	}
	jitter := time.Duration(0)
	if n, err := rand.Int(rand.Reader, big.NewInt(int64(base/4)+1)); err == nil {
		jitter = time.Duration(n.Int64())
	}
	return delay + jitter
}

func injectTraceparent(req *http.Request) {
	var traceBytes [16]byte
	traceID := ""
	if _, err := rand.Read(traceBytes[:]); err == nil {
		traceID = hex.EncodeToString(traceBytes[:])
	} else {
		traceID = fmt.Sprintf("%032x", time.Now().UnixNano())
	}
	req.Header.Set("traceparent", fmt.Sprintf("00-%s-0000000000000001-01", traceID))
}

// WithTimeout derives a context bounded by the client's connect timeout,
// for callers that want to cap dial time independent of TotalTimeout.
func (c *EnhancedClient) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.ConnectTimeout)
}

// CircuitBreaker is a CLOSED/OPEN/HALF_OPEN state machine guarding one
// adapter's outbound calls.
type CircuitBreaker struct {
	mu           sync.Mutex
	name         string
	failureCount int
	threshold    int
	lastFailure  time.Time
	resetTimeout time.Duration
	state        string
}

func NewCircuitBreaker(name string, threshold int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{name: name, threshold: threshold, resetTimeout: resetTimeout, state: "CLOSED"}
}

func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == "OPEN" {
		if time.Since(cb.lastFailure) > cb.resetTimeout {
			cb.state = "HALF_OPEN"
			return true
		}
		return false
	}
	return true
}

func (cb *CircuitBreaker) Success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = "CLOSED"
	cb.failureCount = 0
}

func (cb *CircuitBreaker) Failure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailure = time.Now()
	if cb.failureCount >= cb.threshold {
		cb.state = "OPEN"
	}
}

// State reports the breaker's current state, for health-check surfaces.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
