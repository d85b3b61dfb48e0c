package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func testBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          20 * time.Millisecond,
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig())
	failure := errors.New("boom")

	for i := 0; i < 3; i++ {
		if err := cb.Allow(); err != nil {
			t.Fatalf("request %d blocked while closed: %v", i, err)
		}
		cb.Mark(failure)
	}

	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %v", cb.State())
	}
	if err := cb.Allow(); err == nil {
		t.Fatal("expected open breaker to block requests")
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig())
	failure := errors.New("boom")

	cb.Mark(failure)
	cb.Mark(failure)
	cb.Mark(nil)
	cb.Mark(failure)
	cb.Mark(failure)

	if cb.State() != StateClosed {
		t.Fatalf("non-consecutive failures must not open the breaker, got %v", cb.State())
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig())
	failure := errors.New("boom")

	for i := 0; i < 3; i++ {
		cb.Mark(failure)
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %v", cb.State())
	}

	time.Sleep(30 * time.Millisecond)
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected half-open probe to be allowed: %v", err)
	}
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half-open, got %v", cb.State())
	}

	cb.Mark(nil)
	cb.Mark(nil)
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after recovery, got %v", cb.State())
	}
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig())
	failure := errors.New("boom")

	for i := 0; i < 3; i++ {
		cb.Mark(failure)
	}
	time.Sleep(30 * time.Millisecond)
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected half-open probe to be allowed: %v", err)
	}

	cb.Mark(failure)
	if cb.State() != StateOpen {
		t.Fatalf("expected reopened breaker, got %v", cb.State())
	}
}

type stubTransport struct {
	status int
	err    error
}

func (s stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func TestRoundTripperOpensOnServerErrors(t *testing.T) {
	rt := WrapTransportWithCircuitBreaker(stubTransport{status: http.StatusInternalServerError}, "test", testBreakerConfig())

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
		resp, err := rt.RoundTrip(req)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		_ = resp.Body.Close()
	}

	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	if _, err := rt.RoundTrip(req); err == nil {
		t.Fatal("expected breaker to block after repeated 500s")
	}
}

func TestRoundTripperIgnoresContextCancellation(t *testing.T) {
	rt := WrapTransportWithCircuitBreaker(stubTransport{err: context.Canceled}, "test", testBreakerConfig())

	// User-initiated cancellations never trip the breaker.
	for i := 0; i < 10; i++ {
		req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
		if _, err := rt.RoundTrip(req); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	}

	okRT := WrapTransportWithCircuitBreaker(stubTransport{status: http.StatusOK}, "test2", testBreakerConfig())
	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	resp, err := okRT.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()
}

func TestRateLimitStatusCountsAsFailure(t *testing.T) {
	if !isBreakerFailureStatus(http.StatusTooManyRequests) {
		t.Fatal("429 should count as a breaker failure")
	}
	if isBreakerFailureStatus(http.StatusNotFound) {
		t.Fatal("404 should not count as a breaker failure")
	}
}
