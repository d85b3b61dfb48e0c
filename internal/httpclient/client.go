// Package httpclient builds the HTTP clients used to reach backend agent
// services: bounded response reads plus circuit-breaker protection so a
// failing model service cannot hammer the whole assistant.
package httpclient

import (
	"net/http"
	"time"

	"pragati/internal/logging"
)

// New builds a plain HTTP client with the given timeout.
func New(timeout time.Duration, logger logging.Logger) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{base: http.DefaultTransport, logger: logging.OrNop(logger)},
	}
}

type loggingRoundTripper struct {
	base   http.RoundTripper
	logger logging.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("%s %s failed after %s: %v", req.Method, req.URL.Path, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	t.logger.Debug("%s %s -> %d in %s", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}
