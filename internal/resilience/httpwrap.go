package resilience

import (
	"context"
	"errors"
	"net/http"
)

// HTTPClient wraps an http.Client with a circuit breaker. Each request is
// attempted exactly once: the tracking flow surfaces upstream failures to the
// caller instead of retrying them. Timeouts come from the wrapped client.
type HTTPClient struct {
	Client  *http.Client
	Breaker *Breaker
}

// Do executes the request. When the breaker is open ErrOpenCircuit is
// returned without touching the network. Responses with a 5xx status count
// as failures for breaker accounting but are still returned to the caller.
func (cl HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if cl.Client == nil {
		return nil, errors.New("resilience: http client not configured")
	}
	if cl.Breaker != nil && !cl.Breaker.Allow(ctx) {
		return nil, ErrOpenCircuit
	}
	resp, err := cl.Client.Do(req.WithContext(ctx))
	if cl.Breaker != nil {
		cl.Breaker.Report(ctx, err == nil && resp.StatusCode < http.StatusInternalServerError)
	}
	return resp, err
}
