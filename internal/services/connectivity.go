// internal/services/connectivity.go
package services

import (
	"context"
	"net/http"
	"time"
)

// ConnectivityChecker answers "can we reach the network right now". The
// receipt pipeline asks before every provider call and the drain scheduler
// polls it to detect the offline->online transition.
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}

// HTTPConnectivityChecker probes a URL with a short HEAD request.
type HTTPConnectivityChecker struct {
	probeURL   string
	timeout    time.Duration
	httpClient *http.Client
}

func NewHTTPConnectivityChecker(probeURL string, timeout time.Duration) *HTTPConnectivityChecker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPConnectivityChecker{
		probeURL:   probeURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (c *HTTPConnectivityChecker) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// StaticConnectivityChecker reports a fixed answer. Test double.
type StaticConnectivityChecker struct {
	IsOnline bool
}

func (c *StaticConnectivityChecker) Online(context.Context) bool { return c.IsOnline }
