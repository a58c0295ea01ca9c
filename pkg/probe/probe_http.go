package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/pkg/check"
)

// defaultHTTPTimeout bounds every HTTP probe. The request is cancelled, not
// merely abandoned, when it elapses.
const defaultHTTPTimeout = 10 * time.Second

// AcceptFunc is the named condition under which a response passes a probe.
type AcceptFunc func(*http.Response) error

// StatusSuccess passes on any 2xx response.
func StatusSuccess(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("unexpected status %q", res.Status)
}

// EndpointRegistered passes when the route is served at all. Only 404 and
// 405 mean the endpoint is missing; anything else, including a rejected
// request body, proves the route exists.
func EndpointRegistered(res *http.Response) error {
	if res.StatusCode == http.StatusNotFound || res.StatusCode == http.StatusMethodNotAllowed {
		return fmt.Errorf("endpoint not registered, status %q", res.Status)
	}
	return nil
}

// PreflightAllowsOrigin warns when a preflight response does not allow the
// configured origin. CORS misconfiguration keeps browsers out but does not
// make the server unhealthy.
func PreflightAllowsOrigin(origin string) AcceptFunc {
	return func(res *http.Response) error {
		allowed := res.Header.Get("Access-Control-Allow-Origin")
		if allowed == "*" || allowed == origin {
			return nil
		}
		return check.Advise("preflight does not allow origin %s (got %q)", origin, allowed)
	}
}

type httpProbe struct {
	method  string
	url     string
	headers map[string]string
	timeout time.Duration
	accept  AcceptFunc
}

func NewHTTPProbe(method, url string, headers map[string]string, accept AcceptFunc) *httpProbe {
	return &httpProbe{
		method:  method,
		url:     url,
		headers: headers,
		timeout: defaultHTTPTimeout,
		accept:  accept,
	}
}

func (h *httpProbe) Exec() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, h.method, h.url, nil)
	if err != nil {
		return err
	}
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("Timeout after %s waiting for %s", h.timeout, h.url)
		}
		return err
	}
	defer res.Body.Close()

	if err := h.accept(res); err != nil {
		return err
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "http", "status": res.Status, "host": h.url}).Debug()
	return nil
}

type latencyProbe struct {
	url       string
	threshold time.Duration
}

// NewLatencyProbe measures the round-trip time of a GET request. It only
// ever advises: slow or failing requests downgrade the integration gate to
// a warning.
func NewLatencyProbe(url string, threshold time.Duration) *latencyProbe {
	return &latencyProbe{url: url, threshold: threshold}
}

func (l *latencyProbe) Exec() error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), defaultHTTPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return check.Advise("latency could not be measured: %s", err.Error())
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return check.Advise("latency could not be measured: %s", err.Error())
	}
	_ = res.Body.Close()

	if elapsed := time.Since(start); elapsed > l.threshold {
		return check.Advise("round trip took %s, threshold is %s", elapsed.Round(time.Millisecond), l.threshold)
	}
	return nil
}
