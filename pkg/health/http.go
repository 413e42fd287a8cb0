package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPChecker reports healthy when the endpoint answers with a status
// code inside the accepted range (2xx/3xx unless overridden).
type HTTPChecker struct {
	URL     string
	Method  string
	Headers map[string]string

	// Accepted status code range, inclusive
	StatusMin int
	StatusMax int

	Client *http.Client
}

// NewHTTPChecker probes url with GET and a 10s timeout
func NewHTTPChecker(url string) *HTTPChecker {
	return &HTTPChecker{
		URL:       url,
		Method:    http.MethodGet,
		StatusMin: 200,
		StatusMax: 399,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithMethod overrides the request method
func (h *HTTPChecker) WithMethod(method string) *HTTPChecker {
	h.Method = method
	return h
}

// WithHeader adds a request header
func (h *HTTPChecker) WithHeader(key, value string) *HTTPChecker {
	if h.Headers == nil {
		h.Headers = make(map[string]string)
	}
	h.Headers[key] = value
	return h
}

// WithStatusRange overrides the accepted status code range
func (h *HTTPChecker) WithStatusRange(min, max int) *HTTPChecker {
	h.StatusMin = min
	h.StatusMax = max
	return h
}

// WithTimeout overrides the request timeout
func (h *HTTPChecker) WithTimeout(timeout time.Duration) *HTTPChecker {
	h.Client.Timeout = timeout
	return h
}

func (h *HTTPChecker) Check(ctx context.Context) Result {
	start := time.Now()
	fail := func(format string, args ...interface{}) Result {
		return Result{
			Message:   fmt.Sprintf(format, args...),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	req, err := http.NewRequestWithContext(ctx, h.Method, h.URL, nil)
	if err != nil {
		return fail("bad request: %v", err)
	}
	for key, value := range h.Headers {
		req.Header.Set(key, value)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return fail("request failed: %v", err)
	}
	// Drain so the connection can be reused across probe attempts.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	if resp.StatusCode < h.StatusMin || resp.StatusCode > h.StatusMax {
		return fail("HTTP %d outside %d-%d", resp.StatusCode, h.StatusMin, h.StatusMax)
	}

	return Result{
		Healthy:   true,
		Message:   fmt.Sprintf("HTTP %d", resp.StatusCode),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

func (h *HTTPChecker) Type() CheckType {
	return CheckTypeHTTP
}
