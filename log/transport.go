package log

import (
	"net/http"
	"time"
)

type loggingTransport struct {
	inner  http.RoundTripper
	logger Logger
}

// NewLoggingTransport wraps a round tripper and logs every request it sends. Only the method, URL,
// status and elapsed time are logged; request bodies may carry passwords.
func NewLoggingTransport(inner http.RoundTripper, logger Logger) http.RoundTripper {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &loggingTransport{inner: inner, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		t.logger.Debug("request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"elapsed", time.Since(start),
			"error", err)
		return nil, err
	}

	t.logger.Debug("request completed",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start))
	return resp, nil
}
