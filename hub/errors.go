package hub

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is returned for every response whose status code is not 200. It keeps enough of the
// exchange to diagnose the failure without re-running the request.
type APIError struct {
	StatusCode int
	URL        string
	Headers    map[string]string
	Body       []byte
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	headers := make(map[string]string, len(resp.Header))
	for name, values := range resp.Header {
		headers[name] = strings.Join(values, ", ")
	}

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		URL:        url,
		Headers:    headers,
		Body:       body,
	}
}

func (e *APIError) Error() string {
	names := make([]string, 0, len(e.Headers))
	for name := range e.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make([]string, 0, len(names))
	for _, name := range names {
		headers = append(headers, fmt.Sprintf("%s: %s", name, e.Headers[name]))
	}

	return fmt.Sprintf("status code: %d\n url: %s\n headers: {%s}\n response: %s",
		e.StatusCode, e.URL, strings.Join(headers, "; "), string(e.Body))
}

// AuthenticationError reports a failed login exchange, either a non-200 status or a successful
// response without a token.
type AuthenticationError struct {
	msg    string
	apiErr *APIError
}

func newAuthenticationError(msg string, apiErr *APIError) *AuthenticationError {
	return &AuthenticationError{msg: msg, apiErr: apiErr}
}

func (e *AuthenticationError) Error() string {
	return e.msg + ": " + e.apiErr.Error()
}

func (e *AuthenticationError) Unwrap() error {
	return e.apiErr
}

func (e *AuthenticationError) StatusCode() int {
	return e.apiErr.StatusCode
}

// ValidationError is returned before any request is sent when the input is incomplete.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(text string) error {
	return &ValidationError{text}
}
