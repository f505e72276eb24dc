package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
)

const authScheme = "JWT"

// requestURL joins the address, the API version and the path. The API routes requests only when
// the address ends with a slash.
func (c *Client) requestURL(path string) string {
	parts := []string{strings.TrimRight(c.baseURL, "/"), strings.Trim(c.apiVersion, "/"), strings.Trim(path, "/")}
	return strings.Join(parts, "/") + "/"
}

func isLoginPath(path string) bool {
	return strings.Trim(path, "/") == loginPath
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("unable to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.requestURL(path)
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// A stale token must not leak into the login call of another identity
	if token := c.token.Load(); token != "" && !isLoginPath(path) {
		req.Header.Set("Authorization", authScheme+" "+token)
	}

	c.logger.Debug("sending request",
		"method", method,
		"url", url)

	return c.httpClient.Do(req)
}

// handleResponse drains and closes the body. Anything but 200 is an error; there are no retries.
func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := newAPIError(resp, body)
		c.logger.Debug("request failed",
			"status", apiErr.StatusCode,
			"url", apiErr.URL)
		return nil, apiErr
	}
	return body, nil
}
