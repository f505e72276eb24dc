// Package hub is a client for the undocumented web API behind the hub.docker.com frontend.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ficap/dhwebapi/config"
	"github.com/ficap/dhwebapi/log"
	"go.uber.org/atomic"
)

const loginPath = "users/login"

// Client holds the account credentials and the session token. Tokens are never refreshed on their
// own: once one expires every call fails with an APIError until Login is called again.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     log.Logger

	credentials Credentials
	token       atomic.String
}

// NewClient creates a client. When no token is given and both username and password are, it logs
// in right away; otherwise the client stays unauthenticated (or uses the token as is).
func NewClient(ctx context.Context, cfg config.Config, username, password, token string) (*Client, error) {
	c := &Client{
		baseURL:     cfg.BaseURL(),
		apiVersion:  cfg.APIVersion(),
		httpClient:  cfg.HTTPClient(),
		logger:      cfg.Logger(),
		credentials: Credentials{Username: username, Password: password},
	}
	c.token.Store(token)

	if token == "" && username != "" && password != "" {
		if err := c.Login(ctx, "", ""); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Login exchanges the stored credentials for a token. When both username and password are given
// they replace the stored ones first, which swaps the identity of the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username != "" && password != "" {
		c.credentials = Credentials{Username: username, Password: password}
	}

	if err := validate(c.credentials); err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, loginPath, c.credentials)
	if err != nil {
		return err
	}

	body, err := c.handleResponse(resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return newAuthenticationError("login failed", apiErr)
		}
		return err
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil || login.Token == nil || *login.Token == "" {
		return newAuthenticationError("login response carries no token", newAPIError(resp, body))
	}

	c.token.Store(*login.Token)
	c.logger.Info("logged in", "username", c.credentials.Username)
	return nil
}

func (c *Client) IsLoggedIn() bool {
	return c.token.Load() != ""
}

func (c *Client) Token() string {
	return c.token.Load()
}

// SetToken injects a token obtained elsewhere, e.g. from a token file.
func (c *Client) SetToken(token string) {
	c.token.Store(token)
}

func (c *Client) Username() string {
	return c.credentials.Username
}
