package config

import (
	"net/http"
	"time"

	"github.com/ficap/dhwebapi/log"
)

const (
	DefaultBaseURL    = "https://hub.docker.com"
	DefaultAPIVersion = "v2"
	DefaultTimeout    = 30 * time.Second
)

type Config interface {
	BaseURL() string
	APIVersion() string
	HTTPClient() *http.Client
	Logger() log.Logger
}

type ClientConfig struct {
	baseURL    string
	apiVersion string
	timeout    time.Duration
	transport  http.RoundTripper
	debug      bool
	logger     log.Logger
}

func NewClientConfig() *ClientConfig {
	return NewClientConfigWithLogger(log.NewNopLogger())
}

func NewClientConfigWithLogger(logger log.Logger) *ClientConfig {
	return &ClientConfig{
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
		timeout:    DefaultTimeout,
		logger:     logger,
	}
}

func (cfg ClientConfig) BaseURL() string {
	return cfg.baseURL
}

func (cfg ClientConfig) APIVersion() string {
	return cfg.apiVersion
}

func (cfg ClientConfig) Timeout() time.Duration {
	return cfg.timeout
}

func (cfg ClientConfig) Logger() log.Logger {
	return cfg.logger
}

// HTTPClient returns a client bounded by the configured timeout. With request logging enabled every
// round trip is traced through the configured logger.
func (cfg ClientConfig) HTTPClient() *http.Client {
	transport := cfg.transport
	if cfg.debug {
		transport = log.NewLoggingTransport(transport, cfg.logger)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.timeout,
	}
}

func (cfg *ClientConfig) WithBaseURL(baseURL string) *ClientConfig {
	if baseURL != "" {
		cfg.baseURL = baseURL
	}
	return cfg
}

func (cfg *ClientConfig) WithAPIVersion(apiVersion string) *ClientConfig {
	if apiVersion != "" {
		cfg.apiVersion = apiVersion
	}
	return cfg
}

func (cfg *ClientConfig) WithTimeout(timeout time.Duration) *ClientConfig {
	if timeout > 0 {
		cfg.timeout = timeout
	}
	return cfg
}

func (cfg *ClientConfig) WithTransport(transport http.RoundTripper) *ClientConfig {
	cfg.transport = transport
	return cfg
}

func (cfg *ClientConfig) WithRequestLogging(enabled bool) *ClientConfig {
	cfg.debug = enabled
	return cfg
}

func (cfg *ClientConfig) WithLogger(logger log.Logger) *ClientConfig {
	cfg.logger = logger
	return cfg
}
