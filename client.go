// Package owonecall is a client for the OpenWeather One Call API.
//
// A Client sends one GET per call to either the forecast endpoint or the
// timemachine endpoint, chosen by the kind of QueryOptions, and decodes the
// body into a Response. Failures are classified as *WeatherError. Provider
// wraps the same call in blocking, callback and fire-and-forget forms.
package owonecall

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// BaseURL is the One Call 3.0 endpoint.
	BaseURL = "https://api.openweathermap.org/data/3.0/onecall"
	// BaseURLV25 is the legacy One Call 2.5 endpoint.
	BaseURLV25 = "https://api.openweathermap.org/data/2.5/onecall"

	timemachinePath = "/timemachine"
	mediaType       = "application/json; charset=utf-8"
	requestTimeout  = 30 * time.Second
)

// ErrMissingAPIKey is returned by NewClient when Config.APIKey is empty.
var ErrMissingAPIKey = errors.New("api key must be set")

// Config holds the parameters of a Client. Only APIKey is required.
type Config struct {
	APIKey string
	// BaseURL defaults to BaseURL (One Call 3.0).
	BaseURL string
	// HTTPClient defaults to a client with 30 second connect, response and overall timeouts.
	HTTPClient *http.Client
	// Logger defaults to a logger that discards everything.
	Logger *slog.Logger
}

// Client performs One Call requests. It is safe for concurrent use; every call
// owns its own request and response.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With("component", "onecall-client"),
	}, nil
}

// newHTTPClient bounds connecting, waiting for headers and the whole exchange to 30 seconds each.
func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   requestTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = requestTimeout
	transport.ResponseHeaderTimeout = requestTimeout

	return &http.Client{
		Timeout:   requestTimeout,
		Transport: transport,
	}
}

// BaseURL returns the endpoint the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
