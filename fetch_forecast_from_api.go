package owonecall

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// This file contains the single request path shared by every calling convention:
// build the URL, send one GET, classify the status code, then hand the body to
// the decoder. Nothing here retries.

// Fetch performs one request and decodes the response. Failures are always a *WeatherError.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, opts QueryOptions) (*Response, error) {
	opts = orDefault(opts)
	endpoint := endpointLabel(opts)
	start := time.Now()

	body, err := c.fetchBody(ctx, lat, lon, opts)
	if err != nil {
		c.observe(endpoint, start, err)
		return nil, err
	}

	response, err := ParseResponse(bytes.NewReader(body))
	if err != nil {
		perr := parserError(err)
		c.observe(endpoint, start, perr)
		c.logger.Debug("failed to decode response", "endpoint", endpoint, "error", err)
		return nil, perr
	}

	c.observe(endpoint, start, nil)
	return response, nil
}

// FetchRaw performs one request and returns the undecoded body of a 200 response.
func (c *Client) FetchRaw(ctx context.Context, lat, lon float64, opts QueryOptions) ([]byte, error) {
	opts = orDefault(opts)
	start := time.Now()
	body, err := c.fetchBody(ctx, lat, lon, opts)
	c.observe(endpointLabel(opts), start, err)
	return body, err
}

func orDefault(opts QueryOptions) QueryOptions {
	if opts == nil {
		return ForecastOptions{}
	}
	return opts
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	requestsTotal.WithLabelValues(endpoint, outcomeLabel(err)).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (c *Client) fetchBody(ctx context.Context, lat, lon float64, opts QueryOptions) ([]byte, error) {
	logger := c.logger.With(
		"request_id", uuid.NewString(),
		"endpoint", endpointLabel(opts),
		"lat", lat,
		"lon", lon,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(lat, lon, opts), nil)
	if err != nil {
		logger.Debug("failed to build request", "error", err)
		return nil, &WeatherError{Kind: ErrUnknown, Reason: "bad URL", Err: err}
	}
	req.Header.Set("Accept", mediaType)
	req.Header.Set("Content-Type", mediaType)

	logger.Debug("sending request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		logger.Debug("request rejected", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Debug("failed to read response body", "error", err)
		return nil, networkError(err)
	}

	logger.Debug("request completed", "bytes", len(body))
	return body, nil
}

// classifyStatus maps a status code to an error; the first matching rule wins.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return apiError("Unauthorized")
	case code == http.StatusForbidden:
		return apiError("Resource forbidden")
	case code == http.StatusNotFound:
		return apiError("Resource not found")
	case code >= 405 && code < 500:
		return apiError("client error")
	case code >= 500 && code < 600:
		return apiError("server error")
	case code != http.StatusOK:
		return networkError(fmt.Errorf("%w: status %d", ErrBadServerResponse, code))
	default:
		return nil
	}
}
