package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"go.uber.org/zap"
)

// RequestOption modifies an outgoing request
type RequestOption func(*http.Request)

// ClientOption modifies the HTTP client
type ClientOption func(*HTTPClient)

// HTTPError is returned for responses with a status of 400 or above
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// RetryConfig configures the retry behavior
type RetryConfig struct {
	MaxRetries           int
	InitialInterval      time.Duration
	MaxInterval          time.Duration
	MaxElapsedTime       time.Duration
	RetryableStatusCodes []int
}

// DefaultRetryConfig retries throttling and server errors three times.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:           3,
		InitialInterval:      100 * time.Millisecond,
		MaxInterval:          5 * time.Second,
		MaxElapsedTime:       20 * time.Second,
		RetryableStatusCodes: []int{408, 429, 500, 502, 503, 504},
	}
}

// HTTPClient is a JSON HTTP client with retries
type HTTPClient struct {
	httpClient     *http.Client
	baseURL        string
	defaultHeaders map[string]string
	retryConfig    *RetryConfig
}

// NewHTTPClient creates a new HTTPClient with the given options
func NewHTTPClient(options ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		defaultHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		retryConfig: DefaultRetryConfig(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout sets the per-attempt timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetryConfig replaces the retry configuration. A nil config disables retries.
func WithRetryConfig(config *RetryConfig) ClientOption {
	return func(c *HTTPClient) {
		c.retryConfig = config
	}
}

// WithHTTPClient swaps the underlying transport client, mostly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithHeader adds a header to the request
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// WithQueryParam adds a query parameter to the request
func WithQueryParam(key, value string) RequestOption {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Add(key, value)
		req.URL.RawQuery = q.Encode()
	}
}

// GetJSON performs a GET and decodes a successful JSON body into out.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, out interface{}, options ...RequestOption) error {
	return c.DoJSON(ctx, http.MethodGet, path, nil, out, options...)
}

// DoJSON performs a request with an optional JSON body and decodes the response into out.
func (c *HTTPClient) DoJSON(ctx context.Context, method, path string, body, out interface{}, options ...RequestOption) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + path
	if c.baseURL != "" && !strings.HasPrefix(path, "/") {
		fullURL = c.baseURL + "/" + path
	}

	var respBody []byte
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		for k, v := range c.defaultHeaders {
			req.Header.Set(k, v)
		}
		for _, option := range options {
			option(req)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		if resp.StatusCode >= 400 {
			httpErr := &HTTPError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				URL:        fullURL,
				Method:     method,
				Body:       string(b),
			}
			if c.retryable(resp.StatusCode) {
				return httpErr
			}
			return backoff.Permanent(httpErr)
		}
		respBody = b
		return nil
	}

	start := time.Now()
	var err error
	if c.retryConfig != nil && c.retryConfig.MaxRetries > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = c.retryConfig.InitialInterval
		exp.MaxInterval = c.retryConfig.MaxInterval
		exp.MaxElapsedTime = c.retryConfig.MaxElapsedTime
		err = backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.retryConfig.MaxRetries)), ctx))
	} else {
		err = attempt()
	}
	if err != nil {
		logger.Warn("HTTP request failed",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) retryable(status int) bool {
	if c.retryConfig == nil {
		return false
	}
	for _, code := range c.retryConfig.RetryableStatusCodes {
		if code == status {
			return true
		}
	}
	return false
}
