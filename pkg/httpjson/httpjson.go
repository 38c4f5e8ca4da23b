// Package httpjson performs GET requests against JSON provider APIs.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every request made with the default HTTP client.
const DefaultTimeout = 30 * time.Second

const maxBodyBytes = 10 << 20

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
// It has no effect when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client issues GET requests and decodes JSON responses.
type Client struct {
	provider   string
	timeout    time.Duration
	httpClient HTTPClient
}

// New creates a client; provider names the API in error messages.
func New(provider string, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   c.timeout,
			Transport: defaultTransport(),
		}
	}
	return c
}

// Get requests rawURL with params and decodes the JSON body into out.
// Non-2xx responses return a *StatusError. Numbers decoded into interface
// values are kept as json.Number.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s URL: %w", c.provider, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return redact(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Provider: c.provider, StatusCode: resp.StatusCode}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", c.provider, err)
	}
	return nil
}

// StatusError reports a non-2xx response from a provider API.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return fmt.Sprintf("%s API rejected the request - check identifiers and requested fields", e.Provider)
	case http.StatusUnauthorized:
		return fmt.Sprintf("%s API authentication failed - check your API key or access token", e.Provider)
	case http.StatusForbidden:
		return fmt.Sprintf("%s API access denied - check the credential's permissions", e.Provider)
	case http.StatusNotFound:
		return fmt.Sprintf("%s API resource not found", e.Provider)
	case http.StatusTooManyRequests:
		return fmt.Sprintf("%s API rate limit exceeded - please try again later", e.Provider)
	case http.StatusServiceUnavailable:
		return fmt.Sprintf("%s API temporarily unavailable - please try again in a few minutes", e.Provider)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Sprintf("%s API server error - please try again later", e.Provider)
	default:
		return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
	}
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// redact strips the query string from transport errors; it carries the
// API key or access token.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			u.RawQuery = ""
			ue.URL = u.String()
		}
	}
	return err
}

func defaultTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
