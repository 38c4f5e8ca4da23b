// Package graph provides a minimal client for the Facebook Graph API, shared
// by the Facebook page and Instagram media adapters.
package graph

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gauthierbraillon/socialdash/internal/logging"
	"github.com/gauthierbraillon/socialdash/internal/metrics"
	"github.com/gauthierbraillon/socialdash/internal/social"
	"github.com/gauthierbraillon/socialdash/pkg/httpjson"
)

// DefaultBaseURL is the versioned Graph API root.
const DefaultBaseURL = "https://graph.facebook.com/v19.0"

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient httpjson.HTTPClient) Option {
	return func(c *Client) {
		c.httpOpts = append(c.httpOpts, httpjson.WithHTTPClient(httpClient))
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpOpts = append(c.httpOpts, httpjson.WithTimeout(d))
	}
}

// WithLogger sets the logger used for per-identifier diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records skipped identifiers on the given collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client is a Graph API client.
type Client struct {
	provider string
	baseURL  string
	http     *httpjson.Client
	httpOpts []httpjson.Option
	logger   logrus.FieldLogger
	metrics  *metrics.Collector
}

// NewClient creates a Graph API client; provider names it in logs and errors.
func NewClient(provider string, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		baseURL:  DefaultBaseURL,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = httpjson.New(provider, c.httpOpts...)
	return c
}

// Edge reads one page of an edge (e.g. /{page}/posts) and returns its data items.
func (c *Client) Edge(ctx context.Context, node, edge, fields string, limit int, token string) ([]map[string]any, error) {
	params := url.Values{
		"fields":       {fields},
		"limit":        {strconv.Itoa(limit)},
		"access_token": {token},
	}
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(node), edge)

	var response struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.http.Get(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}
	if response.Data == nil {
		return []map[string]any{}, nil
	}
	return response.Data, nil
}

// FetchFunc fetches and maps the records of a single identifier.
type FetchFunc func(ctx context.Context, identifier string) ([]social.Record, error)

// FetchEach runs fetch for every identifier and concatenates the results.
// An empty token short-circuits to no records; a failing identifier is
// logged and skipped. It never returns an error.
func (c *Client) FetchEach(ctx context.Context, platform social.Platform, identifiers []string, token string, fetch FetchFunc) []social.Record {
	records := make([]social.Record, 0)
	log := c.logger.WithField("platform", platform)

	if token == "" {
		log.Warnf("%s access token is empty, returning no records", c.provider)
		c.metrics.IdentifierFailed(platform, metrics.ReasonCredentialMissing)
		return records
	}

	for _, identifier := range identifiers {
		identifier = strings.TrimSpace(identifier)
		if identifier == "" {
			continue
		}

		got, err := fetch(ctx, identifier)
		if err != nil {
			log.WithField("identifier", identifier).WithError(err).Errorf("Failed to fetch %s identifier", c.provider)
			c.metrics.IdentifierFailed(platform, metrics.ReasonRequestFailed)
			continue
		}
		records = append(records, got...)
	}
	return records
}
