package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gauthierbraillon/socialdash/internal/logging"
	"github.com/gauthierbraillon/socialdash/internal/metrics"
	"github.com/gauthierbraillon/socialdash/pkg/httpjson"
)

const defaultBaseURL = "https://www.googleapis.com"

// ErrUploadsNotFound is returned when a channel has no resolvable uploads playlist.
var ErrUploadsNotFound = errors.New("uploads playlist not found")

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient httpjson.HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpOpts = append(c.httpOpts, httpjson.WithHTTPClient(httpClient))
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpOpts = append(c.httpOpts, httpjson.WithTimeout(d))
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithLogger sets the logger used for per-channel diagnostics.
func WithLogger(logger logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records skipped channels on the given collector.
func WithMetrics(m *metrics.Collector) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client is a YouTube Data API client.
type Client struct {
	baseURL  string
	http     *httpjson.Client
	httpOpts []httpjson.Option
	logger   logrus.FieldLogger
	metrics  *metrics.Collector
}

// NewClient creates a new YouTube API client. The API key is supplied per call.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		logger:  logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.http = httpjson.New("YouTube", c.httpOpts...)

	return c
}

// UploadsPlaylistID resolves a channel id to the id of its uploads playlist.
func (c *Client) UploadsPlaylistID(ctx context.Context, apiKey, channelID string) (string, error) {
	params := url.Values{
		"part":       {"contentDetails,snippet"},
		"id":         {channelID},
		"key":        {apiKey},
		"maxResults": {"1"},
	}

	var response channelsResponse
	if err := c.http.Get(ctx, c.endpoint("channels"), params, &response); err != nil {
		return "", err
	}

	if len(response.Items) == 0 {
		return "", ErrUploadsNotFound
	}
	details := response.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil || details.RelatedPlaylists.Uploads == "" {
		return "", ErrUploadsNotFound
	}
	return details.RelatedPlaylists.Uploads, nil
}

// PlaylistItems returns the first page of a playlist, at most min(limit, MaxBatch) entries.
func (c *Client) PlaylistItems(ctx context.Context, apiKey, playlistID string, limit int) ([]PlaylistItem, error) {
	params := url.Values{
		"part":       {"snippet,contentDetails"},
		"playlistId": {playlistID},
		"maxResults": {strconv.Itoa(pageSize(limit))},
		"key":        {apiKey},
	}

	var response playlistItemsResponse
	if err := c.http.Get(ctx, c.endpoint("playlistItems"), params, &response); err != nil {
		return nil, err
	}

	items := make([]PlaylistItem, 0, len(response.Items))
	for _, raw := range response.Items {
		item := PlaylistItem{}
		if raw.ContentDetails != nil {
			item.VideoID = raw.ContentDetails.VideoID
		}
		if s := raw.Snippet; s != nil {
			item.Title = s.Title
			item.Description = s.Description
			item.ChannelTitle = s.ChannelTitle
			item.PublishedAt = s.PublishedAt
			if s.Thumbnails != nil && s.Thumbnails.Medium != nil {
				item.Thumbnail = s.Thumbnails.Medium.URL
			}
		}
		items = append(items, item)
	}

	return items, nil
}

// VideoStatistics fetches statistics for up to MaxBatch videos in a single
// call, keyed by video id. No request is made for an empty id list.
func (c *Client) VideoStatistics(ctx context.Context, apiKey string, videoIDs []string) (map[string]Statistics, error) {
	stats := make(map[string]Statistics)
	if len(videoIDs) == 0 {
		return stats, nil
	}
	if len(videoIDs) > MaxBatch {
		videoIDs = videoIDs[:MaxBatch]
	}

	params := url.Values{
		"part": {"statistics,snippet,contentDetails"},
		"id":   {strings.Join(videoIDs, ",")},
		"key":  {apiKey},
	}

	var response videosResponse
	if err := c.http.Get(ctx, c.endpoint("videos"), params, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch video statistics: %w", err)
	}

	for _, item := range response.Items {
		if item.ID == "" || item.Statistics == nil {
			continue
		}
		stats[item.ID] = *item.Statistics
	}
	return stats, nil
}

func (c *Client) endpoint(resource string) string {
	return c.baseURL + "/youtube/v3/" + resource
}

func pageSize(limit int) int {
	if limit <= 0 || limit > MaxBatch {
		return MaxBatch
	}
	return limit
}

// API response types (private - implementation detail)

type channelsResponse struct {
	Items []struct {
		ContentDetails *struct {
			RelatedPlaylists *struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet *struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   *struct {
				Medium *struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails *struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string      `json:"id"`
		Statistics *Statistics `json:"statistics"`
	} `json:"items"`
}
