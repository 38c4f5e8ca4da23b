package youtube

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/gauthierbraillon/socialdash/internal/metrics"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

// Fetch returns the recent uploads of each channel as normalized records.
// It never fails: a missing API key yields no records, and a channel that
// cannot be resolved or fetched is logged and skipped.
func (c *Client) Fetch(ctx context.Context, channelIDs []string, apiKey string, limit int) []social.Record {
	records := make([]social.Record, 0)
	log := c.logger.WithField("platform", social.PlatformYouTube)

	if apiKey == "" {
		log.Warn("YouTube API key is empty, returning no records")
		c.metrics.IdentifierFailed(social.PlatformYouTube, metrics.ReasonCredentialMissing)
		return records
	}

	for _, channelID := range channelIDs {
		channelID = strings.TrimSpace(channelID)
		if channelID == "" {
			continue
		}
		chLog := log.WithField("identifier", channelID)

		channelRecords, err := c.fetchChannel(ctx, apiKey, channelID, limit)
		if errors.Is(err, ErrUploadsNotFound) {
			chLog.Warn("Cannot resolve uploads playlist for channel")
			c.metrics.IdentifierFailed(social.PlatformYouTube, metrics.ReasonUnresolved)
			continue
		}
		if err != nil {
			chLog.WithError(err).Error("Failed to fetch channel")
			c.metrics.IdentifierFailed(social.PlatformYouTube, metrics.ReasonRequestFailed)
			continue
		}

		chLog.WithField("records", len(channelRecords)).Debug("Fetched channel uploads")
		records = append(records, channelRecords...)
	}

	return records
}

func (c *Client) fetchChannel(ctx context.Context, apiKey, channelID string, limit int) ([]social.Record, error) {
	uploadsID, err := c.UploadsPlaylistID(ctx, apiKey, channelID)
	if err != nil {
		return nil, err
	}

	items, err := c.PlaylistItems(ctx, apiKey, uploadsID, limit)
	if err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, len(items))
	for _, item := range items {
		if item.VideoID != "" {
			videoIDs = append(videoIDs, item.VideoID)
		}
	}

	stats, err := c.VideoStatistics(ctx, apiKey, videoIDs)
	if err != nil {
		return nil, err
	}

	records := make([]social.Record, 0, len(items))
	for _, item := range items {
		records = append(records, toRecord(item, stats[item.VideoID]))
	}
	return records, nil
}

// toRecord maps one upload and its (possibly empty) statistics.
func toRecord(item PlaylistItem, stats Statistics) social.Record {
	var watchURL *string
	if item.VideoID != "" {
		u := "https://www.youtube.com/watch?v=" + url.QueryEscape(item.VideoID)
		watchURL = &u
	}

	return social.Record{
		Platform:     social.PlatformYouTube,
		ID:           social.Optional(item.VideoID),
		Author:       social.Optional(item.ChannelTitle),
		Title:        social.Optional(item.Title),
		Text:         social.Optional(item.Description),
		PublishedAt:  social.Optional(item.PublishedAt),
		LikeCount:    social.Count(stats.LikeCount),
		CommentCount: social.Count(stats.CommentCount),
		ShareCount:   int64(0),
		ViewCount:    social.Count(stats.ViewCount),
		URL:          watchURL,
		ThumbnailURL: social.Optional(item.Thumbnail),
		Hashtags:     []string{},
	}
}
