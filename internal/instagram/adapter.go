// Package instagram maps Instagram Business/Creator media onto normalized records.
package instagram

import (
	"context"

	"github.com/gauthierbraillon/socialdash/internal/graph"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

const mediaFields = "id,caption,media_type,media_url,permalink,timestamp,comments_count,like_count,thumbnail_url"

// Adapter fetches user media through the Graph API.
type Adapter struct {
	client *graph.Client
}

// NewAdapter creates an Instagram adapter.
func NewAdapter(opts ...graph.Option) *Adapter {
	return &Adapter{client: graph.NewClient("Instagram Graph", opts...)}
}

// Fetch returns up to limit recent media items of every IG user id.
// The user id doubles as the author since the media edge carries no owner name.
func (a *Adapter) Fetch(ctx context.Context, userIDs []string, accessToken string, limit int) []social.Record {
	return a.client.FetchEach(ctx, social.PlatformInstagram, userIDs, accessToken, func(ctx context.Context, userID string) ([]social.Record, error) {
		items, err := a.client.Edge(ctx, userID, "media", mediaFields, limit, accessToken)
		if err != nil {
			return nil, err
		}
		records := make([]social.Record, 0, len(items))
		for _, item := range items {
			records = append(records, toRecord(userID, item))
		}
		return records, nil
	})
}

func toRecord(userID string, item map[string]any) social.Record {
	thumbnail := social.String(item["thumbnail_url"])
	if thumbnail == nil || *thumbnail == "" {
		thumbnail = social.String(item["media_url"])
	}

	return social.Record{
		Platform:     social.PlatformInstagram,
		ID:           social.String(item["id"]),
		Author:       &userID,
		Text:         social.String(item["caption"]),
		PublishedAt:  social.String(item["timestamp"]),
		LikeCount:    social.Count(item["like_count"]),
		CommentCount: social.Count(item["comments_count"]),
		ShareCount:   int64(0),
		ViewCount:    int64(0),
		URL:          social.String(item["permalink"]),
		ThumbnailURL: thumbnail,
		Hashtags:     []string{},
	}
}
