// Package facebook maps public Facebook page posts onto normalized records.
package facebook

import (
	"context"

	"github.com/gauthierbraillon/socialdash/internal/graph"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

// postFields requests posts with like and comment totals joined in.
// Share counts need extra permissions and are not requested.
const postFields = "id,message,permalink_url,created_time," +
	"from{name},attachments{media_type,media,url}," +
	"likes.summary(true),comments.summary(true)"

// Adapter fetches page posts through the Graph API.
type Adapter struct {
	client *graph.Client
}

// NewAdapter creates a Facebook adapter.
func NewAdapter(opts ...graph.Option) *Adapter {
	return &Adapter{client: graph.NewClient("Facebook Graph", opts...)}
}

// Fetch returns up to limit recent posts of every page id or username.
func (a *Adapter) Fetch(ctx context.Context, pages []string, accessToken string, limit int) []social.Record {
	return a.client.FetchEach(ctx, social.PlatformFacebook, pages, accessToken, func(ctx context.Context, page string) ([]social.Record, error) {
		items, err := a.client.Edge(ctx, page, "posts", postFields, limit, accessToken)
		if err != nil {
			return nil, err
		}
		records := make([]social.Record, 0, len(items))
		for _, item := range items {
			records = append(records, toRecord(item))
		}
		return records, nil
	})
}

func toRecord(item map[string]any) social.Record {
	firstMedia := social.First(social.Lookup(item, "attachments", "data"))

	return social.Record{
		Platform:     social.PlatformFacebook,
		ID:           social.String(item["id"]),
		Author:       social.String(social.Lookup(item, "from", "name")),
		Text:         social.String(item["message"]),
		PublishedAt:  social.String(item["created_time"]),
		LikeCount:    social.Count(social.Lookup(item, "likes", "summary", "total_count")),
		CommentCount: social.Count(social.Lookup(item, "comments", "summary", "total_count")),
		ShareCount:   int64(0),
		ViewCount:    int64(0),
		URL:          social.String(item["permalink_url"]),
		ThumbnailURL: social.String(social.Lookup(firstMedia, "media", "image", "src")),
		Hashtags:     []string{},
	}
}
