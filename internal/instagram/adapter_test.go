package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/socialdash/internal/graph"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

func TestAC600_Fetch_MapsMediaItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/17841400000000000/media", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{
			map[string]any{
				"id":             "1790",
				"caption":        "Sunset #travel",
				"media_type":     "VIDEO",
				"media_url":      "https://cdn.example/video.mp4",
				"thumbnail_url":  "https://cdn.example/thumb.jpg",
				"permalink":      "https://www.instagram.com/p/abc/",
				"timestamp":      "2024-02-10T08:30:00+0000",
				"like_count":     321,
				"comments_count": "12",
			},
			map[string]any{
				"id":        "1791",
				"media_url": "https://cdn.example/photo.jpg",
			},
		}})
	}))
	defer server.Close()

	records := NewAdapter(graph.WithBaseURL(server.URL)).Fetch(context.Background(), []string{"17841400000000000"}, "token", 10)

	require.Len(t, records, 2)
	video := records[0]
	assert.Equal(t, social.PlatformInstagram, video.Platform)
	assert.Equal(t, "1790", *video.ID)
	assert.Equal(t, "17841400000000000", *video.Author, "author is the IG user id")
	assert.Nil(t, video.Title)
	assert.Equal(t, "Sunset #travel", *video.Text)
	assert.Equal(t, "2024-02-10T08:30:00+0000", *video.PublishedAt)
	assert.Equal(t, int64(321), video.LikeCount)
	assert.Equal(t, int64(12), video.CommentCount)
	assert.Equal(t, int64(0), video.ShareCount)
	assert.Equal(t, int64(0), video.ViewCount)
	assert.Equal(t, "https://www.instagram.com/p/abc/", *video.URL)
	assert.Equal(t, "https://cdn.example/thumb.jpg", *video.ThumbnailURL)
	assert.Empty(t, video.Hashtags, "hashtags are not extracted from captions")

	photo := records[1]
	assert.Equal(t, "https://cdn.example/photo.jpg", *photo.ThumbnailURL, "media_url is the thumbnail fallback")
	assert.Equal(t, int64(0), photo.LikeCount)
	assert.Nil(t, photo.PublishedAt)
}

func TestAC601_Fetch_EmptyTokenReturnsNothing(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	records := NewAdapter(graph.WithBaseURL("http://127.0.0.1:0"), graph.WithLogger(logger)).Fetch(context.Background(), []string{"1"}, "", 10)

	assert.Empty(t, records)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, social.PlatformInstagram, hook.LastEntry().Data["platform"])
}

func TestAC602_Fetch_MalformedUserIsSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken/media" {
			_, _ = w.Write([]byte(`not json`))
			return
		}
		_, _ = w.Write([]byte(`{"data": [{"id": "1"}]}`))
	}))
	defer server.Close()

	records := NewAdapter(graph.WithBaseURL(server.URL)).Fetch(context.Background(), []string{"broken", "ok"}, "token", 10)

	require.Len(t, records, 1)
	assert.Equal(t, "ok", *records[0].Author)
}
