// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables socialdash to:
// - Resolve a channel to its uploads playlist
// - List recent uploads from that playlist (one page)
// - Join batched video statistics onto each upload
// - Map uploads onto the normalized social record
package youtube

// MaxBatch is the provider limit for playlist page size and for the number
// of ids accepted by one videos.list call.
const MaxBatch = 50

// PlaylistItem is one entry of a channel's uploads playlist.
type PlaylistItem struct {
	VideoID      string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  string
	Thumbnail    string
}

// Statistics holds the counters YouTube reports for a video. Values are
// kept as returned (YouTube encodes them as strings) and coerced on mapping.
type Statistics struct {
	ViewCount    any `json:"viewCount"`
	LikeCount    any `json:"likeCount"`
	CommentCount any `json:"commentCount"`
}
