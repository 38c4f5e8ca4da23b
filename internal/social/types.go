// Package social defines the normalized record shared by every provider adapter.
//
// This package enables socialdash to:
// - Describe posts, videos and media items from any platform with one 13-field shape
// - Coerce loosely typed provider values into counts and optional strings
// - Walk nested provider JSON without failing on missing levels
package social

import (
	"fmt"
	"slices"
	"strings"
)

// Platform identifies the provider a record was fetched from.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// Platforms lists every supported platform in ingestion order.
var Platforms = []Platform{PlatformYouTube, PlatformFacebook, PlatformInstagram}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	return slices.Contains(Platforms, p)
}

// ParsePlatform converts a user-supplied name into a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid platform %q: must be one of youtube, facebook, instagram", s)
	}
	return p, nil
}

// Column names of the normalized schema, in their fixed order.
const (
	ColPlatform     = "platform"
	ColID           = "id"
	ColAuthor       = "author"
	ColTitle        = "title"
	ColText         = "text"
	ColPublishedAt  = "published_at"
	ColLikeCount    = "like_count"
	ColCommentCount = "comment_count"
	ColShareCount   = "share_count"
	ColViewCount    = "view_count"
	ColURL          = "url"
	ColThumbnailURL = "thumbnail_url"
	ColHashtags     = "hashtags"
)

var columns = [...]string{
	ColPlatform, ColID, ColAuthor, ColTitle, ColText, ColPublishedAt,
	ColLikeCount, ColCommentCount, ColShareCount, ColViewCount,
	ColURL, ColThumbnailURL, ColHashtags,
}

// Columns returns the 13 normalized column names in schema order.
func Columns() []string {
	return slices.Clone(columns[:])
}

// Record is one post, video or media item as produced by an adapter or read
// from a sample fixture. Optional strings are nil when the provider omitted
// them. Count fields hold whatever the source produced (adapters emit int64,
// fixtures may carry strings or null) and are only trusted after
// normalization.
type Record struct {
	Platform     Platform `json:"platform"`
	ID           *string  `json:"id"`
	Author       *string  `json:"author"`
	Title        *string  `json:"title"`
	Text         *string  `json:"text"`
	PublishedAt  *string  `json:"published_at"`
	LikeCount    any      `json:"like_count"`
	CommentCount any      `json:"comment_count"`
	ShareCount   any      `json:"share_count"`
	ViewCount    any      `json:"view_count"`
	URL          *string  `json:"url"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	Hashtags     []string `json:"hashtags"`
}
