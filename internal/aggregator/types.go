// Package aggregator derives dashboard figures from a normalized table.
//
// This package enables socialdash to:
// - Total posts and engagement counters across platforms
// - Rank posts by engagement with views as the tie-breaker
// - Count posts per time bucket and per platform
package aggregator

import (
	"fmt"
	"strings"
	"time"

	"github.com/gauthierbraillon/socialdash/internal/normalize"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

// KPIs holds the headline totals of a table.
type KPIs struct {
	TotalPosts    int   `json:"total_posts"`
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
	TotalShares   int64 `json:"total_shares"`
	TotalViews    int64 `json:"total_views"`
}

// Ranked is a row together with its engagement score.
type Ranked struct {
	normalize.Row
	Engagement int64 `json:"engagement"`
}

// BucketCount is the number of posts published in the bucket starting at Start.
type BucketCount struct {
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// PlatformCount is the number of posts of one platform.
type PlatformCount struct {
	Platform social.Platform `json:"platform"`
	Count    int             `json:"count"`
}

// Bucket is a time granularity for PostsOverTime.
type Bucket string

const (
	BucketHour  Bucket = "hour"
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// ParseBucket accepts a granularity name or its one-letter alias.
func ParseBucket(s string) (Bucket, error) {
	switch strings.TrimSpace(s) {
	case "hour", "H", "h":
		return BucketHour, nil
	case "day", "D", "d":
		return BucketDay, nil
	case "week", "W", "w":
		return BucketWeek, nil
	case "month", "M":
		return BucketMonth, nil
	default:
		return "", fmt.Errorf("invalid bucket %q: must be one of hour, day, week, month", s)
	}
}

// Truncate returns the UTC start of the bucket containing t.
// Weeks start on Monday.
func (b Bucket) Truncate(t time.Time) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch b {
	case BucketHour:
		return t.Truncate(time.Hour)
	case BucketWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
	case BucketMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}
