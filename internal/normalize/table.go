// Package normalize turns adapter records into the fixed 13-column table the
// aggregator and the presentation layers read from.
package normalize

import (
	"math"
	"slices"
	"time"

	"github.com/gauthierbraillon/socialdash/internal/social"
)

// Row is one normalized record. Counts are non-negative and PublishedAt is
// nil when the source timestamp was absent or unparseable.
type Row struct {
	Platform     social.Platform `json:"platform"`
	ID           *string         `json:"id"`
	Author       *string         `json:"author"`
	Title        *string         `json:"title"`
	Text         *string         `json:"text"`
	PublishedAt  *time.Time      `json:"published_at"`
	LikeCount    int64           `json:"like_count"`
	CommentCount int64           `json:"comment_count"`
	ShareCount   int64           `json:"share_count"`
	ViewCount    int64           `json:"view_count"`
	URL          *string         `json:"url"`
	ThumbnailURL *string         `json:"thumbnail_url"`
	Hashtags     []string        `json:"hashtags"`
}

// Engagement is the sum of likes, comments and shares, capped at math.MaxInt64.
func (r Row) Engagement() int64 {
	return AddCounts(AddCounts(r.LikeCount, r.CommentCount), r.ShareCount)
}

// AddCounts adds two non-negative counts, saturating at math.MaxInt64.
func AddCounts(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Table is an ordered, immutable set of rows.
type Table struct {
	rows []Row
}

// NewTable wraps rows that are already normalized.
func NewTable(rows []Row) Table {
	return Table{rows: rows}
}

// Columns always returns the full schema, even for an empty table.
func (t Table) Columns() []string {
	return social.Columns()
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in table order.
func (t Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Filter returns a new table holding the rows keep accepts.
func (t Table) Filter(keep func(Row) bool) Table {
	rows := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return Table{rows: rows}
}

// NewestFirst returns the rows sorted by PublishedAt descending.
// Rows without a timestamp come last, in table order.
func (t Table) NewestFirst() []Row {
	rows := t.Rows()
	slices.SortStableFunc(rows, func(a, b Row) int {
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			return 0
		case a.PublishedAt == nil:
			return 1
		case b.PublishedAt == nil:
			return -1
		}
		return b.PublishedAt.Compare(*a.PublishedAt)
	})
	return rows
}
