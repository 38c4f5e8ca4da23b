package normalize

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gauthierbraillon/socialdash/internal/social"
)

// timeLayouts are tried in order; the Graph API omits the colon in its offset.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToTable converts records into a table. It never fails: missing counts
// become 0, bad timestamps become nil and column order is fixed.
func ToTable(records []social.Record) Table {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toRow(rec))
	}
	return Table{rows: rows}
}

func toRow(rec social.Record) Row {
	hashtags := rec.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	return Row{
		Platform:     rec.Platform,
		ID:           rec.ID,
		Author:       rec.Author,
		Title:        rec.Title,
		Text:         rec.Text,
		PublishedAt:  ParseTime(social.Deref(rec.PublishedAt)),
		LikeCount:    social.Count(rec.LikeCount),
		CommentCount: social.Count(rec.CommentCount),
		ShareCount:   social.Count(rec.ShareCount),
		ViewCount:    social.Count(rec.ViewCount),
		URL:          rec.URL,
		ThumbnailURL: rec.ThumbnailURL,
		Hashtags:     hashtags,
	}
}

// ParseTime parses a provider timestamp into UTC, or returns nil.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// DecodeRecords reads a JSON array of records. Each element is decoded
// field by field, so a count stored as a string or a number in place of
// an id does not reject the document.
func DecodeRecords(r io.Reader) ([]social.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	records := make([]social.Record, 0, len(raw))
	for _, item := range raw {
		records = append(records, decodeRecord(item))
	}
	return records, nil
}

func decodeRecord(item map[string]any) social.Record {
	return social.Record{
		Platform:     social.Platform(social.Deref(social.String(item[social.ColPlatform]))),
		ID:           social.String(item[social.ColID]),
		Author:       social.String(item[social.ColAuthor]),
		Title:        social.String(item[social.ColTitle]),
		Text:         social.String(item[social.ColText]),
		PublishedAt:  social.String(item[social.ColPublishedAt]),
		LikeCount:    item[social.ColLikeCount],
		CommentCount: item[social.ColCommentCount],
		ShareCount:   item[social.ColShareCount],
		ViewCount:    item[social.ColViewCount],
		URL:          social.String(item[social.ColURL]),
		ThumbnailURL: social.String(item[social.ColThumbnailURL]),
		Hashtags:     decodeHashtags(item[social.ColHashtags]),
	}
}

func decodeHashtags(v any) []string {
	tags := make([]string, 0)
	arr, ok := v.([]any)
	if !ok {
		return tags
	}
	for _, el := range arr {
		if s, ok := el.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}
