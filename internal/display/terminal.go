// Package display provides terminal output formatting for socialdash reports.
package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gauthierbraillon/socialdash/internal/aggregator"
	"github.com/gauthierbraillon/socialdash/internal/normalize"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

const separator = " • "

// labelLen is how much of a post's text stands in for a missing title.
const labelLen = 40

// Report is everything the report command prints.
type Report struct {
	KPIs         aggregator.KPIs
	Top          []aggregator.Ranked
	Bucket       aggregator.Bucket
	Timeline     []aggregator.BucketCount
	Distribution []aggregator.PlatformCount
	Posts        []normalize.Row
}

// TerminalFormatter formats report sections for terminal display.
type TerminalFormatter struct {
	now func() time.Time
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{now: time.Now}
}

// FormatReport renders all sections, separated by headings.
func (f *TerminalFormatter) FormatReport(r Report) string {
	var b strings.Builder
	b.WriteString("== Overview ==\n")
	b.WriteString(f.FormatKPIs(r.KPIs))
	b.WriteString("\n== Top posts (engagement) ==\n")
	b.WriteString(f.FormatTop(r.Top))
	fmt.Fprintf(&b, "\n== Posts per %s ==\n", r.Bucket)
	b.WriteString(f.FormatTimeline(r.Timeline, r.Bucket))
	b.WriteString("\n== Platforms ==\n")
	b.WriteString(f.FormatDistribution(r.Distribution))
	b.WriteString("\n== Posts ==\n")
	b.WriteString(f.FormatPosts(r.Posts))
	return b.String()
}

// FormatKPIs renders the totals on one line.
func (f *TerminalFormatter) FormatKPIs(k aggregator.KPIs) string {
	parts := []string{
		fmt.Sprintf("%s posts", groupDigits(int64(k.TotalPosts))),
		fmt.Sprintf("%s likes", groupDigits(k.TotalLikes)),
		fmt.Sprintf("%s comments", groupDigits(k.TotalComments)),
		fmt.Sprintf("%s shares", groupDigits(k.TotalShares)),
		fmt.Sprintf("%s views", groupDigits(k.TotalViews)),
	}
	return strings.Join(parts, separator) + "\n"
}

// FormatTop renders the ranking as an aligned table.
func (f *TerminalFormatter) FormatTop(top []aggregator.Ranked) string {
	if len(top) == 0 {
		return "No posts to rank.\n"
	}
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "#\tPLATFORM\tENGAGEMENT\tVIEWS\tPOST")
		for i, r := range top {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", i+1, r.Platform, r.Engagement, r.ViewCount, Label(r.Row))
		}
	})
}

// FormatTimeline renders one line per bucket with a bar.
func (f *TerminalFormatter) FormatTimeline(buckets []aggregator.BucketCount, bucket aggregator.Bucket) string {
	if len(buckets) == 0 {
		return "No dated posts.\n"
	}
	layout := bucketLayout(bucket)
	return table(func(w *tabwriter.Writer) {
		for _, b := range buckets {
			fmt.Fprintf(w, "%s\t%d\t%s\n", b.Start.Format(layout), b.Count, strings.Repeat("#", min(b.Count, 50)))
		}
	})
}

// FormatDistribution renders post counts and shares per platform.
func (f *TerminalFormatter) FormatDistribution(dist []aggregator.PlatformCount) string {
	if len(dist) == 0 {
		return "No posts.\n"
	}
	total := 0
	for _, d := range dist {
		total += d.Count
	}
	return table(func(w *tabwriter.Writer) {
		for _, d := range dist {
			fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", d.Platform, d.Count, 100*float64(d.Count)/float64(total))
		}
	})
}

// FormatPost formats a single post for display.
func (f *TerminalFormatter) FormatPost(r normalize.Row) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(string(r.Platform)), Label(r)))

	meta := "  by " + orUnknown(r.Author)
	if r.PublishedAt != nil {
		meta += separator + f.FormatTimestamp(*r.PublishedAt)
	}
	lines = append(lines, meta)

	if engagement := formatEngagement(r); engagement != "" {
		lines = append(lines, "  "+engagement)
	}
	if r.URL != nil && *r.URL != "" {
		lines = append(lines, "  "+*r.URL)
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatPosts formats multiple posts for display.
func (f *TerminalFormatter) FormatPosts(rows []normalize.Row) string {
	if len(rows) == 0 {
		return "No posts to display.\n"
	}

	formatted := make([]string, 0, len(rows))
	for _, r := range rows {
		formatted = append(formatted, f.FormatPost(r))
	}
	return strings.Join(formatted, "\n---\n\n")
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	diff := f.now().Sub(t)

	switch {
	case diff < 0:
		return t.UTC().Format("Jan 2, 2006")
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.UTC().Format("Jan 2, 2006")
	}
}

// Label names a post by its title, falling back to the start of its text.
func Label(r normalize.Row) string {
	if r.Title != nil && *r.Title != "" {
		return *r.Title
	}
	text := strings.Join(strings.Fields(social.Deref(r.Text)), " ")
	runes := []rune(text)
	if len(runes) > labelLen {
		return string(runes[:labelLen])
	}
	if text == "" {
		return "(untitled)"
	}
	return text
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

func formatEngagement(r normalize.Row) string {
	var parts []string

	if r.ViewCount > 0 {
		parts = append(parts, fmt.Sprintf("%d views", r.ViewCount))
	}
	if r.LikeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d likes", r.LikeCount))
	}
	if r.CommentCount > 0 {
		parts = append(parts, fmt.Sprintf("%d comments", r.CommentCount))
	}
	if r.ShareCount > 0 {
		parts = append(parts, fmt.Sprintf("%d shares", r.ShareCount))
	}

	return strings.Join(parts, separator)
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return "unknown"
	}
	return *s
}

func bucketLayout(b aggregator.Bucket) string {
	switch b {
	case aggregator.BucketHour:
		return "2006-01-02 15:00"
	case aggregator.BucketMonth:
		return "2006-01"
	default:
		return "2006-01-02"
	}
}

func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func table(write func(w *tabwriter.Writer)) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	write(w)
	_ = w.Flush()
	return buf.String()
}
