package dashboard

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gauthierbraillon/socialdash/internal/normalize"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

// DateLayout is the format of the from and to filter values.
const DateLayout = "2006-01-02"

// Filter narrows a table before aggregation. Zero values select everything.
type Filter struct {
	Platforms []social.Platform
	From      *time.Time
	To        *time.Time
}

// Active reports whether a date range is set.
func (f Filter) Active() bool {
	return f.From != nil || f.To != nil
}

// Apply returns the rows matching the filter. The range is inclusive and
// extends one day past To so the whole end date is covered. Rows without a
// timestamp are dropped while a range is active.
func (f Filter) Apply(t normalize.Table) normalize.Table {
	var end time.Time
	if f.To != nil {
		end = f.To.Add(24 * time.Hour)
	}
	return t.Filter(func(r normalize.Row) bool {
		if len(f.Platforms) > 0 && !slices.Contains(f.Platforms, r.Platform) {
			return false
		}
		if !f.Active() {
			return true
		}
		if r.PublishedAt == nil {
			return false
		}
		if f.From != nil && r.PublishedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && r.PublishedAt.After(end) {
			return false
		}
		return true
	})
}

// ParseFilter builds a filter from platform names (repeatable or comma
// separated) and YYYY-MM-DD dates; empty values are ignored.
func ParseFilter(platforms []string, from, to string) (Filter, error) {
	var f Filter
	for _, value := range platforms {
		for _, name := range strings.Split(value, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			p, err := social.ParsePlatform(name)
			if err != nil {
				return Filter{}, err
			}
			if !slices.Contains(f.Platforms, p) {
				f.Platforms = append(f.Platforms, p)
			}
		}
	}

	var err error
	if f.From, err = parseDate("from", from); err != nil {
		return Filter{}, err
	}
	if f.To, err = parseDate("to", to); err != nil {
		return Filter{}, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return Filter{}, fmt.Errorf("invalid date range: to %s is before from %s", to, from)
	}
	return f, nil
}

func parseDate(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q: must be YYYY-MM-DD", name, value)
	}
	return &t, nil
}
