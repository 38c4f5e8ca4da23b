package aggregator

import (
	"cmp"
	"slices"
	"time"

	"github.com/gauthierbraillon/socialdash/internal/normalize"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

// ComputeKPIs totals posts and counters; an empty table yields zeros.
// Totals saturate at math.MaxInt64.
func ComputeKPIs(t normalize.Table) KPIs {
	kpis := KPIs{TotalPosts: t.Len()}
	for _, r := range t.Rows() {
		kpis.TotalLikes = normalize.AddCounts(kpis.TotalLikes, r.LikeCount)
		kpis.TotalComments = normalize.AddCounts(kpis.TotalComments, r.CommentCount)
		kpis.TotalShares = normalize.AddCounts(kpis.TotalShares, r.ShareCount)
		kpis.TotalViews = normalize.AddCounts(kpis.TotalViews, r.ViewCount)
	}
	return kpis
}

// TopByEngagement returns at most topN rows ordered by engagement, then
// views, both descending. Rows tied on both keep their table order.
func TopByEngagement(t normalize.Table, topN int) []Ranked {
	if topN <= 0 {
		return []Ranked{}
	}

	ranked := make([]Ranked, 0, t.Len())
	for _, r := range t.Rows() {
		ranked = append(ranked, Ranked{Row: r, Engagement: r.Engagement()})
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		if c := cmp.Compare(b.Engagement, a.Engagement); c != 0 {
			return c
		}
		return cmp.Compare(b.ViewCount, a.ViewCount)
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// PostsOverTime counts posts per bucket in ascending order. Rows without a
// timestamp are skipped and empty buckets are not emitted.
func PostsOverTime(t normalize.Table, bucket Bucket) []BucketCount {
	counts := make(map[time.Time]int)
	for _, r := range t.Rows() {
		if r.PublishedAt == nil {
			continue
		}
		counts[bucket.Truncate(*r.PublishedAt)]++
	}

	out := make([]BucketCount, 0, len(counts))
	for start, n := range counts {
		out = append(out, BucketCount{Start: start, Count: n})
	}
	slices.SortFunc(out, func(a, b BucketCount) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// PlatformDistribution counts posts per platform, sorted by platform name.
func PlatformDistribution(t normalize.Table) []PlatformCount {
	counts := make(map[social.Platform]int)
	for _, r := range t.Rows() {
		counts[r.Platform]++
	}

	out := make([]PlatformCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, PlatformCount{Platform: p, Count: n})
	}
	slices.SortFunc(out, func(a, b PlatformCount) int {
		return cmp.Compare(a.Platform, b.Platform)
	})
	return out
}
