package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/socialdash/internal/metrics"
	"github.com/gauthierbraillon/socialdash/internal/sample"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

type fakeAdapter struct {
	platform social.Platform
	delay    time.Duration
	ids      []string

	mu    sync.Mutex
	calls []call
}

type call struct {
	identifiers []string
	credential  string
	limit       int
}

func (f *fakeAdapter) Fetch(ctx context.Context, identifiers []string, credential string, limit int) []social.Record {
	f.mu.Lock()
	f.calls = append(f.calls, call{identifiers, credential, limit})
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	records := make([]social.Record, 0, len(f.ids))
	for _, id := range f.ids {
		id := id
		records = append(records, social.Record{Platform: f.platform, ID: &id, LikeCount: int64(1)})
	}
	return records
}

func ids(snap Snapshot) []string {
	out := make([]string, 0, len(snap.Records))
	for _, r := range snap.Records {
		out = append(out, social.Deref(r.ID))
	}
	return out
}

func TestRun_ConcatenatesInPlatformOrder(t *testing.T) {
	yt := &fakeAdapter{platform: social.PlatformYouTube, ids: []string{"yt1", "yt2"}, delay: 30 * time.Millisecond}
	fb := &fakeAdapter{platform: social.PlatformFacebook, ids: []string{"fb1"}}
	ig := &fakeAdapter{platform: social.PlatformInstagram, ids: []string{"ig1"}}
	pipeline := NewPipeline(
		WithAdapter(social.PlatformYouTube, yt),
		WithAdapter(social.PlatformFacebook, fb),
		WithAdapter(social.PlatformInstagram, ig),
	)

	snap, err := pipeline.Run(context.Background(), Sources{
		social.PlatformInstagram: {Identifiers: []string{"17841400000000000"}, Credential: "ig-token", Limit: 20},
		social.PlatformYouTube:   {Identifiers: []string{"UC1"}, Credential: "key", Limit: 30},
		social.PlatformFacebook:  {Identifiers: []string{"facebookapp"}, Credential: "fb-token", Limit: 20},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"yt1", "yt2", "fb1", "ig1"}, ids(snap))
	assert.Equal(t, 4, snap.Table.Len())
	require.Len(t, yt.calls, 1)
	assert.Equal(t, call{[]string{"UC1"}, "key", 30}, yt.calls[0])
}

func TestRun_SkipsPlatformsWithoutSource(t *testing.T) {
	yt := &fakeAdapter{platform: social.PlatformYouTube, ids: []string{"yt1"}}
	fb := &fakeAdapter{platform: social.PlatformFacebook, ids: []string{"fb1"}}
	logger, hook := logtest.NewNullLogger()
	pipeline := NewPipeline(
		WithAdapter(social.PlatformYouTube, yt),
		WithAdapter(social.PlatformFacebook, fb),
		WithLogger(logger),
	)

	snap, err := pipeline.Run(context.Background(), Sources{social.PlatformFacebook: {}})

	require.NoError(t, err)
	assert.Equal(t, []string{"fb1"}, ids(snap))
	assert.Empty(t, yt.calls)

	var skipped []any
	for _, e := range hook.AllEntries() {
		if e.Message == "No identifiers or sample source configured, skipping platform" {
			skipped = append(skipped, e.Data["platform"])
		}
	}
	assert.Equal(t, []any{social.PlatformYouTube, social.PlatformInstagram}, skipped,
		"every unconfigured platform should be logged once")
}

func TestRun_SampleSourceReadsFixtureInsteadOfAdapter(t *testing.T) {
	dir := t.TempDir()
	id := "sample-1"
	require.NoError(t, sample.Save(dir, social.PlatformYouTube, []social.Record{
		{Platform: social.PlatformYouTube, ID: &id, ViewCount: "250"},
	}))
	yt := &fakeAdapter{platform: social.PlatformYouTube, ids: []string{"live"}}
	pipeline := NewPipeline(WithAdapter(social.PlatformYouTube, yt), WithSampleLoader(sample.NewLoader(dir)))

	snap, err := pipeline.Run(context.Background(), Sources{
		social.PlatformYouTube:  {UseSample: true},
		social.PlatformFacebook: {UseSample: true},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"sample-1"}, ids(snap))
	assert.Equal(t, int64(250), snap.Table.Rows()[0].ViewCount)
	assert.Empty(t, yt.calls)
}

func TestRun_MissingAdapterWarns(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	snap, err := NewPipeline(WithLogger(logger)).Run(context.Background(), Sources{social.PlatformInstagram: {Credential: "x"}})

	require.NoError(t, err)
	assert.Equal(t, 0, snap.Table.Len())
	assert.Len(t, snap.Table.Columns(), 13)
	found := false
	for _, e := range hook.AllEntries() {
		if e.Message == "No adapter registered, returning no records" {
			found = true
			assert.Equal(t, social.PlatformInstagram, e.Data["platform"])
		}
	}
	assert.True(t, found)
}

func TestRun_StampsRunIDAndTime(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 7200))
	snap, err := NewPipeline(WithClock(func() time.Time { return fixed })).Run(context.Background(), Sources{})

	require.NoError(t, err)
	id, err := ulid.ParseStrict(snap.RunID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixed), id.Time())
	assert.Equal(t, fixed.UTC(), snap.FetchedAt)
}

func TestRun_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	fb := &fakeAdapter{platform: social.PlatformFacebook, ids: []string{"a", "b", "c"}}

	_, err := NewPipeline(WithAdapter(social.PlatformFacebook, fb), WithMetrics(m)).
		Run(context.Background(), Sources{social.PlatformFacebook: {Credential: "t"}})

	require.NoError(t, err)
	n, err := testutil.GatherAndCount(m.Registry(), "socialdash_records_fetched_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = testutil.GatherAndCount(m.Registry(), "socialdash_table_rows")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fb := &fakeAdapter{platform: social.PlatformFacebook, ids: []string{"a"}}

	_, err := NewPipeline(WithAdapter(social.PlatformFacebook, fb)).Run(ctx, Sources{social.PlatformFacebook: {}})

	assert.ErrorIs(t, err, context.Canceled)
}
