package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/socialdash/internal/normalize"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

func strp(s string) *string { return &s }

func fixtureTable() normalize.Table {
	return normalize.ToTable([]social.Record{
		{Platform: social.PlatformYouTube, ID: strp("yt-mar1"), PublishedAt: strp("2024-03-01T10:00:00Z"), LikeCount: int64(10), ViewCount: int64(100)},
		{Platform: social.PlatformFacebook, ID: strp("fb-mar2"), PublishedAt: strp("2024-03-02T23:30:00+0000"), LikeCount: int64(4), CommentCount: int64(1)},
		{Platform: social.PlatformInstagram, ID: strp("ig-mar5"), PublishedAt: strp("2024-03-05T08:00:00+0000"), LikeCount: int64(7)},
		{Platform: social.PlatformFacebook, ID: strp("fb-undated"), LikeCount: int64(1)},
	})
}

func rowIDs(t normalize.Table) []string {
	var out []string
	for _, r := range t.Rows() {
		out = append(out, social.Deref(r.ID))
	}
	return out
}

func TestFilter_ZeroValueKeepsEverything(t *testing.T) {
	table := fixtureTable()

	assert.Equal(t, table.Len(), Filter{}.Apply(table).Len())
}

func TestFilter_Platforms(t *testing.T) {
	f, err := ParseFilter([]string{"facebook"}, "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"fb-mar2", "fb-undated"}, rowIDs(f.Apply(fixtureTable())))
}

func TestFilter_DateRangeCoversWholeEndDayAndDropsUndated(t *testing.T) {
	f, err := ParseFilter(nil, "2024-03-01", "2024-03-02")
	require.NoError(t, err)

	assert.Equal(t, []string{"yt-mar1", "fb-mar2"}, rowIDs(f.Apply(fixtureTable())))
}

func TestFilter_FromOnly(t *testing.T) {
	f, err := ParseFilter(nil, "2024-03-02", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"fb-mar2", "ig-mar5"}, rowIDs(f.Apply(fixtureTable())))
}

func TestFilter_ToBoundIsInclusivePlusOneDay(t *testing.T) {
	end := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	atBound := end.Add(24 * time.Hour)
	table := normalize.NewTable([]normalize.Row{
		{ID: strp("at-bound"), PublishedAt: &atBound},
	})

	assert.Equal(t, 1, Filter{To: &end}.Apply(table).Len())
}

func TestParseFilter_CommaSeparatedAndDeduplicated(t *testing.T) {
	f, err := ParseFilter([]string{"youtube,instagram", "YouTube"}, "", "")
	require.NoError(t, err)

	assert.Equal(t, []social.Platform{social.PlatformYouTube, social.PlatformInstagram}, f.Platforms)
	assert.False(t, f.Active())
}

func TestParseFilter_Errors(t *testing.T) {
	_, err := ParseFilter([]string{"myspace"}, "", "")
	assert.Error(t, err)

	_, err = ParseFilter(nil, "03/01/2024", "")
	assert.ErrorContains(t, err, "YYYY-MM-DD")

	_, err = ParseFilter(nil, "2024-03-05", "2024-03-01")
	assert.ErrorContains(t, err, "invalid date range")
}
