package sample

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/socialdash/internal/normalize"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

func strp(s string) *string { return &s }

func TestLoader_MissingFileIsEmpty(t *testing.T) {
	records, err := NewLoader(t.TempDir()).Load(context.Background(), social.PlatformYouTube)

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestLoader_UnknownPlatform(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load(context.Background(), social.Platform("tiktok"))

	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestLoader_MemoizesFirstRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, social.PlatformFacebook, []social.Record{
		{Platform: social.PlatformFacebook, ID: strp("1"), LikeCount: int64(5)},
	}))
	loader := NewLoader(dir)

	first, err := loader.Load(context.Background(), social.PlatformFacebook)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, os.Remove(filepath.Join(dir, FileName(social.PlatformFacebook))))
	second, err := loader.Load(context.Background(), social.PlatformFacebook)
	require.NoError(t, err)
	assert.Len(t, second, 1, "second load should be served from memory")

	loader.Forget(social.PlatformFacebook)
	third, err := loader.Load(context.Background(), social.PlatformFacebook)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestLoader_ConcurrentLoadsAgree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, social.PlatformInstagram, []social.Record{
		{Platform: social.PlatformInstagram, ID: strp("a")},
		{Platform: social.PlatformInstagram, ID: strp("b")},
	}))
	loader := NewLoader(dir)

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records, err := loader.Load(context.Background(), social.PlatformInstagram)
			if err == nil {
				results[i] = len(records)
			}
		}(i)
	}
	wg.Wait()

	for _, n := range results {
		assert.Equal(t, 2, n)
	}
}

func TestLoader_MalformedFixtureIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName(social.PlatformYouTube)), []byte("{"), 0o644))

	_, err := NewLoader(dir).Load(context.Background(), social.PlatformYouTube)

	assert.Error(t, err)
}

func TestSave_RoundTripsAllColumns(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	in := []social.Record{{
		Platform:     social.PlatformYouTube,
		ID:           strp("v1"),
		Title:        strp("Intro"),
		PublishedAt:  strp("2024-01-02T03:04:05Z"),
		LikeCount:    int64(10),
		CommentCount: int64(1),
		ShareCount:   int64(0),
		ViewCount:    int64(99),
		Hashtags:     []string{},
	}}

	require.NoError(t, Save(dir, social.PlatformYouTube, in))

	data, err := os.ReadFile(filepath.Join(dir, "sample_youtube.json"))
	require.NoError(t, err)
	for _, col := range social.Columns() {
		assert.Contains(t, string(data), `"`+col+`"`)
	}

	out, err := NewLoader(dir).Load(context.Background(), social.PlatformYouTube)
	require.NoError(t, err)
	row := normalize.ToTable(out).Rows()[0]
	assert.Equal(t, "Intro", *row.Title)
	assert.Equal(t, int64(99), row.ViewCount)
	assert.Nil(t, row.Text)
}
