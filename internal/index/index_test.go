package index

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainsite/internal/domain/content"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "idx", "index.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func fixture() content.Set {
	v0 := content.Node{ID: "v0", Kind: content.KindVideo, Slug: "v0", Date: day(1), Source: "yt0"}
	v1 := content.Node{ID: "v1", Kind: content.KindVideo, Slug: "v1", Date: day(2), Source: "yt1"}
	return content.Set{
		Challenges: []content.Node{
			{ID: "c1", Kind: content.KindChallenge, Slug: "snake", Date: day(1), Languages: []string{"p5.js"}, Topics: []string{"Games"}},
			{ID: "c2", Kind: content.KindChallenge, Slug: "starfield", Date: day(3), Languages: []string{"Processing"}, Topics: []string{"Games", "Art"}},
			{ID: "c3", Kind: content.KindChallenge, Slug: "fractal", Date: day(2), Languages: []string{"P5.JS"}, Topics: []string{"Art"}},
		},
		Videos: []content.Node{v0, v1},
		Tracks: []content.Track{
			{Node: content.Node{ID: "t1", Kind: content.KindTrack, Slug: "flat", Date: day(1)}, Videos: []content.Node{v0, v1}},
			{Node: content.Node{ID: "t2", Kind: content.KindTrack, Slug: "chap", Date: day(5)}, Chapters: []content.Chapter{{Title: "A", Videos: []content.Node{v1}}}},
		},
	}
}

func slugs(nodes []content.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Slug)
	}
	return out
}

func TestQueryOrderAndFilters(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture()))
	ctx := context.Background()

	all, err := st.Query(ctx, content.KindChallenge, content.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"starfield", "fractal", "snake"}, slugs(all))

	p5, err := st.Query(ctx, content.KindChallenge, content.Filter{Language: "p5.js"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fractal", "snake"}, slugs(p5))

	both, err := st.Query(ctx, content.KindChallenge, content.Filter{Language: "P5.js", Topic: "art"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fractal"}, slugs(both))

	none, err := st.Query(ctx, content.KindChallenge, content.Filter{Language: "p5"})
	require.NoError(t, err)
	assert.Empty(t, none)

	guides, err := st.Query(ctx, content.KindGuide, content.Filter{})
	require.NoError(t, err)
	assert.Empty(t, guides)
}

func TestQueryHonorsCanceledContext(t *testing.T) {
	st := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := st.Query(ctx, content.KindChallenge, content.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTracksKeepVideos(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture()))

	tracks, err := st.Tracks(context.Background())
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "chap", tracks[0].Slug)
	assert.True(t, tracks[0].Chaptered())
	assert.Equal(t, []string{"v0", "v1"}, slugs(tracks[1].Videos))
	assert.Equal(t, "yt1", tracks[1].Videos[1].Source)
}

func TestLookups(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture()))

	n, err := st.GetByID("c2")
	require.NoError(t, err)
	assert.Equal(t, "starfield", n.Slug)

	_, err = st.GetByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	tr, err := st.GetTrack("flat")
	require.NoError(t, err)
	assert.Len(t, tr.Videos, 2)

	c, err := st.Count(content.KindChallenge)
	require.NoError(t, err)
	assert.Equal(t, 3, c)
}

func TestRebuildReplacesContent(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.Rebuild(fixture()))
	require.NoError(t, st.Rebuild(content.Set{
		Challenges: []content.Node{{ID: "x", Kind: content.KindChallenge, Slug: "only", Date: day(1)}},
	}))

	all, err := st.Query(context.Background(), content.KindChallenge, content.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, slugs(all))

	tracks, err := st.Tracks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestTimeSlugKey(t *testing.T) {
	k := makeTimeSlugKey(day(1).UnixNano(), "abc")
	assert.Equal(t, "abc", slugFromTimeSlugKey(k))
	assert.Equal(t, "", slugFromTimeSlugKey([]byte{1, 2}))

	old := time.Date(1969, 7, 20, 0, 0, 0, 0, time.UTC)
	newer := time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC)
	newest := day(1)
	assert.Negative(t, bytes.Compare(makeTimeSlugKey(newest.UnixNano(), "a"), makeTimeSlugKey(newer.UnixNano(), "a")))
	assert.Negative(t, bytes.Compare(makeTimeSlugKey(newer.UnixNano(), "a"), makeTimeSlugKey(old.UnixNano(), "a")))

	kind, slug, ok := splitIDValue(makeIDValue("guide", "git"))
	assert.True(t, ok)
	assert.Equal(t, "guide", kind)
	assert.Equal(t, "git", slug)
}
