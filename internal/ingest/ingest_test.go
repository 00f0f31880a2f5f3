package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainsite/internal/domain/content"
)

func writeSource(t *testing.T, root, rel, body string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
}

func TestParseFrontMatter(t *testing.T) {
	raw := []byte("---\r\ntitle: Snake Game\r\nlanguages: [p5.js]\r\ntopics:\r\n  - Games\r\n---\r\n# Body\r\n")
	fm, body, err := ParseFrontMatter(raw)
	require.NoError(t, err)
	assert.Equal(t, "Snake Game", fm.Title)
	assert.Equal(t, []string{"p5.js"}, fm.Languages)
	assert.Equal(t, []string{"Games"}, fm.Topics)
	assert.Equal(t, "# Body", string(body))
}

func TestParseFrontMatterVariants(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("no front matter"))
	assert.ErrorIs(t, err, errNoFrontMatter)

	_, _, err = ParseFrontMatter([]byte("---\ntitle: x\nnever closed"))
	assert.ErrorIs(t, err, errInvalidFrontMatter)

	fm, body, err := ParseFrontMatter([]byte("---\ntitle: only\n---"))
	require.NoError(t, err)
	assert.Equal(t, "only", fm.Title)
	assert.Empty(t, body)
}

func TestParseFrontMatterChapters(t *testing.T) {
	raw := []byte(`---
title: Code
chapters:
  - title: Basics
    videos: [a, b]
  - title: More
    videos: [c]
---
`)
	fm, _, err := ParseFrontMatter(raw)
	require.NoError(t, err)
	require.Len(t, fm.Chapters, 2)
	assert.Equal(t, []string{"a", "b"}, fm.Chapters[0].Videos)
	assert.Equal(t, "More", fm.Chapters[1].Title)
}

func TestResolveSlug(t *testing.T) {
	assert.Equal(t, "explicit-slug", ResolveSlug(FrontMatter{Slug: "Explicit Slug", Title: "T"}, "x.md"))
	assert.Equal(t, "from-title", ResolveSlug(FrontMatter{Title: "From Title"}, "x.md"))
	assert.Equal(t, "file-name", ResolveSlug(FrontMatter{}, "dir/File Name.md"))
}

func TestParseTime(t *testing.T) {
	assert.True(t, ParseTime("").IsZero())
	assert.Equal(t, 2024, ParseTime("2024-03-01").Year())
	assert.True(t, ParseTime("yesterday").IsZero())
}

func TestNodeIDStable(t *testing.T) {
	a := NodeID(content.KindChallenge, "snake")
	assert.Equal(t, a, NodeID(content.KindChallenge, "snake"))
	assert.NotEqual(t, a, NodeID(content.KindGuide, "snake"))
}

func TestIngestResolvesTracks(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "challenges/snake.md", "---\ntitle: Snake\ndate: 2020-01-01\nlanguages: [p5.js]\n---\nbody")
	writeSource(t, root, "guides/git.md", "---\ntitle: Git\ndate: 2020-01-01\n---\n")
	writeSource(t, root, "videos/v1.md", "---\nslug: v1\ntitle: One\ndate: 2020-01-01\nsource: abc\n---\n")
	writeSource(t, root, "videos/v2.md", "---\nslug: v2\ntitle: Two\ndate: 2020-01-01\nsource: def\n---\n")
	writeSource(t, root, "tracks/flat.md", "---\ntitle: Flat\ndate: 2020-01-01\nvideos: [v2, v1]\n---\n")
	writeSource(t, root, "tracks/chap.md", "---\ntitle: Chap\ndate: 2020-01-01\nchapters:\n  - title: A\n    videos: [v1]\n  - title: B\n    videos: [v2]\n---\n")
	writeSource(t, root, "challenges/draft.md", "---\ntitle: Draft\ndraft: true\n---\n")

	set, warns, err := Ingest(root, Options{})
	require.NoError(t, err)
	assert.Empty(t, warns)

	require.Len(t, set.Challenges, 1)
	assert.Equal(t, "snake", set.Challenges[0].Slug)
	assert.Equal(t, NodeID(content.KindChallenge, "snake"), set.Challenges[0].ID)
	require.Len(t, set.Guides, 1)
	require.Len(t, set.Videos, 2)
	require.Len(t, set.Tracks, 2)

	chap, flat := set.Tracks[0], set.Tracks[1]
	assert.Equal(t, "chap", chap.Slug)
	require.Len(t, chap.Chapters, 2)
	assert.Equal(t, "v1", chap.Chapters[0].Videos[0].Slug)
	assert.Equal(t, "B", chap.Chapters[1].Title)

	assert.Equal(t, "flat", flat.Slug)
	require.Len(t, flat.Videos, 2)
	assert.Equal(t, "v2", flat.Videos[0].Slug)
	assert.Equal(t, "def", flat.Videos[0].Source)
}

func TestIngestIncludeDraft(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "guides/draft.md", "---\ntitle: Draft\ndate: 2020-01-01\ndraft: true\n---\n")

	set, _, err := Ingest(root, Options{IncludeDraft: true})
	require.NoError(t, err)
	require.Len(t, set.Guides, 1)
	assert.True(t, set.Guides[0].Draft)
}

func TestIngestMixedTrackFails(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "videos/v1.md", "---\nslug: v1\ndate: 2020-01-01\n---\n")
	writeSource(t, root, "tracks/bad.md", "---\ntitle: Bad\nvideos: [v1]\nchapters:\n  - videos: [v1]\n---\n")

	_, _, err := Ingest(root, Options{})
	assert.ErrorIs(t, err, ErrMixedTrack)
}

func TestIngestEmptyChapterWarns(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "videos/v1.md", "---\nslug: v1\ntitle: One\ndate: 2020-01-01\nsource: abc\n---\n")
	writeSource(t, root, "tracks/t.md", "---\ntitle: T\ndate: 2020-01-01\nchapters:\n  - title: Intro\n  - title: B\n    videos: [v1]\n---\n")

	set, warns, err := Ingest(root, Options{})
	require.NoError(t, err)
	require.Len(t, set.Tracks, 1)
	require.Len(t, set.Tracks[0].Chapters, 2)
	require.Len(t, warns, 1)
	assert.Equal(t, `chapter "Intro" has no videos`, warns[0].Msg)
}

func TestIngestUnknownVideoFails(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "tracks/t.md", "---\ntitle: T\ndate: 2020-01-01\nvideos: [missing]\n---\n")

	_, _, err := Ingest(root, Options{})
	assert.ErrorIs(t, err, ErrUnknownVideo)
}

func TestIngestDuplicateSlugWarns(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "challenges/a.md", "---\nslug: same\ntitle: A\ndate: 2020-01-01\n---\n")
	writeSource(t, root, "challenges/b.md", "---\nslug: same\ntitle: B\ndate: 2020-01-01\n---\n")

	set, warns, err := Ingest(root, Options{})
	require.NoError(t, err)
	require.Len(t, set.Challenges, 1)
	assert.Equal(t, "A", set.Challenges[0].Title)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Msg, "duplicate slug")
}

func TestDiscoverSourceSkipsMissingDirs(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "guides/a.md", "x")
	writeSource(t, root, "guides/notes.txt", "x")

	files, err := DiscoverSource(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, content.KindGuide, files[0].Kind)
}
