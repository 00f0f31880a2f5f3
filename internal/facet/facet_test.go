package facet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainsite/internal/domain/content"
)

func nodes(langs ...[]string) []content.Node {
	out := make([]content.Node, 0, len(langs))
	for _, l := range langs {
		out = append(out, content.Node{Languages: l})
	}
	return out
}

func TestExtractDedupesAndSorts(t *testing.T) {
	got := Extract(nodes(
		[]string{"p5.js", "JavaScript"},
		[]string{"Processing", "javascript"},
		[]string{"JavaScript", "Arduino"},
	), content.Languages)

	assert.Equal(t, []string{"Arduino", "JavaScript", "javascript", "p5.js", "Processing"}, got)
}

func TestExtractCaseInsensitiveOrdering(t *testing.T) {
	got := Extract(nodes([]string{"b", "C", "a", "B"}), content.Languages)
	assert.Equal(t, []string{"a", "B", "b", "C"}, got)
}

func TestExtractFoldsDiacritics(t *testing.T) {
	got := Extract(nodes([]string{"ordinateur", "élan", "eagle", "zebra"}), content.Languages)
	assert.Equal(t, []string{"eagle", "élan", "ordinateur", "zebra"}, got)
}

func TestExtractEmpty(t *testing.T) {
	got := Extract(nil, content.Topics)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractNoDuplicatesProperty(t *testing.T) {
	in := nodes([]string{"x", "y"}, []string{"y", "z"}, []string{"x", "z"}, nil)
	got := Extract(in, content.Languages)
	seen := map[string]bool{}
	for _, v := range got {
		assert.False(t, seen[v], "duplicate %q", v)
		seen[v] = true
	}
	assert.Len(t, got, 3)
}

func TestOf(t *testing.T) {
	m := Of([]content.Node{
		{Languages: []string{"p5.js"}, Topics: []string{"Physics", "Art"}},
		{Languages: []string{"Processing"}, Topics: []string{"art"}},
	})
	assert.Equal(t, []string{"p5.js", "Processing"}, m.Languages)
	assert.Equal(t, []string{"Art", "art", "Physics"}, m.Topics)
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ManifestFile("challenges"))
	want := Of([]content.Node{
		{Languages: []string{"p5.js", "Python"}, Topics: []string{"Games"}},
		{Languages: []string{"Java"}},
	})

	require.NoError(t, WriteManifest(path, want))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// same input, same bytes
	require.NoError(t, WriteManifest(path, want))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteManifestEmptyListsAreArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFile("tracks"))
	require.NoError(t, WriteManifest(path, Manifest{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"languages":[],"topics":[]}`, string(data))
}

func TestWriteManifestFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteManifest(filepath.Join(blocker, "filters-challenges.json"), Manifest{})
	assert.Error(t, err)
}
