package paginate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainsite/internal/domain/content"
)

func items(n int) []content.Node {
	out := make([]content.Node, n)
	for i := range out {
		out[i] = content.Node{ID: fmt.Sprintf("id-%d", i)}
	}
	return out
}

func TestPaginate120By50(t *testing.T) {
	pages := Paginate(items(120), 50, "challenges")
	require.Len(t, pages, 3)

	assert.Len(t, pages[0].Items, 50)
	assert.Len(t, pages[1].Items, 50)
	assert.Len(t, pages[2].Items, 20)

	assert.Equal(t, "challenges", pages[0].Path)
	assert.Equal(t, "challenges/2", pages[1].Path)
	assert.Equal(t, "challenges/3", pages[2].Path)

	assert.Equal(t, "", pages[0].PreviousPagePath)
	assert.Equal(t, "challenges/2", pages[0].NextPagePath)
	assert.Equal(t, "challenges", pages[1].PreviousPagePath)
	assert.Equal(t, "challenges/3", pages[1].NextPagePath)
	assert.Equal(t, "challenges/2", pages[2].PreviousPagePath)
	assert.Equal(t, "", pages[2].NextPagePath)

	for i, p := range pages {
		assert.Equal(t, 3, p.NumberOfPages)
		assert.Equal(t, i, p.PageNumber)
		assert.Equal(t, i+1, p.HumanPageNumber)
		assert.Equal(t, i*50, p.Skip)
		assert.Equal(t, 50, p.Limit)
	}
	assert.Equal(t, "id-100", pages[2].IDs()[0])
}

func TestPaginateEmpty(t *testing.T) {
	assert.Empty(t, Paginate(nil, 50, "tracks"))
}

func TestPaginateExactMultiple(t *testing.T) {
	pages := Paginate(items(100), 50, "tracks")
	require.Len(t, pages, 2)
	assert.Len(t, pages[1].Items, 50)
}

func TestCount(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 50, 0},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{120, 50, 3},
		{10, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Count(c.total, c.size), "total=%d size=%d", c.total, c.size)
	}
}
