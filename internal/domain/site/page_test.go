package site

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Machine Learning": "machine-learning",
		"p5.js":            "p5-js",
		"C":                "c",
		"C++":              "c-plus-plus",
		"C#":               "c-sharp",
		"Français":         "francais",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugifyNeverEmpty(t *testing.T) {
	for _, in := range []string{"🚂", "—", "!!!"} {
		got := Slugify(in)
		assert.NotEmpty(t, got, in)
		assert.True(t, strings.HasPrefix(got, "x-"), got)
	}
	assert.NotEqual(t, Slugify("🚂"), Slugify("—"))
	assert.Equal(t, Slugify("🚂"), Slugify("🚂"))
}

func TestListingPathWithUnsluggableTags(t *testing.T) {
	for _, p := range []string{
		ListingPath("challenges", "🚂", ""),
		ListingPath("challenges", "", "—"),
		ListingPath("challenges", "🚂", "—"),
	} {
		parts := strings.Split(p, "/")
		require.Len(t, parts, 5, p)
		assert.Equal(t, "lang", parts[1])
		assert.Equal(t, "topic", parts[3])
		assert.NotEmpty(t, parts[2])
		assert.NotEmpty(t, parts[4])
	}
}

func TestListingPath(t *testing.T) {
	assert.Equal(t, "challenges/lang/all/topic/all", ListingPath(CollectionChallenges, "", ""))
	assert.Equal(t, "challenges/lang/p5-js/topic/all", ListingPath(CollectionChallenges, "p5.js", ""))
	assert.Equal(t, "tracks/lang/all/topic/machine-learning", ListingPath(CollectionTracks, "", "Machine Learning"))
	assert.Equal(t, "tracks/lang/python/topic/games", ListingPath(CollectionTracks, "Python", "Games"))
}

func TestItemAndVideoPaths(t *testing.T) {
	assert.Equal(t, "challenges/snake-game", ItemPath(CollectionChallenges, "snake-game"))
	assert.Equal(t, "guides/git-guide", ItemPath(CollectionGuides, "git-guide"))
	assert.Equal(t, "tracks/code-programming/variables", VideoPath("code-programming", "variables"))
}

func TestPagePath(t *testing.T) {
	assert.Equal(t, "challenges", PagePath("challenges", 1))
	assert.Equal(t, "challenges/2", PagePath("challenges", 2))
}

func TestOutPath(t *testing.T) {
	assert.Equal(t, "tracks/x/index.html", Page{Path: "/tracks/x/"}.OutPath())
}

func TestFilterPattern(t *testing.T) {
	re := regexp.MustCompile(FilterPattern("p5.js"))
	assert.True(t, re.MatchString("P5.JS"))
	assert.False(t, re.MatchString("p5xjs"))
	assert.False(t, re.MatchString("p5.js library"))
	assert.True(t, regexp.MustCompile(FilterPattern("")).MatchString("anything"))
}

func TestTemplateFile(t *testing.T) {
	assert.Equal(t, "challenges.tmpl", TemplateChallenges.File())
	assert.Len(t, Templates, 5)
}
