package site

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"trainsite/internal/domain/content"
)

// Template identifies the theme template a page is rendered with.
type Template string

const (
	TemplateChallenge  Template = "challenge"
	TemplateChallenges Template = "challenges"
	TemplateTrack      Template = "track"
	TemplateTracks     Template = "tracks"
	TemplateGuide      Template = "guide"
)

// Templates lists every template a theme must provide.
var Templates = []Template{
	TemplateChallenge,
	TemplateChallenges,
	TemplateTrack,
	TemplateTracks,
	TemplateGuide,
}

func (t Template) File() string {
	return string(t) + ".tmpl"
}

const (
	CollectionChallenges = "challenges"
	CollectionTracks     = "tracks"
	CollectionGuides     = "guides"

	// Wildcard is the path segment of an unfiltered dimension.
	Wildcard = "all"
)

// Page is one generated output unit.
type Page struct {
	Path     string
	Template Template
	Context  any
}

func (p Page) String() string {
	return fmt.Sprintf("%s tmpl=%s", p.Path, p.Template)
}

// OutPath is the file the page is written to, relative to the public dir.
func (p Page) OutPath() string {
	return path.Join(strings.Trim(p.Path, "/"), "index.html")
}

var slugSub = map[string]string{
	"+": " plus ",
	"#": " sharp ",
}

// Slugify turns an arbitrary tag into a URL path segment. Values with
// nothing to transliterate (emoji, punctuation) get a short hash of their
// folded form, so the segment is never empty and case variants still agree.
func Slugify(s string) string {
	if out := slug.Make(slug.Substitute(s, slugSub)); out != "" {
		return out
	}
	sum := sha256.Sum256([]byte(content.Fold(s)))
	return "x-" + hex.EncodeToString(sum[:4])
}

func ItemPath(collection, itemSlug string) string {
	return path.Join(collection, itemSlug)
}

func ListingPath(collection, language, topic string) string {
	return path.Join(collection, "lang", segment(language), "topic", segment(topic))
}

func VideoPath(trackSlug, videoSlug string) string {
	return path.Join(CollectionTracks, trackSlug, videoSlug)
}

// PagePath is the path of the n-th (1-based) page of a paginated listing.
func PagePath(prefix string, n int) string {
	if n <= 1 {
		return prefix
	}
	return path.Join(prefix, strconv.Itoa(n))
}

func segment(v string) string {
	if v == "" {
		return Wildcard
	}
	return Slugify(v)
}
