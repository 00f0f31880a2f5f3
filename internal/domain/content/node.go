package content

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

type Kind string

const (
	KindChallenge Kind = "challenge"
	KindTrack     Kind = "track"
	KindVideo     Kind = "video"
	KindGuide     Kind = "guide"
)

// Kinds lists every content kind in ingest order.
var Kinds = []Kind{KindChallenge, KindTrack, KindVideo, KindGuide}

func (k Kind) Valid() bool {
	switch k {
	case KindChallenge, KindTrack, KindVideo, KindGuide:
		return true
	}
	return false
}

// Dir is the directory below source_dir holding nodes of this kind.
func (k Kind) Dir() string {
	return string(k) + "s"
}

type BodyRef struct {
	SourcePath  string
	ContentHash string
}

type Node struct {
	ID          string
	Kind        Kind
	Slug        string
	Title       string
	Description string
	Date        time.Time

	Languages []string
	Topics    []string

	// Source is the external reference of a video (e.g. a YouTube id).
	Source string
	Draft  bool

	Body BodyRef
}

type Chapter struct {
	Title  string
	Videos []Node
}

// Track owns either a flat list of videos or a list of chapters, never both.
type Track struct {
	Node
	Videos   []Node
	Chapters []Chapter
}

func (t Track) Chaptered() bool {
	return len(t.Chapters) > 0
}

// Dimension selects one tag list of a node.
type Dimension func(Node) []string

func Languages(n Node) []string { return n.Languages }
func Topics(n Node) []string    { return n.Topics }

func (n *Node) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	n.Slug = strings.TrimSpace(n.Slug)
	n.Source = strings.TrimSpace(n.Source)
	n.Languages = normalizeTags(n.Languages)
	n.Topics = normalizeTags(n.Topics)
}

// normalizeTags trims and drops empty or exactly repeated values. Case is kept:
// facets are shown to readers as written.
func normalizeTags(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Fold returns the caseless form used for tag matching.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Filter restricts a query to nodes carrying the given language and topic.
// An empty value is a wildcard.
type Filter struct {
	Language string
	Topic    string
}

func (f Filter) IsWildcard() bool {
	return f.Language == "" && f.Topic == ""
}

func (f Filter) Match(n Node) bool {
	return matchTag(n.Languages, f.Language) && matchTag(n.Topics, f.Topic)
}

func matchTag(tags []string, want string) bool {
	if want == "" {
		return true
	}
	w := Fold(want)
	for _, t := range tags {
		if Fold(t) == w {
			return true
		}
	}
	return false
}

// Set is everything ingested from the source directory.
type Set struct {
	Challenges []Node
	Guides     []Node
	Videos     []Node
	Tracks     []Track
}

func (s Set) Len() int {
	return len(s.Challenges) + len(s.Guides) + len(s.Videos) + len(s.Tracks)
}

func (s Set) Nodes(kind Kind) []Node {
	switch kind {
	case KindChallenge:
		return s.Challenges
	case KindGuide:
		return s.Guides
	case KindVideo:
		return s.Videos
	case KindTrack:
		out := make([]Node, 0, len(s.Tracks))
		for _, t := range s.Tracks {
			out = append(out, t.Node)
		}
		return out
	}
	return nil
}
