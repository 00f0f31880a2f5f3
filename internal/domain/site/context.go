package site

import (
	"regexp"
)

// ItemContext is handed to detail templates.
type ItemContext struct {
	ID   string
	Slug string
}

type Pagination struct {
	PageNumber       int // zero-based
	HumanPageNumber  int
	Skip             int
	Limit            int
	NumberOfPages    int
	PreviousPagePath string
	NextPagePath     string
}

// ListingContext is handed to listing templates. Empty filter values mean
// the dimension is not filtered.
type ListingContext struct {
	Collection   string
	Language     string
	Topic        string
	LanguageSlug string
	TopicSlug    string
	// Patterns let client-side filtering rebuild the active filter state.
	LanguagePattern string
	TopicPattern    string
	// Options carry every facet value of the collection together with the
	// path segment its listing lives under.
	LanguageOptions []FacetOption
	TopicOptions    []FacetOption
	IDs             []string
	Pagination
}

// FacetOption is one selectable filter value.
type FacetOption struct {
	Value string
	Slug  string
}

// TrackContext is handed to the track template, both for the landing page
// and for each video page.
type TrackContext struct {
	IsTrackPage  bool
	TrackID      string
	TrackSlug    string
	VideoID      string
	VideoSlug    string
	Source       string
	ChapterIndex int
	VideoIndex   int
}

// FilterPattern is the case-insensitive exact-match pattern of a filter value.
func FilterPattern(v string) string {
	if v == "" {
		return "(?i)^.*$"
	}
	return "(?i)^" + regexp.QuoteMeta(v) + "$"
}
