// Package facet derives the filter facets of a content type and persists
// them as the JSON manifests client-side filtering reads.
package facet

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"trainsite/internal/domain/content"
)

// Extract returns every distinct value of dim across nodes, sorted with
// English collation ignoring case and diacritics. Values equal under
// collation keep byte order so the result is stable between builds.
func Extract(nodes []content.Node, dim content.Dimension) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, n := range nodes {
		for _, v := range dim(n) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	Sort(out)
	return out
}

// Sort orders values in place with the facet collation.
func Sort(values []string) {
	// collate.Collator is not safe for concurrent use; one per call.
	col := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(values, func(i, j int) bool {
		if c := col.CompareString(values[i], values[j]); c != 0 {
			return c < 0
		}
		return values[i] < values[j]
	})
}

// Of computes both facet dimensions of a content type.
func Of(nodes []content.Node) Manifest {
	return Manifest{
		Languages: Extract(nodes, content.Languages),
		Topics:    Extract(nodes, content.Topics),
	}
}
