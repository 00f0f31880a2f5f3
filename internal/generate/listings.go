package generate

import (
	"context"
	"fmt"
	"log/slog"

	"trainsite/internal/domain/content"
	"trainsite/internal/domain/site"
	"trainsite/internal/facet"
	"trainsite/internal/logfields"
	"trainsite/internal/paginate"
)

type listing struct {
	kind       content.Kind
	collection string
	template   site.Template
	all        []content.Node
	facets     facet.Manifest

	languageOptions []site.FacetOption
	topicOptions    []site.FacetOption
}

func (g *Generator) trackListings(ctx context.Context, r *run) error {
	nodes, err := g.query(ctx, r, content.KindTrack, content.Filter{})
	if err != nil {
		return err
	}
	facets := facet.Of(nodes)
	if err := g.writeManifest(site.CollectionTracks, facets); err != nil {
		return err
	}
	return g.listings(ctx, r, listing{
		kind:       content.KindTrack,
		collection: site.CollectionTracks,
		template:   site.TemplateTracks,
		all:        nodes,
		facets:     facets,
	})
}

// listings creates the unfiltered listing at the collection root plus one
// listing per (language, topic) combination, wildcards included. Every
// combination but the all/all one re-queries the source.
func (g *Generator) listings(ctx context.Context, r *run, l listing) error {
	if err := checkSegments("language", l.facets.Languages); err != nil {
		return err
	}
	if err := checkSegments("topic", l.facets.Topics); err != nil {
		return err
	}
	l.languageOptions = options(l.facets.Languages)
	l.topicOptions = options(l.facets.Topics)

	if err := g.paginated(ctx, r, l, l.collection, content.Filter{}, l.all); err != nil {
		return err
	}

	languages := append([]string{""}, l.facets.Languages...)
	topics := append([]string{""}, l.facets.Topics...)

	seen := make(map[string]struct{})
	combos := 0
	for _, lang := range languages {
		for _, topic := range topics {
			f := content.Filter{Language: lang, Topic: topic}
			prefix := site.ListingPath(l.collection, lang, topic)
			// case variants share a segment and a result set; checkSegments
			// has rejected every other collision
			if _, ok := seen[prefix]; ok {
				g.logger().Debug("listing already generated",
					logfields.Path(prefix),
					logfields.Language(lang),
					logfields.Topic(topic),
				)
				continue
			}
			seen[prefix] = struct{}{}
			nodes := l.all
			if !f.IsWildcard() {
				var err error
				if nodes, err = g.query(ctx, r, l.kind, f); err != nil {
					return err
				}
			}
			if err := g.paginated(ctx, r, l, prefix, f, nodes); err != nil {
				return err
			}
			combos++
		}
	}
	g.logger().Info("listings created",
		logfields.Kind(string(l.kind)),
		logfields.Count(combos),
	)
	return nil
}

func (g *Generator) paginated(ctx context.Context, r *run, l listing, prefix string, f content.Filter, nodes []content.Node) error {
	windows := paginate.Paginate(nodes, g.pageSize(), prefix)
	if len(windows) == 0 {
		g.logger().Debug("empty listing",
			logfields.Path(prefix),
			logfields.Language(f.Language),
			logfields.Topic(f.Topic),
		)
	}
	for _, w := range windows {
		p := site.Page{
			Path:     w.Path,
			Template: l.template,
			Context: site.ListingContext{
				Collection:      l.collection,
				Language:        f.Language,
				Topic:           f.Topic,
				LanguageSlug:    segment(f.Language),
				TopicSlug:       segment(f.Topic),
				LanguagePattern: site.FilterPattern(f.Language),
				TopicPattern:    site.FilterPattern(f.Topic),
				LanguageOptions: l.languageOptions,
				TopicOptions:    l.topicOptions,
				IDs:             w.IDs(),
				Pagination:      w.Pagination,
			},
		}
		if err := g.create(ctx, r, p); err != nil {
			return err
		}
	}
	return nil
}

// checkSegments fails when two facet values that are not case variants of
// each other map to the same path segment. Their listings would claim one
// path while holding different nodes.
func checkSegments(dim string, values []string) error {
	bySlug := make(map[string]string, len(values))
	for _, v := range values {
		seg := segment(v)
		prev, ok := bySlug[seg]
		if !ok {
			bySlug[seg] = v
			continue
		}
		if content.Fold(prev) != content.Fold(v) {
			return fmt.Errorf("%w: %s %q and %q both map to %q", ErrSlugCollision, dim, prev, v, seg)
		}
	}
	return nil
}

// options pairs facet values with their segments, one per segment so case
// variants collapse onto the first spelling.
func options(values []string) []site.FacetOption {
	out := make([]site.FacetOption, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seg := segment(v)
		if _, ok := seen[seg]; ok {
			continue
		}
		seen[seg] = struct{}{}
		out = append(out, site.FacetOption{Value: v, Slug: seg})
	}
	return out
}

func segment(v string) string {
	if v == "" {
		return site.Wildcard
	}
	return site.Slugify(v)
}

func slogLen(key string, values []string) slog.Attr {
	return slog.Int(key, len(values))
}
