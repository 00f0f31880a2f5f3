package generate

import (
	"context"

	"trainsite/internal/domain/content"
	"trainsite/internal/domain/site"
	"trainsite/internal/facet"
	"trainsite/internal/logfields"
)

func (g *Generator) challenges(ctx context.Context, r *run) error {
	nodes, err := g.query(ctx, r, content.KindChallenge, content.Filter{})
	if err != nil {
		return err
	}
	facets := facet.Of(nodes)
	if err := g.writeManifest(site.CollectionChallenges, facets); err != nil {
		return err
	}
	if err := g.itemPages(ctx, r, nodes, site.CollectionChallenges, site.TemplateChallenge); err != nil {
		return err
	}
	return g.listings(ctx, r, listing{
		kind:       content.KindChallenge,
		collection: site.CollectionChallenges,
		template:   site.TemplateChallenges,
		all:        nodes,
		facets:     facets,
	})
}

func (g *Generator) guides(ctx context.Context, r *run) error {
	nodes, err := g.query(ctx, r, content.KindGuide, content.Filter{})
	if err != nil {
		return err
	}
	return g.itemPages(ctx, r, nodes, site.CollectionGuides, site.TemplateGuide)
}

// itemPages creates exactly one detail page per node.
func (g *Generator) itemPages(ctx context.Context, r *run, nodes []content.Node, collection string, tmpl site.Template) error {
	for _, n := range nodes {
		p := site.Page{
			Path:     site.ItemPath(collection, n.Slug),
			Template: tmpl,
			Context:  site.ItemContext{ID: n.ID, Slug: n.Slug},
		}
		if err := g.create(ctx, r, p); err != nil {
			return err
		}
	}
	g.logger().Info("detail pages created",
		logfields.Template(string(tmpl)),
		logfields.Count(len(nodes)),
	)
	return nil
}

func (g *Generator) writeManifest(collection string, m facet.Manifest) error {
	path := g.manifestPath(collection)
	if err := facet.WriteManifest(path, m); err != nil {
		return err
	}
	g.logger().Info("filter manifest written",
		logfields.Path(path),
		slogLen("languages", m.Languages),
		slogLen("topics", m.Topics),
	)
	return nil
}
