// Package generate turns indexed content into pages: detail pages, filtered
// paginated listings, track landing and video pages, and the filter
// manifests client-side filtering reads.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"trainsite/internal/domain/config"
	"trainsite/internal/domain/content"
	"trainsite/internal/domain/site"
	"trainsite/internal/facet"
	"trainsite/internal/logfields"
	"trainsite/internal/metrics"
)

var (
	ErrEmptyTrack    = errors.New("track has no videos")
	ErrSlugCollision = errors.New("facet values share a path segment")
)

// Source is the content data layer.
type Source interface {
	Query(ctx context.Context, kind content.Kind, f content.Filter) ([]content.Node, error)
	Tracks(ctx context.Context) ([]content.Track, error)
}

// Sink registers generated pages.
type Sink interface {
	CreatePage(ctx context.Context, p site.Page) error
}

type Generator struct {
	Source     Source
	Sink       Sink
	PageSize   int
	FiltersDir string
	Recorder   metrics.Recorder
	Logger     *slog.Logger
}

// Report summarizes one run.
type Report struct {
	Pages   map[site.Template]int
	Queries int
}

func (r *Report) Total() int {
	n := 0
	for _, c := range r.Pages {
		n += c
	}
	return n
}

func New(src Source, sink Sink, cfg config.BuildConfig) *Generator {
	return &Generator{
		Source:     src,
		Sink:       sink,
		PageSize:   cfg.PageSize,
		FiltersDir: cfg.FiltersPath(),
		Recorder:   metrics.NoopRecorder{},
		Logger:     slog.Default(),
	}
}

type step struct {
	name string
	fn   func(*Generator, context.Context, *run) error
}

// Run executes every routine in order. The first failure aborts the run.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	r := g.newRun()
	steps := []step{
		{"challenges", (*Generator).challenges},
		{"track listings", (*Generator).trackListings},
		{"track pages", (*Generator).trackPages},
		{"guides", (*Generator).guides},
	}
	for _, s := range steps {
		if err := g.timed(ctx, r, s); err != nil {
			return r.report, fmt.Errorf("build %s: %w", s.name, err)
		}
	}
	return r.report, nil
}

// Challenges writes the challenge manifest, detail pages and listings.
func (g *Generator) Challenges(ctx context.Context) error {
	return g.challenges(ctx, g.newRun())
}

// TrackListings writes the track manifest and listings.
func (g *Generator) TrackListings(ctx context.Context) error {
	return g.trackListings(ctx, g.newRun())
}

// TrackPages writes the landing page and video pages of every track.
func (g *Generator) TrackPages(ctx context.Context) error {
	return g.trackPages(ctx, g.newRun())
}

// Guides writes one page per guide.
func (g *Generator) Guides(ctx context.Context) error {
	return g.guides(ctx, g.newRun())
}

func (g *Generator) timed(ctx context.Context, r *run, s step) error {
	start := time.Now()
	err := s.fn(g, ctx, r)
	d := time.Since(start)
	g.recorder().ObserveStepDuration(s.name, d)
	g.logger().Debug("step finished",
		logfields.Step(s.name),
		logfields.DurationMS(float64(d.Microseconds())/1000),
	)
	return err
}

func (g *Generator) recorder() metrics.Recorder {
	if g.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return g.Recorder
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Generator) pageSize() int {
	if g.PageSize <= 0 {
		return config.DefaultPageSize
	}
	return g.PageSize
}

func (g *Generator) manifestPath(collection string) string {
	return filepath.Join(g.FiltersDir, facet.ManifestFile(collection))
}

// run carries the per-run counters.
type run struct {
	report *Report
}

func (g *Generator) newRun() *run {
	return &run{report: &Report{Pages: make(map[site.Template]int)}}
}

func (g *Generator) query(ctx context.Context, r *run, kind content.Kind, f content.Filter) ([]content.Node, error) {
	nodes, err := g.Source.Query(ctx, kind, f)
	r.report.Queries++
	g.recorder().IncQuery(string(kind))
	if err != nil {
		if f.IsWildcard() {
			return nil, fmt.Errorf("query %s: %w", kind, err)
		}
		return nil, fmt.Errorf("query %s lang=%q topic=%q: %w", kind, f.Language, f.Topic, err)
	}
	return nodes, nil
}

func (g *Generator) create(ctx context.Context, r *run, p site.Page) error {
	if err := g.Sink.CreatePage(ctx, p); err != nil {
		return fmt.Errorf("create page %s: %w", p.Path, err)
	}
	r.report.Pages[p.Template]++
	g.recorder().IncPage(string(p.Template))
	return nil
}
