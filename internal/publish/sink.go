// Package publish holds the page sinks: the HTML writer used by real builds
// and an in-memory recorder used for dry runs.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"trainsite/internal/domain/config"
	"trainsite/internal/domain/site"
	"trainsite/internal/render"
)

var ErrDuplicatePath = errors.New("duplicate page path")

// registry rejects a second page at the same path.
type registry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func (r *registry) claim(p string) error {
	key := strings.Trim(p, "/")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paths == nil {
		r.paths = make(map[string]struct{})
	}
	if _, ok := r.paths[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, p)
	}
	r.paths[key] = struct{}{}
	return nil
}

func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

// HTMLSink renders each page and writes it to <OutDir>/<path>/index.html.
type HTMLSink struct {
	Renderer render.Renderer
	Config   config.Config
	OutDir   string

	reg registry
}

func NewHTMLSink(r render.Renderer, cfg config.Config) *HTMLSink {
	return &HTMLSink{
		Renderer: r,
		Config:   cfg,
		OutDir:   cfg.Build.PublicDir,
	}
}

func (s *HTMLSink) CreatePage(ctx context.Context, p site.Page) error {
	if err := s.reg.claim(p.Path); err != nil {
		return err
	}
	htmlBytes, err := s.Renderer.Render(ctx, p.Template, render.NewPageData(s.Config, p))
	if err != nil {
		return fmt.Errorf("render %s: %w", p.Template, err)
	}
	return WriteFile(s.OutDir, p.OutPath(), htmlBytes)
}

// Written is the number of pages written so far.
func (s *HTMLSink) Written() int {
	return s.reg.count()
}

// MemorySink keeps pages in registration order.
type MemorySink struct {
	mu    sync.Mutex
	pages []site.Page
	reg   registry
}

func (m *MemorySink) CreatePage(ctx context.Context, p site.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.reg.claim(p.Path); err != nil {
		return err
	}
	m.mu.Lock()
	m.pages = append(m.pages, p)
	m.mu.Unlock()
	return nil
}

func (m *MemorySink) Pages() []site.Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]site.Page, len(m.pages))
	copy(out, m.pages)
	return out
}

// Get returns the page registered at path.
func (m *MemorySink) Get(path string) (site.Page, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pages {
		if p.Path == path {
			return p, true
		}
	}
	return site.Page{}, false
}

// ByTemplate returns the pages bound to tmpl in registration order.
func (m *MemorySink) ByTemplate(tmpl site.Template) []site.Page {
	var out []site.Page
	for _, p := range m.Pages() {
		if p.Template == tmpl {
			out = append(out, p)
		}
	}
	return out
}
