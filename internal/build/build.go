// Package build runs a full site build: ingest, index, generate, publish.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	dbuild "trainsite/internal/domain/build"
	"trainsite/internal/domain/config"
	"trainsite/internal/domain/content"
	"trainsite/internal/domain/site"
	"trainsite/internal/generate"
	"trainsite/internal/index"
	"trainsite/internal/ingest"
	"trainsite/internal/logfields"
	"trainsite/internal/metrics"
	"trainsite/internal/publish"
	"trainsite/internal/render"
)

// rendererVersion changes whenever markdown or template rendering changes
// output for the same input.
const rendererVersion = "goldmark-1.7/html-template-1"

type Builder struct {
	Cfg      config.Config
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

type Result struct {
	BuildID     string
	Nodes       int
	Pages       int
	Warnings    []ingest.Warning
	Fingerprint dbuild.Fingerprint
	Report      *generate.Report
	Duration    time.Duration
}

func New(cfg config.Config, logger *slog.Logger, rec metrics.Recorder) *Builder {
	return &Builder{Cfg: cfg, Logger: logger, Recorder: rec}
}

func (b *Builder) Run(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	buildID := uuid.NewString()
	log := b.logger().With(logfields.BuildID(buildID))
	rec := b.recorder()

	defer func() {
		d := time.Since(start)
		rec.ObserveBuildDuration(d)
		rec.IncBuildOutcome(outcomeOf(err))
		if err != nil {
			log.Error("build failed", logfields.Error(err), logfields.DurationMS(ms(d)))
			return
		}
		res.Duration = d
		log.Info("build complete",
			logfields.Count(res.Pages),
			logfields.DurationMS(ms(d)),
			slog.String("render_hash", res.Fingerprint.RenderHash),
		)
	}()

	cfg := b.Cfg
	set, warns, err := b.ingest(log)
	if err != nil {
		return nil, err
	}

	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(set); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}
	logIndex(log, st)

	themeRoot := filepath.Join(cfg.Build.ThemeDir, cfg.Site.Theme)
	templatesDir := filepath.Join(themeRoot, "templates")
	if err := render.CheckThemeTemplates(templatesDir); err != nil {
		return nil, fmt.Errorf("theme %s: %w", cfg.Site.Theme, err)
	}
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Site.Theme, st, render.NewMarkdownRenderer())
	if err != nil {
		return nil, fmt.Errorf("load themes(%s): %w", cfg.Build.ThemeDir, err)
	}

	// 所有输出先写入 stage，成功后再整体替换 public_dir
	stage, err := publish.NewStage(cfg.Build.PublicDir, buildID, !cfg.Build.Clean)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", cfg.Build.PublicDir, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = stage.Discard()
		}
	}()

	sink := publish.NewHTMLSink(tpl, cfg)
	sink.OutDir = stage.Dir

	src, err := b.source(ctx, st, log)
	if err != nil {
		return nil, err
	}

	gen := generate.New(src, sink, cfg.Build)
	gen.FiltersDir = stage.Path(cfg.Build.FiltersPath())
	gen.Recorder = rec
	gen.Logger = log
	report, err := gen.Run(ctx)
	if err != nil {
		return nil, err
	}

	if err := publish.CopyDir(filepath.Join(themeRoot, "static"), stage.Dir); err != nil {
		return nil, fmt.Errorf("copy static: %w", err)
	}

	fp, err := fingerprint(set, templatesDir, cfg)
	if err != nil {
		return nil, err
	}

	if err := stage.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return &Result{
		BuildID:     buildID,
		Nodes:       set.Len(),
		Pages:       sink.Written(),
		Warnings:    warns,
		Fingerprint: fp,
		Report:      report,
	}, nil
}

// Routes runs the generator against the ingested content without rendering
// or touching public_dir, and returns every page it would create.
func (b *Builder) Routes(ctx context.Context) ([]site.Page, error) {
	log := b.logger()
	set, _, err := b.ingest(log)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "trainsite-routes-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	sink := &publish.MemorySink{}
	gen := generate.New(&generate.MemorySource{Set: set}, sink, b.Cfg.Build)
	gen.FiltersDir = tmp
	gen.Logger = log
	if _, err := gen.Run(ctx); err != nil {
		return nil, err
	}
	return sink.Pages(), nil
}

func (b *Builder) ingest(log *slog.Logger) (content.Set, []ingest.Warning, error) {
	sourceDir := b.Cfg.Build.SourceDir
	set, warns, err := ingest.Ingest(sourceDir, ingest.Options{IncludeDraft: b.Cfg.Build.IncludeDraft})
	if err != nil {
		return content.Set{}, nil, fmt.Errorf("ingest failed: %w", err)
	}
	for _, w := range warns {
		log.Warn(w.Msg, logfields.Path(w.Path))
	}
	log.Info("content ingested", logfields.Path(sourceDir), logfields.Count(set.Len()))
	return set, warns, nil
}

func logIndex(log *slog.Logger, st *index.Store) {
	attrs := make([]any, 0, len(content.Kinds))
	for _, kind := range content.Kinds {
		n, err := st.Count(kind)
		if err != nil {
			log.Warn("index count failed", logfields.Kind(string(kind)), logfields.Error(err))
			return
		}
		attrs = append(attrs, slog.Int(kind.Dir(), n))
	}
	log.Info("index rebuilt", attrs...)
}

func (b *Builder) source(ctx context.Context, st *index.Store, log *slog.Logger) (generate.Source, error) {
	if b.Cfg.Build.FilterStrategy != config.FilterMemory {
		return st, nil
	}
	mem, err := generate.Preload(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("preload index: %w", err)
	}
	log.Debug("index preloaded", logfields.Count(mem.Set.Len()))
	return mem, nil
}

func fingerprint(set content.Set, templatesDir string, cfg config.Config) (dbuild.Fingerprint, error) {
	files := make(map[string][]byte)
	entries, err := os.ReadDir(templatesDir)
	if err != nil {
		return dbuild.Fingerprint{}, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(templatesDir, e.Name()))
		if err != nil {
			return dbuild.Fingerprint{}, err
		}
		files[e.Name()] = data
	}

	// Now is excluded from yaml so the hash does not change between runs.
	cfgBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return dbuild.Fingerprint{}, err
	}

	fp := dbuild.Fingerprint{
		ContentHash:  dbuild.HashContent(set),
		ThemeHash:    dbuild.HashFiles(files),
		ConfigHash:   dbuild.HashFiles(map[string][]byte{"config": cfgBytes}),
		RendererHash: dbuild.HashFiles(map[string][]byte{"renderer": []byte(rendererVersion)}),
	}
	fp.ComputeRenderHash()
	return fp, nil
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b *Builder) recorder() metrics.Recorder {
	if b.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return b.Recorder
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
