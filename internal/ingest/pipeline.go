package ingest

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"trainsite/internal/domain/content"
	domainerr "trainsite/internal/domain/errors"
)

var (
	ErrMixedTrack   = errors.New("track declares both videos and chapters")
	ErrUnknownVideo = errors.New("unknown video")
)

type Warning struct {
	Path string
	Msg  string
}

type Options struct {
	IncludeDraft bool
}

type Result struct {
	Node    content.Node
	Track   *trackRefs
	Warns   []Warning
	Skip    bool
	Err     error
	ordinal int
}

type trackRefs struct {
	videos   []string
	chapters []ChapterFrontMat
}

type job struct {
	SourceFile
	ordinal int
}

// Ingest reads every content file below sourceDir and resolves track video
// references. Nodes come back in discovery order.
func Ingest(sourceDir string, opt Options) (content.Set, []Warning, error) {
	files, err := DiscoverSource(sourceDir)
	if err != nil {
		return content.Set{}, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan job)
	results := make(chan Result)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r := parseFile(j.SourceFile, opt)
				r.ordinal = j.ordinal
				results <- r
			}
		}()
	}

	go func() {
		for i, f := range files {
			jobs <- job{SourceFile: f, ordinal: i}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	parsed := make([]Result, len(files))
	var firstErr error
	for r := range results {
		if r.Err != nil && firstErr == nil {
			firstErr = r.Err
		}
		parsed[r.ordinal] = r
	}
	if firstErr != nil {
		return content.Set{}, nil, firstErr
	}

	return assemble(parsed, files)
}

func parseFile(sf SourceFile, opt Options) Result {
	st, err := os.Stat(sf.Path)
	if err != nil {
		return Result{Err: err}
	}
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{Err: err}
	}

	fm, _, fmErr := ParseFrontMatter(raw)
	if fmErr != nil && fmErr != errNoFrontMatter {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "failed to parse front matter: " + fmErr.Error()}},
			Skip:  true,
		}
	}
	if fm.Draft && !opt.IncludeDraft {
		return Result{Skip: true}
	}

	s := ResolveSlug(fm, sf.Path)
	if s == "" {
		return Result{Warns: []Warning{{Path: sf.Path, Msg: "empty slug"}}, Skip: true}
	}

	var warns []Warning
	n := content.Node{
		ID:          strings.TrimSpace(fm.ID),
		Kind:        sf.Kind,
		Slug:        s,
		Title:       fm.Title,
		Description: fm.Description,
		Languages:   fm.Languages,
		Topics:      fm.Topics,
		Source:      fm.Source,
		Draft:       fm.Draft,
		Body: content.BodyRef{
			SourcePath:  sf.Path,
			ContentHash: HashBytes(raw),
		},
	}
	if n.ID == "" {
		n.ID = NodeID(sf.Kind, s)
	}
	n.Date = ParseTime(fm.Date)
	if n.Date.IsZero() {
		n.Date = st.ModTime().UTC()
		warns = append(warns, Warning{Path: sf.Path, Msg: "using file modification time for date"})
	}
	if strings.TrimSpace(n.Title) == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}
	if sf.Kind == content.KindVideo && strings.TrimSpace(n.Source) == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "video has no source"})
	}
	n.Normalize()

	r := Result{Node: n, Warns: warns}
	if sf.Kind == content.KindTrack {
		if len(fm.Videos) > 0 && len(fm.Chapters) > 0 {
			return Result{Err: &domainerr.SourceError{Path: sf.Path, Err: ErrMixedTrack}}
		}
		if len(fm.Videos) == 0 && len(fm.Chapters) == 0 {
			r.Warns = append(r.Warns, Warning{Path: sf.Path, Msg: "track has no videos"})
		}
		r.Track = &trackRefs{videos: fm.Videos, chapters: fm.Chapters}
	}
	return r
}

func assemble(parsed []Result, files []SourceFile) (content.Set, []Warning, error) {
	var set content.Set
	var warns []Warning
	var tracks []Result

	seen := make(map[content.Kind]map[string]struct{})
	for i, r := range parsed {
		warns = append(warns, r.Warns...)
		if r.Skip {
			continue
		}
		kind := r.Node.Kind
		if seen[kind] == nil {
			seen[kind] = make(map[string]struct{})
		}
		if _, ok := seen[kind][r.Node.Slug]; ok {
			warns = append(warns, Warning{Path: files[i].Path, Msg: "duplicate slug, skipped: " + r.Node.Slug})
			continue
		}
		seen[kind][r.Node.Slug] = struct{}{}

		switch kind {
		case content.KindChallenge:
			set.Challenges = append(set.Challenges, r.Node)
		case content.KindGuide:
			set.Guides = append(set.Guides, r.Node)
		case content.KindVideo:
			set.Videos = append(set.Videos, r.Node)
		case content.KindTrack:
			tracks = append(tracks, r)
		}
	}

	videos := make(map[string]content.Node, len(set.Videos))
	for _, v := range set.Videos {
		videos[v.Slug] = v
	}
	resolve := func(path string, refs []string) ([]content.Node, error) {
		out := make([]content.Node, 0, len(refs))
		for _, ref := range refs {
			ref = strings.TrimSpace(ref)
			v, ok := videos[ref]
			if !ok {
				return nil, &domainerr.SourceError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnknownVideo, ref)}
			}
			out = append(out, v)
		}
		return out, nil
	}

	for _, r := range tracks {
		t := content.Track{Node: r.Node}
		path := r.Node.Body.SourcePath
		if len(r.Track.chapters) > 0 {
			for _, ch := range r.Track.chapters {
				vs, err := resolve(path, ch.Videos)
				if err != nil {
					return content.Set{}, nil, err
				}
				if len(vs) == 0 {
					warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("chapter %q has no videos", strings.TrimSpace(ch.Title))})
				}
				t.Chapters = append(t.Chapters, content.Chapter{Title: strings.TrimSpace(ch.Title), Videos: vs})
			}
		} else {
			vs, err := resolve(path, r.Track.videos)
			if err != nil {
				return content.Set{}, nil, err
			}
			t.Videos = vs
		}
		set.Tracks = append(set.Tracks, t)
	}
	return set, warns, nil
}
