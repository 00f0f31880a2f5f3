package generate

import (
	"context"
	"fmt"

	"trainsite/internal/domain/content"
	"trainsite/internal/domain/site"
	"trainsite/internal/logfields"
)

// position is where a video sits in its track: chapter index (always 0 for
// flat tracks) and index within the chapter, both in declared order.
type position struct {
	chapter int
	video   int
}

type trackVideo struct {
	content.Node
	position
}

// flatten walks a track's videos in order.
func flatten(t content.Track) []trackVideo {
	var out []trackVideo
	if t.Chaptered() {
		for ci, ch := range t.Chapters {
			for vi, v := range ch.Videos {
				out = append(out, trackVideo{Node: v, position: position{chapter: ci, video: vi}})
			}
		}
		return out
	}
	for vi, v := range t.Videos {
		out = append(out, trackVideo{Node: v, position: position{video: vi}})
	}
	return out
}

func (g *Generator) trackPages(ctx context.Context, r *run) error {
	tracks, err := g.Source.Tracks(ctx)
	r.report.Queries++
	g.recorder().IncQuery(string(content.KindTrack))
	if err != nil {
		return fmt.Errorf("query tracks: %w", err)
	}

	for _, t := range tracks {
		// the landing page shows the first video of the first non-empty
		// chapter, at its real position
		videos := flatten(t)
		if len(videos) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyTrack, t.Slug)
		}
		landing := site.Page{
			Path:     site.ItemPath(site.CollectionTracks, t.Slug),
			Template: site.TemplateTrack,
			Context:  trackContext(t, videos[0], true),
		}
		if err := g.create(ctx, r, landing); err != nil {
			return err
		}

		for _, v := range videos {
			p := site.Page{
				Path:     site.VideoPath(t.Slug, v.Slug),
				Template: site.TemplateTrack,
				Context:  trackContext(t, v, false),
			}
			if err := g.create(ctx, r, p); err != nil {
				return err
			}
		}
		g.logger().Debug("track pages created",
			logfields.Path(landing.Path),
			logfields.Count(len(videos)+1),
		)
	}
	return nil
}

func trackContext(t content.Track, v trackVideo, landing bool) site.TrackContext {
	return site.TrackContext{
		IsTrackPage:  landing,
		TrackID:      t.ID,
		TrackSlug:    t.Slug,
		VideoID:      v.ID,
		VideoSlug:    v.Slug,
		Source:       v.Source,
		ChapterIndex: v.chapter,
		VideoIndex:   v.video,
	}
}
