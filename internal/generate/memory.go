package generate

import (
	"context"

	"trainsite/internal/domain/content"
)

// MemorySource answers queries from an already loaded content set. It is
// the fetch-once alternative to querying the index per filter combination.
type MemorySource struct {
	Set content.Set
}

func (m *MemorySource) Query(ctx context.Context, kind content.Kind, f content.Filter) ([]content.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]content.Node, 0)
	for _, n := range m.Set.Nodes(kind) {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *MemorySource) Tracks(ctx context.Context) ([]content.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Set.Tracks, nil
}

// Preload builds a MemorySource from everything src holds.
func Preload(ctx context.Context, src Source) (*MemorySource, error) {
	var set content.Set
	var err error
	if set.Challenges, err = src.Query(ctx, content.KindChallenge, content.Filter{}); err != nil {
		return nil, err
	}
	if set.Guides, err = src.Query(ctx, content.KindGuide, content.Filter{}); err != nil {
		return nil, err
	}
	if set.Videos, err = src.Query(ctx, content.KindVideo, content.Filter{}); err != nil {
		return nil, err
	}
	if set.Tracks, err = src.Tracks(ctx); err != nil {
		return nil, err
	}
	return &MemorySource{Set: set}, nil
}
