package index

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"

	"trainsite/internal/domain/content"
)

var ErrNotFound = errors.New("not found")

// Query returns the nodes of kind matching f, newest first. Filter values
// match tags exactly, ignoring case.
func (s *Store) Query(ctx context.Context, kind content.Kind, f content.Filter) ([]content.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]content.Node, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		order := subBucket(tx, bOrder, []byte(kind))
		nodes := subBucket(tx, bNodes, []byte(kind))
		if order == nil || nodes == nil {
			return nil
		}

		var langB, topicB *bolt.Bucket
		if f.Language != "" {
			if langB = tagBucket(tx, bIdxLang, kind, f.Language); langB == nil {
				return nil
			}
		}
		if f.Topic != "" {
			if topicB = tagBucket(tx, bIdxTopic, kind, f.Topic); topicB == nil {
				return nil
			}
		}

		cur := order.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			if langB != nil && langB.Get(k) == nil {
				continue
			}
			if topicB != nil && topicB.Get(k) == nil {
				continue
			}
			slug := slugFromTimeSlugKey(k)
			if slug == "" {
				continue
			}
			v := nodes.Get([]byte(slug))
			if v == nil {
				continue
			}
			var n content.Node
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			out = append(out, n)
		}
		return nil
	})
	return out, err
}

// Tracks returns every track with its videos, newest first.
func (s *Store) Tracks(ctx context.Context) ([]content.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]content.Track, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		order := subBucket(tx, bOrder, []byte(content.KindTrack))
		tracks := tx.Bucket(bTracks)
		if order == nil || tracks == nil {
			return nil
		}
		cur := order.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			v := tracks.Get([]byte(slugFromTimeSlugKey(k)))
			if v == nil {
				continue
			}
			var t content.Track
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			out = append(out, t)
		}
		return nil
	})
	return out, err
}

func (s *Store) GetNode(kind content.Kind, slug string) (content.Node, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return content.Node{}, ErrNotFound
	}
	var n content.Node
	err := s.db.View(func(tx *bolt.Tx) error {
		b := subBucket(tx, bNodes, []byte(kind))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &n)
	})
	return n, err
}

func (s *Store) GetByID(id string) (content.Node, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return content.Node{}, ErrNotFound
	}
	var kind, slug string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bIDs)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		var ok bool
		if kind, slug, ok = splitIDValue(v); !ok {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return content.Node{}, err
	}
	return s.GetNode(content.Kind(kind), slug)
}

func (s *Store) GetTrack(slug string) (content.Track, error) {
	var t content.Track
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bTracks)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(strings.TrimSpace(slug)))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &t)
	})
	return t, err
}

// Count returns the number of indexed nodes of kind.
func (s *Store) Count(kind content.Kind) (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := subBucket(tx, bNodes, []byte(kind)); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

func subBucket(tx *bolt.Tx, parent, name []byte) *bolt.Bucket {
	p := tx.Bucket(parent)
	if p == nil {
		return nil
	}
	return p.Bucket(name)
}

func tagBucket(tx *bolt.Tx, parent []byte, kind content.Kind, tag string) *bolt.Bucket {
	kb := subBucket(tx, parent, []byte(kind))
	if kb == nil {
		return nil
	}
	return kb.Bucket([]byte(content.Fold(tag)))
}
