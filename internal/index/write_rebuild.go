package index

import (
	"encoding/json"
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"

	"trainsite/internal/domain/content"
)

// Rebuild replaces the whole index with set.
func (s *Store) Rebuild(set content.Set) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		root := make(map[string]*bolt.Bucket, len(allBuckets))
		for _, name := range allBuckets {
			b, err := tx.CreateBucket(name)
			if err != nil {
				return err
			}
			root[string(name)] = b
		}

		for _, kind := range content.Kinds {
			for _, n := range set.Nodes(kind) {
				if err := putNode(root, n); err != nil {
					return err
				}
			}
		}

		tracksB := root[string(bTracks)]
		for _, t := range set.Tracks {
			tb, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if err := tracksB.Put([]byte(t.Slug), tb); err != nil {
				return err
			}
		}
		return nil
	})
}

func putNode(root map[string]*bolt.Bucket, n content.Node) error {
	if strings.TrimSpace(n.Slug) == "" {
		return nil
	}
	kind := []byte(n.Kind)

	nb, err := root[string(bNodes)].CreateBucketIfNotExists(kind)
	if err != nil {
		return err
	}
	mb, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := nb.Put([]byte(n.Slug), mb); err != nil {
		return err
	}

	key := makeTimeSlugKey(n.Date.UnixNano(), n.Slug)
	ob, err := root[string(bOrder)].CreateBucketIfNotExists(kind)
	if err != nil {
		return err
	}
	if err := ob.Put(key, []byte{1}); err != nil {
		return err
	}

	if err := putTags(root[string(bIdxLang)], kind, n.Languages, key); err != nil {
		return err
	}
	if err := putTags(root[string(bIdxTopic)], kind, n.Topics, key); err != nil {
		return err
	}

	if n.ID != "" {
		if err := root[string(bIDs)].Put([]byte(n.ID), makeIDValue(string(n.Kind), n.Slug)); err != nil {
			return err
		}
	}
	return nil
}

func putTags(parent *bolt.Bucket, kind []byte, tags []string, key []byte) error {
	kb, err := parent.CreateBucketIfNotExists(kind)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		folded := content.Fold(tag)
		if folded == "" {
			continue
		}
		sb, err := kb.CreateBucketIfNotExists([]byte(folded))
		if err != nil {
			return err
		}
		if err := sb.Put(key, []byte{1}); err != nil {
			return err
		}
	}
	return nil
}
