package build

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"

	"trainsite/internal/domain/content"
)

// Fingerprint identifies the inputs of a build. Two builds with the same
// RenderHash produce the same site.
type Fingerprint struct {
	ContentHash  string
	ThemeHash    string
	ConfigHash   string
	RendererHash string
	RenderHash   string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ThemeHash))
	h.Write([]byte(f.ConfigHash))
	h.Write([]byte(f.RendererHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

// HashContent hashes the body hashes of every node, independent of ingest order.
func HashContent(set content.Set) string {
	var keys []string
	add := func(n content.Node) {
		keys = append(keys, string(n.Kind)+"/"+n.Slug+"@"+n.Body.ContentHash)
	}
	for _, kind := range content.Kinds {
		for _, n := range set.Nodes(kind) {
			add(n)
		}
	}
	sort.Strings(keys)
	h := sha256.New()
	for _, k := range keys {
		io.WriteString(h, k)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashFiles hashes named blobs, sorted by name.
func HashFiles(files map[string][]byte) string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	h := sha256.New()
	for _, name := range names {
		io.WriteString(h, name)
		h.Write([]byte{0})
		h.Write(files[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}
