package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trainsite/internal/domain/content"
)

type SourceFile struct {
	Path string
	Kind content.Kind
}

// DiscoverSource finds the markdown files of every kind below root. A
// missing kind directory is not an error.
func DiscoverSource(root string) ([]SourceFile, error) {
	var out []SourceFile

	for _, kind := range content.Kinds {
		dir := filepath.Join(root, kind.Dir())
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if isMarkdown(d.Name()) {
				out = append(out, SourceFile{Path: path, Kind: kind})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return kindRank(out[i].Kind) < kindRank(out[j].Kind)
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

func isMarkdown(name string) bool {
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

func kindRank(k content.Kind) int {
	for i, kk := range content.Kinds {
		if kk == k {
			return i
		}
	}
	return len(content.Kinds)
}
