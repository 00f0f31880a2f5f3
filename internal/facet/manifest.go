package facet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is the filter metadata of one content type.
type Manifest struct {
	Languages []string `json:"languages"`
	Topics    []string `json:"topics"`
}

// ManifestFile is the file name of a collection's manifest.
func ManifestFile(collection string) string {
	return "filters-" + collection + ".json"
}

// WriteManifest replaces the manifest at path.
func WriteManifest(path string, m Manifest) error {
	if m.Languages == nil {
		m.Languages = []string{}
	}
	if m.Topics == nil {
		m.Topics = []string{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// 先写临时文件再 rename，避免读到半截的 manifest
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}
