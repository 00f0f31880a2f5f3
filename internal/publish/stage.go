package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Stage is a scratch directory next to the live output directory. A build
// writes into Dir and the result replaces Live only on Commit, so a failed
// build leaves the live site as it was.
type Stage struct {
	Live string
	Dir  string
}

// NewStage creates the scratch directory for build id. With seed set it
// starts as a copy of the live directory, otherwise empty.
func NewStage(live, id string, seed bool) (*Stage, error) {
	live = filepath.Clean(live)
	dir := filepath.Join(filepath.Dir(live), "."+filepath.Base(live)+".stage-"+id)
	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	st := &Stage{Live: live, Dir: dir}
	if seed {
		if err := CopyDir(live, dir); err != nil {
			_ = st.Discard()
			return nil, fmt.Errorf("seed stage: %w", err)
		}
	}
	return st, nil
}

// Path maps p into the stage when it lies inside the live directory.
// Paths elsewhere are returned unchanged.
func (s *Stage) Path(p string) string {
	rel, err := filepath.Rel(s.Live, filepath.Clean(p))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return filepath.Join(s.Dir, rel)
}

// Commit swaps the stage in for the live directory.
func (s *Stage) Commit() error {
	old := s.Dir + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	hadLive := true
	if err := os.Rename(s.Live, old); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("retire %s: %w", s.Live, err)
		}
		hadLive = false
	}
	if err := os.Rename(s.Dir, s.Live); err != nil {
		if hadLive {
			_ = os.Rename(old, s.Live)
		}
		return fmt.Errorf("publish %s: %w", s.Live, err)
	}
	return os.RemoveAll(old)
}

// Discard drops the stage.
func (s *Stage) Discard() error {
	return os.RemoveAll(s.Dir)
}
