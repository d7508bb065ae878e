package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"taskdigest/internal/ports"
)

// DirStore writes run artifacts into one output directory.
type DirStore struct {
	dir string
}

var _ ports.ArtifactStore = (*DirStore)(nil)

// NewDirStore creates the directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &DirStore{dir: dir}, nil
}

// WriteJSON persists v as indented JSON under name.
func (s *DirStore) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return s.WriteText(name, string(data))
}

// WriteText persists text under name.
func (s *DirStore) WriteText(name, text string) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
