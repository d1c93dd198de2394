package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meikuraledutech/skilltree"
)

// DefaultKey is the document name used when none is given.
const DefaultKey = "skill-tree-data"

// Store keeps the snapshot as a JSON document on the local filesystem.
type Store struct {
	Path string
}

// New creates a Store writing to path.
// If path is empty, it defaults to ".skilltree/skill-tree-data.json".
func New(path string) *Store {
	if path == "" {
		path = filepath.Join(".skilltree", DefaultKey+".json")
	}
	return &Store{Path: path}
}

// Load reads the document. Returns nil, nil if the file does not exist.
func (s *Store) Load(ctx context.Context) (*skilltree.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("skilltree: read snapshot: %w", err)
	}

	var snap skilltree.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("skilltree: decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes the document through a temporary file and a rename so a
// crash never leaves a half-written snapshot behind.
func (s *Store) Save(ctx context.Context, snap *skilltree.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("skilltree: ensure snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("skilltree: encode snapshot: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("skilltree: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("skilltree: replace snapshot: %w", err)
	}
	return nil
}
