package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/meikuraledutech/skilltree"
)

// Store keeps the last saved snapshot as a JSON document in memory.
type Store struct {
	mu  sync.Mutex
	doc []byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Load decodes the stored document. Returns nil, nil if nothing was saved.
func (s *Store) Load(ctx context.Context) (*skilltree.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, nil
	}
	var snap skilltree.Snapshot
	if err := json.Unmarshal(s.doc, &snap); err != nil {
		return nil, fmt.Errorf("skilltree: decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save encodes and stores s.
func (s *Store) Save(ctx context.Context, snap *skilltree.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("skilltree: encode snapshot: %w", err)
	}

	s.mu.Lock()
	s.doc = data
	s.mu.Unlock()
	return nil
}

// SetRaw stores a document verbatim, bypassing encoding.
func (s *Store) SetRaw(doc []byte) {
	s.mu.Lock()
	s.doc = append([]byte(nil), doc...)
	s.mu.Unlock()
}

// Raw returns a copy of the stored document.
func (s *Store) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.doc...)
}
