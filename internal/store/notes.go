package store

import (
	"context"
	"sync"
	"time"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/kv"
	"github.com/hpungsan/studynotes/internal/note"
)

// NoteStore holds the id -> Note mapping.
type NoteStore struct {
	kv kv.Store
	mu sync.Mutex
}

// NewNoteStore returns a NoteStore over s.
func NewNoteStore(s kv.Store) *NoteStore {
	return &NoteStore{kv: s}
}

// Init writes an empty mapping if none exists. Reports whether it wrote.
func (s *NoteStore) Init(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string]note.Note{}
	found, err := readJSON(ctx, s.kv, kv.KeyNotes, &m)
	if err != nil || found {
		return false, err
	}
	return true, writeJSON(ctx, s.kv, kv.KeyNotes, m)
}

// GetAll returns the full mapping, or an empty one if unset.
func (s *NoteStore) GetAll(ctx context.Context) (map[string]note.Note, error) {
	return s.load(ctx)
}

// Get returns the note stored under id.
func (s *NoteStore) Get(ctx context.Context, id string) (note.Note, bool, error) {
	m, err := s.load(ctx)
	if err != nil {
		return note.Note{}, false, err
	}
	n, ok := m[id]
	if !ok {
		return note.Note{}, false, nil
	}
	if n.ID == "" {
		n.ID = id
	}
	return n, true, nil
}

// Upsert stores n under n.ID, replacing any previous note.
func (s *NoteStore) Upsert(ctx context.Context, n note.Note) error {
	if n.ID == "" {
		return errors.NewInvalidRequest("note id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx)
	if err != nil {
		return err
	}
	m[n.ID] = n
	return writeJSON(ctx, s.kv, kv.KeyNotes, m)
}

// Delete removes id. The record is only rewritten if the note existed.
func (s *NoteStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := m[id]; !ok {
		return false, nil
	}
	delete(m, id)
	return true, writeJSON(ctx, s.kv, kv.KeyNotes, m)
}

// Merge overlays imported onto the stored mapping in one write.
// Imported entries win on collision. Returns len(imported).
func (s *NoteStore) Merge(ctx context.Context, imported map[string]note.Note) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	for id, n := range imported {
		m[id] = n
	}
	if err := writeJSON(ctx, s.kv, kv.KeyNotes, m); err != nil {
		return 0, err
	}
	return len(imported), nil
}

// SweepExpired drops notes whose timestamp is not newer than now-maxAge.
// Notes without a timestamp are dropped too. A negative maxAge removes
// nothing. The record is only rewritten
// when something was removed.
func (s *NoteStore) SweepExpired(ctx context.Context, maxAge time.Duration, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	if maxAge < 0 {
		return 0, nil
	}
	cutoff := now.Add(-maxAge).UnixMilli()
	removed := 0
	for id, n := range m {
		if n.Timestamp <= 0 || n.Timestamp <= cutoff {
			delete(m, id)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := writeJSON(ctx, s.kv, kv.KeyNotes, m); err != nil {
		return 0, err
	}
	return removed, nil
}

// Count returns the number of stored notes.
func (s *NoteStore) Count(ctx context.Context) (int, error) {
	m, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(m), nil
}

// Clear removes the notes record.
func (s *NoteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeKeys(ctx, s.kv, kv.KeyNotes)
}

func (s *NoteStore) load(ctx context.Context) (map[string]note.Note, error) {
	m := map[string]note.Note{}
	if _, err := readJSON(ctx, s.kv, kv.KeyNotes, &m); err != nil {
		return nil, err
	}
	if m == nil {
		// stored JSON null
		m = map[string]note.Note{}
	}
	return m, nil
}
