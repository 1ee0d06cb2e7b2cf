// Package store implements the note, settings and tag records on top of a
// kv.Store.
//
// Every mutation reads the whole record, changes it in memory and writes the
// whole record back. Each store serializes its own read-modify-write cycles,
// so writers sharing one store instance never lose updates. Writers in other
// processes are not coordinated: the last whole-record write wins.
package store

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/kv"
)

// readJSON loads key into v. Returns false if the record is absent.
func readJSON(ctx context.Context, s kv.Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, storageErr("read", err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.NewStorage("decode "+key, err)
	}
	return true, nil
}

func writeJSON(ctx context.Context, s kv.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return storageErr("write", err)
	}
	return nil
}

func removeKeys(ctx context.Context, s kv.Store, keys ...string) error {
	if err := s.Remove(ctx, keys...); err != nil {
		return storageErr("remove", err)
	}
	return nil
}

// storageErr maps a kv failure to a NoteError. Context cancellation is
// reported as CANCELLED rather than a storage fault.
func storageErr(op string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		e := errors.NewCancelled(op)
		e.Cause = err
		return e
	}
	return errors.NewStorage(op, err)
}

// ClearAll removes the notes and settings records. The tag palette survives.
func ClearAll(ctx context.Context, s kv.Store) error {
	return removeKeys(ctx, s, kv.KeyNotes, kv.KeySettings)
}
