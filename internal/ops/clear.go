package ops

import (
	"context"

	"github.com/hpungsan/studynotes/internal/store"
)

// ClearOutput reports how many notes were removed.
type ClearOutput struct {
	NotesRemoved int `json:"notes_removed"`
}

// ClearAll removes every note and the stored settings. The tag palette stays.
func ClearAll(ctx context.Context, env *Env) (*ClearOutput, error) {
	count, err := env.Notes.Count(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.ClearAll(ctx, env.KV); err != nil {
		return nil, err
	}
	env.Logger.Warn().Int("notes_removed", count).Msg("all notes and settings cleared")
	return &ClearOutput{NotesRemoved: count}, nil
}
