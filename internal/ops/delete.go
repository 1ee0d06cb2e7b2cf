package ops

import (
	"context"

	"github.com/hpungsan/studynotes/internal/errors"
)

// DeleteInput addresses the note to delete.
type DeleteInput struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes a note. A missing note is NOT_FOUND.
func Delete(ctx context.Context, env *Env, input DeleteInput) (*DeleteOutput, error) {
	id, err := NoteRef{ID: input.ID, URL: input.URL}.Resolve()
	if err != nil {
		return nil, err
	}

	deleted, err := env.Notes.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, errors.NewNotFound(id)
	}

	return &DeleteOutput{Deleted: true, ID: id}, nil
}
