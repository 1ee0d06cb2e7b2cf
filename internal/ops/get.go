package ops

import (
	"context"

	"github.com/hpungsan/studynotes/internal/codec"
	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/note"
)

// GetInput addresses one note.
type GetInput struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

// GetOutput is a full note plus derived display fields.
type GetOutput struct {
	note.Note
	Words int    `json:"words"`
	Date  string `json:"date"`
}

// Get returns one note by id or page URL.
func Get(ctx context.Context, env *Env, input GetInput) (*GetOutput, error) {
	id, err := NoteRef{ID: input.ID, URL: input.URL}.Resolve()
	if err != nil {
		return nil, err
	}

	n, ok, err := env.Notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewNotFound(id)
	}

	return &GetOutput{
		Note:  n,
		Words: note.WordCount(n.Content),
		Date:  codec.FormatDate(n.Timestamp),
	}, nil
}
