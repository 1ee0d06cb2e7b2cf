package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/note"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`      // explicit title, wins over everything
	PageTitle string `json:"page_title,omitempty"` // document title, used for new notes
	Content   string `json:"content"`
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Platform  string   `json:"platform"`
	Tags      []string `json:"tags"`
	Words     int      `json:"words"`
	Timestamp int64    `json:"timestamp"`
	Created   bool     `json:"created"`
}

// Save writes the note for input.URL, replacing any note with the same id.
// The title defaults to the stored title, then to one derived from PageTitle.
func Save(ctx context.Context, env *Env, input SaveInput) (*SaveOutput, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}

	id := note.DeriveID(url)
	existing, found, err := env.Notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !found {
		settings, err := env.Settings.Load(ctx)
		if err != nil {
			return nil, err
		}
		if max := settings.Int("maxNotes"); max > 0 {
			count, err := env.Notes.Count(ctx)
			if err != nil {
				return nil, err
			}
			if count >= max {
				return nil, errors.NewLimitReached(max)
			}
		}
	}

	title := strings.TrimSpace(input.Title)
	if title == "" && found {
		title = existing.Title
	}
	if title == "" {
		title = note.DefaultTitle(url, input.PageTitle)
	}

	n := note.Note{
		ID:        id,
		URL:       url,
		Title:     title,
		Content:   input.Content,
		Tags:      note.ExtractTags(input.Content),
		Platform:  note.DetectPlatform(url),
		Timestamp: env.now().UnixMilli(),
	}
	if err := env.Notes.Upsert(ctx, n); err != nil {
		return nil, err
	}

	env.Logger.Debug().Str("id", id).Bool("created", !found).Msg("note saved")

	return &SaveOutput{
		ID:        n.ID,
		Title:     n.Title,
		Platform:  n.Platform,
		Tags:      n.Tags,
		Words:     note.WordCount(n.Content),
		Timestamp: n.Timestamp,
		Created:   !found,
	}, nil
}
