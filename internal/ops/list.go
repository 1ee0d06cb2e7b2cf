package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/studynotes/internal/codec"
	"github.com/hpungsan/studynotes/internal/note"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Platform string `json:"platform,omitempty"` // exact platform, case-insensitive
	Tag      string `json:"tag,omitempty"`      // content tag without '#'
	Limit    int    `json:"limit,omitempty"`    // default: 20, max: 100
	Offset   int    `json:"offset,omitempty"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []Summary  `json:"items"`
	Pagination Pagination `json:"pagination"`
	Sort       string     `json:"sort"`
}

// List returns note summaries, newest first.
func List(ctx context.Context, env *Env, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	all, err := env.Notes.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]note.Note, 0, len(all))
	for _, n := range note.Sorted(all) {
		if input.Platform != "" && !strings.EqualFold(n.Platform, input.Platform) {
			continue
		}
		if input.Tag != "" && !hasTag(n.Tags, strings.TrimPrefix(input.Tag, "#")) {
			continue
		}
		filtered = append(filtered, n)
	}

	total := len(filtered)
	start := min(offset, total)
	end := min(start+limit, total)

	items := make([]Summary, 0, end-start)
	for _, n := range filtered[start:end] {
		items = append(items, summarize(n))
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: end < total,
			Total:   total,
		},
		Sort: "timestamp_desc",
	}, nil
}

func summarize(n note.Note) Summary {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return Summary{
		ID:        n.ID,
		Title:     n.Title,
		URL:       n.URL,
		Platform:  n.Platform,
		Tags:      tags,
		Words:     note.WordCount(n.Content),
		Timestamp: n.Timestamp,
		Date:      codec.FormatDate(n.Timestamp),
	}
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
