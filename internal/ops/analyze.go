package ops

import (
	"strings"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/note"
)

// MaxPageText is how much page text Analyze looks at, in runes.
const MaxPageText = 5000

// AnalyzeInput carries the visible text of a page.
type AnalyzeInput struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// AnalyzeOutput holds the page-level study aids.
type AnalyzeOutput struct {
	Keywords   []note.Keyword `json:"keywords"`
	Summary    string         `json:"summary"`
	Highlights []note.Keyword `json:"highlights"`
	Platform   string         `json:"platform,omitempty"`
	NoteID     string         `json:"note_id,omitempty"`
	Truncated  bool           `json:"truncated"`
}

// Analyze extracts keywords, a short summary and highlight terms from page text.
func Analyze(input AnalyzeInput) (*AnalyzeOutput, error) {
	text := input.Text
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}

	truncated := false
	if r := []rune(text); len(r) > MaxPageText {
		text = string(r[:MaxPageText])
		truncated = true
	}

	out := &AnalyzeOutput{
		Keywords:   note.Keywords(text),
		Summary:    note.Summarize(text),
		Highlights: note.Highlights(text),
		Truncated:  truncated,
	}
	if out.Keywords == nil {
		out.Keywords = []note.Keyword{}
	}
	if out.Highlights == nil {
		out.Highlights = []note.Keyword{}
	}
	if input.URL != "" {
		out.Platform = note.DetectPlatform(input.URL)
		out.NoteID = note.DeriveID(input.URL)
	}
	return out, nil
}
