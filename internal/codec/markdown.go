package codec

import (
	"strings"

	"github.com/hpungsan/studynotes/internal/note"
)

// ToMarkdown renders one section per note, separated by horizontal rules.
func ToMarkdown(notes []note.Note, includeTags bool) string {
	var b strings.Builder
	for _, n := range notes {
		b.WriteString("# " + n.Title + "\n\n")
		b.WriteString("**URL:** " + n.URL + "\n")
		b.WriteString("**Date:** " + FormatDate(n.Timestamp) + "\n")
		b.WriteString("**Platform:** " + n.Platform + "\n\n")
		if includeTags && len(n.Tags) > 0 {
			b.WriteString("**Tags:** " + hashTags(n.Tags) + "\n\n")
		}
		b.WriteString("## Notes\n\n" + n.Content + "\n\n")
		b.WriteString("---\n\n")
	}
	return b.String()
}
