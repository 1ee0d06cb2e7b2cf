package codec

import (
	"strings"

	"github.com/hpungsan/studynotes/internal/note"
)

var separator = strings.Repeat("=", 80)

// ToPlainText renders one fixed-format block per note.
func ToPlainText(notes []note.Note, includeTags bool) string {
	var b strings.Builder
	for _, n := range notes {
		b.WriteString("Title: " + n.Title + "\n")
		b.WriteString("URL: " + n.URL + "\n")
		b.WriteString("Date: " + FormatDate(n.Timestamp) + "\n")
		b.WriteString("Platform: " + n.Platform + "\n")
		if includeTags && len(n.Tags) > 0 {
			b.WriteString("Tags: " + hashTags(n.Tags) + "\n")
		}
		b.WriteString("\n" + n.Content + "\n")
		b.WriteString("\n" + separator + "\n\n")
	}
	return b.String()
}
