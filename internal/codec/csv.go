package codec

import (
	"strconv"
	"strings"

	"github.com/hpungsan/studynotes/internal/note"
)

var csvHeader = []string{"Title", "URL", "Platform", "Content", "Tags", "Date"}

// ToCSV renders a header row and one row per note. Text fields are always
// quoted; the optional word count column is a bare number.
func ToCSV(notes []note.Note, withWordCount bool) string {
	header := strings.Join(csvHeader, ",")
	if withWordCount {
		header += ",Word Count"
	}

	rows := make([]string, 0, len(notes)+1)
	rows = append(rows, header)
	for _, n := range notes {
		fields := []string{
			quoteCSV(n.Title),
			quoteCSV(n.URL),
			quoteCSV(n.Platform),
			quoteCSV(n.Content),
			quoteCSV(strings.Join(n.Tags, "; ")),
			quoteCSV(FormatDate(n.Timestamp)),
		}
		if withWordCount {
			fields = append(fields, strconv.Itoa(note.WordCount(n.Content)))
		}
		rows = append(rows, strings.Join(fields, ","))
	}
	return strings.Join(rows, "\n")
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
