// Package codec renders notes to the export formats and decodes JSON backups.
//
// JSON is the only lossless format. Text, Markdown, CSV and HTML embed
// locale-style dates and are meant for people, not for re-import.
package codec

import (
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/note"
)

// Format is an export format name.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatCSV, FormatText, FormatMarkdown, FormatHTML}

type formatInfo struct {
	stem     string
	mimeType string
}

var formatTable = map[Format]formatInfo{
	FormatJSON:     {"studynotes-backup", "application/json"},
	FormatCSV:      {"studynotes-export", "text/csv"},
	FormatText:     {"study-notes", "text/plain"},
	FormatMarkdown: {"study-notes", "text/markdown"},
	FormatHTML:     {"studynotes", "text/html"},
}

// ParseFormat resolves a format name. "pdf" is accepted as the printable HTML format.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "pdf" {
		return FormatHTML, nil
	}
	f := Format(name)
	if _, ok := formatTable[f]; !ok {
		return "", errors.NewUnsupportedFormat(s)
	}
	return f, nil
}

// Ext returns the file extension, with the leading dot.
func (f Format) Ext() string { return "." + string(f) }

// MimeType returns the content type of the format.
func (f Format) MimeType() string { return formatTable[f].mimeType }

// Filename returns the download name for an export made at t.
// The date is the UTC calendar date.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("%s-%s%s", formatTable[f].stem, t.UTC().Format("2006-01-02"), f.Ext())
}

// Options tunes the human-readable encoders.
type Options struct {
	IncludeTags bool
	WordCount   bool      // CSV only
	GeneratedAt time.Time // HTML only
}

// Encode renders notes in format f. Notes are emitted in the given order.
func Encode(f Format, notes []note.Note, opts Options) (string, error) {
	switch f {
	case FormatJSON:
		m := make(map[string]note.Note, len(notes))
		for _, n := range notes {
			m[n.ID] = n
		}
		b, err := ToJSON(m)
		return string(b), err
	case FormatCSV:
		return ToCSV(notes, opts.WordCount), nil
	case FormatText:
		return ToPlainText(notes, opts.IncludeTags), nil
	case FormatMarkdown:
		return ToMarkdown(notes, opts.IncludeTags), nil
	case FormatHTML:
		generated := opts.GeneratedAt
		if generated.IsZero() {
			generated = time.Now()
		}
		return ToPrintableHTML(notes, opts.IncludeTags, generated)
	default:
		return "", errors.NewUnsupportedFormat(string(f))
	}
}

// DateLayout mirrors the en-US toLocaleString shape.
const DateLayout = "1/2/2006, 3:04:05 PM"

// FormatDate renders a millisecond timestamp in local time.
func FormatDate(ms int64) string {
	return FormatDateIn(ms, time.Local)
}

// FormatDateIn renders a millisecond timestamp in loc.
func FormatDateIn(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Format(DateLayout)
}

func hashTags(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	return strings.Join(parts, " ")
}
