package codec

import (
	"bytes"
	"html/template"
	"time"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/note"
)

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>StudyNotes Pro Export</title>
<style>
  body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; }
  .header { text-align: center; margin-bottom: 40px; }
  .note { page-break-after: always; margin-bottom: 40px; }
  .note:last-child { page-break-after: auto; }
  .note-title { font-size: 24px; font-weight: bold; margin-bottom: 10px; color: #667eea; }
  .note-meta { font-size: 12px; color: #666; margin-bottom: 20px; }
  .note-content { white-space: pre-wrap; }
  .tags { margin: 10px 0; }
  .tag { background: #e0e0e0; padding: 2px 6px; border-radius: 3px; margin-right: 5px; }
  @media print {
    body { margin: 20px; }
    .note { page-break-inside: avoid; }
  }
</style>
</head>
<body>
<div class="header">
  <h1>StudyNotes Pro Export</h1>
  <p>Generated on {{.Generated}}</p>
  <p>Total Notes: {{len .Notes}}</p>
</div>
{{- range .Notes}}
<div class="note">
  <div class="note-title">{{.Title}}</div>
  <div class="note-meta">
    <strong>Platform:</strong> {{.Platform}} |
    <strong>Date:</strong> {{.Date}} |
    <strong>Words:</strong> {{.Words}}
    <br><strong>URL:</strong> {{.URL}}
  </div>
  {{- if .Tags}}
  <div class="tags">{{range .Tags}}<span class="tag">#{{.}}</span>{{end}}</div>
  {{- end}}
  <div class="note-content">{{.Content}}</div>
</div>
{{- end}}
</body>
</html>
`))

type printNote struct {
	Title    string
	Platform string
	Date     string
	Words    int
	URL      string
	Tags     []string
	Content  string
}

// ToPrintableHTML renders a self-contained document meant for print-to-PDF.
// All note text is HTML-escaped.
func ToPrintableHTML(notes []note.Note, includeTags bool, generatedAt time.Time) (string, error) {
	view := struct {
		Generated string
		Notes     []printNote
	}{
		Generated: generatedAt.Local().Format(DateLayout),
		Notes:     make([]printNote, 0, len(notes)),
	}

	for _, n := range notes {
		p := printNote{
			Title:    orDefault(n.Title, "Untitled"),
			Platform: orDefault(n.Platform, "Unknown"),
			Date:     FormatDate(n.Timestamp),
			Words:    note.WordCount(n.Content),
			URL:      orDefault(n.URL, "No URL"),
			Content:  orDefault(n.Content, "No content"),
		}
		if includeTags {
			p.Tags = n.Tags
		}
		view.Notes = append(view.Notes, p)
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, view); err != nil {
		return "", errors.NewInternal(err)
	}
	return buf.String(), nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
