// Package note defines the Note record and the pure functions that derive its
// identity, platform, title and tags from a page.
package note

import (
	"sort"
	"strings"
)

// Platform values recorded on notes.
const (
	PlatformYouTube = "YouTube"
	PlatformUdemy   = "Udemy"
	PlatformMedium  = "Medium"
	PlatformWeb     = "Web"
)

// Platforms lists every platform value in detection order.
var Platforms = []string{PlatformYouTube, PlatformUdemy, PlatformMedium, PlatformWeb}

// Note is one page's note. JSON field names match exported backups.
type Note struct {
	ID        string   `json:"id,omitempty"`
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Platform  string   `json:"platform"`
	Timestamp int64    `json:"timestamp"`
}

// UntitledNote is the fallback title when nothing better is known.
const UntitledNote = "Untitled Note"

// DetectPlatform classifies a URL by substring match.
func DetectPlatform(url string) string {
	switch {
	case strings.Contains(url, "youtube.com"):
		return PlatformYouTube
	case strings.Contains(url, "udemy.com"):
		return PlatformUdemy
	case strings.Contains(url, "medium.com"):
		return PlatformMedium
	default:
		return PlatformWeb
	}
}

// DefaultTitle picks a note title from the page's document title.
// Site suffixes are stripped for YouTube watch pages and Udemy.
func DefaultTitle(url, pageTitle string) string {
	title := pageTitle
	switch {
	case strings.Contains(url, "youtube.com/watch"):
		title = strings.Replace(title, " - YouTube", "", 1)
	case strings.Contains(url, "udemy.com"):
		title = strings.Replace(title, " | Udemy", "", 1)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return UntitledNote
	}
	return title
}

// SortByTimestamp orders notes newest first. Ties break on id ascending.
func SortByTimestamp(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Timestamp != notes[j].Timestamp {
			return notes[i].Timestamp > notes[j].Timestamp
		}
		return notes[i].ID < notes[j].ID
	})
}

// Sorted returns the mapping's notes newest first, with ids filled from the keys.
func Sorted(m map[string]Note) []Note {
	out := make([]Note, 0, len(m))
	for id, n := range m {
		n.ID = id
		out = append(out, n)
	}
	SortByTimestamp(out)
	return out
}
