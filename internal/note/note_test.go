package note

import (
	"reflect"
	"testing"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=1", PlatformYouTube},
		{"https://www.udemy.com/course/x", PlatformUdemy},
		{"https://medium.com/@a/b", PlatformMedium},
		{"https://example.com", PlatformWeb},
		{"", PlatformWeb},
		// youtube takes priority over later matches
		{"https://medium.com/?ref=youtube.com", PlatformYouTube},
	}
	for _, tt := range tests {
		if got := DetectPlatform(tt.url); got != tt.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestDefaultTitle(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		pageTitle string
		want      string
	}{
		{"youtube suffix", "https://www.youtube.com/watch?v=1", "Lecture 1 - YouTube", "Lecture 1"},
		{"udemy suffix", "https://www.udemy.com/course/go", "Go Basics | Udemy", "Go Basics"},
		{"web keeps title", "https://example.com", "Some Article - YouTube", "Some Article - YouTube"},
		{"empty falls back", "https://example.com", "   ", UntitledNote},
		{"only suffix", "https://www.youtube.com/watch?v=1", " - YouTube", UntitledNote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultTitle(tt.url, tt.pageTitle); got != tt.want {
				t.Errorf("DefaultTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSorted(t *testing.T) {
	m := map[string]Note{
		"b": {Timestamp: 10},
		"a": {Timestamp: 10},
		"c": {Timestamp: 30},
	}
	got := Sorted(m)

	var ids []string
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Sorted ids = %v, want %v", ids, want)
	}
}
