package ops

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/studynotes/internal/config"
	"github.com/hpungsan/studynotes/internal/db"
	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/kv"
	"github.com/hpungsan/studynotes/internal/note"
)

// URLs whose first fifteen bytes differ, so their ids do not collide.
const (
	udemyURL  = "https://www.udemy.com/course/go-basics/learn?start=1"
	mediumURL = "https://medium.com/@gopher/channels-explained"
	goDevURL  = "https://go.dev/doc/effective_go"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestEnv(t *testing.T) (*Env, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	env := NewEnv(kv.NewMemory(), config.DefaultConfig(), t.TempDir(), zerolog.Nop())
	env.Now = c.now
	_, err := Install(context.Background(), env)
	require.NoError(t, err)
	return env, c
}

func newSQLiteEnv(t *testing.T) *Env {
	t.Helper()
	baseDir := t.TempDir()
	database, err := db.Init(baseDir)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewEnv(db.NewRecords(database), config.DefaultConfig(), baseDir, zerolog.Nop())
}

func TestWorkflow_SaveListExportImportSweep(t *testing.T) {
	ctx := context.Background()
	env := newSQLiteEnv(t)
	c := &clock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	env.Now = c.now

	inst, err := Install(ctx, env)
	require.NoError(t, err)
	require.True(t, inst.Notes)
	require.True(t, inst.Settings)
	require.True(t, inst.Tags)

	// Save three notes on different days.
	saved, err := Save(ctx, env, SaveInput{URL: udemyURL, PageTitle: "Go Basics | Udemy", Content: "Goroutines are cheap #go #concurrency"})
	require.NoError(t, err)
	require.True(t, saved.Created)
	require.Equal(t, note.DeriveID(udemyURL), saved.ID)
	require.Equal(t, "Go Basics", saved.Title)
	require.Equal(t, note.PlatformUdemy, saved.Platform)
	require.Equal(t, []string{"go", "concurrency"}, saved.Tags)
	require.Equal(t, 5, saved.Words)

	c.t = c.t.Add(24 * time.Hour)
	_, err = Save(ctx, env, SaveInput{URL: mediumURL, Title: "Channels", Content: "unbuffered channels block #go"})
	require.NoError(t, err)

	c.t = c.t.Add(24 * time.Hour)
	_, err = Save(ctx, env, SaveInput{URL: goDevURL, Content: "read it twice"})
	require.NoError(t, err)

	// Get by URL and by id
	got, err := Get(ctx, env, GetInput{URL: mediumURL})
	require.NoError(t, err)
	require.Equal(t, "Channels", got.Title)
	require.Equal(t, note.DeriveID(mediumURL), got.ID)
	require.Equal(t, 4, got.Words)

	_, err = Get(ctx, env, GetInput{ID: "nope"})
	require.True(t, errors.Is(err, errors.ErrNotFound))

	// List: newest first
	list, err := List(ctx, env, ListInput{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	require.Equal(t, goDevURL, list.Items[0].URL)
	require.Equal(t, udemyURL, list.Items[2].URL)
	require.Equal(t, 3, list.Pagination.Total)
	require.False(t, list.Pagination.HasMore)

	byTag, err := List(ctx, env, ListInput{Tag: "#go"})
	require.NoError(t, err)
	require.Len(t, byTag.Items, 2)

	page, err := List(ctx, env, ListInput{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, mediumURL, page.Items[0].URL)
	require.True(t, page.Pagination.HasMore)

	// Export a JSON backup to the exports dir.
	exp, err := Export(ctx, env, ExportInput{Format: "json", ToExportsDir: true})
	require.NoError(t, err)
	require.Equal(t, 3, exp.Count)
	require.Equal(t, "studynotes-backup-2024-03-17.json", exp.Filename)
	require.Equal(t, filepath.Join(env.ExportsDir(), exp.Filename), exp.Path)
	onDisk, err := os.ReadFile(exp.Path)
	require.NoError(t, err)
	require.Equal(t, exp.Content, string(onDisk))

	// Wipe, then restore from the file.
	cleared, err := ClearAll(ctx, env)
	require.NoError(t, err)
	require.Equal(t, 3, cleared.NotesRemoved)

	stats, err := Stats(ctx, env)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalNotes)

	imp, err := Import(ctx, env, ImportInput{Path: exp.Path})
	require.NoError(t, err)
	require.Equal(t, 3, imp.Imported)
	require.NotEmpty(t, imp.BatchID)

	restored, err := Get(ctx, env, GetInput{URL: udemyURL})
	require.NoError(t, err)
	require.Equal(t, "Go Basics", restored.Title)
	require.Equal(t, []string{"go", "concurrency"}, restored.Tags)

	// Ninety and a half days after the first save, only the first note is past the window.
	c.t = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC).Add(90*24*time.Hour + 12*time.Hour)
	sw, err := Sweep(ctx, env, SweepInput{})
	require.NoError(t, err)
	require.Equal(t, 90, sw.MaxAgeDays)
	require.Equal(t, 1, sw.Removed)

	_, err = Get(ctx, env, GetInput{URL: udemyURL})
	require.True(t, errors.Is(err, errors.ErrNotFound))

	del, err := Delete(ctx, env, DeleteInput{URL: mediumURL})
	require.NoError(t, err)
	require.True(t, del.Deleted)

	_, err = Delete(ctx, env, DeleteInput{URL: mediumURL})
	require.True(t, errors.Is(err, errors.ErrNotFound))

	stats, err = Stats(ctx, env)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalNotes)
	require.Equal(t, 3, stats.TotalWords)
	require.Equal(t, map[string]int{note.PlatformWeb: 1}, stats.ByPlatform)
}

func TestInstall_KeepsExistingRecords(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := Save(ctx, env, SaveInput{URL: goDevURL, Content: "keep me"})
	require.NoError(t, err)

	out, err := Install(ctx, env)
	require.NoError(t, err)
	require.False(t, out.Notes)
	require.False(t, out.Settings)
	require.False(t, out.Tags)

	count, err := env.Notes.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSave_PreservesTitleAndRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	env, c := newTestEnv(t)

	first, err := Save(ctx, env, SaveInput{URL: mediumURL, PageTitle: "Channels Explained", Content: "v1"})
	require.NoError(t, err)
	require.Equal(t, "Channels Explained", first.Title)

	c.t = c.t.Add(time.Minute)
	second, err := Save(ctx, env, SaveInput{URL: mediumURL, PageTitle: "Something Else", Content: "v2 #edit"})
	require.NoError(t, err)
	require.False(t, second.Created)
	require.Equal(t, "Channels Explained", second.Title)
	require.Equal(t, []string{"edit"}, second.Tags)
	require.Greater(t, second.Timestamp, first.Timestamp)

	count, err := env.Notes.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSave_DefaultTitle(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	out, err := Save(ctx, env, SaveInput{URL: goDevURL, Content: "x"})
	require.NoError(t, err)
	require.Equal(t, note.UntitledNote, out.Title)
}

func TestSave_RequiresURL(t *testing.T) {
	env, _ := newTestEnv(t)

	_, err := Save(context.Background(), env, SaveInput{URL: "   ", Content: "x"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestSave_LimitReached(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := SetSetting(ctx, env, SetSettingInput{Key: "maxNotes", Value: "1"})
	require.NoError(t, err)

	_, err = Save(ctx, env, SaveInput{URL: goDevURL, Content: "first"})
	require.NoError(t, err)

	_, err = Save(ctx, env, SaveInput{URL: mediumURL, Content: "second"})
	require.True(t, errors.Is(err, errors.ErrLimitReached))

	// Updating an existing note is still allowed at the limit.
	_, err = Save(ctx, env, SaveInput{URL: goDevURL, Content: "first, edited"})
	require.NoError(t, err)
}

func TestSave_YouTubeVideosShareID(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	a, err := Save(ctx, env, SaveInput{URL: "https://www.youtube.com/watch?v=abc", PageTitle: "A - YouTube", Content: "a"})
	require.NoError(t, err)
	b, err := Save(ctx, env, SaveInput{URL: "https://www.youtube.com/watch?v=xyz", PageTitle: "B - YouTube", Content: "b"})
	require.NoError(t, err)

	require.Equal(t, "eW91dHViZS5jb20vd2F0", a.ID)
	require.Equal(t, a.ID, b.ID)
	require.False(t, b.Created)
	require.Equal(t, "A", b.Title)
}

func TestGetAndDelete_RefValidation(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := Get(ctx, env, GetInput{})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = Delete(ctx, env, DeleteInput{ID: "a", URL: goDevURL})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestList_PlatformFilterAndLimitClamp(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	for _, u := range []string{udemyURL, mediumURL, goDevURL} {
		_, err := Save(ctx, env, SaveInput{URL: u, Content: "x"})
		require.NoError(t, err)
	}

	out, err := List(ctx, env, ListInput{Platform: "medium", Limit: 1000})
	require.NoError(t, err)
	require.Equal(t, MaxListLimit, out.Pagination.Limit)
	require.Len(t, out.Items, 1)
	require.Equal(t, note.PlatformMedium, out.Items[0].Platform)
	require.NotNil(t, out.Items[0].Tags)
}

func TestExport_AllFormats(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := Save(ctx, env, SaveInput{URL: mediumURL, Title: "Channels", Content: "block <b>here</b> #go"})
	require.NoError(t, err)

	cases := []struct {
		format   string
		mime     string
		filename string
		contains string
	}{
		{"json", "application/json", "studynotes-backup-2024-03-15.json", `"title": "Channels"`},
		{"csv", "text/csv", "studynotes-export-2024-03-15.csv", `"Channels"`},
		{"txt", "text/plain", "study-notes-2024-03-15.txt", "Channels"},
		{"md", "text/markdown", "study-notes-2024-03-15.md", "# Channels"},
		{"html", "text/html", "studynotes-2024-03-15.html", "&lt;b&gt;here&lt;/b&gt;"},
		{"pdf", "text/html", "studynotes-2024-03-15.html", "Channels"},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			out, err := Export(ctx, env, ExportInput{Format: tc.format, IncludeTags: true})
			require.NoError(t, err)
			require.Equal(t, tc.mime, out.MimeType)
			require.Equal(t, tc.filename, out.Filename)
			require.Contains(t, out.Content, tc.contains)
			require.Equal(t, 1, out.Count)
			require.Empty(t, out.Path)
		})
	}
}

func TestExport_UnknownFormatWritesNothing(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := Export(ctx, env, ExportInput{Format: "docx", ToExportsDir: true})
	require.True(t, errors.Is(err, errors.ErrUnsupportedFormat))

	_, statErr := os.Stat(env.ExportsDir())
	require.True(t, os.IsNotExist(statErr))
}

func TestExport_SingleURL(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	for _, u := range []string{udemyURL, mediumURL} {
		_, err := Save(ctx, env, SaveInput{URL: u, Content: "x"})
		require.NoError(t, err)
	}

	out, err := Export(ctx, env, ExportInput{Format: "md", URL: mediumURL})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	require.Contains(t, out.Content, mediumURL)
	require.NotContains(t, out.Content, udemyURL)
}

func TestExport_PathOutsideAllowedDirs(t *testing.T) {
	env, _ := newTestEnv(t)

	_, err := Export(context.Background(), env, ExportInput{Format: "json", Path: filepath.Join(t.TempDir(), "out.json")})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestExport_OverwritesExistingFile(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)
	env.Config.AllowedPaths = []string{t.TempDir()}
	path := filepath.Join(env.Config.AllowedPaths[0], "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	_, err := Save(ctx, env, SaveInput{URL: goDevURL, Title: "Effective Go", Content: "x"})
	require.NoError(t, err)

	out, err := Export(ctx, env, ExportInput{Format: "txt", Path: path})
	require.NoError(t, err)
	require.Equal(t, path, out.Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Effective Go")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file left behind")
}

func TestImport_MergesAndKeepsOthers(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := Save(ctx, env, SaveInput{URL: goDevURL, Title: "Local", Content: "local"})
	require.NoError(t, err)

	payload := map[string]note.Note{
		note.DeriveID(goDevURL):  {URL: goDevURL, Title: "Imported", Content: "remote", Platform: note.PlatformWeb, Timestamp: 1},
		note.DeriveID(mediumURL): {URL: mediumURL, Title: "New", Content: "new", Platform: note.PlatformMedium, Timestamp: 2},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	out, err := Import(ctx, env, ImportInput{RawJSON: string(raw)})
	require.NoError(t, err)
	require.Equal(t, 2, out.Imported)

	got, err := Get(ctx, env, GetInput{URL: goDevURL})
	require.NoError(t, err)
	require.Equal(t, "Imported", got.Title)

	count, err := env.Notes.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestImport_RejectsNonObjectAndLeavesStorage(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := Save(ctx, env, SaveInput{URL: goDevURL, Content: "keep"})
	require.NoError(t, err)
	before, err := env.Notes.GetAll(ctx)
	require.NoError(t, err)

	for _, raw := range []string{`[{"url":"x"}]`, `null`, `42`, `{not json`, `{"a": 1}`} {
		_, err := Import(ctx, env, ImportInput{RawJSON: raw})
		require.True(t, errors.Is(err, errors.ErrFormat), "payload %q: %v", raw, err)
	}

	after, err := env.Notes.GetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestImport_InputValidation(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := Import(ctx, env, ImportInput{})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = Import(ctx, env, ImportInput{RawJSON: "{}", Path: "x.json"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = Import(ctx, env, ImportInput{Path: filepath.Join(env.ExportsDir(), "missing.json")})
	require.True(t, errors.Is(err, errors.ErrFileNotFound))

	_, err = Import(ctx, env, ImportInput{RawJSON: "{" + strings.Repeat(" ", MaxImportBytes) + "}"})
	require.True(t, errors.Is(err, errors.ErrFileTooLarge))
}

func TestSweep_Windows(t *testing.T) {
	ctx := context.Background()
	env, c := newTestEnv(t)
	start := c.t

	_, err := Save(ctx, env, SaveInput{URL: goDevURL, Content: "old"})
	require.NoError(t, err)

	c.t = start.Add(10 * 24 * time.Hour)
	_, err = Save(ctx, env, SaveInput{URL: mediumURL, Content: "new"})
	require.NoError(t, err)

	// cleanupDays setting drives the default window.
	_, err = SetSetting(ctx, env, SetSettingInput{Key: "cleanupDays", Value: "5"})
	require.NoError(t, err)

	out, err := Sweep(ctx, env, SweepInput{})
	require.NoError(t, err)
	require.Equal(t, 5, out.MaxAgeDays)
	require.Equal(t, 1, out.Removed)
	require.Equal(t, c.t.Add(-5*24*time.Hour).UnixMilli(), out.Cutoff)

	// An explicit window wins; nothing is that old.
	out, err = Sweep(ctx, env, SweepInput{MaxAgeDays: 30})
	require.NoError(t, err)
	require.Equal(t, 0, out.Removed)

	_, err = Sweep(ctx, env, SweepInput{MaxAgeDays: -1})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestSweep_HugeWindowKeepsNotes(t *testing.T) {
	ctx := context.Background()
	env, c := newTestEnv(t)

	_, err := Save(ctx, env, SaveInput{URL: goDevURL, Content: "fresh"})
	require.NoError(t, err)
	c.t = c.t.Add(time.Hour)
	_, err = Save(ctx, env, SaveInput{URL: mediumURL, Content: "fresher"})
	require.NoError(t, err)

	out, err := Sweep(ctx, env, SweepInput{MaxAgeDays: 200000})
	require.NoError(t, err)
	require.Equal(t, 0, out.Removed)
	require.Equal(t, MaxRetentionDays, out.MaxAgeDays)
	require.Less(t, out.Cutoff, c.t.UnixMilli())

	// Same window through the setting used by the background sweeper.
	_, err = SetSetting(ctx, env, SetSettingInput{Key: "cleanupDays", Value: "200000"})
	require.NoError(t, err)
	out, err = Sweep(ctx, env, SweepInput{})
	require.NoError(t, err)
	require.Equal(t, 0, out.Removed)

	_, err = SetSetting(ctx, env, SetSettingInput{Key: "cleanupDays", Value: "1e300"})
	require.NoError(t, err)
	out, err = Sweep(ctx, env, SweepInput{})
	require.NoError(t, err)
	require.Equal(t, 0, out.Removed)

	count, err := env.Notes.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestStats_CountsDaysAndPlatforms(t *testing.T) {
	ctx := context.Background()
	env, c := newTestEnv(t)

	_, err := Save(ctx, env, SaveInput{URL: udemyURL, Content: "one two"})
	require.NoError(t, err)
	c.t = c.t.Add(time.Minute)
	_, err = Save(ctx, env, SaveInput{URL: mediumURL, Content: "three"})
	require.NoError(t, err)
	c.t = c.t.Add(72 * time.Hour)
	_, err = Save(ctx, env, SaveInput{URL: goDevURL, Content: ""})
	require.NoError(t, err)

	out, err := Stats(ctx, env)
	require.NoError(t, err)
	require.Equal(t, 3, out.TotalNotes)
	require.Equal(t, 3, out.TotalWords)
	require.Equal(t, 2, out.StudySessions)
	require.Equal(t, 3, out.PlatformsUsed)
	require.Equal(t, c.t.UnixMilli(), out.Newest)
}

func TestAnalyze(t *testing.T) {
	text := "Goroutines are lightweight threads managed by the runtime. " +
		"Channels connect goroutines so they can communicate safely. " +
		"Goroutines and channels together form the core of Go concurrency."

	out, err := Analyze(AnalyzeInput{Text: text, URL: udemyURL})
	require.NoError(t, err)
	require.NotEmpty(t, out.Keywords)
	require.Equal(t, "goroutines", out.Keywords[0].Word)
	require.Equal(t, 3, out.Keywords[0].Count)
	require.NotEmpty(t, out.Summary)
	require.Equal(t, note.PlatformUdemy, out.Platform)
	require.Equal(t, note.DeriveID(udemyURL), out.NoteID)
	require.False(t, out.Truncated)

	long, err := Analyze(AnalyzeInput{Text: strings.Repeat("word ", MaxPageText)})
	require.NoError(t, err)
	require.True(t, long.Truncated)

	_, err = Analyze(AnalyzeInput{Text: "  "})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestSettingsOps(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	got, err := GetSettings(ctx, env)
	require.NoError(t, err)
	require.True(t, got.Settings.Bool("autoSave"))

	set, err := SetSetting(ctx, env, SetSettingInput{Key: "blockedSites", Value: "a.com, b.com"})
	require.NoError(t, err)
	require.Equal(t, []string{"a.com", "b.com"}, set.Settings.Strings("blockedSites"))

	_, err = SetSetting(ctx, env, SetSettingInput{Key: "noSuchKey", Value: "1"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = SetSetting(ctx, env, SetSettingInput{Key: "fontSize", Value: "big"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	reset, err := ResetSettings(ctx, env)
	require.NoError(t, err)
	require.Len(t, reset.Settings.Strings("blockedSites"), 4)
}

func TestTagOps(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	before, err := ListTags(ctx, env)
	require.NoError(t, err)

	added, err := AddTag(ctx, env, TagInput{Name: " exam "})
	require.NoError(t, err)
	require.True(t, added.Changed)
	require.Len(t, added.Tags, len(before.Tags)+1)
	require.Equal(t, "exam", added.Tags[len(added.Tags)-1])

	again, err := AddTag(ctx, env, TagInput{Name: "exam"})
	require.NoError(t, err)
	require.False(t, again.Changed)

	removed, err := RemoveTag(ctx, env, TagInput{Name: "exam"})
	require.NoError(t, err)
	require.True(t, removed.Changed)
	require.Equal(t, before.Tags, removed.Tags)

	_, err = AddTag(ctx, env, TagInput{Name: ""})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestClearAll_KeepsTags(t *testing.T) {
	ctx := context.Background()
	env, _ := newTestEnv(t)

	_, err := AddTag(ctx, env, TagInput{Name: "exam"})
	require.NoError(t, err)
	_, err = SetSetting(ctx, env, SetSettingInput{Key: "darkMode", Value: "true"})
	require.NoError(t, err)
	_, err = Save(ctx, env, SaveInput{URL: goDevURL, Content: "x"})
	require.NoError(t, err)

	out, err := ClearAll(ctx, env)
	require.NoError(t, err)
	require.Equal(t, 1, out.NotesRemoved)

	settings, err := GetSettings(ctx, env)
	require.NoError(t, err)
	require.False(t, settings.Settings.Bool("darkMode"))

	tags, err := ListTags(ctx, env)
	require.NoError(t, err)
	require.Contains(t, tags.Tags, "exam")
}

func TestCancelledContext(t *testing.T) {
	env, _ := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Save(ctx, env, SaveInput{URL: goDevURL, Content: "x"})
	require.True(t, errors.Is(err, errors.ErrCancelled))
}
