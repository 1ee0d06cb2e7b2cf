// Package ops implements the request/response operations shared by the CLI,
// the MCP server and the web viewer.
//
// Every operation takes an explicit *Env rather than reaching for globals; the
// embedding application owns its lifecycle.
package ops

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hpungsan/studynotes/internal/config"
	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/kv"
	"github.com/hpungsan/studynotes/internal/note"
	"github.com/hpungsan/studynotes/internal/store"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// MaxImportBytes caps the size of an import payload.
const MaxImportBytes = 10 * 1024 * 1024

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Env is the context object every operation runs against.
type Env struct {
	KV       kv.Store
	Notes    *store.NoteStore
	Settings *store.SettingsStore
	Tags     *store.TagRegistry
	Config   *config.Config
	Logger   zerolog.Logger

	// BaseDir holds the database and the default exports directory.
	BaseDir string

	// Now is the clock; tests replace it.
	Now func() time.Time
}

// NewEnv wires the stores over s.
func NewEnv(s kv.Store, cfg *config.Config, baseDir string, logger zerolog.Logger) *Env {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Env{
		KV:       s,
		Notes:    store.NewNoteStore(s),
		Settings: store.NewSettingsStore(s),
		Tags:     store.NewTagRegistry(s),
		Config:   cfg,
		Logger:   logger,
		BaseDir:  baseDir,
		Now:      time.Now,
	}
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// ExportsDir is the directory export and import files default to.
func (e *Env) ExportsDir() string {
	return filepath.Join(e.BaseDir, "exports")
}

// DefaultBaseDir returns ~/.studynotes.
func DefaultBaseDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return filepath.Join(homeDir, config.DirName), nil
}

// NoteRef addresses a note by id or by page URL.
type NoteRef struct {
	ID  string
	URL string
}

// Resolve returns the note id the reference points at.
func (r NoteRef) Resolve() (string, error) {
	id := strings.TrimSpace(r.ID)
	url := strings.TrimSpace(r.URL)
	switch {
	case id != "" && url != "":
		return "", errors.NewInvalidRequest("specify either id or url, not both")
	case id != "":
		return id, nil
	case url != "":
		return note.DeriveID(url), nil
	default:
		return "", errors.NewInvalidRequest("must specify either id or url")
	}
}

// Summary is the list view of a note.
type Summary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Platform  string   `json:"platform"`
	Tags      []string `json:"tags"`
	Words     int      `json:"words"`
	Timestamp int64    `json:"timestamp"`
	Date      string   `json:"date"`
}
