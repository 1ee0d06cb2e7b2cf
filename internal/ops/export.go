package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/studynotes/internal/codec"
	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/note"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Format      string `json:"format"`
	IncludeTags bool   `json:"include_tags,omitempty"`

	// URL limits the export to the note of one page.
	URL string `json:"url,omitempty"`

	// Path writes the export to a file as well. "-" or empty means no file.
	Path string `json:"path,omitempty"`

	// ToExportsDir writes the file to the exports directory under its default name.
	ToExportsDir bool `json:"to_exports_dir,omitempty"`
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Count    int    `json:"count"`
	Path     string `json:"path,omitempty"`
}

// Export renders notes in the requested format. An unknown format fails
// before any note is read or any file is touched.
func Export(ctx context.Context, env *Env, input ExportInput) (*ExportOutput, error) {
	format, err := codec.ParseFormat(input.Format)
	if err != nil {
		return nil, err
	}
	if input.Path != "" && input.Path != "-" && input.ToExportsDir {
		return nil, errors.NewInvalidRequest("specify either path or to_exports_dir, not both")
	}

	all, err := env.Notes.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var notes []note.Note
	if url := strings.TrimSpace(input.URL); url != "" {
		id := note.DeriveID(url)
		if n, ok := all[id]; ok {
			n.ID = id
			notes = []note.Note{n}
		}
	} else {
		notes = note.Sorted(all)
	}

	now := env.now()
	content, err := codec.Encode(format, notes, codec.Options{
		IncludeTags: input.IncludeTags,
		WordCount:   true,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, err
	}

	out := &ExportOutput{
		Content:  content,
		Filename: format.Filename(now),
		MimeType: format.MimeType(),
		Count:    len(notes),
	}

	path := input.Path
	if input.ToExportsDir {
		path = filepath.Join(env.ExportsDir(), out.Filename)
	}
	if path != "" && path != "-" {
		if err := ValidatePath(path, PathCheckWrite, format.Ext(), env.Config, env.ExportsDir()); err != nil {
			return nil, err
		}
		if err := writeFileAtomic(ctx, path, []byte(content)); err != nil {
			return nil, err
		}
		out.Path = path
		env.Logger.Info().Str("path", path).Str("format", string(format)).Int("count", out.Count).Msg("export written")
	}

	return out, nil
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so an existing file survives a failed export.
func writeFileAtomic(ctx context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	tempPath := path + "." + ulid.Make().String() + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if err := ctx.Err(); err != nil {
		return errors.NewCancelled("export")
	}
	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("export path is a symlink")
	}

	// Windows refuses to rename over an existing file; keep the old one rather
	// than delete-then-rename.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}
