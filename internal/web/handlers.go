package web

import (
	stderrors "errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/studynotes/internal/codec"
	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/note"
	"github.com/hpungsan/studynotes/internal/ops"
	"github.com/hpungsan/studynotes/internal/watch"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	env      *ops.Env
	renderer *Renderer
	hub      *Hub
}

// changed tells connected browsers that storage was modified by this process.
func (h *Handlers) changed() {
	if h.hub != nil {
		h.hub.Publish(watch.Event{Kind: watch.KindStorageChanged, At: time.Now()})
	}
}

// HandleList handles GET /notes: list notes with optional platform and tag filters.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Platform: r.URL.Query().Get("platform"),
		Tag:      r.URL.Query().Get("tag"),
		Limit:    parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:   parseIntParam(r, "offset", 0),
	}

	result, err := ops.List(r.Context(), h.env, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	stats, err := ops.Stats(r.Context(), h.env)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Notes",
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Stats:      stats,
		Platforms:  note.Platforms,
		Formats:    codec.Formats,
		Platform:   input.Platform,
		Tag:        input.Tag,
	})
}

// HandleDetail handles GET /notes/{id}: view a single note.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("note ID is required"))
		return
	}

	n, err := ops.Get(r.Context(), h.env, ops.GetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, n)
		return
	}

	title := n.Title
	if title == "" {
		title = note.UntitledNote
	}
	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   title,
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Note:         n,
		RenderedHTML: renderMarkdown(n.Content),
	})
}

// HandleDelete handles DELETE /notes/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("note ID is required"))
		return
	}

	result, err := ops.Delete(r.Context(), h.env, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.changed()

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/notes")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/notes", http.StatusFound)
}

// HandleExport handles GET /export: download notes in the requested format.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(codec.FormatJSON)
	}

	result, err := ops.Export(r.Context(), h.env, ops.ExportInput{
		Format:      format,
		IncludeTags: parseBoolParam(r, "include_tags"),
		URL:         r.URL.Query().Get("url"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.MimeType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, result.Content)
}

// HandleImport handles POST /import. The backup is read from the "file"
// field of a multipart form, or from the raw request body.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ops.MaxImportBytes+1<<20)

	raw, err := readImportBody(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Import(r.Context(), h.env, ops.ImportInput{RawJSON: raw})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.changed()

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `<div class="import-result">Imported %d notes</div>`, result.Imported)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/notes", http.StatusFound)
}

func readImportBody(r *http.Request) (string, error) {
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				return "", errors.NewFileTooLarge(ops.MaxImportBytes, r.ContentLength)
			}
			return "", errors.NewInvalidRequest("multipart form must include a \"file\" field")
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		if isTooLarge(err) {
			return "", errors.NewFileTooLarge(ops.MaxImportBytes, r.ContentLength)
		}
		return "", errors.NewInvalidRequest(fmt.Sprintf("failed to read request body: %v", err))
	}
	if len(data) == 0 {
		return "", errors.NewInvalidRequest("import body is empty")
	}
	return string(data), nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}

// HandleSweep handles POST /sweep: remove notes past the retention window.
func (h *Handlers) HandleSweep(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	var input ops.SweepInput
	if days := r.FormValue("max_age_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil || d <= 0 {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("max_age_days must be a positive integer"))
			return
		}
		input.MaxAgeDays = d
	}

	result, err := ops.Sweep(r.Context(), h.env, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if result.Removed > 0 {
		h.changed()
	}

	message := fmt.Sprintf("Cleaned up %d old notes", result.Removed)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="sweep-result">` + template.HTMLEscapeString(message) + `</div>`))
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"removed":      result.Removed,
			"max_age_days": result.MaxAgeDays,
			"message":      message,
		})
		return
	}

	http.Redirect(w, r, "/notes", http.StatusFound)
}

// HandleSettings handles GET /settings: show settings and the tag palette.
func (h *Handlers) HandleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := ops.GetSettings(r.Context(), h.env)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	tags, err := ops.ListTags(r.Context(), h.env)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"settings": settings.Settings,
			"tags":     tags.Tags,
		})
		return
	}

	h.renderer.renderPage(w, r, "settings", SettingsPageData{
		PageData: PageData{
			Title:   "Settings",
			Version: h.renderer.version,
			Nav:     "settings",
		},
		Keys:     settings.Settings.Keys(),
		Settings: settings.Settings,
		Tags:     tags.Tags,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
