package mcp

import "github.com/mark3labs/mcp-go/mcp"

var noteSaveToolDef = mcp.NewTool("note_save",
	mcp.WithDescription("Save the note for a page. The note id is derived from the URL; saving again replaces the note. Tags are the #words in the content."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Note text")),
	mcp.WithString("title", mcp.Description("Explicit title; defaults to the stored title, then page_title")),
	mcp.WithString("page_title", mcp.Description("Document title of the page")),
)

var noteGetToolDef = mcp.NewTool("note_get",
	mcp.WithDescription("Fetch one note by id or by page URL."),
	mcp.WithString("id", mcp.Description("Note id")),
	mcp.WithString("url", mcp.Description("Page URL")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var noteListToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List note summaries, newest first."),
	mcp.WithString("platform", mcp.Description("Filter by platform"), mcp.Enum("YouTube", "Udemy", "Medium", "Web")),
	mcp.WithString("tag", mcp.Description("Filter by content tag")),
	mcp.WithNumber("limit", mcp.Description("Max items (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var noteDeleteToolDef = mcp.NewTool("note_delete",
	mcp.WithDescription("Delete one note by id or by page URL."),
	mcp.WithString("id", mcp.Description("Note id")),
	mcp.WithString("url", mcp.Description("Page URL")),
	mcp.WithDestructiveHintAnnotation(true),
)

var noteSweepToolDef = mcp.NewTool("note_sweep",
	mcp.WithDescription("Remove notes older than the retention window (cleanupDays setting unless max_age_days is given)."),
	mcp.WithNumber("max_age_days", mcp.Description("Retention window in days")),
	mcp.WithDestructiveHintAnnotation(true),
)

var noteExportToolDef = mcp.NewTool("note_export",
	mcp.WithDescription("Export notes as json, csv, txt, md or html (pdf is an alias of html). Returns the rendered content; optionally writes a file."),
	mcp.WithString("format", mcp.Required(), mcp.Enum("json", "csv", "txt", "md", "html", "pdf")),
	mcp.WithBoolean("include_tags", mcp.Description("Include tags in human-readable formats")),
	mcp.WithString("url", mcp.Description("Export only the note of this page")),
	mcp.WithString("path", mcp.Description("Write the export to this file")),
	mcp.WithBoolean("to_exports_dir", mcp.Description("Write the export to the exports directory")),
)

var noteImportToolDef = mcp.NewTool("note_import",
	mcp.WithDescription("Merge a JSON backup (an object mapping ids to notes) into the stored notes."),
	mcp.WithString("raw_json", mcp.Description("Backup content")),
	mcp.WithString("path", mcp.Description("Backup file (.json)")),
)

var noteStatsToolDef = mcp.NewTool("note_stats",
	mcp.WithDescription("Totals over all notes: notes, words, study days and platforms."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var pageAnalyzeToolDef = mcp.NewTool("page_analyze",
	mcp.WithDescription("Extract keywords, a short summary and highlight terms from page text."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Visible page text")),
	mcp.WithString("url", mcp.Description("Page URL")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var settingsGetToolDef = mcp.NewTool("settings_get",
	mcp.WithDescription("Return all settings."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var settingsSetToolDef = mcp.NewTool("settings_set",
	mcp.WithDescription("Set one setting. The value is parsed according to the setting's type; lists accept JSON arrays or comma-separated text."),
	mcp.WithString("key", mcp.Required()),
	mcp.WithString("value", mcp.Required()),
)

var settingsResetToolDef = mcp.NewTool("settings_reset",
	mcp.WithDescription("Restore default settings."),
	mcp.WithDestructiveHintAnnotation(true),
)

var tagsListToolDef = mcp.NewTool("tags_list",
	mcp.WithDescription("List the tag palette."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var tagsAddToolDef = mcp.NewTool("tags_add",
	mcp.WithDescription("Add a tag to the palette."),
	mcp.WithString("name", mcp.Required()),
)

var tagsRemoveToolDef = mcp.NewTool("tags_remove",
	mcp.WithDescription("Remove a tag from the palette."),
	mcp.WithString("name", mcp.Required()),
)

var dataClearToolDef = mcp.NewTool("data_clear",
	mcp.WithDescription("Delete every note and reset settings. The tag palette is kept."),
	mcp.WithDestructiveHintAnnotation(true),
)
