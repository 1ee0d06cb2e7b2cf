package main

import (
	"bufio"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/studynotes/internal/autosave"
	"github.com/hpungsan/studynotes/internal/db"
	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/ops"
	"github.com/hpungsan/studynotes/internal/sweeper"
	"github.com/hpungsan/studynotes/internal/watch"
	"github.com/hpungsan/studynotes/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "studynotes",
		Usage:   "Per-page study notes with export and import",
		Version: Version,
		Commands: []*cli.Command{
			installCmd(env),
			saveCmd(env),
			getCmd(env),
			listCmd(env),
			deleteCmd(env),
			sweepCmd(env),
			exportCmd(env),
			importCmd(env),
			statsCmd(env),
			analyzeCmd(env),
			settingsCmd(env),
			tagsCmd(env),
			clearCmd(env),
			editCmd(env),
			watchCmd(env),
			serveWebCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// installCmd creates the install command.
func installCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Write the empty note store, default settings and default tags (existing records are kept)",
		Action: func(c *cli.Context) error {
			output, err := ops.Install(c.Context, env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// saveCmd creates the save command.
func saveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save the note for a page (reads content from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Required: true, Usage: "Page URL"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title"},
			&cli.StringFlag{Name: "page-title", Usage: "Document title, used to derive a title for new notes"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Note content (instead of stdin)"},
		},
		Action: func(c *cli.Context) error {
			content := c.String("content")
			if !c.IsSet("content") {
				text, ok, err := readInput(c)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if !ok {
					return outputError(errors.NewInvalidRequest("content must be piped via stdin or passed with --content"))
				}
				content = text
			}

			output, err := ops.Save(c.Context, env, ops.SaveInput{
				URL:       c.String("url"),
				Title:     c.String("title"),
				PageTitle: c.String("page-title"),
				Content:   content,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// refFlags address a note by --url when no positional id is given.
func refFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Page URL"},
	}
}

// getCmd creates the get command.
func getCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a note by id or page URL",
		ArgsUsage: "[id]",
		Flags:     refFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.Get(c.Context, env, ops.GetInput{
				ID:  c.Args().First(),
				URL: c.String("url"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List notes, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Filter by platform (youtube, udemy, medium, web)"},
			&cli.StringFlag{Name: "tag", Usage: "Filter by content tag"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, env, ops.ListInput{
				Platform: c.String("platform"),
				Tag:      c.String("tag"),
				Limit:    c.Int("limit"),
				Offset:   c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a note by id or page URL",
		ArgsUsage: "[id]",
		Flags:     refFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, env, ops.DeleteInput{
				ID:  c.Args().First(),
				URL: c.String("url"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// sweepCmd creates the sweep command.
func sweepCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Remove notes older than the retention window",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Retention window (e.g., 30d); defaults to the cleanupDays setting"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SweepInput{}
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.MaxAgeDays = days
			}

			output, err := ops.Sweep(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export notes (json, csv, txt, md, html, pdf)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format"},
			&cli.StringFlag{Name: "path", Usage: "Write to this file instead of stdout"},
			&cli.BoolFlag{Name: "to-exports-dir", Usage: "Write to the exports directory under the default file name"},
			&cli.BoolFlag{Name: "include-tags", Usage: "Include tags in text, markdown and html output"},
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Export only the note of this page"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, env, ops.ExportInput{
				Format:       c.String("format"),
				IncludeTags:  c.Bool("include-tags"),
				URL:          c.String("url"),
				Path:         c.String("path"),
				ToExportsDir: c.Bool("to-exports-dir"),
			})
			if err != nil {
				return outputError(err)
			}

			// No file: the export itself is the output
			if output.Path == "" {
				_, err := io.WriteString(c.App.Writer, output.Content)
				return err
			}

			output.Content = ""
			return outputJSON(c, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Merge a JSON backup into the stored notes (reads stdin when no path is given)",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			input := ops.ImportInput{Path: c.Args().First()}
			if input.Path == "" {
				text, ok, err := readInput(c)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if !ok || text == "" {
					return outputError(errors.NewInvalidRequest("backup must be piped via stdin or given as a path"))
				}
				input.RawJSON = text
			}

			output, err := ops.Import(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show note totals",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(c.Context, env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// analyzeCmd creates the analyze command.
func analyzeCmd(_ *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Extract keywords, a summary and highlight terms from page text (reads stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Page URL"},
		},
		Action: func(c *cli.Context) error {
			text, ok, err := readInput(c)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if !ok {
				return outputError(errors.NewInvalidRequest("page text must be piped via stdin"))
			}

			output, err := ops.Analyze(ops.AnalyzeInput{Text: text, URL: c.String("url")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// settingsCmd creates the settings command group.
func settingsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change settings",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show all settings",
				Action: func(c *cli.Context) error {
					output, err := ops.GetSettings(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "set",
				Usage:     "Change one setting",
				ArgsUsage: "<key> <value>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return outputError(errors.NewInvalidRequest("usage: settings set <key> <value>"))
					}
					output, err := ops.SetSetting(c.Context, env, ops.SetSettingInput{
						Key:   c.Args().Get(0),
						Value: c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:  "reset",
				Usage: "Restore the default settings",
				Action: func(c *cli.Context) error {
					output, err := ops.ResetSettings(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
		},
	}
}

// tagsCmd creates the tags command group.
func tagsCmd(env *ops.Env) *cli.Command {
	tagAction := func(fn func(context.Context, *ops.Env, ops.TagInput) (*ops.TagsOutput, error)) cli.ActionFunc {
		return func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one tag name is required"))
			}
			output, err := fn(c.Context, env, ops.TagInput{Name: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		}
	}

	return &cli.Command{
		Name:  "tags",
		Usage: "Manage the tag palette",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the tag palette",
				Action: func(c *cli.Context) error {
					output, err := ops.ListTags(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{Name: "add", Usage: "Add a tag", ArgsUsage: "<name>", Action: tagAction(ops.AddTag)},
			{Name: "remove", Usage: "Remove a tag", ArgsUsage: "<name>", Action: tagAction(ops.RemoveTag)},
		},
	}
}

// clearCmd creates the clear command.
func clearCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all notes and settings (the tag palette is kept)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "confirm", Usage: "Required to actually clear"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("confirm") {
				return outputError(errors.NewInvalidRequest("pass --confirm to delete all notes and settings"))
			}
			output, err := ops.ClearAll(c.Context, env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// editOutput is printed when an edit session ends.
type editOutput struct {
	Saves int             `json:"saves"`
	Note  *ops.SaveOutput `json:"note,omitempty"`
}

// editCmd creates the edit command. Each stdin line is appended to the
// note and saved after the autosave quiet window.
func editCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Edit a note line by line from stdin with autosave",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Required: true, Usage: "Page URL"},
			&cli.StringFlag{Name: "page-title", Usage: "Document title, used to derive a title for new notes"},
			&cli.BoolFlag{Name: "append", Usage: "Start from the stored content instead of an empty note"},
			&cli.DurationFlag{Name: "delay", Usage: "Autosave quiet window (defaults to config, then the autosaveInterval setting)"},
		},
		Action: func(c *cli.Context) error {
			url := c.String("url")

			delay := c.Duration("delay")
			if delay <= 0 {
				settings, err := ops.GetSettings(c.Context, env)
				if err != nil {
					return outputError(err)
				}
				delay = autosave.Delay(env.Config, settings.Settings)
			}

			var content strings.Builder
			if c.Bool("append") {
				existing, err := ops.Get(c.Context, env, ops.GetInput{URL: url})
				switch {
				case err == nil:
					content.WriteString(existing.Content)
				case !errors.Is(err, errors.ErrNotFound):
					return outputError(err)
				}
			}

			session := autosave.NewSession(c.Context, env, url, c.String("page-title"), delay)

			scanner := bufio.NewScanner(c.App.Reader)
			scanner.Buffer(make([]byte, 0, 64*1024), ops.MaxImportBytes)
			for scanner.Scan() {
				if content.Len() > 0 {
					content.WriteByte('\n')
				}
				content.WriteString(scanner.Text())
				session.Update(content.String())
			}
			scanErr := scanner.Err()

			last, err := session.Close()
			if scanErr != nil {
				return outputError(errors.NewInternal(scanErr))
			}
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, editOutput{Saves: session.Saves(), Note: last})
		},
	}
}

// watchCmd creates the watch command.
func watchCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print a JSON line whenever the note store changes on disk",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "debounce", Value: watch.DefaultDebounce, Usage: "Settle window for bursts of writes"},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(env.BaseDir, db.FileName, env.Logger)
			w.SetDebounce(c.Duration("debounce"))
			if err := w.Start(ctx); err != nil {
				return outputError(errors.NewInternal(err))
			}

			enc := json.NewEncoder(c.App.Writer)
			for ev := range w.Events() {
				if err := enc.Encode(ev); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// serveWebCmd creates the serve-web command.
func serveWebCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "serve-web",
		Usage: "Start the local note viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Address to bind (defaults to web_bind from config)"},
			&cli.IntFlag{Name: "port", Usage: "Port to listen on (defaults to web_port from config)"},
			&cli.BoolFlag{Name: "no-sweep", Usage: "Do not run the periodic retention sweep"},
		},
		Action: func(c *cli.Context) error {
			bind := env.Config.WebBind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := env.Config.WebPort
			if c.IsSet("port") {
				port = c.Int("port")
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if _, err := ops.Install(ctx, env); err != nil {
				return outputError(err)
			}

			hub := web.NewHub(env.Logger)

			w := watch.New(env.BaseDir, db.FileName, env.Logger)
			if err := w.Start(ctx); err != nil {
				env.Logger.Warn().Err(err).Msg("live reload disabled")
			} else {
				go hub.Forward(ctx, w.Events())
			}

			if !c.Bool("no-sweep") {
				sweeper.New(env, sweeper.WithRunAtStart(true)).Start(ctx)
			}

			srv := web.NewServer(env, hub, Version, bind, port)
			return web.Run(ctx, srv, env.Logger)
		},
	}
}

// Helper functions

// outputJSON writes v to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var nErr *errors.NoteError
	if stderrors.As(err, &nErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", nErr.Code, nErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readInput reads all of the app's input. ok is false when the input is an
// interactive terminal rather than piped data.
func readInput(c *cli.Context) (text string, ok bool, err error) {
	r := c.App.Reader
	if r == nil {
		return "", false, nil
	}
	if f, isFile := r.(*os.File); isFile {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", false, nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(string(data), "\r\n"), true, nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 30d")
}
