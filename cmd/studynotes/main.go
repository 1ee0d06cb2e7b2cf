package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hpungsan/studynotes/internal/config"
	"github.com/hpungsan/studynotes/internal/db"
	"github.com/hpungsan/studynotes/internal/logging"
	"github.com/hpungsan/studynotes/internal/mcp"
	"github.com/hpungsan/studynotes/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// homeEnv overrides the base directory (~/.studynotes).
const homeEnv = "STUDYNOTES_HOME"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"install": true, "save": true, "get": true, "list": true, "delete": true,
	"sweep": true, "export": true, "import": true, "stats": true, "analyze": true,
	"settings": true, "tags": true, "clear": true,
	"edit": true, "watch": true, "serve-web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  studynotes: per-page study notes

  Usage: studynotes <command> [options]
         studynotes --help

  MCP server mode requires piped input.`)
}

// baseDir returns $STUDYNOTES_HOME or ~/.studynotes.
func baseDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(homeEnv)); dir != "" {
		return dir, nil
	}
	return ops.DefaultBaseDir()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion(os.Args) {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	cliMode := isCLIMode(os.Args)

	// Unknown argument + terminal → show error (don't start MCP server)
	if !cliMode && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'studynotes --help' for usage.\n")
		os.Exit(1)
	}

	base, err := baseDir()
	if err != nil {
		fatal("could not determine base directory: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = base
	}
	cfg, err := config.LoadWithRepo(base, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	// stdout belongs to MCP frames and CLI JSON; logs go to stderr
	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Console: cliMode,
	})
	if err != nil {
		fatal("failed to set up logging: %v", err)
	}
	defer closer.Close()

	database, err := db.Init(base)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	env := ops.NewEnv(db.NewRecords(database), cfg, base, logger)

	if cliMode {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			database.Close()
			os.Exit(1)
		}
		return
	}

	warnUnknownDisabled(cfg, logger)

	if _, err := ops.Install(context.Background(), env); err != nil {
		fatal("failed to initialize storage: %v", err)
	}

	// MCP server mode (default)
	if err := mcp.Run(env, Version); err != nil {
		fatal("%v", err)
	}
}

// warnUnknownDisabled logs disabled tool and type names that match nothing.
func warnUnknownDisabled(cfg *config.Config, logger zerolog.Logger) {
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warn().Strs("tools", unknown).Msg("unknown tools in disabled_tools")
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		logger.Warn().Strs("types", unknown).Strs("known", mcp.KnownTypes).Msg("unknown types in disabled_types")
	}
}
