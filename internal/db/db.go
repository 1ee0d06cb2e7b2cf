package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/studynotes/internal/config"
	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the base directory.
const FileName = "studynotes.db"

// ExportsDirName is the subdirectory that export files default to.
const ExportsDirName = "exports"

// migrations holds one statement batch per schema version; migrations[i]
// moves the database from version i to i+1. Append only.
var migrations = []string{
	// The three persisted records (notes, settings, tags) keyed by name.
	`CREATE TABLE IF NOT EXISTS records (
	  key        TEXT PRIMARY KEY,
	  value      TEXT NOT NULL,
	  updated_at INTEGER NOT NULL
	);`,
}

// CurrentSchemaVersion is the version Init leaves the database at.
var CurrentSchemaVersion = len(migrations)

// Init opens the record database under baseDir, creating baseDir and its
// exports directory (mode 0700) as needed, and migrates it to
// CurrentSchemaVersion. Tests pass t.TempDir() as baseDir.
func Init(baseDir string) (*sql.DB, error) {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, ExportsDirName)} {
		if err := privateDir(dir); err != nil {
			return nil, err
		}
	}

	// Pragmas in the DSN apply to every pooled connection.
	dbPath := filepath.Join(baseDir, FileName)
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open note database: %w", err)
	}

	if err := requireWAL(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)
	return conn, nil
}

func privateDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	// MkdirAll leaves existing directories alone; tighten them too.
	_ = os.Chmod(dir, 0700)
	return nil
}

// ConfigurePool applies the db_max_open_conns and db_max_idle_conns config
// values. Zero leaves the database/sql default.
func ConfigurePool(conn *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if n := cfg.DBMaxOpenConns; n > 0 {
		conn.SetMaxOpenConns(n)
	}
	if n := cfg.DBMaxIdleConns; n > 0 {
		conn.SetMaxIdleConns(n)
	}
}

// migrate runs every migration above the stored user_version, bumping the
// version after each step so a failed step is retried on the next start.
func migrate(conn *sql.DB) error {
	version, err := GetUserVersion(conn)
	if err != nil {
		return err
	}
	for v := version; v < len(migrations); v++ {
		if _, err := conn.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migrate records schema to v%d: %w", v+1, err)
		}
		if err := SetUserVersion(conn, v+1); err != nil {
			return err
		}
	}
	return nil
}

// requireWAL fails unless the DSN pragma switched the journal to WAL.
func requireWAL(conn *sql.DB) error {
	var mode string
	if err := conn.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		return fmt.Errorf("read journal mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("note database journal mode is %s, want wal", mode)
	}
	return nil
}

// GetUserVersion returns the schema version stored in the user_version pragma.
func GetUserVersion(conn *sql.DB) (int, error) {
	var version int
	if err := conn.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion stores version in the user_version pragma.
func SetUserVersion(conn *sql.DB, version int) error {
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("write user_version: %w", err)
	}
	return nil
}
