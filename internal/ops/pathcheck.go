package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hpungsan/studynotes/internal/config"
	"github.com/hpungsan/studynotes/internal/errors"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // for import (read file)
	PathCheckWrite                      // for export (write file)
)

// ValidatePath performs path validation for import/export files.
// It checks:
// 1. Path traversal (.. sequences)
// 2. Extension (must equal ext)
// 3. Directory restrictions (file must be directly in exportsDir or an allowed_paths
//    directory, or its directory must match an allowed_paths doublestar pattern)
// 4. Symlink safety (parent dir must not be a symlink, file must not be a symlink)
//
// Plain allowed directories do not admit subdirectories, so there is no
// intermediate component to swap between validation and open. Patterns opt in
// to nested directories explicitly.
func ValidatePath(path string, mode PathCheckMode, ext string, cfg *config.Config, exportsDir string) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}

	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !strings.EqualFold(filepath.Ext(cleaned), ext) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have %s extension", ext))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	// Unsafe mode skips directory checks but never symlink checks.
	if cfg != nil && cfg.AllowUnsafePaths {
		if mode == PathCheckRead {
			if _, err := os.Stat(absPath); os.IsNotExist(err) {
				return errors.NewFileNotFound(path)
			}
		}
		if info, err := os.Lstat(absPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("path must not be a symlink")
		}
		return nil
	}

	allowedDirs, patterns, err := getAllowed(cfg, exportsDir)
	if err != nil {
		return err
	}

	parentDir := filepath.Dir(absPath)
	if !isDirectlyInAllowedDir(parentDir, allowedDirs) && !matchesPattern(absPath, patterns) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("file must be directly in an allowed directory (no subdirectories); allowed: %v",
				append(allowedDirs, patterns...)))
	}

	if info, err := os.Lstat(parentDir); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("parent directory must not be a symlink")
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return errors.NewFileNotFound(path)
		}
	}

	if info, err := os.Lstat(absPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}

	return nil
}

// getAllowed splits the allowlist into plain directories (absolute, cleaned,
// symlinks resolved) and doublestar patterns.
func getAllowed(cfg *config.Config, exportsDir string) ([]string, []string, error) {
	dirs := []string{}
	if exportsDir != "" {
		dirs = append(dirs, exportsDir)
	}

	var patterns []string
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if !filepath.IsAbs(p) {
				continue
			}
			if isPattern(p) {
				if !doublestar.ValidatePathPattern(p) {
					return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path pattern: %s", p))
				}
				patterns = append(patterns, filepath.Clean(p))
				continue
			}
			dirs = append(dirs, filepath.Clean(p))
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}

	return result, patterns, nil
}

func isPattern(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// matchesPattern reports whether the file, or the directory holding it,
// matches one of the patterns.
func matchesPattern(absPath string, patterns []string) bool {
	parent := filepath.Dir(absPath)
	for _, p := range patterns {
		if ok, _ := doublestar.PathMatch(p, absPath); ok {
			return true
		}
		if ok, _ := doublestar.PathMatch(p, parent); ok {
			return true
		}
	}
	return false
}

// isDirectlyInAllowedDir checks if parentDir exactly matches one of the allowed directories.
func isDirectlyInAllowedDir(parentDir string, allowedDirs []string) bool {
	parentDir = filepath.Clean(parentDir)
	for _, dir := range allowedDirs {
		if parentDir == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check for forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
