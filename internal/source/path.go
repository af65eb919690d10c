package source

import (
	"os"
	"path/filepath"
	"strings"
)

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
// baseDir is only used by "relative"; the working directory is used when empty.
func FormatPath(path, mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(path); err == nil {
			return normalizePath(abs)
		}
		return path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := filepath.Rel(baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return normalizePath(rel)
		}
		return normalizePath(path)

	case "basename":
		return filepath.Base(path)

	case "auto":
		// Auto: relative to the working directory when the file lives below it.
		if wd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
				return normalizePath(rel)
			}
		}
		return normalizePath(path)

	default:
		return path
	}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
