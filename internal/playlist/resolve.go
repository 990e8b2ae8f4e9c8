package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Resolve maps a configured playlist root and a target date to the concrete
// source for that date's playlist.
//
//   - override (operator-supplied path or URL) always wins;
//   - a directory root expands to root/YYYY/MM/YYYY-MM-DD.json;
//   - anything else (single file, URL) is taken verbatim.
//
// date must be YYYY-MM-DD; that shape is a caller precondition.
func Resolve(root, date, override string) string {
	if override != "" {
		return override
	}
	if st, err := os.Stat(root); err == nil && st.IsDir() {
		d := strings.Split(date, "-")
		return filepath.Join(root, d[0], d[1], date+".json")
	}
	return root
}

// IsRemote classifies a source string as a remote endpoint.
func IsRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ModifiedTime returns the file's mtime as RFC3339, or "" when the file
// cannot be stat'ed. Provenance only, never required for correctness.
func ModifiedTime(path string) string {
	st, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return st.ModTime().Format(time.RFC3339)
}
