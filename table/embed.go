package table

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var TablesFS embed.FS

// Load returns the named table file, preferring an edited copy under the
// table/ directory of the working directory over the embedded one.
func Load(name string) ([]byte, error) {
	clean := cleanTablePath(name)
	if data, err := os.ReadFile(diskTablePath(clean)); err == nil {
		return data, nil
	}
	return TablesFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanTablePath(name)
	info, err := os.Stat(diskTablePath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// FileName maps a table name such as "ruby" to its file name.
func FileName(name string) string {
	clean := cleanTablePath(name)
	if clean == "" {
		return ""
	}
	if ext := strings.ToLower(filepath.Ext(clean)); ext == ".yaml" || ext == ".yml" {
		return clean
	}
	return clean + ".yaml"
}

func cleanTablePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "table/"); ok {
		return after
	}
	return s
}

func diskTablePath(clean string) string {
	return filepath.Join("table", filepath.FromSlash(clean))
}
