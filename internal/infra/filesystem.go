package infra

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading ~ to the user's home directory. Paths
// that do not start with ~ are returned unchanged, as is ~ itself when
// the home directory cannot be resolved.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
