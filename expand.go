package thrdata

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading ~/ to the current user's home directory. Paths
// without the prefix are returned unchanged.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		path = filepath.Join(home, path[2:])
	}

	return path
}
