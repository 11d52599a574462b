package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xmazu/envload/internal/config"
)

// MarkerFiles identify a workspace root, in priority order within a
// directory. The nearest directory holding any of them wins.
var MarkerFiles = []string{
	config.FileName,
	"pnpm-workspace.yaml",
	"turbo.json",
	"lerna.json",
	"go.work",
	"go.mod",
	"settings.gradle",
	"settings.gradle.kts",
	".git",
}

// FindRoot walks up from dir to the nearest directory holding a marker.
// Without one, dir itself is the root.
func FindRoot(dir string) (string, error) {
	original, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for dir = original; ; {
		if FindMarker(dir) != "" {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return original, nil
		}
		dir = parent
	}
}

func IsWorkspace(dir string) bool {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return FindMarker(dir) != ""
}

// FindMarker returns the first marker present in root, or "".
func FindMarker(root string) string {
	for _, marker := range MarkerFiles {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return marker
		}
	}
	return ""
}

func FormatMarkerForDisplay(marker string) string {
	switch marker {
	case "":
		return "no marker, using current directory"
	case ".git":
		return "git repository"
	case config.FileName:
		return "envload config"
	}
	return marker
}
