package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var DefaultExcludeDirs = []string{
	".git",
	"node_modules",
	"vendor",
	".cache",
	".turbo",
	".next",
}

// ListEnvFiles returns the absolute paths of env files under root in walk
// order. Directories in DefaultExcludeDirs and paths matched by ignore are
// not descended into.
func ListEnvFiles(root string, ignore *Ignore) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	excludeSet := make(map[string]bool, len(DefaultExcludeDirs))
	for _, d := range DefaultExcludeDirs {
		excludeSet[d] = true
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)

		if d.IsDir() {
			if excludeSet[d.Name()] || ignore.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsEnvFilename(d.Name()) && !ignore.Match(rel, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// MaxEnvSearchDepth bounds FindEnvDir's walk up the tree.
const MaxEnvSearchDepth = 16

// FindEnvDir returns the nearest directory at or above dir that holds a
// file called name, looking at most maxDepth levels up.
func FindEnvDir(dir, name string, maxDepth int) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	for i := 0; i < maxDepth; i++ {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s found in current or parent directories (searched up to %d levels)", name, maxDepth)
}
