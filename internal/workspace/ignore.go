package workspace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreFileName lists paths, one pattern per line, that discovery skips.
const IgnoreFileName = ".envloadignore"

type ignoreRule struct {
	pattern string // doublestar, forward slashes
	dirOnly bool   // trailing slash
	anchor  bool   // leading slash: relative to the root only
}

// Ignore decides which paths under a root are skipped when listing env
// files. A nil Ignore skips nothing.
type Ignore struct {
	rules []ignoreRule
}

// NewIgnore compiles gitignore-style patterns. Blank lines and lines
// starting with '#' are skipped.
func NewIgnore(patterns []string) *Ignore {
	var rules []ignoreRule
	for _, line := range patterns {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		dirOnly := strings.HasSuffix(line, "/")
		line = strings.TrimSuffix(line, "/")
		anchor := strings.HasPrefix(line, "/")
		line = strings.TrimPrefix(line, "/")
		if line == "" {
			continue
		}

		rules = append(rules, ignoreRule{pattern: filepath.ToSlash(line), dirOnly: dirOnly, anchor: anchor})
	}
	if len(rules) == 0 {
		return nil
	}
	return &Ignore{rules: rules}
}

// LoadIgnore reads root's ignore file, if any, and adds extra patterns.
func LoadIgnore(root string, extra []string) (*Ignore, error) {
	patterns, err := readPatterns(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	return NewIgnore(append(patterns, extra...)), nil
}

func readPatterns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return patterns, nil
}

// Match reports whether relPath, relative to the root, is ignored.
func (m *Ignore) Match(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "/")

	for _, r := range m.rules {
		if r.anchor {
			if relPath == r.pattern || strings.HasPrefix(relPath, r.pattern+"/") {
				return true
			}
			continue
		}
		if r.dirOnly && !isDir {
			continue
		}
		if ok, err := doublestar.Match(r.pattern, relPath); err == nil && ok {
			return true
		}
		if !strings.Contains(r.pattern, "/") {
			if ok, err := doublestar.Match(r.pattern, filepath.Base(relPath)); err == nil && ok {
				return true
			}
		}
	}
	return false
}
