// Package storage reads and writes YAML documents on disk.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("file not found")

type YAMLFile struct {
	path string
}

func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

func (y *YAMLFile) Path() string {
	return y.path
}

func (y *YAMLFile) Exists() bool {
	_, err := os.Stat(y.path)
	return err == nil
}

// Load decodes the file into dest. Keys that dest has no field for are an
// error, so typos in config files do not pass silently.
func (y *YAMLFile) Load(dest any) error {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, y.path)
		}
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml %s: %w", y.path, err)
	}
	return nil
}

// LoadIfExists is Load, except that a missing file leaves dest untouched.
func (y *YAMLFile) LoadIfExists(dest any) error {
	if err := y.Load(dest); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (y *YAMLFile) Save(data any) error {
	return y.SaveWithPerm(data, 0644)
}

func (y *YAMLFile) SaveWithPerm(data any, perm os.FileMode) error {
	dir := filepath.Dir(y.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	if err := os.WriteFile(y.path, out, perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
