package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFilePaths(t *testing.T) {
	got := FilePaths([]string{"a", "b"}, []string{".env", ".env.local"})
	want := []string{
		filepath.Join("a", ".env"),
		filepath.Join("a", ".env.local"),
		filepath.Join("b", ".env"),
		filepath.Join("b", ".env.local"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("FilePaths() = %v, want %v", got, want)
	}
}

func TestFileStoreRead(t *testing.T) {
	t.Run("reads every existing file in order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".env"), []byte("A=1\n"))
		writeFile(t, filepath.Join(dir, ".env.local"), []byte("B=2\n"))

		s := NewFileStore([]string{dir}, WithNames(".env", ".env.missing", ".env.local"))
		sources, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(sources) != 2 {
			t.Fatalf("Read() returned %d sources, want 2", len(sources))
		}
		if sources[0].Content != "A=1\n" || sources[1].Content != "B=2\n" {
			t.Errorf("Read() = %+v", sources)
		}
	})

	t.Run("short circuit stops after first file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "one", ".env"), []byte("A=1"))
		writeFile(t, filepath.Join(dir, "two", ".env"), []byte("A=2"))

		s := NewFileStore([]string{filepath.Join(dir, "one"), filepath.Join(dir, "two")}, WithShortCircuit(true))
		sources, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(sources) != 1 || sources[0].Content != "A=1" {
			t.Errorf("Read() = %+v, want only the first file", sources)
		}
	})

	t.Run("no files", func(t *testing.T) {
		dir := t.TempDir()
		_, err := NewFileStore([]string{dir}).Read()
		if !errors.Is(err, ErrNoFiles) {
			t.Fatalf("Read() error = %v, want %v", err, ErrNoFiles)
		}
		if !strings.Contains(err.Error(), "Unable to read any of the environment file(s) at ["+filepath.Join(dir, ".env")+"]") {
			t.Errorf("Read() error = %v", err)
		}
	})

	t.Run("strips utf-8 bom", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".env"), []byte("\xef\xbb\xbfA=1"))

		sources, err := NewFileStore([]string{dir}).Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if sources[0].Content != "A=1" {
			t.Errorf("Content = %q, want A=1", sources[0].Content)
		}
	})

	t.Run("decodes latin1", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".env"), []byte("A=caf\xe9"))

		sources, err := NewFileStore([]string{dir}, WithEncoding("ISO-8859-1")).Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if sources[0].Content != "A=café" {
			t.Errorf("Content = %q, want A=café", sources[0].Content)
		}
	})

	t.Run("unknown encoding", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".env"), []byte("A=1"))

		_, err := NewFileStore([]string{dir}, WithEncoding("no-such-charset")).Read()
		if !errors.Is(err, ErrEncoding) {
			t.Fatalf("Read() error = %v, want %v", err, ErrEncoding)
		}
		if !strings.Contains(err.Error(), "Illegal character encoding [no-such-charset] specified") {
			t.Errorf("Read() error = %v", err)
		}
	})
}

func TestStringStore(t *testing.T) {
	sources, err := StringStore{Content: "A=1"}.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(sources) != 1 || sources[0].Path != StringPath || sources[0].Content != "A=1" {
		t.Errorf("Read() = %+v", sources)
	}
}
