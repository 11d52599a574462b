// Package store reads the raw text of dotenv files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/xmazu/envload/internal/log"
)

// DefaultName is the file looked up in every path when no names are given.
const DefaultName = ".env"

var (
	// ErrNoFiles means none of the candidate files could be read.
	ErrNoFiles = errors.New("no environment file found")
	// ErrEncoding means the configured character encoding is unknown.
	ErrEncoding = errors.New("illegal character encoding")
)

// Source is the decoded content of one file.
type Source struct {
	Path    string
	Content string
}

// Store yields the sources to parse, in order.
type Store interface {
	Read() ([]Source, error)
}

// FilePaths joins every path with every name, path-major.
func FilePaths(paths, names []string) []string {
	out := make([]string, 0, len(paths)*len(names))
	for _, p := range paths {
		for _, n := range names {
			out = append(out, filepath.Join(p, n))
		}
	}
	return out
}

// FileStore reads dotenv files from a set of directories.
type FileStore struct {
	Paths        []string
	Names        []string
	ShortCircuit bool
	Encoding     string
}

type Option func(*FileStore)

// WithNames sets the file names looked up in each path.
func WithNames(names ...string) Option {
	return func(s *FileStore) {
		if len(names) > 0 {
			s.Names = names
		}
	}
}

// WithShortCircuit stops reading after the first file found.
func WithShortCircuit(enabled bool) Option {
	return func(s *FileStore) { s.ShortCircuit = enabled }
}

// WithEncoding decodes files from the named encoding (an IANA or WHATWG
// label such as "ISO-8859-1" or "windows-1252").
func WithEncoding(name string) Option {
	return func(s *FileStore) { s.Encoding = name }
}

func NewFileStore(paths []string, opts ...Option) *FileStore {
	s := &FileStore{
		Paths: paths,
		Names: []string{DefaultName},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the content of every candidate file that exists. It fails
// with ErrNoFiles when there are none.
func (s *FileStore) Read() ([]Source, error) {
	enc, err := lookupEncoding(s.Encoding)
	if err != nil {
		return nil, err
	}

	candidates := FilePaths(s.Paths, s.Names)
	var sources []Source
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Tracef("store: skip %s: %v", path, err)
			continue
		}
		content, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		log.WithField("bytes", len(data)).Debugf("store: read %s", path)
		sources = append(sources, Source{Path: path, Content: string(content)})
		if s.ShortCircuit {
			break
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("Unable to read any of the environment file(s) at [%s]: %w",
			strings.Join(candidates, ", "), ErrNoFiles)
	}
	return sources, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("Illegal character encoding [%s] specified: %w", name, ErrEncoding)
	}
	return enc, nil
}

// StringStore serves literal content as a single source.
type StringStore struct {
	Content string
}

// StringPath names the source produced by a StringStore.
const StringPath = "<string>"

func (s StringStore) Read() ([]Source, error) {
	return []Source{{Path: StringPath, Content: s.Content}}, nil
}
