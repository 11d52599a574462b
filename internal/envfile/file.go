package envfile

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"
)

// File is an editable dotenv file. Comments, blank lines and the original
// text of untouched entries are written back verbatim by Save.
type File struct {
	path     string
	lines    []*Line
	keyIndex map[string]int
}

func New(path string) *File {
	return &File{
		path:     path,
		lines:    []*Line{},
		keyIndex: make(map[string]int),
	}
}

// Load reads and parses path. A missing file yields an empty File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(path), nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := ParseFile(path, string(data))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ParseFile parses content as if it had been read from path.
func ParseFile(path, content string) (*File, error) {
	f := New(path)
	lines := SplitLines(content)
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var parseErr error
	rest, start := assemble(lines, func(line string, num int) {
		if parseErr != nil {
			return
		}
		if err := f.parseLine(line, num); err != nil {
			parseErr = fmt.Errorf("%s:%d: %w", path, num, err)
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}
	// Loading drops an unclosed value, but an editable file would lose
	// everything after it on Save.
	if rest != "" {
		return nil, fmt.Errorf("%s:%d: %w", path, start, newParseError(ErrMissingClosingQuote, rest))
	}
	return f, nil
}

// ReadKeys returns the names loading path would define, each once, in file
// order. Unlike Load it accepts a value left open at the end of the file.
func ReadKeys(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	entries, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !slices.Contains(keys, e.Name) {
			keys = append(keys, e.Name)
		}
	}
	return keys, nil
}

func (f *File) parseLine(line string, num int) error {
	if strings.Trim(line, trimset) == "" {
		f.lines = append(f.lines, &Line{Type: LineTypeEmpty, Num: num, Raw: line})
		return nil
	}
	if isCommentOrBlank(line) {
		f.lines = append(f.lines, &Line{Type: LineTypeComment, Num: num, Raw: line})
		return nil
	}

	entry, err := ParseEntry(line)
	if err != nil {
		return err
	}
	f.keyIndex[entry.Name] = len(f.lines)
	f.lines = append(f.lines, &Line{Type: LineTypeEntry, Num: num, Raw: line, Entry: entry})
	return nil
}

func (f *File) Path() string { return f.path }

// Entries returns the parsed entries in file order.
func (f *File) Entries() []Entry {
	entries := make([]Entry, 0, len(f.keyIndex))
	for _, line := range f.lines {
		if line.Type == LineTypeEntry {
			entries = append(entries, line.Entry)
		}
	}
	return entries
}

func (f *File) Save() error {
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, line := range f.lines {
		fmt.Fprintln(writer, line.Raw)
	}
	return writer.Flush()
}

// Get returns the decoded, unresolved value of key. Later duplicates win.
func (f *File) Get(key string) (string, bool) {
	idx, ok := f.keyIndex[key]
	if !ok || !f.lines[idx].Entry.HasValue() {
		return "", false
	}
	return f.lines[idx].Entry.Value.Chars(), true
}

// Set stores value as a literal: it is quoted so that it reads back
// unchanged and without variable references.
func (f *File) Set(key, value string) {
	v := NewValue(value)
	entry := Entry{Name: key, Value: &v}
	raw := key + "=" + Quote(value)

	if idx, exists := f.keyIndex[key]; exists {
		f.lines[idx].Raw = raw
		f.lines[idx].Entry = entry
		return
	}

	idx := len(f.lines)
	f.lines = append(f.lines, &Line{
		Type:  LineTypeEntry,
		Num:   idx + 1,
		Raw:   raw,
		Entry: entry,
	})
	f.keyIndex[key] = idx
}

// Keys returns entry names in file order, each once.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.keyIndex))
	for i, line := range f.lines {
		if line.Type == LineTypeEntry && f.keyIndex[line.Entry.Name] == i {
			keys = append(keys, line.Entry.Name)
		}
	}
	return keys
}

// Delete removes every entry named key.
func (f *File) Delete(key string) bool {
	if _, ok := f.keyIndex[key]; !ok {
		return false
	}
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.Type == LineTypeEntry && line.Entry.Name == key {
			continue
		}
		kept = append(kept, line)
	}
	f.lines = kept
	f.reindex()
	return true
}

func (f *File) reindex() {
	f.keyIndex = make(map[string]int, len(f.keyIndex))
	for i, line := range f.lines {
		if line.Type == LineTypeEntry {
			f.keyIndex[line.Entry.Name] = i
		}
	}
}

// Quote renders value so that ParseEntry decodes it back verbatim.
func Quote(value string) string {
	if value != "" && strings.IndexFunc(value, needsQuoting) < 0 {
		return value
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range value {
		switch c {
		case '"', '\\', '$':
			b.WriteByte('\\')
			b.WriteRune(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(c rune) bool {
	switch c {
	case '"', '\'', '#', '$', '\\', '=':
		return true
	}
	return isSpace(c)
}
