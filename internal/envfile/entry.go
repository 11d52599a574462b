package envfile

import (
	"strings"
)

// trimset mirrors the characters stripped around names and values.
const trimset = " \t\n\r\x00\x0b"

// Entry is one parsed NAME=VALUE unit. Value is nil when the entry named a
// variable without an '=' at all, which is different from an empty value.
type Entry struct {
	Name  string
	Value *Value
}

// HasValue reports whether the entry carried an '='.
func (e Entry) HasValue() bool { return e.Value != nil }

// ParseEntry parses a single logical entry, as produced by AssembleLines.
func ParseEntry(raw string) (Entry, error) {
	rawName, rawValue, hasValue := strings.Cut(raw, "=")
	rawName = strings.Trim(rawName, trimset)
	if hasValue && rawName == "" {
		return Entry{}, newParseError(ErrUnexpectedEquals, raw)
	}

	name, err := parseName(rawName)
	if err != nil {
		return Entry{}, err
	}
	if !hasValue {
		return Entry{Name: name}, nil
	}

	value, err := parseValue(strings.Trim(rawValue, trimset))
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Value: &value}, nil
}

// Parse splits content into logical entries and parses each in order. The
// first malformed entry aborts the parse.
func Parse(content string) ([]Entry, error) {
	raw := AssembleLines(SplitLines(content))
	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		e, err := ParseEntry(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseName(s string) (string, error) {
	s = strings.TrimPrefix(s, "export ")
	s = strings.NewReplacer(`'`, "", `"`, "").Replace(s)
	s = strings.Trim(s, trimset)
	if !IsValidName(s) {
		return "", newParseError(ErrInvalidName, s)
	}
	return s, nil
}

// IsValidName reports whether s is a non-empty run of ASCII letters, digits,
// underscores and dots.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_' || c == '.':
		return true
	}
	return false
}
