package envfile

import (
	"errors"
	"slices"
	"testing"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		key   string
		chars string
		vars  []int
	}{
		{name: "plain value", raw: "FOO=bar", key: "FOO", chars: "bar"},
		{name: "surrounding whitespace", raw: "  FOO =  bar  ", key: "FOO", chars: "bar"},
		{name: "export prefix", raw: "export FOO=bar", key: "FOO", chars: "bar"},
		{name: "quoted name", raw: `'FOO'=bar`, key: "FOO", chars: "bar"},
		{name: "double quoted name", raw: `"FOO.BAR"=baz`, key: "FOO.BAR", chars: "baz"},
		{name: "empty value", raw: "FOO=", key: "FOO", chars: ""},
		{name: "whitespace value", raw: "FOO=   ", key: "FOO", chars: ""},
		{name: "form feed is not trimmed", raw: "FOO=\f", key: "FOO", chars: "\f"},
		{name: "equals in value", raw: "FOO=a=b", key: "FOO", chars: "a=b"},
		{name: "single quoted", raw: `FOO='bar baz'`, key: "FOO", chars: "bar baz"},
		{name: "single quoted keeps escapes", raw: `FOO='\t'`, key: "FOO", chars: `\t`},
		{name: "single quoted keeps dollar", raw: `FOO='$BAR'`, key: "FOO", chars: "$BAR"},
		{name: "double quoted", raw: `FOO="bar baz"`, key: "FOO", chars: "bar baz"},
		{name: "double quoted tab", raw: `FOO="\t"`, key: "FOO", chars: "\t"},
		{name: "double quoted newline", raw: `FOO="a\nb"`, key: "FOO", chars: "a\nb"},
		{name: "all control escapes", raw: `FOO="\f\n\r\t\v"`, key: "FOO", chars: "\f\n\r\t\v"},
		{name: "escaped quote", raw: `FOO="say \"hi\""`, key: "FOO", chars: `say "hi"`},
		{name: "escaped backslash", raw: `FOO="a\\b"`, key: "FOO", chars: `a\b`},
		{name: "escaped dollar is literal", raw: `FOO="\$BAR"`, key: "FOO", chars: "$BAR"},
		{name: "single quote inside double", raw: `FOO="it's"`, key: "FOO", chars: "it's"},
		{name: "hash inside double", raw: `FOO="a#b"`, key: "FOO", chars: "a#b"},
		{name: "literal newline inside double", raw: "FOO=\"a\nb\"", key: "FOO", chars: "a\nb"},
		{name: "unquoted backslash", raw: `FOO=a\nb`, key: "FOO", chars: `a\nb`},
		{name: "inline comment", raw: "FOO=bar # comment", key: "FOO", chars: "bar"},
		{name: "comment right after value", raw: "FOO=bar#comment", key: "FOO", chars: "bar"},
		{name: "comment after quotes", raw: `FOO="bar" # comment`, key: "FOO", chars: "bar"},
		{name: "comment only", raw: "FOO=# nothing", key: "FOO", chars: ""},
		{name: "trailing whitespace after quote", raw: "FOO='bar'   ", key: "FOO", chars: "bar"},
		{name: "unicode value", raw: `FOO="ölçü ✓"`, key: "FOO", chars: "ölçü ✓"},
		{name: "var reference", raw: "FOO=$BAR", key: "FOO", chars: "$BAR", vars: []int{0}},
		{name: "var after text", raw: "FOO=AAA$BAR", key: "FOO", chars: "AAA$BAR", vars: []int{3}},
		{name: "braced var", raw: "FOO=${BAR}", key: "FOO", chars: "${BAR}", vars: []int{0}},
		{name: "vars in double quotes", raw: `FOO="TEST $BAR $$BAZ"`, key: "FOO", chars: "TEST $BAR $$BAZ", vars: []int{11, 10, 5}},
		{name: "var offsets are byte offsets", raw: `FOO="é$A"`, key: "FOO", chars: "é$A", vars: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseEntry(tt.raw)
			if err != nil {
				t.Fatalf("ParseEntry(%q) error = %v", tt.raw, err)
			}
			if e.Name != tt.key {
				t.Errorf("Name = %q, want %q", e.Name, tt.key)
			}
			if !e.HasValue() {
				t.Fatalf("ParseEntry(%q) has no value", tt.raw)
			}
			if got := e.Value.Chars(); got != tt.chars {
				t.Errorf("Chars() = %q, want %q", got, tt.chars)
			}
			if got := e.Value.Vars(); !slices.Equal(got, tt.vars) && len(got)+len(tt.vars) > 0 {
				t.Errorf("Vars() = %v, want %v", got, tt.vars)
			}
		})
	}
}

func TestParseEntryWithoutValue(t *testing.T) {
	for _, raw := range []string{"FOO", "  FOO  ", "export FOO"} {
		e, err := ParseEntry(raw)
		if err != nil {
			t.Fatalf("ParseEntry(%q) error = %v", raw, err)
		}
		if e.Name != "FOO" {
			t.Errorf("ParseEntry(%q).Name = %q, want FOO", raw, e.Name)
		}
		if e.HasValue() {
			t.Errorf("ParseEntry(%q) should have no value, got %q", raw, e.Value.Chars())
		}
	}
}

func TestParseEntryErrors(t *testing.T) {
	tests := []struct {
		raw     string
		cause   error
		message string
	}{
		{"=", ErrUnexpectedEquals, "Encountered an unexpected equals at [=]."},
		{"=bar", ErrUnexpectedEquals, "Encountered an unexpected equals at [=bar]."},
		{"FOO_ASD!=BAZ", ErrInvalidName, "Encountered an invalid name at [FOO_ASD!]."},
		{"FOO BAR=baz", ErrInvalidName, "Encountered an invalid name at [FOO BAR]."},
		{"ÖFOO=baz", ErrInvalidName, "Encountered an invalid name at [ÖFOO]."},
		{`FOO="\q"`, ErrUnexpectedEscapeSequence, `Encountered an unexpected escape sequence at ["\q"].`},
		{"FOO=bar baz", ErrUnexpectedWhitespace, "Encountered unexpected whitespace at [bar baz]."},
		{`FOO="bar"baz`, ErrUnexpectedWhitespace, `Encountered unexpected whitespace at ["bar"baz].`},
		{`FOO='bar' baz`, ErrUnexpectedWhitespace, `Encountered unexpected whitespace at ['bar' baz].`},
		{`FOO="bar`, ErrMissingClosingQuote, `Encountered a missing closing quote at ["bar].`},
		{`FOO="bar\`, ErrMissingClosingQuote, `Encountered a missing closing quote at ["bar\].`},
		{"FOO=\"a\nb", ErrMissingClosingQuote, `Encountered a missing closing quote at ["a].`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := ParseEntry(tt.raw)
			if err == nil {
				t.Fatalf("ParseEntry(%q) expected error", tt.raw)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("ParseEntry(%q) error = %v, want cause %v", tt.raw, err, tt.cause)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ParseEntry(%q) error is %T, want *ParseError", tt.raw, err)
			}
			if err.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestUnterminatedSingleQuoteIsAccepted(t *testing.T) {
	e, err := ParseEntry(`FOO='bar`)
	if err != nil {
		t.Fatalf("ParseEntry() error = %v", err)
	}
	if got := e.Value.Chars(); got != "bar" {
		t.Errorf("Chars() = %q, want bar", got)
	}
}

func TestParse(t *testing.T) {
	content := "# header\r\nA=1\r\n\r\nexport B=\"two\nlines\"\rC\nD='x' # trailing\n"

	entries, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if want := []string{"A", "B", "C", "D"}; !slices.Equal(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	if got := entries[1].Value.Chars(); got != "two\nlines" {
		t.Errorf("B = %q, want %q", got, "two\nlines")
	}
	if entries[2].HasValue() {
		t.Error("C should have no value")
	}
	if got := entries[3].Value.Chars(); got != "x" {
		t.Errorf("D = %q, want x", got)
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	_, err := Parse("A=1\nB=bad value\nC=\"unterminated")
	if !errors.Is(err, ErrUnexpectedWhitespace) {
		t.Errorf("Parse() error = %v, want %v", err, ErrUnexpectedWhitespace)
	}
}

func TestIsValidName(t *testing.T) {
	valid := []string{"FOO", "foo_bar", "a.b.c", "_", "123"}
	for _, s := range valid {
		if !IsValidName(s) {
			t.Errorf("IsValidName(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "FOO!", "FOO-BAR", "FOO BAR", "ÖL"}
	for _, s := range invalid {
		if IsValidName(s) {
			t.Errorf("IsValidName(%q) = true, want false", s)
		}
	}
}

func TestStep(t *testing.T) {
	t.Run("comment absorbs everything", func(t *testing.T) {
		for _, c := range []rune{'a', '"', '\'', '\\', '$', ' ', '#'} {
			next, act, err := step(stateComment, c)
			if err != nil || next != stateComment || act.kind != emitNone {
				t.Errorf("step(comment, %q) = %v, %v, %v", c, next, act, err)
			}
		}
	})

	t.Run("initial dollar is a var marker", func(t *testing.T) {
		next, act, _ := step(stateInitial, '$')
		if next != stateUnquoted || act.kind != emitVar {
			t.Errorf("step(initial, '$') = %v, %v", next, act)
		}
	})

	t.Run("escaped dollar is not a var marker", func(t *testing.T) {
		next, act, _ := step(stateEscapeSequence, '$')
		if next != stateDoubleQuoted || act.kind != emitChar {
			t.Errorf("step(escape, '$') = %v, %v", next, act)
		}
	})

	t.Run("accepting states", func(t *testing.T) {
		for _, s := range []state{stateInitial, stateUnquoted, stateSingleQuoted, stateWhitespace, stateComment} {
			if !s.accepting() {
				t.Errorf("%v should accept end of input", s)
			}
		}
		for _, s := range []state{stateDoubleQuoted, stateEscapeSequence} {
			if s.accepting() {
				t.Errorf("%v should reject end of input", s)
			}
		}
	})
}
