package envfile

import (
	"strings"
)

type state int

const (
	stateInitial state = iota
	stateUnquoted
	stateSingleQuoted
	stateDoubleQuoted
	stateEscapeSequence
	stateWhitespace
	stateComment
)

func (s state) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateUnquoted:
		return "unquoted"
	case stateSingleQuoted:
		return "single-quoted"
	case stateDoubleQuoted:
		return "double-quoted"
	case stateEscapeSequence:
		return "escape-sequence"
	case stateWhitespace:
		return "whitespace"
	case stateComment:
		return "comment"
	}
	return "unknown"
}

// accepting reports whether input may end in this state.
func (s state) accepting() bool {
	return s != stateDoubleQuoted && s != stateEscapeSequence
}

type emitKind int

const (
	emitNone emitKind = iota
	emitChar
	emitVar
)

// action is what a transition writes to the output.
type action struct {
	kind emitKind
	r    rune
}

var (
	skip      = action{}
	varMarker = action{kind: emitVar, r: '$'}
)

func emitted(r rune) action { return action{kind: emitChar, r: r} }

var escapes = map[rune]rune{
	'f': '\f',
	'n': '\n',
	'r': '\r',
	't': '\t',
	'v': '\v',
}

// step is the transition function of the value transducer. A non-nil error
// names the cause; the caller attaches the subject.
func step(s state, c rune) (state, action, error) {
	switch s {
	case stateInitial:
		switch c {
		case '\'':
			return stateSingleQuoted, skip, nil
		case '"':
			return stateDoubleQuoted, skip, nil
		case '#':
			return stateComment, skip, nil
		case '$':
			return stateUnquoted, varMarker, nil
		}
		return stateUnquoted, emitted(c), nil

	case stateUnquoted:
		switch {
		case c == '#':
			return stateComment, skip, nil
		case c == '$':
			return stateUnquoted, varMarker, nil
		case isSpace(c):
			return stateWhitespace, skip, nil
		}
		return stateUnquoted, emitted(c), nil

	case stateSingleQuoted:
		if c == '\'' {
			return stateWhitespace, skip, nil
		}
		return stateSingleQuoted, emitted(c), nil

	case stateDoubleQuoted:
		switch c {
		case '"':
			return stateWhitespace, skip, nil
		case '\\':
			return stateEscapeSequence, skip, nil
		case '$':
			return stateDoubleQuoted, varMarker, nil
		}
		return stateDoubleQuoted, emitted(c), nil

	case stateEscapeSequence:
		switch c {
		case '"', '\\', '$':
			return stateDoubleQuoted, emitted(c), nil
		}
		if decoded, ok := escapes[c]; ok {
			return stateDoubleQuoted, emitted(decoded), nil
		}
		return s, skip, ErrUnexpectedEscapeSequence

	case stateWhitespace:
		switch {
		case c == '#':
			return stateComment, skip, nil
		case isSpace(c):
			return stateWhitespace, skip, nil
		}
		return s, skip, ErrUnexpectedWhitespace
	}

	return stateComment, skip, nil
}

// parseValue runs the transducer over raw, one rune at a time.
func parseValue(raw string) (Value, error) {
	if strings.Trim(raw, trimset) == "" {
		return BlankValue(), nil
	}

	var (
		out valueBuilder
		cur = stateInitial
	)
	for _, c := range raw {
		next, act, err := step(cur, c)
		if err != nil {
			return Value{}, newParseError(err, raw)
		}
		switch act.kind {
		case emitChar:
			out.emit(act.r)
		case emitVar:
			out.emitVar(act.r)
		}
		cur = next
	}

	if !cur.accepting() {
		return Value{}, newParseError(ErrMissingClosingQuote, raw)
	}
	return out.value(), nil
}

// isSpace matches the ASCII whitespace set: space, \t, \n, \v, \f, \r.
func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
