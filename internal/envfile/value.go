package envfile

import (
	"slices"
	"strings"
)

// Value is a decoded entry value. Vars holds the byte offsets of every '$'
// that may start a ${NAME} reference, highest offset first.
type Value struct {
	chars string
	vars  []int
}

// BlankValue returns the empty value.
func BlankValue() Value { return Value{} }

// NewValue builds a value from already decoded text and reference offsets.
func NewValue(chars string, vars ...int) Value {
	sorted := slices.Clone(vars)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })
	return Value{chars: chars, vars: sorted}
}

func (v Value) Chars() string { return v.chars }

// Vars returns a copy of the reference offsets in descending order. Offsets
// index bytes of Chars, not runes.
func (v Value) Vars() []int { return slices.Clone(v.vars) }

func (v Value) IsBlank() bool { return v.chars == "" }

func (v Value) String() string { return v.chars }

// valueBuilder accumulates transducer output and freezes it into a Value.
type valueBuilder struct {
	sb   strings.Builder
	vars []int
}

func (b *valueBuilder) emit(r rune) {
	b.sb.WriteRune(r)
}

func (b *valueBuilder) emitVar(r rune) {
	b.vars = append(b.vars, b.sb.Len())
	b.sb.WriteRune(r)
}

func (b *valueBuilder) value() Value {
	return NewValue(b.sb.String(), b.vars...)
}
