package envfile

import (
	"regexp"
)

// LookupFunc returns the current value of a variable.
type LookupFunc func(name string) (string, bool)

var referencePattern = regexp.MustCompile(`^\$\{([a-zA-Z0-9_.]+)\}`)

// Resolve substitutes ${NAME} references at the offsets recorded in v.
// Offsets are visited from the right so earlier ones stay valid. Unknown
// names are left as written and substituted text is not scanned again.
func Resolve(v Value, lookup LookupFunc) string {
	s := v.Chars()
	for _, i := range v.Vars() {
		if i < 0 || i >= len(s) {
			continue
		}
		tail := s[i:]
		m := referencePattern.FindStringSubmatchIndex(tail)
		if m == nil {
			continue
		}
		replacement, ok := lookup(tail[m[2]:m[3]])
		if !ok {
			continue
		}
		s = s[:i] + replacement + tail[m[1]:]
	}
	return s
}
