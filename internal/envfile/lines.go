package envfile

import (
	"strings"
)

// SplitLines splits content on \r\n, \n or \r.
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// AssembleLines groups physical lines into logical entries. Lines inside an
// open double-quoted value are joined with \n; blank lines and comments
// between entries are dropped. A value still open at the end is discarded.
func AssembleLines(lines []string) []string {
	var out []string
	assemble(lines, func(line string, _ int) {
		if !isCommentOrBlank(line) {
			out = append(out, line)
		}
	})
	return out
}

// assemble calls fn for every logical line, including comments and blanks,
// with the number of the physical line it started on. A double-quoted value
// still open at the end is not passed to fn; its joined text and start line
// are returned instead, with an empty rest when every value was closed.
func assemble(lines []string, fn func(line string, num int)) (string, int) {
	var (
		multiline bool
		buffer    []string
		start     int
	)
	for i, line := range lines {
		num := i + 1
		startsHere := !multiline && looksLikeMultilineStart(line)
		if startsHere {
			multiline = true
			start = num
		}

		if multiline {
			buffer = append(buffer, line)
			if !looksLikeMultilineStop(line, startsHere) {
				continue
			}
			multiline = false
			line = strings.Join(buffer, "\n")
			buffer = nil
			num = start
		}

		fn(line, num)
	}
	if multiline {
		return strings.Join(buffer, "\n"), start
	}
	return "", 0
}

func looksLikeMultilineStart(line string) bool {
	if !strings.Contains(line, `="`) {
		return false
	}
	return !looksLikeMultilineStop(line, true)
}

// looksLikeMultilineStop counts quotes preceded by something other than a
// backslash. The opening line needs two of them, later lines one.
func looksLikeMultilineStop(line string, started bool) bool {
	if line == `"` {
		return true
	}

	line = strings.ReplaceAll(line, `\\`, "")
	count := 0
	for i := 1; i < len(line); i++ {
		if line[i] == '"' && line[i-1] != '\\' {
			count++
		}
	}
	if started {
		return count > 1
	}
	return count >= 1
}

func isCommentOrBlank(line string) bool {
	line = strings.Trim(line, trimset)
	return line == "" || line[0] == '#'
}
