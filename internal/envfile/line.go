package envfile

type LineType int

const (
	LineTypeEmpty LineType = iota
	LineTypeComment
	LineTypeEntry
)

// Line is one logical line of a file. Raw may span several physical lines
// when it holds a multiline double-quoted value.
type Line struct {
	Type  LineType
	Num   int
	Raw   string
	Entry Entry
}
