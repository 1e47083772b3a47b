// Package debug has helpers producing human readable artifacts for debug
// reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

// TreeWriter renders indented outlines, one construct per line.
type TreeWriter struct {
	b strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.b.String()
}

func (tw *TreeWriter) pad(depth int) {
	tw.b.WriteString(strings.Repeat(indent, max(depth, 0)))
}

// Section starts a new top level block, separated from the previous one by
// an empty line.
func (tw *TreeWriter) Section(format string, args ...any) {
	if tw.b.Len() > 0 {
		tw.b.WriteByte('\n')
	}
	tw.b.WriteString("== ")
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteString(" ==\n")
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// TextBlock writes label with quoted value so that multi line text (selectors,
// extracted CSS) stays on a single line.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.pad(depth)
	tw.b.WriteString(label)
	tw.b.WriteString(": ")
	tw.b.WriteString(encodeText(value))
	tw.b.WriteByte('\n')
}

func encodeText(raw string) string {
	return strconv.Quote(raw)
}
