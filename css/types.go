package css

import (
	"fmt"

	"baseliner/common"
	"baseliner/utils/debug"
)

// Location points at the first significant token of a parsed construct. It
// is carried for diagnostics only.
type Location struct {
	Source string // label passed to Parse (file path or unit id)
	Line   int    // 1-based
	Column int    // 1-based, in bytes
}

func (l Location) String() string {
	if l.Source == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
}

// Node is one structural construct of a stylesheet: a declaration, an
// at-rule or a rule (keyed by its full selector text).
type Node struct {
	Kind      common.NodeKind
	Name      string // property, at-rule name without "@", or selector text
	Value     string // declaration value, "!important" stripped
	Params    string // at-rule prelude
	Important bool
	Depth     int // block nesting level, 0 for top level
	Loc       Location
}

// SyntaxError is returned by Parse when CSS text cannot be tokenized or its
// blocks do not balance.
type SyntaxError struct {
	Loc    Location
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("css syntax error at %s: %s", e.Loc, e.Reason)
}

// Dump renders nodes as an indented tree, used in debug reports.
func Dump(nodes []Node) string {
	tw := debug.NewTreeWriter()
	for _, n := range nodes {
		switch n.Kind {
		case common.NodeKindDeclaration:
			if n.Important {
				tw.Line(n.Depth, "%s: %s !important", n.Name, n.Value)
			} else {
				tw.Line(n.Depth, "%s: %s", n.Name, n.Value)
			}
		case common.NodeKindAtRule:
			if n.Params == "" {
				tw.Line(n.Depth, "@%s", n.Name)
			} else {
				tw.Line(n.Depth, "@%s %s", n.Name, n.Params)
			}
		case common.NodeKindSelector:
			tw.TextBlock(n.Depth, "rule", n.Name)
		}
	}
	return tw.String()
}
