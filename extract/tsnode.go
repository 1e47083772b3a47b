package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"baseliner/css"
)

// languageFor picks grammar by extension. TSX is a superset for everything
// except TypeScript angle bracket casts, so it is the default.
func languageFor(sourcePath string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	default:
		return tsx.GetLanguage()
	}
}

// parseScript returns syntax tree or an error describing the first syntax
// problem. Caller must close the tree.
func parseScript(ctx context.Context, lang *sitter.Language, src []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(lang)

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()
	if root.HasError() {
		defer tree.Close()
		if bad := firstError(root); bad != nil {
			pt := bad.StartPoint()
			return nil, fmt.Errorf("syntax error at line %d, column %d", pt.Row+1, pt.Column+1)
		}
		return nil, fmt.Errorf("syntax error")
	}
	return tree, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.HasError() && !c.IsMissing() {
			continue
		}
		if bad := firstError(c); bad != nil {
			return bad
		}
	}
	return nil
}

// walk visits named nodes depth-first. Returning false from fn skips the
// node's children.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), fn)
	}
}

// namedChildren returns named children leaving comments out.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// unwrap strips wrappers that do not change the value of an expression.
func unwrap(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
			kids := namedChildren(n)
			if len(kids) == 0 {
				return n
			}
			n = kids[0]
		default:
			return n
		}
	}
	return n
}

func nodeLoc(source string, n *sitter.Node) css.Location {
	pt := n.StartPoint()
	return css.Location{Source: source, Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

// stringValue returns unquoted text of a string literal node. Escapes are
// kept raw, as the CSS parser understands them.
func stringValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	s := n.Content(src)
	if len(s) < 2 {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// templateText returns raw text of a template string with every
// substitution replaced by placeholder.
func templateText(n *sitter.Node, src []byte, placeholder string) (string, int) {
	start, end := int(n.StartByte())+1, int(n.EndByte())-1
	if end < start {
		return "", 0
	}

	var (
		sb    strings.Builder
		count int
		pos   = start
	)
	for _, c := range namedChildren(n) {
		if c.Type() != "template_substitution" {
			continue
		}
		sb.Write(src[pos:int(c.StartByte())])
		sb.WriteString(placeholder)
		pos = int(c.EndByte())
		count++
	}
	sb.Write(src[pos:end])
	return sb.String(), count
}

// literalText returns static text of a string or template string. Template
// strings with substitutions have no static text.
func literalText(n *sitter.Node, src []byte) (string, bool) {
	n = unwrap(n)
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string":
		return stringValue(n, src)
	case "template_string":
		text, count := templateText(n, src, Placeholder)
		if count > 0 {
			return "", false
		}
		return text, true
	}
	return "", false
}

// propertyKey returns static key of an object pair.
func propertyKey(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "identifier":
		return n.Content(src), true
	case "string":
		return stringValue(n, src)
	case "number":
		return n.Content(src), true
	}
	// computed keys are dynamic
	return "", false
}

// objectValue converts a JS expression to a style object value. Dynamic
// expressions come back as nil and produce no CSS.
func objectValue(n *sitter.Node, src []byte) any {
	n = unwrap(n)
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "string", "template_string":
		s, ok := literalText(n, src)
		if !ok || strings.HasPrefix(s, "$") {
			// theme tokens need runtime context
			return nil
		}
		return s
	case "number":
		if f, ok := parseNumber(n.Content(src)); ok {
			return f
		}
	case "unary_expression":
		arg := unwrap(n.ChildByFieldName("argument"))
		op := n.ChildByFieldName("operator")
		if arg != nil && arg.Type() == "number" {
			if f, ok := parseNumber(arg.Content(src)); ok {
				if op != nil && op.Content(src) == "-" {
					f = -f
				}
				return f
			}
		}
	case "true":
		return true
	case "false":
		return false
	case "array":
		var out []any
		for _, c := range namedChildren(n) {
			out = append(out, objectValue(c, src))
		}
		return out
	case "object":
		return styleObject(n, src, nil)
	}
	return nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "_", "")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i), true
	}
	return 0, false
}

// styleObject converts an object literal. Keys rejected by skip are left
// out; nil skip keeps everything.
func styleObject(n *sitter.Node, src []byte, skip func(key string) bool) css.Object {
	var obj css.Object
	for _, c := range namedChildren(n) {
		if c.Type() != "pair" {
			// spreads, shorthands and methods are dynamic
			continue
		}
		key, ok := propertyKey(c.ChildByFieldName("key"), src)
		if !ok || key == "" {
			continue
		}
		if skip != nil && skip(key) {
			continue
		}
		obj = append(obj, css.Property{Key: key, Value: objectValue(c.ChildByFieldName("value"), src)})
	}
	return obj
}

// argumentList returns call arguments, nil for tagged templates.
func argumentList(call *sitter.Node) []*sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.Type() != "arguments" {
		return nil
	}
	return namedChildren(args)
}

// rootIdentifier follows member and call chains (styled.div.attrs(...))
// down to the base identifier.
func rootIdentifier(n *sitter.Node, src []byte) string {
	for n != nil {
		switch n.Type() {
		case "identifier":
			return n.Content(src)
		case "member_expression":
			n = n.ChildByFieldName("object")
		case "call_expression":
			n = n.ChildByFieldName("function")
		default:
			return ""
		}
	}
	return ""
}
