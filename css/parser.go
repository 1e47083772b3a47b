package css

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"baseliner/common"
)

// Parser turns CSS text into a flat, depth-first list of structural nodes.
// It accepts nested rules and top-level declarations, so bodies extracted from
// CSS-in-JS (which are declaration lists with nested "&" rules) parse as is.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

type token struct {
	tt   css.TokenType
	data string
	off  int
}

// Parse parses CSS text. The source label is only used to tag node
// locations and errors.
func (p *Parser) Parse(data []byte, source string) ([]Node, error) {
	p.log.Debug("Parsing CSS", zap.String("source", source), zap.Int("bytes", len(data)))

	toks, err := tokenize(data)
	if err != nil {
		return nil, &SyntaxError{Loc: Location{Source: source}, Reason: err.Error()}
	}

	w := &walker{
		toks:   toks,
		lines:  newLineIndex(data),
		source: source,
	}
	if err := w.block(0); err != nil {
		p.log.Debug("CSS parse error", zap.String("source", source), zap.Error(err))
		return nil, err
	}
	p.log.Debug("Parsed CSS", zap.String("source", source), zap.Int("nodes", len(w.nodes)))
	return w.nodes, nil
}

func tokenize(data []byte) ([]token, error) {
	l := css.NewLexer(parse.NewInput(bytes.NewReader(data)))

	var (
		toks []token
		off  int
	)
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		toks = append(toks, token{tt: tt, data: string(text), off: off})
		off += len(text)
	}
}

type walker struct {
	toks   []token
	pos    int
	lines  lineIndex
	source string
	nodes  []Node
}

func (w *walker) loc(t token) Location {
	line, col := w.lines.position(t.off)
	return Location{Source: w.source, Line: line, Column: col}
}

func (w *walker) fail(t token, reason string) error {
	return &SyntaxError{Loc: w.loc(t), Reason: reason}
}

// block consumes statements until the closing brace of the current block
// (or end of input at the top level).
func (w *walker) block(depth int) error {
	for {
		stmt, term, err := w.statement()
		if err != nil {
			return err
		}

		switch term.tt {
		case css.LeftBraceToken:
			w.emitPrelude(stmt, depth)
			if err := w.block(depth + 1); err != nil {
				return err
			}
		case css.RightBraceToken:
			w.emitStatement(stmt, depth)
			if depth == 0 {
				return w.fail(term, "unexpected '}'")
			}
			return nil
		case css.SemicolonToken:
			w.emitStatement(stmt, depth)
		case css.ErrorToken:
			w.emitStatement(stmt, depth)
			if depth > 0 {
				return w.fail(term, "unclosed block at end of input")
			}
			return nil
		}
	}
}

// statement collects significant tokens up to a terminator at parenthesis
// depth zero. End of input is reported as a terminator of ErrorToken type.
func (w *walker) statement() ([]token, token, error) {
	var (
		stmt  []token
		paren int
	)
	for w.pos < len(w.toks) {
		t := w.toks[w.pos]
		w.pos++

		switch t.tt {
		case css.CommentToken:
			continue
		case css.BadStringToken:
			return nil, t, w.fail(t, "unclosed string")
		case css.BadURLToken:
			return nil, t, w.fail(t, "malformed url()")
		case css.FunctionToken, css.LeftParenthesisToken:
			paren++
		case css.RightParenthesisToken:
			if paren > 0 {
				paren--
			}
		case css.LeftBraceToken, css.RightBraceToken:
			return stmt, t, nil
		case css.SemicolonToken:
			if paren == 0 {
				return stmt, t, nil
			}
		}
		stmt = append(stmt, t)
	}
	end := token{tt: css.ErrorToken}
	if len(w.toks) > 0 {
		last := w.toks[len(w.toks)-1]
		end.off = last.off + len(last.data)
	}
	return stmt, end, nil
}

// emitPrelude records a statement that opens a block: an at-rule or a rule.
func (w *walker) emitPrelude(stmt []token, depth int) {
	stmt = trimSpace(stmt)
	if len(stmt) == 0 {
		w.nodes = append(w.nodes, Node{Kind: common.NodeKindSelector, Depth: depth, Loc: w.loc(w.toks[w.pos-1])})
		return
	}
	if stmt[0].tt == css.AtKeywordToken {
		w.emitAtRule(stmt, depth)
		return
	}
	w.nodes = append(w.nodes, Node{
		Kind:  common.NodeKindSelector,
		Name:  joinTokens(stmt),
		Depth: depth,
		Loc:   w.loc(stmt[0]),
	})
}

// emitStatement records a statement that does not open a block: a
// declaration or a block-less at-rule.
func (w *walker) emitStatement(stmt []token, depth int) {
	stmt = trimSpace(stmt)
	if len(stmt) == 0 {
		return
	}
	if stmt[0].tt == css.AtKeywordToken {
		w.emitAtRule(stmt, depth)
		return
	}

	n := Node{Kind: common.NodeKindDeclaration, Depth: depth, Loc: w.loc(stmt[0])}
	colon := -1
	for i, t := range stmt {
		if t.tt == css.ColonToken {
			colon = i
			break
		}
	}
	if colon < 0 {
		// Not a declaration we understand; keep it as an opaque name.
		n.Name = joinTokens(stmt)
		w.nodes = append(w.nodes, n)
		return
	}
	n.Name = joinTokens(trimSpace(stmt[:colon]))
	n.Value, n.Important = splitImportant(joinTokens(trimSpace(stmt[colon+1:])))
	w.nodes = append(w.nodes, n)
}

func (w *walker) emitAtRule(stmt []token, depth int) {
	w.nodes = append(w.nodes, Node{
		Kind:   common.NodeKindAtRule,
		Name:   strings.TrimPrefix(stmt[0].data, "@"),
		Params: joinTokens(trimSpace(stmt[1:])),
		Depth:  depth,
		Loc:    w.loc(stmt[0]),
	})
}

func trimSpace(stmt []token) []token {
	for len(stmt) > 0 && stmt[0].tt == css.WhitespaceToken {
		stmt = stmt[1:]
	}
	for len(stmt) > 0 && stmt[len(stmt)-1].tt == css.WhitespaceToken {
		stmt = stmt[:len(stmt)-1]
	}
	return stmt
}

// joinTokens rebuilds text from tokens collapsing whitespace runs to a single
// space.
func joinTokens(stmt []token) string {
	var sb strings.Builder
	space := false
	for _, t := range stmt {
		if t.tt == css.WhitespaceToken {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteString(t.data)
	}
	return sb.String()
}

func splitImportant(value string) (string, bool) {
	lower := strings.ToLower(value)
	i := strings.LastIndex(lower, "!")
	if i < 0 {
		return value, false
	}
	if strings.TrimSpace(lower[i+1:]) != "important" {
		return value, false
	}
	return strings.TrimSpace(value[:i]), true
}

// lineIndex maps byte offsets to 1-based line and column numbers.
type lineIndex []int

func newLineIndex(data []byte) lineIndex {
	idx := lineIndex{0}
	for i, b := range data {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (idx lineIndex) position(off int) (int, int) {
	line := sort.Search(len(idx), func(i int) bool { return idx[i] > off }) - 1
	if line < 0 {
		line = 0
	}
	return line + 1, off - idx[line] + 1
}
