// Package extract locates CSS embedded in host syntaxes (style sheets,
// CSS-in-JS calls, Angular component decorators, Vue single file components)
// and returns it as plain CSS text fragments. Nothing is ever evaluated, all
// inspection is static.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"

	"go.uber.org/zap"

	"baseliner/common"
	"baseliner/css"
)

// Placeholder stands in for every template interpolation.
const Placeholder = "/* dynamic */"

// Fragment is CSS text pulled out of a single occurrence in the source.
type Fragment struct {
	CSS     string
	Origin  common.Origin
	Pattern string // human readable name of the matched construct
	Loc     css.Location

	// Number of template interpolations replaced in CSS.
	Interpolations int
	// Stitches style object carried variants which were not extracted.
	HasVariants bool

	// Vue style block attributes.
	Scoped bool
	Module bool
	Lang   string

	// Angular view encapsulation mode (Emulated, None, ShadowDom) if declared.
	Encapsulation string
}

// Result is the outcome of running a front-end over one source unit. Errors
// are advisory, extraction of sibling occurrences is not affected by them.
type Result struct {
	Source    string
	Fragments []Fragment
	Errors    []string
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Combine joins fragment texts into one CSS document.
func Combine(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		parts = append(parts, f.CSS)
	}
	return strings.Join(parts, "\n\n")
}

// FrontEnd is the contract every syntax front-end implements.
type FrontEnd func(ctx context.Context, src []byte, sourcePath string) Result

// Kind names a front-end.
type Kind string

const (
	KindCSS     Kind = "css"
	KindCSSInJS Kind = "css-in-js"
	KindVue     Kind = "vue"
	KindAngular Kind = "angular"
)

// Options tune the CSS-in-JS front-end.
type Options struct {
	// Libraries limits extraction to the listed flavors, empty means all.
	Libraries []common.Origin
	// IgnoreInterpolations drops interpolation placeholders from the text.
	IgnoreInterpolations bool
}

func (o Options) wants(origin common.Origin) bool {
	return len(o.Libraries) == 0 || slices.Contains(o.Libraries, origin)
}

// ParseLibraries converts configured library names, "all" selects every
// flavor.
func ParseLibraries(names []string) ([]common.Origin, error) {
	var out []common.Origin
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			return nil, nil
		}
		o, err := common.ParseLibrary(name)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Extractor holds configuration shared by the front-ends. It keeps no
// state between calls and is safe for concurrent use.
type Extractor struct {
	opts Options
	log  *zap.Logger
}

// New creates extractor.
func New(opts Options, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{opts: opts, log: log.Named("extract")}
}

// FrontEnd returns the front-end for kind or nil.
func (e *Extractor) FrontEnd(kind Kind) FrontEnd {
	switch kind {
	case KindCSS:
		return e.PlainCSS
	case KindCSSInJS:
		return e.CSSInJS
	case KindVue:
		return e.Vue
	case KindAngular:
		return e.Angular
	}
	return nil
}

// KindForPath guesses front-end from file name. Angular components are
// recognized by content since they share the extension with other scripts.
func KindForPath(path string, src []byte) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css", ".pcss", ".postcss":
		return KindCSS, true
	case ".vue":
		return KindVue, true
	case ".ts", ".mts", ".cts":
		if strings.Contains(string(src), "@Component(") {
			return KindAngular, true
		}
		return KindCSSInJS, true
	case ".tsx", ".js", ".jsx", ".mjs", ".cjs":
		return KindCSSInJS, true
	}
	return "", false
}

// guard converts a panic inside a front-end into an advisory error.
func (e *Extractor) guard(res *Result, what string) {
	if r := recover(); r != nil {
		e.log.Error("Front-end panic", zap.String("frontend", what), zap.String("source", res.Source),
			zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		res.Fragments = nil
		res.errorf("Failed to analyze %s: internal error: %v", res.Source, r)
	}
}

// PlainCSS passes style sheet text through as a single fragment.
func (e *Extractor) PlainCSS(_ context.Context, src []byte, sourcePath string) (res Result) {
	res.Source = sourcePath
	defer e.guard(&res, "css")

	if strings.TrimSpace(string(src)) == "" {
		return res
	}
	res.Fragments = append(res.Fragments, Fragment{
		CSS:     string(src),
		Origin:  common.OriginCss,
		Pattern: "style sheet",
		Loc:     css.Location{Source: sourcePath, Line: 1, Column: 1},
	})
	return res
}

func location(source string, src []byte, off int) css.Location {
	if off > len(src) {
		off = len(src)
	}
	line := 1 + strings.Count(string(src[:off]), "\n")
	col := off + 1
	if i := strings.LastIndexByte(string(src[:off]), '\n'); i >= 0 {
		col = off - i
	}
	return css.Location{Source: source, Line: line, Column: col}
}
