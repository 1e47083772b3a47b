package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"baseliner/common"
	"baseliner/css"
)

// Modules each CSS-in-JS flavor is imported from. Sub-paths
// (styled-components/native) belong to the same flavor.
var libraryModules = []struct {
	module string
	origin common.Origin
}{
	{"styled-components", common.OriginStyledComponents},
	{"@emotion/styled", common.OriginEmotion},
	{"@emotion/react", common.OriginEmotion},
	{"@emotion/css", common.OriginEmotion},
	{"@stitches/react", common.OriginStitches},
	{"@stitches/core", common.OriginStitches},
	{"vue-styled-components", common.OriginVueStyledComponents},
	{"pinceau", common.OriginPinceau},
	{"@pinceau/vue", common.OriginPinceau},
}

func originForModule(module string) (common.Origin, bool) {
	for _, lm := range libraryModules {
		if module == lm.module || strings.HasPrefix(module, lm.module+"/") {
			return lm.origin, true
		}
	}
	return "", false
}

// binding is what an imported local name refers to.
type binding struct {
	imported string // exported name, "default" or "*"
	module   string
}

type jsScan struct {
	src      []byte
	source   string
	opts     Options
	bindings map[string]binding
	res      *Result
}

// CSSInJS extracts CSS from styled-components, Emotion, Stitches, Pinceau
// and vue-styled-components constructs of a JavaScript or TypeScript module.
func (e *Extractor) CSSInJS(ctx context.Context, src []byte, sourcePath string) (res Result) {
	res.Source = sourcePath
	defer e.guard(&res, "css-in-js")

	tree, err := parseScript(ctx, languageFor(sourcePath), src)
	if err != nil {
		res.errorf("Failed to parse %s: %v", sourcePath, err)
		return res
	}
	defer tree.Close()

	s := &jsScan{
		src:      src,
		source:   sourcePath,
		opts:     e.opts,
		bindings: collectImports(tree.RootNode(), src),
		res:      &res,
	}
	walk(tree.RootNode(), s.visit)

	e.log.Debug("CSS-in-JS extracted", zap.String("source", sourcePath),
		zap.Int("fragments", len(res.Fragments)), zap.Int("errors", len(res.Errors)))
	return res
}

func collectImports(root *sitter.Node, src []byte) map[string]binding {
	out := make(map[string]binding)
	for _, stmt := range namedChildren(root) {
		if stmt.Type() != "import_statement" {
			continue
		}
		module, ok := stringValue(stmt.ChildByFieldName("source"), src)
		if !ok {
			continue
		}
		for _, clause := range namedChildren(stmt) {
			if clause.Type() != "import_clause" {
				continue
			}
			for _, c := range namedChildren(clause) {
				switch c.Type() {
				case "identifier":
					out[c.Content(src)] = binding{imported: "default", module: module}
				case "namespace_import":
					for _, id := range namedChildren(c) {
						out[id.Content(src)] = binding{imported: "*", module: module}
					}
				case "named_imports":
					for _, spec := range namedChildren(c) {
						if spec.Type() != "import_specifier" {
							continue
						}
						name := spec.ChildByFieldName("name")
						if name == nil {
							continue
						}
						local := name
						if alias := spec.ChildByFieldName("alias"); alias != nil {
							local = alias
						}
						out[local.Content(src)] = binding{imported: name.Content(src), module: module}
					}
				}
			}
		}
	}
	return out
}

// role returns the library function a local identifier stands for. Default
// imports of styling libraries are their styled factory; names that are not
// imported at all are taken at face value.
func (s *jsScan) role(local string) string {
	b, ok := s.bindings[local]
	if !ok {
		return local
	}
	if _, known := originForModule(b.module); !known {
		return local
	}
	if b.imported == "default" {
		return "styled"
	}
	return b.imported
}

func (s *jsScan) origin(local string, fallback common.Origin) common.Origin {
	if b, ok := s.bindings[local]; ok {
		if o, known := originForModule(b.module); known {
			return o
		}
	}
	return fallback
}

func (s *jsScan) visit(n *sitter.Node) bool {
	switch n.Type() {
	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args != nil && args.Type() == "template_string" {
			s.taggedTemplate(n, args)
		} else {
			s.objectCall(n)
		}
	case "jsx_attribute":
		return s.cssProp(n)
	}
	return true
}

func (s *jsScan) add(f Fragment) {
	if strings.TrimSpace(f.CSS) == "" || !s.opts.wants(f.Origin) {
		return
	}
	s.res.Fragments = append(s.res.Fragments, f)
}

func (s *jsScan) template(tpl *sitter.Node) (string, int) {
	placeholder := Placeholder
	if s.opts.IgnoreInterpolations {
		placeholder = ""
	}
	return templateText(tpl, s.src, placeholder)
}

// tagPattern classifies the tag of a tagged template.
func (s *jsScan) tagPattern(tag *sitter.Node) (pattern string, root string, fallback common.Origin, ok bool) {
	tag = unwrap(tag)
	if tag == nil {
		return "", "", "", false
	}
	switch tag.Type() {
	case "member_expression", "call_expression":
		root = rootIdentifier(tag, s.src)
		if s.role(root) == "styled" {
			return "styled component", root, common.OriginStyledComponents, true
		}
	case "identifier":
		root = tag.Content(s.src)
		switch s.role(root) {
		case "css":
			return "css helper", root, common.OriginStyledComponents, true
		case "createGlobalStyle":
			return "global styles", root, common.OriginStyledComponents, true
		case "keyframes":
			return "keyframes animation", root, common.OriginStyledComponents, true
		case "Global":
			return "Global component", root, common.OriginEmotion, true
		}
	}
	return "", "", "", false
}

func (s *jsScan) taggedTemplate(call, tpl *sitter.Node) {
	pattern, root, fallback, ok := s.tagPattern(call.ChildByFieldName("function"))
	if !ok {
		return
	}
	text, count := s.template(tpl)
	s.add(Fragment{
		CSS:            text,
		Origin:         s.origin(root, fallback),
		Pattern:        pattern,
		Loc:            nodeLoc(s.source, call),
		Interpolations: count,
	})
}

func (s *jsScan) objectCall(call *sitter.Node) {
	fn := unwrap(call.ChildByFieldName("function"))
	args := argumentList(call)
	if fn == nil || len(args) == 0 {
		return
	}

	var (
		pattern  string
		root     string
		fallback common.Origin
		obj      *sitter.Node
	)
	switch fn.Type() {
	case "identifier":
		root = fn.Content(s.src)
		switch s.role(root) {
		case "styled":
			if len(args) >= 2 {
				pattern, fallback, obj = "styled component", common.OriginStitches, args[1]
			}
		case "css":
			pattern, fallback, obj = "css() function", common.OriginEmotion, args[0]
		case "globalCss":
			pattern, fallback, obj = "global styles", common.OriginStitches, args[0]
		}
	case "member_expression":
		// styled.div({...})
		object := unwrap(fn.ChildByFieldName("object"))
		if object != nil && object.Type() == "identifier" && s.role(object.Content(s.src)) == "styled" {
			root = object.Content(s.src)
			pattern, fallback, obj = "styled component", common.OriginEmotion, args[0]
		}
	}
	obj = unwrap(obj)
	if obj == nil || obj.Type() != "object" {
		return
	}

	origin := s.origin(root, fallback)
	text, variants := s.objectCSS(obj, origin)
	s.add(Fragment{
		CSS:         text,
		Origin:      origin,
		Pattern:     pattern,
		Loc:         nodeLoc(s.source, call),
		HasVariants: variants,
	})
}

var stitchesVariantKeys = map[string]struct{}{
	"variants":         {},
	"compoundVariants": {},
	"defaultVariants":  {},
}

// objectCSS converts a style object literal with the rules of the flavor.
func (s *jsScan) objectCSS(obj *sitter.Node, origin common.Origin) (string, bool) {
	switch origin {
	case common.OriginStitches:
		variants := false
		o := styleObject(obj, s.src, func(key string) bool {
			if _, ok := stitchesVariantKeys[key]; ok {
				variants = true
				return true
			}
			return false
		})
		return css.ObjectToCSS(o), variants
	case common.OriginPinceau, common.OriginVueStyledComponents:
		return css.FlatObjectToCSS(styleObject(obj, s.src, nil)), false
	default:
		return css.ObjectToCSS(styleObject(obj, s.src, nil)), false
	}
}

// cssProp handles css={...} JSX attributes. Tagged templates are consumed
// here so they are not reported twice.
func (s *jsScan) cssProp(attr *sitter.Node) bool {
	kids := namedChildren(attr)
	if len(kids) < 2 || kids[0].Content(s.src) != "css" || kids[1].Type() != "jsx_expression" {
		return true
	}
	exprs := namedChildren(kids[1])
	if len(exprs) == 0 {
		return true
	}
	expr := unwrap(exprs[0])

	switch expr.Type() {
	case "object":
		text, _ := s.objectCSS(expr, common.OriginEmotion)
		s.add(Fragment{
			CSS:     text,
			Origin:  common.OriginEmotion,
			Pattern: "css prop (object)",
			Loc:     nodeLoc(s.source, attr),
		})
		return false
	case "call_expression":
		tpl := expr.ChildByFieldName("arguments")
		if tpl == nil || tpl.Type() != "template_string" {
			return true
		}
		root := rootIdentifier(expr.ChildByFieldName("function"), s.src)
		text, count := s.template(tpl)
		s.add(Fragment{
			CSS:            text,
			Origin:         s.origin(root, common.OriginEmotion),
			Pattern:        "css prop (template)",
			Loc:            nodeLoc(s.source, attr),
			Interpolations: count,
		})
		// substitutions may still hold nested helpers
		for _, sub := range namedChildren(tpl) {
			walk(sub, s.visit)
		}
		return false
	}
	return true
}
