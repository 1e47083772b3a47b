package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"baseliner/common"
)

// Angular extracts inline styles of @Component decorators. Selector syntax
// specific to Angular (:host, ::ng-deep) is passed through untouched.
func (e *Extractor) Angular(ctx context.Context, src []byte, sourcePath string) (res Result) {
	res.Source = sourcePath
	defer e.guard(&res, "angular")

	tree, err := parseScript(ctx, languageFor(sourcePath), src)
	if err != nil {
		res.errorf("Failed to parse Angular component %s: %v", sourcePath, err)
		return res
	}
	defer tree.Close()

	styleUrls := false
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Type() != "decorator" {
			return true
		}
		config := componentConfig(n, src)
		if config == nil {
			return false
		}
		if e.componentStyles(config, src, &res) {
			styleUrls = true
		}
		return false
	})

	if len(res.Fragments) == 0 && styleUrls {
		res.errorf("Component uses 'styleUrls': external style sheets are not analyzed, use inline 'styles' or declare features manually")
	}

	e.log.Debug("Angular styles extracted", zap.String("source", sourcePath),
		zap.Int("fragments", len(res.Fragments)), zap.Int("errors", len(res.Errors)))
	return res
}

// componentConfig returns the object literal passed to @Component(...).
func componentConfig(decorator *sitter.Node, src []byte) *sitter.Node {
	for _, c := range namedChildren(decorator) {
		if c.Type() != "call_expression" {
			continue
		}
		fn := c.ChildByFieldName("function")
		if fn == nil || fn.Type() != "identifier" || fn.Content(src) != "Component" {
			continue
		}
		args := argumentList(c)
		if len(args) == 0 {
			return nil
		}
		if cfg := unwrap(args[0]); cfg.Type() == "object" {
			return cfg
		}
	}
	return nil
}

// componentStyles adds fragments of one component and reports whether it
// references external style sheets.
func (e *Extractor) componentStyles(config *sitter.Node, src []byte, res *Result) (styleUrls bool) {
	var (
		encapsulation string
		styles        *sitter.Node
	)
	for _, pair := range namedChildren(config) {
		if pair.Type() != "pair" {
			continue
		}
		key, ok := propertyKey(pair.ChildByFieldName("key"), src)
		if !ok {
			continue
		}
		value := unwrap(pair.ChildByFieldName("value"))
		switch key {
		case "encapsulation":
			// ViewEncapsulation.ShadowDom
			if value != nil && value.Type() == "member_expression" {
				if prop := value.ChildByFieldName("property"); prop != nil {
					encapsulation = prop.Content(src)
				}
			}
		case "styles":
			styles = value
		case "styleUrls", "styleUrl":
			styleUrls = true
		}
	}
	if styles == nil {
		return styleUrls
	}

	elements := []*sitter.Node{styles}
	if styles.Type() == "array" {
		elements = namedChildren(styles)
	}
	for _, el := range elements {
		el = unwrap(el)
		var (
			text  string
			count int
		)
		switch el.Type() {
		case "string":
			text, _ = stringValue(el, src)
		case "template_string":
			text, count = templateText(el, src, Placeholder)
		default:
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		res.Fragments = append(res.Fragments, Fragment{
			CSS:            text,
			Origin:         common.OriginAngularComponent,
			Pattern:        "component styles",
			Loc:            nodeLoc(res.Source, el),
			Interpolations: count,
			Encapsulation:  encapsulation,
		})
	}
	return styleUrls
}
