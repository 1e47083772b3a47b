package features

import "strings"

// rule receives lowercase name and value (params for at-rules).
type rule func(name, value string) string

var declarationRules = []rule{
	byProperty,
	byDisplay,
	byPosition,
	bySubgrid,
	byValueFunction,
	byNesting,
}

var atRuleRules = []rule{
	byAtRuleName,
}

var selectorRules = []rule{
	bySelector,
	bySelectorNesting,
}

var properties = map[string]string{
	"container":                  "container-queries",
	"container-type":             "container-queries",
	"container-name":             "container-queries",
	"aspect-ratio":               "aspect-ratio",
	"accent-color":               "accent-color",
	"backdrop-filter":            "backdrop-filter",
	"-webkit-backdrop-filter":    "backdrop-filter",
	"font-size-adjust":           "font-size-adjust",
	"font-variant-alternates":    "font-variant-alternates",
	"filter":                     "filter",
	"transform":                  "transforms2d",
	"transform-origin":           "transforms2d",
	"translate":                  "individual-transforms",
	"rotate":                     "individual-transforms",
	"scale":                      "individual-transforms",
	"perspective":                "transforms3d",
	"perspective-origin":         "transforms3d",
	"transform-style":            "transforms3d",
	"backface-visibility":        "transforms3d",
	"inset":                      "logical-properties",
	"inline-size":                "logical-properties",
	"block-size":                 "logical-properties",
	"min-inline-size":            "logical-properties",
	"max-inline-size":            "logical-properties",
	"min-block-size":             "logical-properties",
	"max-block-size":             "logical-properties",
	"border-start-start-radius":  "logical-properties",
	"border-start-end-radius":    "logical-properties",
	"border-end-start-radius":    "logical-properties",
	"border-end-end-radius":      "logical-properties",
	"color-scheme":               "color-scheme",
	"overscroll-behavior":        "overscroll-behavior",
	"overscroll-behavior-x":      "overscroll-behavior",
	"overscroll-behavior-y":      "overscroll-behavior",
	"overscroll-behavior-inline": "overscroll-behavior",
	"overscroll-behavior-block":  "overscroll-behavior",
	"content-visibility":         "content-visibility",
	"anchor-name":                "anchor-positioning",
	"position-anchor":            "anchor-positioning",
	"position-area":              "anchor-positioning",
	"view-transition-name":       "view-transitions",
	"field-sizing":               "field-sizing",
	"scrollbar-gutter":           "scrollbar-gutter",
	"scrollbar-width":            "scrollbar-width",
	"scrollbar-color":            "scrollbar-color",
}

// Property families matched by prefix, checked after the exact table.
var propertyPrefixes = []struct {
	prefix string
	id     string
}{
	{"scroll-snap-", "scroll-snap"},
	{"scroll-padding", "scroll-snap"},
	{"scroll-margin", "scroll-snap"},
	{"mask", "masks"},
	{"-webkit-mask", "masks"},
	{"margin-inline", "logical-properties"},
	{"margin-block", "logical-properties"},
	{"padding-inline", "logical-properties"},
	{"padding-block", "logical-properties"},
	{"inset-inline", "logical-properties"},
	{"inset-block", "logical-properties"},
	{"border-inline", "logical-properties"},
	{"border-block", "logical-properties"},
}

func byProperty(name, _ string) string {
	if id, ok := properties[name]; ok {
		return id
	}
	for _, p := range propertyPrefixes {
		if strings.HasPrefix(name, p.prefix) {
			return p.id
		}
	}
	return ""
}

func byDisplay(name, value string) string {
	if name != "display" {
		return ""
	}
	switch {
	case strings.Contains(value, "grid"):
		return "grid"
	case strings.Contains(value, "flex"):
		return "flexbox"
	}
	return ""
}

func byPosition(name, value string) string {
	if name == "position" && strings.Contains(value, "sticky") {
		return "sticky-positioning"
	}
	return ""
}

func bySubgrid(_, value string) string {
	if strings.Contains(value, "subgrid") {
		return "subgrid"
	}
	return ""
}

var valueFunctions = []struct {
	names []string
	id    string
}{
	{[]string{"clamp", "min", "max"}, "math-functions"},
	{[]string{"color-mix"}, "color-mix"},
	{[]string{"color"}, "color-function"},
	{[]string{"lab", "lch"}, "lab-colors"},
	{[]string{"oklab", "oklch"}, "oklch-colors"},
	{[]string{"hwb"}, "hwb-colors"},
}

// byValueFunction matches whole function names rather than substrings:
// minmax( does not count as max(, oklab( does not count as lab(.
func byValueFunction(_, value string) string {
	for _, vf := range valueFunctions {
		for _, fn := range vf.names {
			if hasFunction(value, fn) {
				return vf.id
			}
		}
	}
	return ""
}

// hasFunction looks for a call of fn in value. The name must not be a tail
// of a longer identifier, so minmax( is not max( and oklab( is not lab(.
func hasFunction(value, fn string) bool {
	call := fn + "("
	for from := 0; ; {
		i := strings.Index(value[from:], call)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 || !isIdentChar(value[i-1]) {
			return true
		}
		from = i + len(call)
	}
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func byNesting(_, value string) string {
	if strings.Contains(value, "&") {
		return "nesting"
	}
	return ""
}

var atRules = map[string]string{
	"container":      "container-queries",
	"supports":       "supports",
	"layer":          "cascade-layers",
	"property":       "at-property",
	"scope":          "cascade-scope",
	"starting-style": "starting-style",
}

func byAtRuleName(name, _ string) string {
	return atRules[name]
}

var selectors = []struct {
	needle string
	id     string
}{
	{":has(", "has"},
	{":is(", "is"},
	{":where(", "where"},
	{":focus-visible", "focus-visible"},
	{":focus-within", "focus-within"},
	{"::backdrop", "backdrop"},
	{"::part(", "shadow-parts"},
	{":not(", "not"},
}

func bySelector(name, _ string) string {
	for _, s := range selectors {
		if strings.Contains(name, s.needle) {
			return s.id
		}
	}
	if strings.Contains(name, ":nth-child(") && strings.Contains(name, " of ") {
		return "nth-child-of"
	}
	return ""
}

func bySelectorNesting(name, _ string) string {
	if strings.Contains(name, "&") {
		return "nesting"
	}
	return ""
}
