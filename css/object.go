package css

import (
	"regexp"
	"strconv"
	"strings"
)

// Property is a single key of a style object.
type Property struct {
	Key   string
	Value any
}

// Object is a style object as written in CSS-in-JS object syntax. Keys keep
// their source order, which is also the order of produced declarations.
//
// Values may be string, any Go number, bool, []any, a nested Object (only
// meaningful under "&", ":" and "@" keys) or nil. Anything else is skipped.
type Object []Property

var (
	reLowerUpper   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	reUpperAcronym = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
	reMsPrefix     = regexp.MustCompile(`^ms[A-Z]`)
)

// CamelToKebab converts a camelCase property name to kebab-case. Vendor
// prefixed names (WebkitTransform, msFlexDirection) get a leading hyphen.
// Already kebab-case input is returned unchanged.
func CamelToKebab(s string) string {
	if s == "" {
		return s
	}
	if (s[0] >= 'A' && s[0] <= 'Z') || reMsPrefix.MatchString(s) {
		s = "-" + s
	}
	s = reLowerUpper.ReplaceAllString(s, "${1}-${2}")
	s = reUpperAcronym.ReplaceAllString(s, "${1}-${2}")
	return strings.ToLower(s)
}

var unitless = map[string]struct{}{
	"opacity":                   {},
	"z-index":                   {},
	"font-weight":               {},
	"line-height":               {},
	"flex":                      {},
	"flex-grow":                 {},
	"flex-shrink":               {},
	"order":                     {},
	"zoom":                      {},
	"animation-iteration-count": {},
	"column-count":              {},
	"fill-opacity":              {},
	"flood-opacity":             {},
	"stop-opacity":              {},
	"stroke-dasharray":          {},
	"stroke-dashoffset":         {},
	"stroke-miterlimit":         {},
	"stroke-opacity":            {},
	"stroke-width":              {},
}

// IsUnitless reports whether numeric values of the (kebab-case) property are
// written without a unit.
func IsUnitless(property string) bool {
	_, ok := unitless[property]
	return ok
}

// AddUnits renders a number for the property, adding "px" unless the
// property is unitless.
func AddUnits(property string, value float64) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if IsUnitless(property) {
		return s
	}
	return s + "px"
}

// ValueToCSS converts a style object value to CSS text. The second result is
// false when the value produces no output.
func ValueToCSS(value any, property string) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := ValueToCSS(e, property); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true
	}
	if f, ok := toFloat(value); ok {
		return AddUnits(property, f), true
	}
	return "", false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// IsNestedKey reports whether an object key opens a nested block (nested
// selector or at-rule) rather than naming a property.
func IsNestedKey(key string) bool {
	return strings.HasPrefix(key, "&") || strings.HasPrefix(key, ":") || strings.HasPrefix(key, "@")
}

// ObjectToCSS converts a style object to CSS declarations, rendering nested
// selector and at-rule keys as blocks indented by two spaces per level.
func ObjectToCSS(obj Object) string {
	return objectToCSS(obj, "")
}

func objectToCSS(obj Object, indent string) string {
	lines := make([]string, 0, len(obj))
	for _, p := range obj {
		if IsNestedKey(p.Key) {
			if nested, ok := p.Value.(Object); ok {
				lines = append(lines, indent+p.Key+" {")
				lines = append(lines, objectToCSS(nested, indent+"  "))
				lines = append(lines, indent+"}")
			}
			continue
		}
		prop := CamelToKebab(p.Key)
		if v, ok := ValueToCSS(p.Value, prop); ok {
			lines = append(lines, indent+prop+": "+v+";")
		}
	}
	return strings.Join(lines, "\n")
}

// FlatObjectToCSS converts a style object without nesting support: every
// key is a property, nested objects produce nothing.
func FlatObjectToCSS(obj Object) string {
	lines := make([]string, 0, len(obj))
	for _, p := range obj {
		prop := CamelToKebab(p.Key)
		if v, ok := ValueToCSS(p.Value, prop); ok {
			lines = append(lines, prop+": "+v+";")
		}
	}
	return strings.Join(lines, "\n")
}
