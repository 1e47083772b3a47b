// Package common keeps enumerations shared by the analysis packages, the
// exporters and the configuration. Values are plain strings so they travel
// unchanged through JSON, YAML and CSV.
package common

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

//go:generate go tool go-enum --marshal --names --mustparse --nocase

// BaselineStatus is the raw status recorded by the compatibility dataset. The
// empty value stands for "null" (unknown or not baseline), dataset values
// false and null collapse into it, so it is not a generated enum.
type BaselineStatus string

const (
	BaselineNone BaselineStatus = ""
	BaselineHigh BaselineStatus = "high"
	BaselineLow  BaselineStatus = "low"
)

// ParseBaselineStatus normalizes dataset values: anything other than "high"
// and "low" (false, null, garbage) is BaselineNone.
func ParseBaselineStatus(s string) BaselineStatus {
	switch BaselineStatus(strings.ToLower(strings.TrimSpace(s))) {
	case BaselineHigh:
		return BaselineHigh
	case BaselineLow:
		return BaselineLow
	default:
		return BaselineNone
	}
}

// String returns "unknown" for BaselineNone, this is what reports print.
func (b BaselineStatus) String() string {
	if b == BaselineNone {
		return "unknown"
	}
	return string(b)
}

func (b BaselineStatus) MarshalJSON() ([]byte, error) {
	if b == BaselineNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(b))
}

func (b *BaselineStatus) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s, _ := v.(string)
	*b = ParseBaselineStatus(s)
	return nil
}

func (b BaselineStatus) MarshalYAML() (any, error) {
	if b == BaselineNone {
		return nil, nil
	}
	return string(b), nil
}

// SupportLevel is the human facing interpretation of BaselineStatus.
// ENUM(widely, newly, not)
type SupportLevel string

// NodeKind is the kind of structural CSS node.
// ENUM(declaration, at-rule, selector)
type NodeKind string

// Origin identifies the front-end (and library flavor) a style fragment was
// extracted by.
// ENUM(css, styled-components, emotion, stitches, vue-styled-components, pinceau, angular-component, vue-sfc)
type Origin string

// CSSInJSOrigins lists library flavors handled by the CSS-in-JS front-end.
var CSSInJSOrigins = []Origin{
	OriginStyledComponents,
	OriginEmotion,
	OriginStitches,
	OriginVueStyledComponents,
	OriginPinceau,
}

// ParseLibrary accepts a CSS-in-JS library name as it appears in
// configuration. "all" is handled by callers.
func ParseLibrary(name string) (Origin, error) {
	o, err := ParseOrigin(strings.TrimSpace(name))
	if err != nil || !slices.Contains(CSSInJSOrigins, o) {
		return "", fmt.Errorf("unknown css-in-js library %q", name)
	}
	return o, nil
}

// FeatureSource tells where the feature list of an evaluated unit came from.
// ENUM(manual, auto, none)
type FeatureSource string
