package analyze

import (
	"encoding/json"
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// Sources is a list of CSS texts which may be written as a single string.
type Sources []string

func (s *Sources) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var v string
		if err := n.Decode(&v); err != nil {
			return err
		}
		*s = Sources{v}
	case yaml.SequenceNode:
		var v []string
		if err := n.Decode(&v); err != nil {
			return err
		}
		*s = v
	default:
		return fmt.Errorf("line %d: css must be a string or a list of strings", n.Line)
	}
	return nil
}

func (s *Sources) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = Sources{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("css must be a string or a list of strings: %w", err)
	}
	*s = many
	return nil
}

// CSSInJSParams tune the CSS-in-JS front-end for a unit.
type CSSInJSParams struct {
	Enabled              *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Libraries            []string `json:"libraries,omitempty" yaml:"libraries,omitempty"`
	IgnoreInterpolations bool     `json:"ignoreInterpolations,omitempty" yaml:"ignoreInterpolations,omitempty"`
	ShowSource           bool     `json:"showSource,omitempty" yaml:"showSource,omitempty"`
}

// Parameters describe one analyzed unit. Switches left unset are on.
type Parameters struct {
	// Manually declared feature identifiers, when present detection
	// results are not used.
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`
	Target   string   `json:"target,omitempty" yaml:"target,omitempty"`

	CSS        Sources `json:"css,omitempty" yaml:"css,omitempty"`
	AutoDetect *bool   `json:"autoDetect,omitempty" yaml:"autoDetect,omitempty"`

	CSSInJS      CSSInJSParams `json:"cssInJS" yaml:"cssInJS,omitempty"`
	JSSource     string        `json:"jsSource,omitempty" yaml:"jsSource,omitempty"`
	AutoDetectJS *bool         `json:"autoDetectJS,omitempty" yaml:"autoDetectJS,omitempty"`

	VueSource     string `json:"vueSource,omitempty" yaml:"vueSource,omitempty"`
	AutoDetectVue *bool  `json:"autoDetectVue,omitempty" yaml:"autoDetectVue,omitempty"`

	AngularSource     string `json:"angularSource,omitempty" yaml:"angularSource,omitempty"`
	AutoDetectAngular *bool  `json:"autoDetectAngular,omitempty" yaml:"autoDetectAngular,omitempty"`

	WarnOnNonBaseline *bool `json:"warnOnNonBaseline,omitempty" yaml:"warnOnNonBaseline,omitempty"`
	IgnoreWarnings    bool  `json:"ignoreWarnings,omitempty" yaml:"ignoreWarnings,omitempty"`
	DisableWarnings   bool  `json:"disableWarnings,omitempty" yaml:"disableWarnings,omitempty"`

	// SourcePath labels script and component sources in diagnostics. Its
	// extension also selects the script grammar (.ts versus .tsx).
	SourcePath string `json:"sourcePath,omitempty" yaml:"sourcePath,omitempty"`
}

func enabled(b *bool) bool {
	return b == nil || *b
}

func (p *Parameters) detectCSS() bool {
	return enabled(p.AutoDetect) && len(p.CSS) > 0
}

func (p *Parameters) detectJS() bool {
	return enabled(p.AutoDetect) && enabled(p.AutoDetectJS) && enabled(p.CSSInJS.Enabled) && p.JSSource != ""
}

func (p *Parameters) detectVue() bool {
	return enabled(p.AutoDetect) && enabled(p.AutoDetectVue) && p.VueSource != ""
}

func (p *Parameters) detectAngular() bool {
	return enabled(p.AutoDetect) && enabled(p.AutoDetectAngular) && p.AngularSource != ""
}

func (p *Parameters) warnings() bool {
	return enabled(p.WarnOnNonBaseline) && !p.IgnoreWarnings && !p.DisableWarnings
}
