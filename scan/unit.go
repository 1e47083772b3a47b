package scan

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"baseliner/analyze"
	"baseliner/config"
	"baseliner/extract"
)

// Unit is one evaluated story: a scanned source file, an archive entry or
// a manifest entry.
type Unit struct {
	ID     string
	Origin string // file or archive entry the unit came from, may be empty
	Params analyze.Parameters
}

// idSet hands out unique unit ids.
type idSet map[string]struct{}

// assign returns want, or want with the first free numeric suffix.
func (s idSet) assign(want string) string {
	id := want
	for i := 2; ; i++ {
		if _, taken := s[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", want, i)
	}
	s[id] = struct{}{}
	return id
}

// unitID derives id from a slash or OS separated relative path without
// extension: "components/Card.vue" becomes "components-card".
func unitID(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if id := slug.Make(rel); id != "" {
		return id
	}
	return "unit"
}

// setSource places source text into the parameter matching its kind
// unless that parameter is already set.
func setSource(p *analyze.Parameters, kind extract.Kind, src string) {
	switch kind {
	case extract.KindCSS:
		if len(p.CSS) == 0 {
			p.CSS = analyze.Sources{src}
		}
	case extract.KindCSSInJS:
		if p.JSSource == "" {
			p.JSSource = src
		}
	case extract.KindVue:
		if p.VueSource == "" {
			p.VueSource = src
		}
	case extract.KindAngular:
		if p.AngularSource == "" {
			p.AngularSource = src
		}
	}
}

// wants reports whether files of kind are scanned at all.
func wants(cfg *config.AnalysisConfig, kind extract.Kind) bool {
	switch kind {
	case extract.KindCSS:
		return cfg.Detect.CSS
	case extract.KindCSSInJS:
		return cfg.Detect.JS && cfg.CSSInJS.Enabled
	case extract.KindVue:
		return cfg.Detect.Vue
	case extract.KindAngular:
		return cfg.Detect.Angular
	}
	return false
}

// applyDefaults fills what unit parameters leave unset from configuration.
func applyDefaults(p *analyze.Parameters, cfg *config.AnalysisConfig) {
	if p.CSSInJS.Enabled == nil {
		p.CSSInJS.Enabled = &cfg.CSSInJS.Enabled
	}
	if p.CSSInJS.Libraries == nil {
		p.CSSInJS.Libraries = cfg.CSSInJS.Libraries
	}
	p.CSSInJS.IgnoreInterpolations = p.CSSInJS.IgnoreInterpolations || cfg.CSSInJS.IgnoreInterpolations
	p.CSSInJS.ShowSource = p.CSSInJS.ShowSource || cfg.CSSInJS.ShowSource
	if p.WarnOnNonBaseline == nil {
		p.WarnOnNonBaseline = &cfg.WarnOnNonBaseline
	}
}

// unitSources names source texts of a unit for the debug report. Script
// and component sources keep the extension of their source path.
func unitSources(p *analyze.Parameters) map[string]string {
	out := make(map[string]string)
	for i, text := range p.CSS {
		if len(p.CSS) == 1 {
			out["source.css"] = text
			continue
		}
		out[fmt.Sprintf("source-%d.css", i+1)] = text
	}
	ext := func(def string) string {
		if e := path.Ext(p.SourcePath); e != "" {
			return e
		}
		return def
	}
	if p.JSSource != "" {
		out["script"+ext(".tsx")] = p.JSSource
	}
	if p.VueSource != "" {
		out["component"+ext(".vue")] = p.VueSource
	}
	if p.AngularSource != "" {
		out["angular"+ext(".ts")] = p.AngularSource
	}
	return out
}
