// Package analyze decides, per analyzed unit, which features are evaluated
// (declared or detected), evaluates them against a target and packages the
// result for consumers.
package analyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"baseliner/baseline"
	"baseliner/common"
	"baseliner/css"
	"baseliner/dataset"
	"baseliner/extract"
	"baseliner/features"
)

// SourceInfo describes one extracted fragment, included in the payload on
// request (cssInJS.showSource).
type SourceInfo struct {
	Origin   common.Origin `json:"origin" yaml:"origin"`
	Pattern  string        `json:"pattern" yaml:"pattern"`
	Location string        `json:"location" yaml:"location"`
	CSS      string        `json:"css" yaml:"css"`
}

// Payload is emitted once per analyzed unit.
type Payload struct {
	StoryID        string               `json:"storyId" yaml:"storyId"`
	Target         string               `json:"target" yaml:"target"`
	AnnotatedCount int                  `json:"annotatedCount" yaml:"annotatedCount"`
	DetectedCount  int                  `json:"detectedCount" yaml:"detectedCount"`
	Source         common.FeatureSource `json:"source" yaml:"source"`
	Features       []string             `json:"features" yaml:"features"`
	Summary        *baseline.Summary    `json:"summary" yaml:"summary"`
	Sources        []SourceInfo         `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Evaluation is the complete outcome for a unit. Everything except Payload
// is diagnostics.
type Evaluation struct {
	Payload Payload
	// Advisory messages from front-ends and the CSS parser.
	Errors []string
	// Warning is raised when non compliant features were found and
	// warnings are enabled for the unit.
	Warning bool

	Fragments []extract.Fragment
	CSS       string
	Nodes     []css.Node
}

// Orchestrator evaluates units. It keeps no per-unit state and may be used
// concurrently.
type Orchestrator struct {
	lookup dataset.Lookup
	parser *css.Parser
	mapper *features.Mapper
	log    *zap.Logger
}

// New creates orchestrator resolving features through lookup.
func New(lookup dataset.Lookup, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		lookup: lookup,
		parser: css.NewParser(log),
		mapper: features.NewMapper(lookup, log),
		log:    log.Named("analyze"),
	}
}

// ResolveTarget picks the unit target, then the run wide selection, then the
// default.
func ResolveTarget(unit, selected string) string {
	switch {
	case strings.TrimSpace(unit) != "":
		return unit
	case strings.TrimSpace(selected) != "":
		return selected
	default:
		return baseline.DefaultTarget
	}
}

// Evaluate runs the decision for a single unit. Declared features always
// win, detection is only run when there are none.
func (o *Orchestrator) Evaluate(ctx context.Context, unitID string, p Parameters, selectedTarget string) (ev Evaluation) {
	defer func(start time.Time) {
		o.log.Debug("Unit evaluated", zap.String("unit", unitID), zap.String("source", string(ev.Payload.Source)),
			zap.Int("features", len(ev.Payload.Features)), zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	target := ResolveTarget(p.Target, selectedTarget)

	manual := make([]string, 0, len(p.Features))
	for _, id := range p.Features {
		if id = strings.TrimSpace(id); id != "" {
			manual = append(manual, id)
		}
	}

	var (
		ids      []string
		source   common.FeatureSource
		detected []string
	)
	if len(manual) > 0 {
		ids, source = manual, common.FeatureSourceManual
	} else {
		detected = o.detect(ctx, unitID, &p, &ev)
		ids = detected
		source = common.FeatureSourceAuto
		if len(detected) == 0 {
			source = common.FeatureSourceNone
		}
	}

	summary := baseline.ComputeSummary(o.lookup, ids, target)
	ev.Payload = Payload{
		StoryID:        unitID,
		Target:         target,
		AnnotatedCount: len(manual),
		DetectedCount:  len(detected),
		Source:         source,
		Features:       append([]string{}, ids...),
		Summary:        summary,
	}
	if p.CSSInJS.ShowSource {
		for _, f := range ev.Fragments {
			ev.Payload.Sources = append(ev.Payload.Sources, SourceInfo{
				Origin:   f.Origin,
				Pattern:  f.Pattern,
				Location: f.Loc.String(),
				CSS:      f.CSS,
			})
		}
	}

	if summary != nil && summary.NonCompliantCount > 0 && p.warnings() {
		ev.Warning = true
		nc := summary.NonCompliant()
		names := make([]string, 0, len(nc))
		for _, f := range nc {
			names = append(names, f.FeatureID)
		}
		o.log.Warn("Features below baseline target", zap.String("unit", unitID), zap.String("target", target),
			zap.Strings("features", names))
	}
	return ev
}

type stage struct {
	kind  extract.Kind
	label string
	src   string
}

// detect runs enabled front-ends in fixed order (style sheets, CSS-in-JS,
// Vue, Angular) and maps everything they extracted. First-seen order of the
// resulting identifiers follows the stage order.
func (o *Orchestrator) detect(ctx context.Context, unitID string, p *Parameters, ev *Evaluation) []string {
	opts := extract.Options{IgnoreInterpolations: p.CSSInJS.IgnoreInterpolations}
	if libs, err := extract.ParseLibraries(p.CSSInJS.Libraries); err != nil {
		ev.Errors = append(ev.Errors, fmt.Sprintf("Ignoring css-in-js library filter: %v", err))
	} else {
		opts.Libraries = libs
	}
	ex := extract.New(opts, o.log)

	label := p.SourcePath
	if label == "" {
		label = unitID
	}

	var stages []stage
	if p.detectCSS() {
		for i, text := range p.CSS {
			name := label
			if len(p.CSS) > 1 {
				name = fmt.Sprintf("%s#css[%d]", label, i)
			}
			stages = append(stages, stage{extract.KindCSS, name, text})
		}
	}
	if p.detectJS() {
		stages = append(stages, stage{extract.KindCSSInJS, label, p.JSSource})
	}
	if p.detectVue() {
		stages = append(stages, stage{extract.KindVue, label, p.VueSource})
	}
	if p.detectAngular() {
		stages = append(stages, stage{extract.KindAngular, label, p.AngularSource})
	}

	var texts []string
	for _, st := range stages {
		if ctx.Err() != nil {
			ev.Errors = append(ev.Errors, fmt.Sprintf("Analysis of %s interrupted: %v", unitID, ctx.Err()))
			break
		}
		res := ex.FrontEnd(st.kind)(ctx, []byte(st.src), st.label)
		ev.Errors = append(ev.Errors, res.Errors...)
		if len(res.Fragments) == 0 {
			continue
		}
		ev.Fragments = append(ev.Fragments, res.Fragments...)
		texts = append(texts, extract.Combine(res.Fragments))
		ev.Nodes = append(ev.Nodes, o.parse(res, &ev.Errors)...)
	}
	ev.CSS = strings.Join(texts, "\n\n")

	return o.mapper.Detect(ev.Nodes)
}

// parse parses combined stage output. When the whole does not parse every
// fragment is tried on its own so one broken occurrence does not hide the
// rest.
func (o *Orchestrator) parse(res extract.Result, errs *[]string) []css.Node {
	nodes, err := o.parser.Parse([]byte(extract.Combine(res.Fragments)), res.Source)
	if err == nil {
		return nodes
	}
	if len(res.Fragments) == 1 {
		*errs = append(*errs, fmt.Sprintf("Failed to parse CSS from %s: %v", res.Fragments[0].Loc, err))
		return nil
	}

	o.log.Debug("Combined CSS does not parse, trying fragments one by one", zap.String("source", res.Source), zap.Error(err))
	nodes = nil
	for _, f := range res.Fragments {
		n, err := o.parser.Parse([]byte(f.CSS), f.Loc.Source)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("Failed to parse CSS from %s: %v", f.Loc, err))
			continue
		}
		nodes = append(nodes, n...)
	}
	return nodes
}
