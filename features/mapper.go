// Package features assigns web platform feature identifiers to structural
// CSS nodes.
package features

import (
	"strings"

	"go.uber.org/zap"

	"baseliner/baseline"
	"baseliner/common"
	"baseliner/css"
	"baseliner/dataset"
)

// Mapper turns parsed CSS into the set of features it uses.
type Mapper struct {
	lookup dataset.Lookup
	log    *zap.Logger
}

// NewMapper creates mapper filtering identifiers through lookup.
func NewMapper(lookup dataset.Lookup, log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{lookup: lookup, log: log.Named("features")}
}

// Map returns the feature identifier of a single node or an empty string.
// Rules only see nodes of their own kind, the first match wins.
func Map(n css.Node) string {
	var rules []rule
	switch n.Kind {
	case common.NodeKindDeclaration:
		rules = declarationRules
	case common.NodeKindAtRule:
		rules = atRuleRules
	case common.NodeKindSelector:
		rules = selectorRules
	default:
		return ""
	}

	name := strings.ToLower(strings.TrimSpace(n.Name))
	value := strings.ToLower(n.Value)
	if n.Kind == common.NodeKindAtRule {
		value = strings.ToLower(n.Params)
	}
	for _, r := range rules {
		if id := r(name, value); id != "" {
			return id
		}
	}
	return ""
}

// Detect maps nodes and keeps identifiers the dataset knows as features,
// each once, in first-seen order.
func (m *Mapper) Detect(nodes []css.Node) []string {
	var (
		ids  []string
		seen = make(map[string]struct{})
	)
	for _, n := range nodes {
		id := Map(n)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if !m.eligible(id) {
			m.log.Debug("Dropping identifier unknown to dataset", zap.String("id", id))
			continue
		}
		m.log.Debug("Feature detected", zap.String("id", id), zap.Stringer("at", n.Loc))
		ids = append(ids, id)
	}
	return ids
}

// Usages is Detect with results packaged as usage records. Status is left
// unknown on purpose, it is resolved by the aggregator.
func (m *Mapper) Usages(nodes []css.Node) []baseline.FeatureUsage {
	ids := m.Detect(nodes)
	out := make([]baseline.FeatureUsage, 0, len(ids))
	for _, id := range ids {
		u := baseline.FeatureUsage{
			FeatureID: id,
			Name:      id,
			Support:   common.SupportLevelNot,
			Baseline:  common.BaselineNone,
			Browsers:  []string{},
			Found:     true,
		}
		if e, ok := m.lookup.Lookup(id); ok && e.Name != "" {
			u.Name = e.Name
		}
		out = append(out, u)
	}
	return out
}

func (m *Mapper) eligible(id string) bool {
	if m.lookup == nil {
		return false
	}
	e, ok := m.lookup.Lookup(id)
	return ok && e.Kind == dataset.KindFeature
}
