// Package baseline resolves feature identifiers against the compatibility
// dataset and decides whether they meet a target.
package baseline

import (
	"strings"

	"baseliner/common"
	"baseliner/dataset"
)

// DefaultTarget is used when neither the unit nor the run selects one.
const DefaultTarget = "2024"

// Threshold is the level a feature must reach to be compliant.
type Threshold string

const (
	ThresholdHigh Threshold = "high"
	ThresholdLow  Threshold = "low"
)

var targets = map[string]Threshold{
	"2025":             ThresholdHigh,
	"2024":             ThresholdHigh,
	"widely":           ThresholdHigh,
	"widely-available": ThresholdHigh,
	"2023":             ThresholdLow,
	"2022":             ThresholdLow,
	"newly":            ThresholdLow,
	"newly-available":  ThresholdLow,
}

// NormalizeTarget maps a target label to its threshold. Unknown labels are
// held to the strict threshold.
func NormalizeTarget(target string) Threshold {
	if t, ok := targets[strings.ToLower(strings.TrimSpace(target))]; ok {
		return t
	}
	return ThresholdHigh
}

// KnownTarget reports whether the label is in the target table.
func KnownTarget(target string) bool {
	_, ok := targets[strings.ToLower(strings.TrimSpace(target))]
	return ok
}

// SupportFor is the fixed interpretation of a raw dataset status.
func SupportFor(b common.BaselineStatus) common.SupportLevel {
	switch b {
	case common.BaselineHigh:
		return common.SupportLevelWidely
	case common.BaselineLow:
		return common.SupportLevelNewly
	default:
		return common.SupportLevelNot
	}
}

// MeetsTarget reports whether a feature with the given status is compliant
// under the threshold. Unknown status never is.
func MeetsTarget(b common.BaselineStatus, threshold Threshold) bool {
	switch b {
	case common.BaselineHigh:
		return true
	case common.BaselineLow:
		return threshold == ThresholdLow
	default:
		return false
	}
}

// FeatureUsage is a single feature as reported to consumers.
type FeatureUsage struct {
	FeatureID   string                `json:"featureId" yaml:"featureId"`
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Support     common.SupportLevel   `json:"support" yaml:"support"`
	Baseline    common.BaselineStatus `json:"baseline" yaml:"baseline"`
	Browsers    []string              `json:"browsers" yaml:"browsers"`
	Found       bool                  `json:"found" yaml:"found"`
}

// Compliant reports whether the usage meets the threshold.
func (u FeatureUsage) Compliant(threshold Threshold) bool {
	return MeetsTarget(u.Baseline, threshold)
}

// Resolve builds the usage record for id. A miss produces an entry with
// Found false and unknown status.
func Resolve(lookup dataset.Lookup, id string) FeatureUsage {
	u := FeatureUsage{
		FeatureID: id,
		Name:      id,
		Support:   common.SupportLevelNot,
		Browsers:  []string{},
	}
	if lookup == nil {
		return u
	}
	e, ok := lookup.Lookup(id)
	if !ok || e.Kind != dataset.KindFeature {
		return u
	}
	u.Found = true
	if e.Name != "" {
		u.Name = e.Name
	}
	u.Description = e.Description
	u.Baseline = e.Status.Baseline
	u.Support = SupportFor(e.Status.Baseline)
	u.Browsers = e.Browsers()
	return u
}

// Summary is the compliance result for one analyzed unit.
type Summary struct {
	Target            string         `json:"target" yaml:"target"`
	Threshold         Threshold      `json:"threshold" yaml:"threshold"`
	TotalCount        int            `json:"totalCount" yaml:"totalCount"`
	CompliantCount    int            `json:"compliantCount" yaml:"compliantCount"`
	NonCompliantCount int            `json:"nonCompliantCount" yaml:"nonCompliantCount"`
	Features          []FeatureUsage `json:"features" yaml:"features"`
}

// NonCompliant returns features failing the summary threshold.
func (s *Summary) NonCompliant() []FeatureUsage {
	if s == nil {
		return nil
	}
	var out []FeatureUsage
	for _, f := range s.Features {
		if !f.Compliant(s.Threshold) {
			out = append(out, f)
		}
	}
	return out
}

// Dedupe drops repeated and empty identifiers keeping first-seen order.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ComputeSummary evaluates ids against target. Nil is returned when there
// is nothing to evaluate.
func ComputeSummary(lookup dataset.Lookup, ids []string, target string) *Summary {
	ids = Dedupe(ids)
	if len(ids) == 0 {
		return nil
	}

	s := &Summary{
		Target:    target,
		Threshold: NormalizeTarget(target),
		Features:  make([]FeatureUsage, 0, len(ids)),
	}
	for _, id := range ids {
		u := Resolve(lookup, id)
		if u.Compliant(s.Threshold) {
			s.CompliantCount++
		} else {
			s.NonCompliantCount++
		}
		s.Features = append(s.Features, u)
	}
	s.TotalCount = len(s.Features)
	return s
}
