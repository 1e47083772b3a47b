package baseline_test

import (
	"slices"
	"testing"

	"baseliner/baseline"
	"baseliner/common"
	"baseliner/dataset"
)

func fixture(gridStatus, flexStatus common.BaselineStatus) *dataset.Dataset {
	return dataset.New(map[string]dataset.Entry{
		"grid": {
			Kind:   dataset.KindFeature,
			Name:   "Grid",
			Status: dataset.Status{Baseline: gridStatus, Support: []dataset.Support{{Browser: "chrome", Version: "57"}, {Browser: "safari", Version: "10.1"}}},
		},
		"flexbox": {
			Kind:   dataset.KindFeature,
			Name:   "Flexbox",
			Status: dataset.Status{Baseline: flexStatus},
		},
	})
}

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		in   string
		want baseline.Threshold
	}{
		{"2025", baseline.ThresholdHigh},
		{"2024", baseline.ThresholdHigh},
		{"Widely", baseline.ThresholdHigh},
		{"widely-available", baseline.ThresholdHigh},
		{"2023", baseline.ThresholdLow},
		{"2022", baseline.ThresholdLow},
		{"NEWLY", baseline.ThresholdLow},
		{"newly-available", baseline.ThresholdLow},
		{"", baseline.ThresholdHigh},
		{"1999", baseline.ThresholdHigh},
	}
	for _, tt := range tests {
		if got := baseline.NormalizeTarget(tt.in); got != tt.want {
			t.Errorf("NormalizeTarget(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if baseline.KnownTarget("1999") || !baseline.KnownTarget("2023") {
		t.Error("KnownTarget() mismatch")
	}
}

func TestSupportFor(t *testing.T) {
	if baseline.SupportFor(common.BaselineHigh) != common.SupportLevelWidely ||
		baseline.SupportFor(common.BaselineLow) != common.SupportLevelNewly ||
		baseline.SupportFor(common.BaselineNone) != common.SupportLevelNot {
		t.Error("SupportFor() mapping is wrong")
	}
}

func TestComputeSummary_AllHigh(t *testing.T) {
	s := baseline.ComputeSummary(fixture(common.BaselineHigh, common.BaselineHigh), []string{"grid", "flexbox"}, "2024")
	if s == nil {
		t.Fatal("ComputeSummary() = nil")
	}
	if s.TotalCount != 2 || s.CompliantCount != 2 || s.NonCompliantCount != 0 {
		t.Errorf("counts = %d/%d/%d", s.TotalCount, s.CompliantCount, s.NonCompliantCount)
	}
	if s.Threshold != baseline.ThresholdHigh || s.Target != "2024" {
		t.Errorf("threshold = %q target = %q", s.Threshold, s.Target)
	}
	if s.Features[0].FeatureID != "grid" || s.Features[1].FeatureID != "flexbox" {
		t.Errorf("feature order = %v", s.Features)
	}
	if got := s.Features[0].Browsers; !slices.Equal(got, []string{"chrome", "safari"}) {
		t.Errorf("browsers = %v", got)
	}
	if s.Features[0].Support != common.SupportLevelWidely || !s.Features[0].Found {
		t.Errorf("grid usage = %+v", s.Features[0])
	}
}

func TestComputeSummary_LowThreshold(t *testing.T) {
	lookup := fixture(common.BaselineNone, common.BaselineLow)

	s := baseline.ComputeSummary(lookup, []string{"grid", "flexbox"}, "2022")
	if s.Threshold != baseline.ThresholdLow {
		t.Fatalf("threshold = %q", s.Threshold)
	}
	if s.CompliantCount != 1 || s.NonCompliantCount != 1 {
		t.Errorf("counts = %d/%d", s.CompliantCount, s.NonCompliantCount)
	}
	if s.Features[1].Support != common.SupportLevelNewly || !s.Features[1].Compliant(s.Threshold) {
		t.Errorf("flexbox = %+v", s.Features[1])
	}

	// grid with unknown status fails every target
	for _, target := range []string{"2025", "2024", "2023", "2022", "newly", "widely", "whatever"} {
		s := baseline.ComputeSummary(lookup, []string{"grid"}, target)
		if s.CompliantCount != 0 || s.NonCompliantCount != 1 {
			t.Errorf("target %q: grid counted compliant", target)
		}
	}

	// low is not enough for a strict target
	s = baseline.ComputeSummary(lookup, []string{"flexbox"}, "2024")
	if s.CompliantCount != 0 {
		t.Error("newly available feature compliant with 2024")
	}
	if nc := s.NonCompliant(); len(nc) != 1 || nc[0].FeatureID != "flexbox" {
		t.Errorf("NonCompliant() = %v", nc)
	}
}

func TestComputeSummary_Empty(t *testing.T) {
	lookup := fixture(common.BaselineHigh, common.BaselineHigh)
	if s := baseline.ComputeSummary(lookup, nil, "2024"); s != nil {
		t.Errorf("ComputeSummary(nil) = %+v, want nil", s)
	}
	if s := baseline.ComputeSummary(lookup, []string{"", ""}, "2024"); s != nil {
		t.Errorf("ComputeSummary(empty ids) = %+v, want nil", s)
	}
	var s *baseline.Summary
	if s.NonCompliant() != nil {
		t.Error("nil summary has non-compliant features")
	}
}

func TestComputeSummary_MissAndDuplicates(t *testing.T) {
	s := baseline.ComputeSummary(fixture(common.BaselineHigh, common.BaselineHigh),
		[]string{"grid", "made-up", "grid", "flexbox", "made-up"}, "2024")

	if s.TotalCount != 3 || s.TotalCount != s.CompliantCount+s.NonCompliantCount {
		t.Fatalf("counts = %d/%d/%d", s.TotalCount, s.CompliantCount, s.NonCompliantCount)
	}
	miss := s.Features[1]
	if miss.FeatureID != "made-up" || miss.Found || miss.Name != "made-up" ||
		miss.Baseline != common.BaselineNone || miss.Support != common.SupportLevelNot {
		t.Errorf("miss = %+v", miss)
	}
	if miss.Browsers == nil {
		t.Error("browsers of a miss should be an empty list")
	}

	moved := dataset.New(map[string]dataset.Entry{
		"nesting-css": {Kind: "moved", Name: "Nesting", Status: dataset.Status{Baseline: common.BaselineHigh}},
	})
	s = baseline.ComputeSummary(moved, []string{"nesting-css"}, "2024")
	if u := s.Features[0]; u.Found || u.Name != "nesting-css" || u.Baseline != common.BaselineNone ||
		u.Support != common.SupportLevelNot || s.NonCompliantCount != 1 {
		t.Errorf("entry of kind moved = %+v", u)
	}
}

func TestResolve_NilLookup(t *testing.T) {
	u := baseline.Resolve(nil, "grid")
	if u.Found || u.Support != common.SupportLevelNot {
		t.Errorf("Resolve(nil) = %+v", u)
	}
}
