package common

import (
	"encoding/json"
	"errors"
	"testing"

	yaml "gopkg.in/yaml.v3"
)

func TestParseBaselineStatus(t *testing.T) {
	tests := []struct {
		in   string
		want BaselineStatus
	}{
		{"high", BaselineHigh},
		{" LOW ", BaselineLow},
		{"false", BaselineNone},
		{"", BaselineNone},
	}
	for _, tt := range tests {
		if got := ParseBaselineStatus(tt.in); got != tt.want {
			t.Errorf("ParseBaselineStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if BaselineNone.String() != "unknown" || BaselineHigh.String() != "high" {
		t.Errorf("String() = %s, %s", BaselineNone, BaselineHigh)
	}
}

func TestBaselineStatus_JSON(t *testing.T) {
	data, err := json.Marshal([]BaselineStatus{BaselineHigh, BaselineNone})
	if err != nil || string(data) != `["high",null]` {
		t.Errorf("Marshal = %s, %v", data, err)
	}

	var got []BaselineStatus
	if err := json.Unmarshal([]byte(`["low", false, null]`), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != BaselineLow || got[1] != BaselineNone || got[2] != BaselineNone {
		t.Errorf("Unmarshal = %v", got)
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		in   string
		want Origin
	}{
		{"css", OriginCss},
		{"Styled-Components", OriginStyledComponents},
		{"vue-sfc", OriginVueSfc},
		{"angular-component", OriginAngularComponent},
	}
	for _, tt := range tests {
		got, err := ParseOrigin(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseOrigin(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseOrigin("jss"); !errors.Is(err, ErrInvalidOrigin) {
		t.Errorf("ParseOrigin(jss) error = %v", err)
	}
	if len(OriginNames()) != 8 {
		t.Errorf("OriginNames() = %v", OriginNames())
	}
}

func TestParseLibrary(t *testing.T) {
	for _, name := range []string{"styled-components", " Emotion ", "stitches", "vue-styled-components", "pinceau"} {
		if _, err := ParseLibrary(name); err != nil {
			t.Errorf("ParseLibrary(%q) error = %v", name, err)
		}
	}
	// front-end origins are not libraries
	for _, name := range []string{"css", "vue-sfc", "angular-component", "all", ""} {
		if _, err := ParseLibrary(name); err == nil {
			t.Errorf("ParseLibrary(%q) should fail", name)
		}
	}
}

func TestEnums_Marshal(t *testing.T) {
	v := struct {
		Support SupportLevel  `json:"support" yaml:"support"`
		Kind    NodeKind      `json:"kind" yaml:"kind"`
		Source  FeatureSource `json:"source" yaml:"source"`
	}{SupportLevelNewly, NodeKindAtRule, FeatureSourceManual}

	data, err := json.Marshal(v)
	if err != nil || string(data) != `{"support":"newly","kind":"at-rule","source":"manual"}` {
		t.Errorf("json = %s, %v", data, err)
	}

	out, err := yaml.Marshal(v)
	if err != nil || string(out) != "support: newly\nkind: at-rule\nsource: manual\n" {
		t.Errorf("yaml = %q, %v", out, err)
	}

	var back struct {
		Source FeatureSource `yaml:"source"`
	}
	if err := yaml.Unmarshal([]byte("source: bogus\n"), &back); err == nil {
		t.Error("unknown feature source should not decode")
	}
}

func TestMustParse_Panics(t *testing.T) {
	if MustParseSupportLevel("not") != SupportLevelNot || MustParseNodeKind("selector") != NodeKindSelector {
		t.Error("MustParse returned wrong value")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustParseFeatureSource should have panicked")
		}
	}()
	MustParseFeatureSource("sometimes")
}
