package report_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	yaml "gopkg.in/yaml.v3"

	"baseliner/analyze"
	"baseliner/baseline"
	"baseliner/common"
	"baseliner/config"
	"baseliner/report"
)

var exportedAt = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func samplePayload() analyze.Payload {
	return analyze.Payload{
		StoryID:        "card--default",
		Target:         "2024",
		AnnotatedCount: 0,
		DetectedCount:  2,
		Source:         common.FeatureSourceAuto,
		Features:       []string{"grid", "anchor-positioning"},
		Summary: &baseline.Summary{
			Target:            "2024",
			Threshold:         baseline.ThresholdHigh,
			TotalCount:        2,
			CompliantCount:    1,
			NonCompliantCount: 1,
			Features: []baseline.FeatureUsage{
				{FeatureID: "grid", Name: "Grid", Support: common.SupportLevelWidely, Baseline: common.BaselineHigh,
					Browsers: []string{"chrome", "firefox", "safari"}, Found: true},
				{FeatureID: "anchor-positioning", Name: "Anchor \"positioning\"", Support: common.SupportLevelNot,
					Baseline: common.BaselineNone, Browsers: []string{}, Found: true},
			},
		},
	}
}

func TestPrepare(t *testing.T) {
	d := report.Prepare(samplePayload(), "run-1", exportedAt)
	if d.TotalFeatures != 2 || d.CompliantFeatures != 1 || d.NonCompliantFeatures != 1 || len(d.Features) != 2 {
		t.Errorf("data = %+v", d)
	}
	if d.StoryID != "card--default" || d.Source != common.FeatureSourceAuto || d.DetectedCount != 2 || d.RunID != "run-1" {
		t.Errorf("data = %+v", d)
	}

	empty := report.Prepare(analyze.Payload{StoryID: "x", Target: "2024", Source: common.FeatureSourceNone}, "run-1", exportedAt)
	if empty.TotalFeatures != 0 || empty.Features == nil || len(empty.Features) != 0 {
		t.Errorf("empty = %+v", empty)
	}
}

func TestNewRunID(t *testing.T) {
	a, b := report.NewRunID(), report.NewRunID()
	if a == b || len(a) != 36 {
		t.Errorf("run ids %q %q", a, b)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := report.JSON(&buf, report.Prepare(samplePayload(), "run-1", exportedAt)); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if got["storyId"] != "card--default" || got["exportedAt"] != "2025-03-14T09:30:00Z" || got["totalFeatures"] != 2.0 {
		t.Errorf("json = %v", got)
	}
	features := got["features"].([]any)
	second := features[1].(map[string]any)
	if second["baseline"] != nil || second["support"] != "not" {
		t.Errorf("feature = %v", second)
	}
	if _, ok := second["description"]; ok {
		t.Error("empty description must be omitted")
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := report.YAML(&buf, report.Prepare(samplePayload(), "run-1", exportedAt)); err != nil {
		t.Fatal(err)
	}
	var got struct {
		StoryID  string `yaml:"storyId"`
		Features []struct {
			FeatureID string  `yaml:"featureId"`
			Baseline  *string `yaml:"baseline"`
		} `yaml:"features"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v\n%s", err, buf.String())
	}
	if got.StoryID != "card--default" || len(got.Features) != 2 {
		t.Fatalf("yaml = %+v", got)
	}
	if got.Features[0].Baseline == nil || *got.Features[0].Baseline != "high" || got.Features[1].Baseline != nil {
		t.Errorf("baselines = %v %v", got.Features[0].Baseline, got.Features[1].Baseline)
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := report.CSV(&buf, report.Prepare(samplePayload(), "run-1", exportedAt)); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	want := [][]string{
		{"Feature ID", "Feature Name", "Support Level", "Baseline Status", "Browsers"},
		{"grid", "Grid", "widely", "high", "chrome; firefox; safari"},
		{"anchor-positioning", `Anchor "positioning"`, "not", "unknown", ""},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v", rows)
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestHTML(t *testing.T) {
	p := samplePayload()
	p.StoryID = "card<script>"
	var buf bytes.Buffer
	if err := report.HTML(&buf, report.Prepare(p, "run-1", exportedAt)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"<title>Baseline Report - card&lt;script&gt;</title>",
		"Baseline 2024",
		`<span class="badge badge-widely">widely</span>`,
		"chrome, firefox, safari",
		"<td>unknown</td>",
		"2025-03-14 09:30:00 UTC",
		"n/a",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html does not contain %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("story id was not escaped")
	}

	buf.Reset()
	if err := report.HTML(&buf, report.Prepare(analyze.Payload{StoryID: "x"}, "run-1", exportedAt)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No features to report") {
		t.Error("empty report has no placeholder row")
	}
}

func TestJUnit(t *testing.T) {
	a := report.Prepare(samplePayload(), "run-1", exportedAt)
	b := report.Prepare(analyze.Payload{StoryID: "empty", Target: "2024", Source: common.FeatureSourceNone}, "run-1", exportedAt)

	var buf bytes.Buffer
	if err := report.JUnit(&buf, a, b); err != nil {
		t.Fatal(err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(buf.Bytes()); err != nil {
		t.Fatalf("invalid xml: %v", err)
	}
	root := doc.SelectElement("testsuites")
	if root == nil || root.SelectAttrValue("tests", "") != "2" || root.SelectAttrValue("failures", "") != "1" {
		t.Fatalf("root = %s", buf.String())
	}
	suites := root.SelectElements("testsuite")
	if len(suites) != 2 || suites[0].SelectAttrValue("name", "") != "card--default" {
		t.Fatalf("suites = %s", buf.String())
	}
	cases := suites[0].SelectElements("testcase")
	if len(cases) != 2 {
		t.Fatalf("cases = %d", len(cases))
	}
	if cases[0].SelectElement("failure") != nil {
		t.Error("compliant feature reported as failure")
	}
	failure := cases[1].SelectElement("failure")
	if failure == nil || !strings.Contains(failure.SelectAttrValue("message", ""), "requires high") {
		t.Errorf("failure = %v", failure)
	}
}

func TestWrite(t *testing.T) {
	d := report.Prepare(samplePayload(), "run-1", exportedAt)
	for _, name := range config.ExportFormatNames() {
		f, err := config.ParseExportFormat(name)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := report.Write(&buf, f, d); err != nil || buf.Len() == 0 {
			t.Errorf("Write(%s) = %v, %d bytes", f, err, buf.Len())
		}
	}
	if err := report.Write(&bytes.Buffer{}, config.ExportFormat("pdf"), d); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteAll(t *testing.T) {
	a := report.Prepare(samplePayload(), "run-1", exportedAt)
	b := report.Prepare(analyze.Payload{StoryID: "empty", Target: "2024", Source: common.FeatureSourceNone}, "run-1", exportedAt)

	var buf bytes.Buffer
	if err := report.WriteAll(&buf, config.ExportFormatJson, []report.ExportData{a, b}); err != nil {
		t.Fatal(err)
	}
	var units []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &units); err != nil || len(units) != 2 || units[1]["storyId"] != "empty" {
		t.Errorf("json array = %v (%v)", units, err)
	}

	buf.Reset()
	if err := report.WriteAll(&buf, config.ExportFormatYaml, []report.ExportData{a, b}); err != nil {
		t.Fatal(err)
	}
	dec := yaml.NewDecoder(&buf)
	docs := 0
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			break
		}
		docs++
	}
	if docs != 2 {
		t.Errorf("yaml documents = %d, want 2", docs)
	}

	buf.Reset()
	if err := report.WriteAll(&buf, config.ExportFormatJunit, []report.ExportData{a, b}); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "<testsuite ") != 2 {
		t.Errorf("junit = %s", buf.String())
	}

	if err := report.WriteAll(&bytes.Buffer{}, config.ExportFormatCsv, []report.ExportData{a, b}); err == nil {
		t.Error("csv with several units should fail")
	}
	buf.Reset()
	if err := report.WriteAll(&buf, config.ExportFormatCsv, []report.ExportData{a}); err != nil || !strings.HasPrefix(buf.String(), "Feature ID") {
		t.Errorf("single unit csv = %q (%v)", buf.String(), err)
	}
}
