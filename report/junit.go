package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"baseliner/baseline"
)

// JUnit writes units as test suites and features as test cases, so CI
// systems can show non compliant features as failures.
func JUnit(w io.Writer, units ...ExportData) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("testsuites")
	root.CreateAttr("name", "baseline")

	var tests, failures int
	for _, d := range units {
		suite := root.CreateElement("testsuite")
		suite.CreateAttr("name", d.StoryID)
		suite.CreateAttr("tests", strconv.Itoa(len(d.Features)))
		suite.CreateAttr("failures", strconv.Itoa(d.NonCompliantFeatures))
		suite.CreateAttr("timestamp", d.ExportedAt.Format(time.RFC3339))

		props := suite.CreateElement("properties")
		for _, kv := range [][2]string{
			{"target", d.Target},
			{"source", string(d.Source)},
			{"runId", d.RunID},
		} {
			p := props.CreateElement("property")
			p.CreateAttr("name", kv[0])
			p.CreateAttr("value", kv[1])
		}

		threshold := baseline.NormalizeTarget(d.Target)
		for _, f := range d.Features {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("classname", d.StoryID)
			tc.CreateAttr("name", f.FeatureID)
			if f.Compliant(threshold) {
				continue
			}
			failure := tc.CreateElement("failure")
			failure.CreateAttr("type", "non-baseline")
			failure.CreateAttr("message", fmt.Sprintf("%s is %s (baseline %s), target %s requires %s",
				f.Name, f.Support, f.Baseline, d.Target, threshold))
			if !f.Found {
				failure.SetText("feature is not known to the compatibility dataset")
			}
		}

		tests += len(d.Features)
		failures += d.NonCompliantFeatures
	}
	root.CreateAttr("tests", strconv.Itoa(tests))
	root.CreateAttr("failures", strconv.Itoa(failures))

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write junit report: %w", err)
	}
	return nil
}
