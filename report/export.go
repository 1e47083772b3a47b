// Package report renders evaluation payloads in the supported export
// formats.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"baseliner/analyze"
	"baseliner/baseline"
	"baseliner/common"
	"baseliner/config"
)

// ExportData is the flattened view of a payload all exporters work from.
type ExportData struct {
	RunID                string                  `json:"runId" yaml:"runId"`
	StoryID              string                  `json:"storyId" yaml:"storyId"`
	Target               string                  `json:"target" yaml:"target"`
	Source               common.FeatureSource    `json:"source" yaml:"source"`
	AnnotatedCount       int                     `json:"annotatedCount" yaml:"annotatedCount"`
	DetectedCount        int                     `json:"detectedCount" yaml:"detectedCount"`
	TotalFeatures        int                     `json:"totalFeatures" yaml:"totalFeatures"`
	CompliantFeatures    int                     `json:"compliantFeatures" yaml:"compliantFeatures"`
	NonCompliantFeatures int                     `json:"nonCompliantFeatures" yaml:"nonCompliantFeatures"`
	Features             []baseline.FeatureUsage `json:"features" yaml:"features"`
	ExportedAt           time.Time               `json:"exportedAt" yaml:"exportedAt"`
}

// NewRunID returns time ordered identifier shared by all exports of a run.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Prepare flattens payload. Missing summary means zero counts and no
// features.
func Prepare(p analyze.Payload, runID string, now time.Time) ExportData {
	d := ExportData{
		RunID:          runID,
		StoryID:        p.StoryID,
		Target:         p.Target,
		Source:         p.Source,
		AnnotatedCount: p.AnnotatedCount,
		DetectedCount:  p.DetectedCount,
		Features:       []baseline.FeatureUsage{},
		ExportedAt:     now.UTC(),
	}
	if s := p.Summary; s != nil {
		d.TotalFeatures = s.TotalCount
		d.CompliantFeatures = s.CompliantCount
		d.NonCompliantFeatures = s.NonCompliantCount
		d.Features = append(d.Features, s.Features...)
	}
	return d
}

// Write renders data in the requested format.
func Write(w io.Writer, format config.ExportFormat, d ExportData) error {
	switch format {
	case config.ExportFormatJson:
		return JSON(w, d)
	case config.ExportFormatCsv:
		return CSV(w, d)
	case config.ExportFormatHtml:
		return HTML(w, d)
	case config.ExportFormatYaml:
		return YAML(w, d)
	case config.ExportFormatJunit:
		return JUnit(w, d)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// WriteAll renders several units into a single stream. JSON becomes an
// array, YAML a multi document stream and JUnit a single document with a
// suite per unit. Tabular and page formats hold one unit only.
func WriteAll(w io.Writer, format config.ExportFormat, units []ExportData) error {
	if len(units) == 1 {
		return Write(w, format, units[0])
	}
	switch format {
	case config.ExportFormatJson:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(units); err != nil {
			return fmt.Errorf("unable to encode json: %w", err)
		}
		return nil
	case config.ExportFormatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, d := range units {
			if err := enc.Encode(d); err != nil {
				return fmt.Errorf("unable to encode yaml: %w", err)
			}
		}
		return enc.Close()
	case config.ExportFormatJunit:
		return JUnit(w, units...)
	}
	return fmt.Errorf("%s export holds a single unit, %d units were analyzed", format, len(units))
}

// JSON writes full structured dump.
func JSON(w io.Writer, d ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("unable to encode json: %w", err)
	}
	return nil
}

// YAML writes the same structure as JSON.
func YAML(w io.Writer, d ExportData) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("unable to encode yaml: %w", err)
	}
	return enc.Close()
}

var csvHeader = []string{"Feature ID", "Feature Name", "Support Level", "Baseline Status", "Browsers"}

// CSV writes one row per feature.
func CSV(w io.Writer, d ExportData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range d.Features {
		row := []string{
			f.FeatureID,
			f.Name,
			string(f.Support),
			f.Baseline.String(),
			strings.Join(f.Browsers, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
