package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	DetectConfig struct {
		CSS     bool `yaml:"css"`
		JS      bool `yaml:"js"`
		Vue     bool `yaml:"vue"`
		Angular bool `yaml:"angular"`
	}

	CSSInJSConfig struct {
		Enabled              bool     `yaml:"enabled"`
		Libraries            []string `yaml:"libraries" validate:"dive,oneof=all styled-components emotion stitches vue-styled-components pinceau"`
		IgnoreInterpolations bool     `yaml:"ignore_interpolations"`
		ShowSource           bool     `yaml:"show_source"`
	}

	AnalysisConfig struct {
		Target            string        `yaml:"target" validate:"required,oneof=2022 2023 2024 2025 widely widely-available newly newly-available"`
		DatasetPath       string        `yaml:"dataset_path" sanitize:"assure_file_access"`
		Detect            DetectConfig  `yaml:"detect"`
		CSSInJS           CSSInJSConfig `yaml:"css_in_js"`
		WarnOnNonBaseline bool          `yaml:"warn_on_non_baseline"`
		SkipDirs          []string      `yaml:"skip_dirs" validate:"dive,required"`
		MaxFileSize       int64         `yaml:"max_file_size" validate:"min=1024"`
	}

	ExportConfig struct {
		Format      ExportFormat `yaml:"format" validate:"required"`
		Destination string       `yaml:"destination"`
		Overwrite   bool         `yaml:"overwrite"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Analysis  AnalysisConfig `yaml:"analysis"`
		Export    ExportConfig   `yaml:"export"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// Checks which cannot be expressed with field tags.
func validateConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	d := cfg.Analysis.Detect
	// scripts are only looked at when css-in-js extraction is on
	js := d.JS && cfg.Analysis.CSSInJS.Enabled
	if !d.CSS && !js && !d.Vue && !d.Angular {
		sl.ReportError(cfg.Analysis.Detect, "Detect", "detect", "one_detector", "")
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(validateConfig)); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
