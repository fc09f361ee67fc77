package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads a configuration file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .rewriterc will try both YAML and HCL formats
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	base := filepath.Base(path)
	var cfg *Config

	// For .rewriterc files, try both YAML and HCL
	if ext == ".rewriterc" || base == ".rewriterc" {
		cfg, err = loadYAML(data)
		if err != nil {
			var hclErr error
			cfg, hclErr = loadHCL(data, path)
			if hclErr != nil {
				return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", base, hclErr)
			}
		}
	} else {
		switch ext {
		case ".json":
			cfg, err = loadJSON(data)
		case ".yaml", ".yml":
			cfg, err = loadYAML(data)
		case ".hcl":
			cfg, err = loadHCL(data, path)
		default:
			return nil, errors.Errorf("unsupported config file extension %q", ext)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// loadHCL loads a configuration from HCL data. Patterns are written as
// ordered pattern blocks:
//
//	pattern "timeout" {
//	  replacement = "60"
//	}
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	type hclRule struct {
		Pattern       string `hcl:"pattern,label"`
		Replacement   string `hcl:"replacement"`
		Inplace       bool   `hcl:"inplace,optional"`
		CaseSensitive *bool  `hcl:"case_sensitive,optional"`
	}
	type hclConfig struct {
		Patterns    []hclRule `hcl:"pattern,block"`
		Directories []string  `hcl:"directories,optional"`
		Exclude     []string  `hcl:"exclude,optional"`
		Async       bool      `hcl:"async,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Directories: hclCfg.Directories,
		Exclude:     hclCfg.Exclude,
		Async:       hclCfg.Async,
	}
	for _, rule := range hclCfg.Patterns {
		cfg.Patterns.Add(rule.Pattern, Rule{
			Replacement:   rule.Replacement,
			Inplace:       rule.Inplace,
			CaseSensitive: rule.CaseSensitive,
		})
	}

	return cfg, nil
}
