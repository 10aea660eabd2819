package config

import (
	"bytes"
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

// Load loads a configuration file from the given path. The format is
// determined by the file extension: .yaml/.yml for YAML, .hcl for HCL.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = parseYAML(data)
	case ".hcl":
		cfg, err = parseHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	return cfg, nil
}

// Parse parses a YAML configuration document from memory and validates it.
func Parse(data string) (*Config, error) {
	cfg, err := parseYAML([]byte(data))
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseYAML decodes the YAML schema. Unknown fields are rejected. A plan key
// with a null value means "all groups" and survives as a nil member list.
func parseYAML(data []byte) (*Config, error) {
	type yamlConfig struct {
		Version string                       `yaml:"version"`
		Mode    string                       `yaml:"mode,omitempty"`
		Plans   map[string]*[]string         `yaml:"plans,omitempty"`
		Groups  map[string]map[string]string `yaml:"groups,omitempty"`
	}

	var raw yamlConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	cfg := &Config{
		Version: raw.Version,
		Mode:    Mode(raw.Mode),
		Groups:  raw.Groups,
		Plans:   make(map[string][]string, len(raw.Plans)),
	}
	for name, members := range raw.Plans {
		if members == nil {
			cfg.Plans[name] = nil
			continue
		}
		cfg.Plans[name] = append([]string{}, (*members)...)
	}

	return cfg, nil
}

// parseHCL decodes the HCL schema: top-level version/mode attributes plus
// labeled group and plan blocks.
func parseHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	type hclGroup struct {
		Name      string            `hcl:"name,label"`
		Resolvers map[string]string `hcl:"resolvers"`
	}
	type hclPlan struct {
		Name   string    `hcl:"name,label"`
		Groups *[]string `hcl:"groups,optional"`
	}
	type hclConfig struct {
		Version string     `hcl:"version"`
		Mode    string     `hcl:"mode,optional"`
		Groups  []hclGroup `hcl:"group,block"`
		Plans   []hclPlan  `hcl:"plan,block"`
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Version: raw.Version,
		Mode:    Mode(raw.Mode),
		Groups:  make(map[string]map[string]string, len(raw.Groups)),
		Plans:   make(map[string][]string, len(raw.Plans)),
	}
	for _, g := range raw.Groups {
		cfg.Groups[g.Name] = g.Resolvers
	}
	for _, p := range raw.Plans {
		if p.Groups == nil {
			cfg.Plans[p.Name] = nil
			continue
		}
		cfg.Plans[p.Name] = append([]string{}, (*p.Groups)...)
	}

	return cfg, nil
}
