// Package asset implements the data-asset pipeline: an asset directory holds
// an io.yaml describing named inputs and outputs, each bound to a reader or
// writer strategy (spark, local, postgres, s3). A transform reads inputs,
// computes, and writes outputs through an acquired session where needed.
package asset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// IOFile is the asset IO configuration filename inside an asset directory.
const IOFile = "io.yaml"

// DefaultStrategy applies when an input or output names none.
const DefaultStrategy = "spark"

// Input describes one named data source of an asset.
type Input struct {
	Name     string         `yaml:"name"`
	Strategy string         `yaml:"strategy"`
	API      string         `yaml:"api"`
	Args     map[string]any `yaml:"args"`
	Columns  []string       `yaml:"columns"`
}

// Output describes one named data sink of an asset.
type Output struct {
	Name     string         `yaml:"name"`
	Strategy string         `yaml:"strategy"`
	API      string         `yaml:"api"`
	Args     map[string]any `yaml:"args"`
	Columns  []string       `yaml:"columns"`
}

// IOConfig is the parsed io.yaml of an asset directory.
type IOConfig struct {
	Name    string         `yaml:"name"`
	Inputs  []Input        `yaml:"inputs"`
	Outputs []Output       `yaml:"outputs"`
	Context map[string]any `yaml:"context"`
}

// Input returns the named input.
func (c *IOConfig) Input(name string) (*Input, error) {
	for i := range c.Inputs {
		if c.Inputs[i].Name == name {
			return &c.Inputs[i], nil
		}
	}
	return nil, fmt.Errorf("input %q not found in asset %q", name, c.Name)
}

// Output returns the named output.
func (c *IOConfig) Output(name string) (*Output, error) {
	for i := range c.Outputs {
		if c.Outputs[i].Name == name {
			return &c.Outputs[i], nil
		}
	}
	return nil, fmt.Errorf("output %q not found in asset %q", name, c.Name)
}

// UsesStrategy reports whether any input or output resolves to the named
// strategy. The runner uses it to decide whether a session must be acquired.
func (c *IOConfig) UsesStrategy(name string) bool {
	for _, in := range c.Inputs {
		if strategyOf(in.Strategy) == name {
			return true
		}
	}
	for _, out := range c.Outputs {
		if strategyOf(out.Strategy) == name {
			return true
		}
	}
	return false
}

func strategyOf(s string) string {
	if s == "" {
		return DefaultStrategy
	}
	return s
}

// LoadIOConfig reads and renders the io.yaml in dir. Placeholders of the
// form ${expr} in any string value are evaluated against vars before the
// document is decoded.
func LoadIOConfig(dir string, vars map[string]any) (*IOConfig, error) {
	path := filepath.Join(dir, IOFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset config: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: invalid YAML: %w", path, err)
	}

	rendered, err := renderValue(raw, vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Round-trip through YAML to decode the rendered document into the
	// typed config.
	out, err := yaml.Marshal(rendered)
	if err != nil {
		return nil, err
	}
	var cfg IOConfig
	if err := yaml.Unmarshal(out, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("%s: asset name is required", path)
	}
	return &cfg, nil
}
