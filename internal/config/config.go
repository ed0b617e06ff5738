// Package config holds the report generation configuration, assembled from
// defaults, an optional YAML file and command line flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// IncludeOptions selects which aggregation branches run. A disabled branch is
// replaced by its documented empty default instead of being fetched.
type IncludeOptions struct {
	CodeScanning                bool `yaml:"codeScanning" json:"codeScanning"`
	SecretScanning              bool `yaml:"secretScanning" json:"secretScanning"`
	SoftwareCompositionAnalysis bool `yaml:"softwareCompositionAnalysis" json:"softwareCompositionAnalysis"`
}

// Config is the full configuration surface of the report command.
type Config struct {
	Repository   string         `yaml:"repository"`
	Ref          string         `yaml:"ref"`
	SarifID      string         `yaml:"sarifId"`
	OutputDir    string         `yaml:"outputDir"`
	Format       string         `yaml:"format"`
	GitHubAPIURL string         `yaml:"githubApiUrl"`
	Include      IncludeOptions `yaml:"include"`
}

// Default returns the configuration used when nothing else is specified:
// main branch, current directory, HTML output, every branch enabled.
func Default() Config {
	return Config{
		Ref:       "refs/heads/main",
		OutputDir: ".",
		Format:    "html",
		Include: IncludeOptions{
			CodeScanning:                true,
			SecretScanning:              true,
			SoftwareCompositionAnalysis: true,
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
