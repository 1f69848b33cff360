// Package config provides conversion profile loading for f2j.
// Profiles are YAML files that preset the transform, codec and
// benchmarking options of a run; command-line flags override them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents a conversion profile loaded from YAML
type Config struct {
	// Transform parameters
	Transform struct {
		// Scale names the intensity transform (raw, linear, log, sqrt,
		// squared, power, or a negative_ variant); empty means the
		// type-driven default
		Scale string `yaml:"scale"`

		// Min and Max override dynamic-range discovery when UseRange is set
		UseRange bool    `yaml:"useRange"`
		Min      float64 `yaml:"min"`
		Max      float64 `yaml:"max"`

		// NoiseSigma adds Gaussian noise with the given standard deviation
		// (0 disables); NoiseSeed makes the perturbation reproducible
		NoiseSigma float64 `yaml:"noiseSigma"`
		NoiseSeed  int64   `yaml:"noiseSeed"`
	} `yaml:"transform"`

	// Encoding parameters
	Encoding struct {
		// Format selects the registered output codec (jp2 or j2k)
		Format string `yaml:"format"`

		// Rates is the compression-ratio ladder, best layer last
		Rates []float64 `yaml:"rates"`

		// Quality is the quality ladder (1-100), mutually exclusive with Rates
		Quality []float64 `yaml:"quality"`

		// Irreversible selects the 9/7 wavelet
		Irreversible bool `yaml:"irreversible"`

		// NumLevels is the number of wavelet decomposition levels (0-6)
		NumLevels int `yaml:"numLevels"`

		// ProgressionOrder is one of LRCP, RLCP, RPCL, PCRL, CPRL
		ProgressionOrder string `yaml:"progressionOrder"`

		// TileWidth and TileHeight partition the image (0 = single tile)
		TileWidth  int `yaml:"tileWidth"`
		TileHeight int `yaml:"tileHeight"`

		// CodeBlockWidth and CodeBlockHeight set the code-block size
		CodeBlockWidth  int `yaml:"codeBlockWidth"`
		CodeBlockHeight int `yaml:"codeBlockHeight"`

		// LosslessCompanion writes an extra lossless encode per plane
		LosslessCompanion bool `yaml:"losslessCompanion"`
	} `yaml:"encoding"`

	// Benchmark parameters
	Benchmark struct {
		// Metrics lists the requested quality metrics: se, mse, rmse,
		// psnr, ae, mae, si, fidelity, mad, or "all"
		Metrics []string `yaml:"metrics"`

		// WriteResidual writes the residual image per plane
		WriteResidual bool `yaml:"writeResidual"`
	} `yaml:"benchmark"`

	// Output parameters
	Output struct {
		// Dir receives the written files
		Dir string `yaml:"dir"`

		// Prefix is the output basename prefix
		Prefix string `yaml:"prefix"`
	} `yaml:"output"`
}

// DefaultConfig returns a profile with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Encoding.Format = "jp2"
	cfg.Encoding.NumLevels = 5
	cfg.Encoding.ProgressionOrder = "LRCP"
	cfg.Encoding.CodeBlockWidth = 64
	cfg.Encoding.CodeBlockHeight = 64

	cfg.Output.Dir = "."
	cfg.Output.Prefix = "plane"

	return cfg
}

// LoadConfig loads a profile from a YAML file.
// If the file doesn't exist, it returns the default profile.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the profile to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
