// Package config loads the optional YAML build configuration.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// HandSize buckets map to an approximate reach in white keys.
type HandSize string

const (
	HandSizeXXS HandSize = "XXS"
	HandSizeXS  HandSize = "XS"
	HandSizeS   HandSize = "S"
	HandSizeM   HandSize = "M"
	HandSizeL   HandSize = "L"
	HandSizeXL  HandSize = "XL"
	HandSizeXXL HandSize = "XXL"
)

// Span is the reach in white keys used when judging stretches.
func (h HandSize) Span() float64 {
	switch h {
	case HandSizeXXS:
		return 6.5
	case HandSizeXS:
		return 7.0
	case HandSizeS:
		return 7.5
	case HandSizeM:
		return 8.0
	case HandSizeL:
		return 8.5
	case HandSizeXL:
		return 9.0
	case HandSizeXXL:
		return 9.5
	}
	return 8.5
}

type AgentConfig struct {
	BaseURL           string `yaml:"baseUrl"`
	Model             string `yaml:"model"`
	APIKey            string `yaml:"apiKey"`
	MeasuresPerPrompt int    `yaml:"measuresPerPrompt"`
}

type Config struct {
	HandSize HandSize `yaml:"handSize"`
	// Part indexes override clef-based hand detection when set.
	RightHandPartIndex *int        `yaml:"rightHandPartIndex"`
	LeftHandPartIndex  *int        `yaml:"leftHandPartIndex"`
	Agent              AgentConfig `yaml:"agent"`
}

func Default() *Config {
	return &Config{HandSize: HandSizeL}
}

func Load(path string) (*Config, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(dat, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
