package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the directory connection settings that are awkward to pass on
// every invocation.
type Profile struct {
	Server      string            `yaml:"server"`
	Cookie      string            `yaml:"cookie"`
	Headers     map[string]string `yaml:"headers"`
	OutputDir   string            `yaml:"outputDir"`
	Concurrency int               `yaml:"concurrency"`
	Memo        bool              `yaml:"memo"`
	Cache       bool              `yaml:"cache"`
	CacheDir    string            `yaml:"cacheDir"`
}

// Load reads a YAML profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	profile, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return profile, nil
}

// Parse decodes a YAML profile, rejecting unknown keys.
func Parse(data []byte) (*Profile, error) {
	profile := &Profile{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(profile); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if profile.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative")
	}
	return profile, nil
}
