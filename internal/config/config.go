// Package config loads and validates tarkov-build settings.
//
// Settings come from three layers, lowest precedence first:
//
//  1. Built-in defaults (Default), which reproduce the fixed build:
//     `docker build -t tarkov-weapon-optimizer:latest .`
//  2. An optional config file in YAML, JSONC/JSON or TOML.
//  3. Command-line flags, applied by the cli package.
//
// A missing config file is not an error; the defaults are used as-is.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/imdario/mergo"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// Backend names accepted by the "backend" setting.
const (
	// BackendCLI runs the external docker binary.
	BackendCLI = "cli"

	// BackendAPI talks to the Docker Engine API directly.
	BackendAPI = "api"
)

// DefaultLanguage is the language of the status messages when none is set.
const DefaultLanguage = "zh"

// FileNames lists the config file names probed by Discover, in order.
var FileNames = []string{
	".tarkov-build.yaml",
	".tarkov-build.yml",
	".tarkov-build.jsonc",
	".tarkov-build.json",
	".tarkov-build.toml",
}

// Config is the complete set of tarkov-build settings.
type Config struct {
	// Image is the tag applied to the built image.
	Image string `yaml:"image" json:"image" toml:"image" validate:"required"`

	// Context is the build context directory.
	Context string `yaml:"context" json:"context" toml:"context" validate:"required"`

	// Dockerfile overrides the build-definition file name. Empty means
	// the build tool's default.
	Dockerfile string `yaml:"dockerfile" json:"dockerfile" toml:"dockerfile"`

	// BuildArgs are passed to the build as --build-arg KEY=VALUE.
	BuildArgs map[string]string `yaml:"buildArgs" json:"buildArgs" toml:"buildArgs"`

	// Labels are attached to the built image.
	Labels map[string]string `yaml:"labels" json:"labels" toml:"labels"`

	// Backend selects how the build is performed: "cli" or "api".
	Backend string `yaml:"backend" json:"backend" toml:"backend" validate:"required,oneof=cli api"`

	// Strict aborts before printing the status messages when the build fails.
	Strict bool `yaml:"strict" json:"strict" toml:"strict"`

	// Language selects the status message catalog.
	Language string `yaml:"language" json:"language" toml:"language" validate:"required"`

	// Run configures the `docker run` hint printed after the build.
	Run RunConfig `yaml:"run" json:"run" toml:"run"`
}

// RunConfig holds the parameters of the printed `docker run` hint.
type RunConfig struct {
	HostPort      int    `yaml:"hostPort" json:"hostPort" toml:"hostPort" validate:"min=1,max=65535"`
	ContainerPort int    `yaml:"containerPort" json:"containerPort" toml:"containerPort" validate:"min=1,max=65535"`
	ContainerName string `yaml:"containerName" json:"containerName" toml:"containerName" validate:"required"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Image:    model.DefaultImage,
		Context:  ".",
		Backend:  BackendCLI,
		Language: DefaultLanguage,
		Run: RunConfig{
			HostPort:      8501,
			ContainerPort: 8501,
			ContainerName: "tarkov-optimizer",
		},
	}
}

// Discover returns the path of the first config file from FileNames that
// exists in dir. The boolean is false when none exists.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load reads the config file at path and fills every field the file leaves
// unset from Default. The decoder is chosen by file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := decode(path, data)
	if err != nil {
		return nil, err
	}

	// mergo.Merge only writes fields that are zero in cfg, so values from
	// the file always win over defaults.
	if err := mergo.Merge(cfg, Default()); err != nil {
		return nil, fmt.Errorf("failed to apply defaults to %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the explicit path if given, otherwise the first
// discovered file in dir, otherwise returns Default. The returned string is
// the path that was loaded, or empty for defaults.
func LoadOrDefault(explicit, dir string) (*Config, string, error) {
	path := explicit
	if path == "" {
		found, ok := Discover(dir)
		if !ok {
			return Default(), "", nil
		}
		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// decode unmarshals data according to the extension of path.
func decode(path string, data []byte) (*Config, error) {
	cfg := &Config{}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	case ".json", ".jsonc":
		// Comments and trailing commas are stripped before standard decoding.
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (valid: .yaml, .yml, .json, .jsonc, .toml)", ext)
	}

	return cfg, nil
}

// ImageRef parses the configured image. Validate must have succeeded.
func (c *Config) ImageRef() (model.ImageRef, error) {
	return model.ParseImageRef(c.Image)
}

// BuildRequest converts the settings into a build request.
func (c *Config) BuildRequest() (model.BuildRequest, error) {
	ref, err := c.ImageRef()
	if err != nil {
		return model.BuildRequest{}, err
	}
	return model.BuildRequest{
		Image:      ref,
		ContextDir: c.Context,
		Dockerfile: c.Dockerfile,
		BuildArgs:  c.BuildArgs,
		Labels:     c.Labels,
	}, nil
}

// RunHint converts the run settings into the printed hint.
func (c *Config) RunHint() (model.RunHint, error) {
	ref, err := c.ImageRef()
	if err != nil {
		return model.RunHint{}, err
	}
	return model.RunHint{
		HostPort:      c.Run.HostPort,
		ContainerPort: c.Run.ContainerPort,
		ContainerName: c.Run.ContainerName,
		Image:         ref,
	}, nil
}
