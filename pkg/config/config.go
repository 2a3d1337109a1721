// Package config loads heron.yaml.
//
// Values come from, in increasing priority: built-in defaults, the YAML
// file, and HERON_* environment variables (HERON_OUTPUT, HERON_LOG_LEVEL,
// HERON_PASSES_USES, ...). Command-line flags are applied on top by the
// caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file name looked up in the project root.
const DefaultFile = "heron.yaml"

// Config represents heron.yaml configuration
type Config struct {
	Language           string       `yaml:"language" mapstructure:"language" validate:"omitempty,oneof=go kotlin"`
	Root               string       `yaml:"root" mapstructure:"root" validate:"required"`
	Patterns           []string     `yaml:"patterns" mapstructure:"patterns" validate:"dive,required"`
	IncludeTests       bool         `yaml:"include_tests" mapstructure:"include_tests"`
	ImplicitImplements bool         `yaml:"implicit_implements" mapstructure:"implicit_implements"`
	Output             string       `yaml:"output" mapstructure:"output" validate:"required"`
	IDs                string       `yaml:"ids" mapstructure:"ids" validate:"oneof=deterministic random"`
	LogLevel           string       `yaml:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn warning error silent off none"`
	MetricsFile        string       `yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`
	Passes             PassesConfig `yaml:"passes" mapstructure:"passes"`
}

// PassesConfig switches individual relationship passes on or off.
type PassesConfig struct {
	Inheritance bool `yaml:"inheritance" mapstructure:"inheritance"`
	Aggregation bool `yaml:"aggregation" mapstructure:"aggregation"`
	Uses        bool `yaml:"uses" mapstructure:"uses"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Root:     ".",
		Patterns: []string{"./..."},
		Output:   "heron.json",
		IDs:      "deterministic",
		LogLevel: "info",
		Passes: PassesConfig{
			Inheritance: true,
			Aggregation: true,
			Uses:        true,
		},
	}
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Path   string
	Fields []string
}

func (e *ValidationError) Error() string {
	where := "config"
	if e.Path != "" {
		where = e.Path
	}
	return fmt.Sprintf("invalid %s: %s", where, strings.Join(e.Fields, "; "))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its field constraints.
func (c *Config) Validate() error {
	return c.validate("")
}

func (c *Config) validate(path string) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			fields = append(fields, fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fmt.Sprint(fe.Value())))
		case "required":
			fields = append(fields, fmt.Sprintf("%s is required", fe.Namespace()))
		default:
			fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
	}
	return &ValidationError{Path: path, Fields: fields}
}

// Load reads configuration from path. A missing file yields the defaults
// (still subject to environment overrides). An empty path means
// DefaultFile in the working directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, DefaultConfig())

	// Enable environment variable overrides
	v.SetEnvPrefix("HERON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it even when the
// file omits it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("language", d.Language)
	v.SetDefault("root", d.Root)
	v.SetDefault("patterns", d.Patterns)
	v.SetDefault("include_tests", d.IncludeTests)
	v.SetDefault("implicit_implements", d.ImplicitImplements)
	v.SetDefault("output", d.Output)
	v.SetDefault("ids", d.IDs)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("metrics_file", d.MetricsFile)
	v.SetDefault("passes.inheritance", d.Passes.Inheritance)
	v.SetDefault("passes.aggregation", d.Passes.Aggregation)
	v.SetDefault("passes.uses", d.Passes.Uses)
}

// Save writes configuration to a YAML file, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
