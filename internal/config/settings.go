package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is the config file tux looks for in the project root.
const DefaultPath = "tux.toml"

// DefaultOutputDir holds capture files unless configured otherwise.
const DefaultOutputDir = "zuu"

// candidates are tried in order when no path is given.
var candidates = []string{DefaultPath, "tux.yml", "tux.yaml"}

// ErrNotFound reports a missing config file.
var ErrNotFound = errors.New("config file not found")

// Config holds the project settings read from tux.toml or tux.yml.
type Config struct {
	Languages []string      `mapstructure:"languages"`
	Strict    bool          `mapstructure:"strict"`
	Style     string        `mapstructure:"style"`
	OutputDir string        `mapstructure:"output_dir"`
	Timeout   time.Duration `mapstructure:"timeout"` // per task, 0 disables
	Guard     bool          `mapstructure:"guard"`   // refuse compound shell commands
	Redact    bool          `mapstructure:"redact"`  // mask secrets in captured output

	// Custom subjects, checked after the listed languages
	Subjects []SubjectConfig `mapstructure:"subjects"`
}

// SubjectConfig defines a custom subject or replaces a built-in table.
type SubjectConfig struct {
	Name  string       `mapstructure:"name"`
	Tasks []TaskConfig `mapstructure:"tasks"`
}

// TaskConfig is one user-authored check. Only command is required when
// category names a built-in column.
type TaskConfig struct {
	Category string `mapstructure:"category"`
	Title    string `mapstructure:"title"`
	Command  string `mapstructure:"command"`
	Success  string `mapstructure:"success"`
	Failure  string `mapstructure:"failure"`
	Capture  string `mapstructure:"capture"`
}

// Default returns the settings used for keys missing from the file.
func Default() *Config {
	return &Config{
		Languages: []string{},
		Style:     "openrc",
		OutputDir: DefaultOutputDir,
	}
}

// Resolve returns path if set, otherwise the first existing candidate in dir.
func Resolve(dir, path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s (run `tux init` to create one)", ErrNotFound, path)
		}
		return path, nil
	}
	for _, name := range candidates {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s (run `tux init` to create %s)", ErrNotFound, dir, DefaultPath)
}

// Load reads the config file at path. TUX_* environment variables override
// file values, e.g. TUX_STRICT=true or TUX_LANGUAGES=Rust,Go.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("languages", defaults.Languages)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("style", defaults.Style)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("guard", defaults.Guard)
	v.SetDefault("redact", defaults.Redact)

	v.SetEnvPrefix("TUX")
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run `tux init` to create one)", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &cfg, nil
}
