package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/wuxiang/jsontok/internal/errors"
	"github.com/wuxiang/jsontok/internal/formatter"
	"github.com/wuxiang/jsontok/internal/logging"
)

// Config represents the complete configuration for jsontok
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Check  CheckConfig  `yaml:"check"`
	Log    LogConfig    `yaml:"log"`
}

// InputConfig controls how sources are read
type InputConfig struct {
	// Sentinel stops reading at the first NUL byte.
	Sentinel  bool     `yaml:"sentinel"`
	ChunkSize ByteSize `yaml:"chunk_size"`
	// MaxSize bounds the bytes read per input; zero is unlimited.
	MaxSize ByteSize `yaml:"max_size"`
}

// OutputConfig controls how parsed values are written back
type OutputConfig struct {
	Mode    string      `yaml:"mode"`
	KeyCase string      `yaml:"key_case"`
	Renames []KeyRename `yaml:"renames"`
}

// KeyRename rewrites object keys matching Pattern
type KeyRename struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// CheckConfig controls batch validation of several files
type CheckConfig struct {
	Workers int `yaml:"workers"`
}

// LogConfig controls diagnostic logging on stderr
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ByteSize is a size in bytes that reads either a plain integer or a
// human readable string such as "64MiB" or "10 kB".
type ByteSize int64

// UnmarshalYAML implements yaml.Unmarshaler
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if err := node.Decode(&n); err == nil {
		*b = ByteSize(n)
		return nil
	}
	parsed, err := humanize.ParseBytes(node.Value)
	if err != nil {
		return fmt.Errorf("invalid byte size %q: %w", node.Value, err)
	}
	*b = ByteSize(parsed)
	return nil
}

func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Input: InputConfig{
			Sentinel:  false,
			ChunkSize: 32 * 1024,
			MaxSize:   64 << 20,
		},
		Output: OutputConfig{
			Mode:    string(formatter.ModeCanonical),
			KeyCase: string(formatter.KeepCase),
			Renames: []KeyRename{},
		},
		Check: CheckConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "logfmt",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontok.yml", ".jsontok.yaml", "jsontok.yml", "jsontok.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

func (c *Config) compilePatterns() error {
	for i := range c.Output.Renames {
		rename := &c.Output.Renames[i]
		regex, err := regexp.Compile(rename.Pattern)
		if err != nil {
			return fmt.Errorf("invalid rename pattern '%s': %w", rename.Pattern, err)
		}
		rename.regex = regex
	}
	return nil
}

// MatchesKey checks if this rename applies to the given object key
func (r *KeyRename) MatchesKey(key string) bool {
	if r.regex == nil {
		regex, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false
		}
		r.regex = regex
	}
	return r.regex.MatchString(key)
}

// Apply rewrites key with Replacement when it matches. Replacement may
// refer to capture groups as $1 or ${name}.
func (r *KeyRename) Apply(key string) (string, bool) {
	if !r.MatchesKey(key) {
		return key, false
	}
	return r.regex.ReplaceAllString(key, r.Replacement), true
}

// Validate rejects settings the command cannot act on
func (c *Config) Validate() error {
	if _, err := formatter.ParseMode(c.Output.Mode); err != nil {
		return errors.NewConfigError(err.Error(), errors.ErrInvalidConfig)
	}
	if _, err := formatter.ParseKeyCase(c.Output.KeyCase); err != nil {
		return errors.NewConfigError(err.Error(), errors.ErrInvalidConfig)
	}
	if c.Input.ChunkSize <= 0 {
		return errors.NewConfigError(fmt.Sprintf("chunk size must be positive, got %d", c.Input.ChunkSize), errors.ErrInvalidConfig)
	}
	if c.Input.MaxSize < 0 {
		return errors.NewConfigError(fmt.Sprintf("max size must not be negative, got %d", c.Input.MaxSize), errors.ErrInvalidConfig)
	}
	if c.Check.Workers < 1 {
		return errors.NewConfigError(fmt.Sprintf("workers must be at least 1, got %d", c.Check.Workers), errors.ErrInvalidConfig)
	}
	if !slices.Contains(logging.Levels, c.Log.Level) {
		return errors.NewConfigError(fmt.Sprintf("unknown log level %q", c.Log.Level), errors.ErrInvalidConfig)
	}
	if !slices.Contains(logging.Formats, c.Log.Format) {
		return errors.NewConfigError(fmt.Sprintf("unknown log format %q", c.Log.Format), errors.ErrInvalidConfig)
	}
	return c.compilePatterns()
}

// FormatOptions builds the formatter settings for the output section
func (c *Config) FormatOptions() formatter.Options {
	opts := formatter.Options{
		Mode:    formatter.Mode(c.Output.Mode),
		KeyCase: formatter.KeyCase(c.Output.KeyCase),
	}
	for i := range c.Output.Renames {
		opts.Renames = append(opts.Renames, c.Output.Renames[i].Apply)
	}
	return opts
}

// MergeConfigs merges CLI overrides into a base config
// Non-empty values from override take precedence over base values
func MergeConfigs(base, override *Config) *Config {
	merged := *base

	if override.Output.Mode != "" {
		merged.Output.Mode = override.Output.Mode
	}
	if override.Output.KeyCase != "" {
		merged.Output.KeyCase = override.Output.KeyCase
	}
	if override.Input.ChunkSize != 0 {
		merged.Input.ChunkSize = override.Input.ChunkSize
	}
	if override.Input.MaxSize != 0 {
		merged.Input.MaxSize = override.Input.MaxSize
	}
	if override.Check.Workers != 0 {
		merged.Check.Workers = override.Check.Workers
	}
	if override.Log.Level != "" {
		merged.Log.Level = override.Log.Level
	}
	if override.Log.Format != "" {
		merged.Log.Format = override.Log.Format
	}

	// A flag can only switch sentinel mode on
	merged.Input.Sentinel = base.Input.Sentinel || override.Input.Sentinel

	return &merged
}

// Overrides holds the values given on the command line. Zero values leave
// the file or default setting in place.
type Overrides struct {
	Mode     string
	KeyCase  string
	Sentinel bool
	MaxSize  string
	Workers  int
	LogLevel string
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("cannot load '%s'", configPath), err)
		}
		cfg = fileConfig
	}

	override := &Config{
		Input:  InputConfig{Sentinel: cli.Sentinel},
		Output: OutputConfig{Mode: cli.Mode, KeyCase: cli.KeyCase},
		Check:  CheckConfig{Workers: cli.Workers},
		Log:    LogConfig{Level: cli.LogLevel},
	}
	if cli.MaxSize != "" {
		size, err := humanize.ParseBytes(cli.MaxSize)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid max size %q", cli.MaxSize), errors.ErrInvalidConfig)
		}
		override.Input.MaxSize = ByteSize(size)
	}

	cfg = MergeConfigs(cfg, override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
