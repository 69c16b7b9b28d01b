package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuxiang/jsontok/internal/errors"
	"github.com/wuxiang/jsontok/internal/formatter"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "canonical", cfg.Output.Mode)
	assert.Equal(t, "", cfg.Output.KeyCase)
	assert.False(t, cfg.Input.Sentinel)
	assert.Equal(t, ByteSize(32*1024), cfg.Input.ChunkSize)
	assert.Equal(t, "64 MiB", cfg.Input.MaxSize.String())
	assert.Equal(t, 4, cfg.Check.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
input:
  sentinel: true
  chunk_size: 4096
  max_size: "10 MB"
output:
  mode: compact
  key_case: snake
  renames:
    - pattern: "^id$"
      replacement: "ID"
    - pattern: "^x_(.*)$"
      replacement: "$1"
check:
  workers: 8
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Input.Sentinel)
	assert.Equal(t, ByteSize(4096), cfg.Input.ChunkSize)
	assert.Equal(t, ByteSize(10_000_000), cfg.Input.MaxSize)
	assert.Equal(t, "compact", cfg.Output.Mode)
	assert.Equal(t, "snake", cfg.Output.KeyCase)
	assert.Equal(t, 8, cfg.Check.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Output.Renames, 2)
	assert.Equal(t, "^id$", cfg.Output.Renames[0].Pattern)
	assert.Equal(t, "ID", cfg.Output.Renames[0].Replacement)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, `
output:
  mode: [unclosed array
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_LoadInvalidByteSize(t *testing.T) {
	path := writeConfig(t, `
input:
  max_size: "lots"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid byte size "lots"`)
}

func TestConfig_LoadInvalidPattern(t *testing.T) {
	path := writeConfig(t, `
output:
  renames:
    - pattern: "[invalid regex"
      replacement: "x"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rename pattern")
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".jsontok.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  mode: pretty\n"), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(nestedDir))

	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), "mode: pretty")
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(tmpDir))

	assert.Empty(t, FindConfigFile())
}

func TestKeyRename_Apply(t *testing.T) {
	rename := KeyRename{Pattern: "^x_(.*)$", Replacement: "$1"}

	got, ok := rename.Apply("x_total")
	assert.True(t, ok)
	assert.Equal(t, "total", got)

	got, ok = rename.Apply("total")
	assert.False(t, ok)
	assert.Equal(t, "total", got)

	invalid := KeyRename{Pattern: "[invalid regex"}
	assert.False(t, invalid.MatchesKey("anything"))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		msg    string
	}{
		{"mode", func(c *Config) { c.Output.Mode = "fancy" }, `unknown output mode "fancy"`},
		{"key case", func(c *Config) { c.Output.KeyCase = "upper" }, `unknown key case "upper"`},
		{"chunk size", func(c *Config) { c.Input.ChunkSize = 0 }, "chunk size must be positive"},
		{"max size", func(c *Config) { c.Input.MaxSize = -1 }, "max size must not be negative"},
		{"workers", func(c *Config) { c.Check.Workers = 0 }, "workers must be at least 1"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, `unknown log level "trace"`},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, `unknown log format "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestConfig_FormatOptions(t *testing.T) {
	cfg := NewConfig()
	cfg.Output.Mode = "compact"
	cfg.Output.KeyCase = "kebab"
	cfg.Output.Renames = []KeyRename{{Pattern: "^id$", Replacement: "ID"}}

	opts := cfg.FormatOptions()
	assert.Equal(t, formatter.ModeCompact, opts.Mode)
	assert.Equal(t, formatter.KebabCase, opts.KeyCase)
	require.Len(t, opts.Renames, 1)

	got, ok := opts.Renames[0]("id")
	assert.True(t, ok)
	assert.Equal(t, "ID", got)
}

func TestConfig_MergeWithCLI(t *testing.T) {
	base := NewConfig()
	base.Output.Mode = "pretty"
	base.Output.KeyCase = "snake"
	base.Input.Sentinel = true

	override := &Config{
		Output: OutputConfig{Mode: "compact"},
		Check:  CheckConfig{Workers: 2},
	}

	merged := MergeConfigs(base, override)

	assert.Equal(t, "compact", merged.Output.Mode)
	assert.Equal(t, "snake", merged.Output.KeyCase)
	assert.Equal(t, 2, merged.Check.Workers)
	assert.True(t, merged.Input.Sentinel, "a flag cannot switch sentinel mode off")
	assert.Equal(t, "pretty", base.Output.Mode, "base is left untouched")
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	path := writeConfig(t, `
output:
  mode: pretty
  key_case: camel
check:
  workers: 3
`)

	cfg, err := LoadConfigWithCLI(path, Overrides{Mode: "compact", MaxSize: "1KiB", LogLevel: "error"})
	require.NoError(t, err)

	assert.Equal(t, "compact", cfg.Output.Mode) // From CLI
	assert.Equal(t, ByteSize(1024), cfg.Input.MaxSize)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "camel", cfg.Output.KeyCase) // From config file
	assert.Equal(t, 3, cfg.Check.Workers)
	assert.Equal(t, ByteSize(32*1024), cfg.Input.ChunkSize) // Default value
}

func TestLoadConfigWithPrecedence_NoOverrides(t *testing.T) {
	path := writeConfig(t, `
output:
  mode: compact
`)

	cfg, err := LoadConfigWithCLI(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "compact", cfg.Output.Mode)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigWithCLI_Errors(t *testing.T) {
	_, err := LoadConfigWithCLI("", Overrides{MaxSize: "huge"})
	assert.True(t, stderrors.Is(err, errors.ErrInvalidConfig))

	_, err = LoadConfigWithCLI("", Overrides{Mode: "yaml"})
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeConfig}))

	_, err = LoadConfigWithCLI("/non/existent/config.yml", Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot load '/non/existent/config.yml'")
}
