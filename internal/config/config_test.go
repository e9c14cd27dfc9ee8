package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateUserConfig points XDG_CONFIG_HOME at an empty temp dir so the
// developer's own config never leaks into tests.
func isolateUserConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"WORDSEQ_INPUT", "WORDSEQ_SEQUENCES", "WORDSEQ_WORDS", "WORDSEQ_DB", "WORDSEQ_WORKERS", "WORDSEQ_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	// Given: no configuration
	cfg := NewConfig()

	// Then: defaults match the conventional file names
	require.NotNil(t, cfg)
	assert.Equal(t, "dictionary.txt", cfg.Input.Path)
	assert.Equal(t, "sequences.txt", cfg.Output.Sequences)
	assert.Equal(t, "words.txt", cfg.Output.Words)
	assert.Empty(t, cfg.Output.Database)
	assert.Equal(t, 1, cfg.Performance.Workers)
	assert.Equal(t, 4096, cfg.Performance.BatchSize)
	assert.Equal(t, "500ms", cfg.Watch.Debounce)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles_UsesDefaults(t *testing.T) {
	isolateUserConfig(t)

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_ProjectConfig_OverridesDefaults(t *testing.T) {
	// Given: a project config setting a few keys
	isolateUserConfig(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".wordseq.yaml"), `
input:
  path: words/english.txt
performance:
  workers: 4
`)

	// When: loading
	cfg, err := Load(dir)

	// Then: set keys override, others keep defaults
	require.NoError(t, err)
	assert.Equal(t, "words/english.txt", cfg.Input.Path)
	assert.Equal(t, 4, cfg.Performance.Workers)
	assert.Equal(t, "sequences.txt", cfg.Output.Sequences)
}

func TestLoad_YmlFallback(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".wordseq.yml"), "output:\n  database: report.db\n")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "report.db", cfg.Output.Database)
}

func TestLoad_Precedence(t *testing.T) {
	// Given: user, project and env all set the input path
	xdg := isolateUserConfig(t)
	writeFile(t, filepath.Join(xdg, "wordseq", "config.yaml"), `
input:
  path: user.txt
output:
  words: user-words.txt
logging:
  level: info
`)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".wordseq.yaml"), `
input:
  path: project.txt
output:
  sequences: project-seqs.txt
`)
	t.Setenv("WORDSEQ_INPUT", "env.txt")

	// When: loading
	cfg, err := Load(dir)

	// Then: env beats project beats user beats defaults
	require.NoError(t, err)
	assert.Equal(t, "env.txt", cfg.Input.Path)
	assert.Equal(t, "project-seqs.txt", cfg.Output.Sequences)
	assert.Equal(t, "user-words.txt", cfg.Output.Words)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateUserConfig(t)
	t.Setenv("WORDSEQ_SEQUENCES", "s.txt")
	t.Setenv("WORDSEQ_WORDS", "w.txt")
	t.Setenv("WORDSEQ_DB", "r.db")
	t.Setenv("WORDSEQ_WORKERS", "3")
	t.Setenv("WORDSEQ_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "s.txt", cfg.Output.Sequences)
	assert.Equal(t, "w.txt", cfg.Output.Words)
	assert.Equal(t, "r.db", cfg.Output.Database)
	assert.Equal(t, 3, cfg.Performance.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidWorkersEnv(t *testing.T) {
	isolateUserConfig(t)
	t.Setenv("WORDSEQ_WORKERS", "many")

	_, err := Load(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORDSEQ_WORKERS")
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".wordseq.yaml"), "input: [unclosed\n")

	_, err := Load(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "stdin input", mutate: func(c *Config) { c.Input.Path = "-" }},
		{name: "empty input", mutate: func(c *Config) { c.Input.Path = "" }, wantErr: "input.path"},
		{name: "empty output", mutate: func(c *Config) { c.Output.Words = "" }, wantErr: "must not be empty"},
		{name: "same outputs", mutate: func(c *Config) { c.Output.Words = "./sequences.txt" }, wantErr: "different files"},
		{name: "input is output", mutate: func(c *Config) { c.Input.Path = "words.txt" }, wantErr: "output files"},
		{name: "negative workers", mutate: func(c *Config) { c.Performance.Workers = -1 }, wantErr: "workers"},
		{name: "negative batch", mutate: func(c *Config) { c.Performance.BatchSize = -5 }, wantErr: "batch_size"},
		{name: "bad debounce", mutate: func(c *Config) { c.Watch.Debounce = "soon" }, wantErr: "debounce"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "uppercase level", mutate: func(c *Config) { c.Logging.Level = "DEBUG" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatchDebounce(t *testing.T) {
	cfg := NewConfig()
	d, err := cfg.WatchDebounce()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestWriteYAML_RoundTrips(t *testing.T) {
	// Given: a customised config written to disk
	isolateUserConfig(t)
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Input.Path = "big.txt"
	cfg.Performance.Workers = 8
	require.NoError(t, cfg.WriteYAML(filepath.Join(dir, ".wordseq.yaml")))

	// When: loading it back as project config
	loaded, err := LoadProjectConfig(dir)

	// Then: values survive
	require.NoError(t, err)
	assert.Equal(t, "big.txt", loaded.Input.Path)
	assert.Equal(t, 8, loaded.Performance.Workers)
}

func TestUserConfigPath_UsesXDG(t *testing.T) {
	xdg := isolateUserConfig(t)

	assert.Equal(t, filepath.Join(xdg, "wordseq", "config.yaml"), GetUserConfigPath())
	assert.False(t, UserConfigExists())

	cfg, err := LoadUserConfig()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestBackupUserConfig(t *testing.T) {
	// Given: no user config
	xdg := isolateUserConfig(t)
	path, err := BackupUserConfig()
	require.NoError(t, err)
	assert.Empty(t, path)

	// When: a user config exists
	writeFile(t, filepath.Join(xdg, "wordseq", "config.yaml"), "input:\n  path: a.txt\n")
	path, err = BackupUserConfig()

	// Then: a backup with the same content is created
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a.txt")
}
