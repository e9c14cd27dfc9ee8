package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wordseq/configs"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	// Given: root command
	root := NewRootCmd()

	// When: finding config command
	configCmd, _, err := root.Find([]string{"config"})
	require.NoError(t, err)

	// Then: it has init, show and path
	names := make(map[string]bool)
	for _, sc := range configCmd.Commands() {
		names[sc.Name()] = true
	}
	assert.True(t, names["init"])
	assert.True(t, names["show"])
	assert.True(t, names["path"])
}

func TestConfigPathCmd_OutputsPath(t *testing.T) {
	isolate(t)
	xdg := os.Getenv("XDG_CONFIG_HOME")

	stdout, _, err := execute(t, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "wordseq", "config.yaml"), strings.TrimSpace(stdout))
}

func TestConfigInitCmd_CreatesTemplate(t *testing.T) {
	// Given: no user config
	isolate(t)
	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "wordseq", "config.yaml")

	// When: running config init
	stdout, _, err := execute(t, "config", "init")

	// Then: the template is written
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created user configuration")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configs.UserConfigTemplate, string(data))
}

func TestConfigInitCmd_ExistingWithoutForce(t *testing.T) {
	// Given: a customised user config
	isolate(t)
	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "wordseq", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("input:\n  path: mine.txt\n"), 0o644))

	// When: running config init without --force
	stdout, _, err := execute(t, "config", "init")

	// Then: the file is left alone
	require.NoError(t, err)
	assert.Contains(t, stdout, "already exists")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mine.txt")

	// When: forcing
	stdout, _, err = execute(t, "config", "init", "--force")

	// Then: a backup is kept and the template replaces the file
	require.NoError(t, err)
	assert.Contains(t, stdout, "Backup:")
	matches, err := filepath.Glob(path + ".bak.*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configs.UserConfigTemplate, string(data))
}

func TestConfigShowCmd_MergedJSON(t *testing.T) {
	// Given: a project config
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wordseq.yaml"), []byte("performance:\n  workers: 6\n"), 0o644))

	// When: showing merged config as JSON
	stdout, _, err := execute(t, "config", "show", "--json")

	// Then: the project value is merged over defaults
	require.NoError(t, err)
	var decoded struct {
		Input struct {
			Path string `json:"path"`
		} `json:"input"`
		Performance struct {
			Workers int `json:"workers"`
		} `json:"performance"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "dictionary.txt", decoded.Input.Path)
	assert.Equal(t, 6, decoded.Performance.Workers)
}

func TestConfigShowCmd_Sources(t *testing.T) {
	isolate(t)

	tests := []struct {
		source string
		want   string
	}{
		{source: "defaults", want: "defaults (hardcoded)"},
		{source: "user", want: "No user configuration file found"},
		{source: "project", want: "No project configuration file found"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			stdout, _, err := execute(t, "config", "show", "--source", tt.source)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestConfigShowCmd_InvalidSource(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "config", "show", "--source", "nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source")
}
