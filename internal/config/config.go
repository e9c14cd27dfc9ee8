// Package config loads layered wordseq configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default file names used when nothing else is configured.
const (
	DefaultInput     = "dictionary.txt"
	DefaultSequences = "sequences.txt"
	DefaultWords     = "words.txt"
)

// Project config file names, in lookup order.
var projectConfigNames = []string{".wordseq.yaml", ".wordseq.yml"}

// Config represents the complete wordseq configuration.
type Config struct {
	Version     int               `yaml:"version" json:"version"`
	Input       InputConfig       `yaml:"input" json:"input"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
	Watch       WatchConfig       `yaml:"watch" json:"watch"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
}

// InputConfig configures the word list.
type InputConfig struct {
	// Path is the word list, one word per line. "-" reads stdin.
	Path string `yaml:"path" json:"path"`
}

// OutputConfig configures the report sinks.
type OutputConfig struct {
	// Sequences receives one unique sequence per line.
	Sequences string `yaml:"sequences" json:"sequences"`
	// Words receives the matching word for each line of Sequences.
	Words string `yaml:"words" json:"words"`
	// Database is an optional SQLite file the report is also exported to.
	Database string `yaml:"database" json:"database"`
}

// PerformanceConfig configures ingestion.
type PerformanceConfig struct {
	// Workers is the number of goroutines indexing batches (1 = sequential).
	Workers int `yaml:"workers" json:"workers"`
	// BatchSize is the number of words per batch when Workers > 1.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

// WatchConfig configures --watch mode.
type WatchConfig struct {
	// Debounce coalesces bursts of input file events (e.g. "500ms").
	Debounce string `yaml:"debounce" json:"debounce"`
}

// LoggingConfig configures console logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Input: InputConfig{
			Path: DefaultInput,
		},
		Output: OutputConfig{
			Sequences: DefaultSequences,
			Words:     DefaultWords,
		},
		Performance: PerformanceConfig{
			Workers:   1,
			BatchSize: 4096,
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/wordseq/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/wordseq/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wordseq", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "wordseq", "config.yaml")
	}
	return filepath.Join(home, ".config", "wordseq", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file on top of defaults.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// LoadProjectConfig loads .wordseq.yaml (or .yml) from dir on top of
// defaults. Returns nil config and nil error if neither file exists.
func LoadProjectConfig(dir string) (*Config, error) {
	path := ProjectConfigPath(dir)
	if path == "" {
		return nil, nil
	}
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProjectConfigPath returns the project config file in dir, or "" if none.
func ProjectConfigPath(dir string) string {
	for _, name := range projectConfigNames {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// Load loads configuration for the given directory.
// Sources are applied in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/wordseq/config.yaml)
//  3. Project config (.wordseq.yaml in dir)
//  4. Environment variables (WORDSEQ_*)
//
// Command-line flags are applied by the caller afterwards.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserLayer(); err != nil {
		return nil, err
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if path := ProjectConfigPath(dir); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadUserLayer parses the user config without defaults so that only the
// keys it sets are merged.
func loadUserLayer() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}
	var parsed Config
	if err := parseYAML(configPath, &parsed); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	return &parsed, nil
}

// loadYAML parses path and merges its non-zero values into c.
func (c *Config) loadYAML(path string) error {
	var parsed Config
	if err := parseYAML(path, &parsed); err != nil {
		return err
	}
	c.mergeWith(&parsed)
	return nil
}

func parseYAML(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Input.Path != "" {
		c.Input.Path = other.Input.Path
	}

	if other.Output.Sequences != "" {
		c.Output.Sequences = other.Output.Sequences
	}
	if other.Output.Words != "" {
		c.Output.Words = other.Output.Words
	}
	if other.Output.Database != "" {
		c.Output.Database = other.Output.Database
	}

	if other.Performance.Workers != 0 {
		c.Performance.Workers = other.Performance.Workers
	}
	if other.Performance.BatchSize != 0 {
		c.Performance.BatchSize = other.Performance.BatchSize
	}

	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
}

// applyEnvOverrides applies WORDSEQ_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("WORDSEQ_INPUT"); v != "" {
		c.Input.Path = v
	}
	if v := os.Getenv("WORDSEQ_SEQUENCES"); v != "" {
		c.Output.Sequences = v
	}
	if v := os.Getenv("WORDSEQ_WORDS"); v != "" {
		c.Output.Words = v
	}
	if v := os.Getenv("WORDSEQ_DB"); v != "" {
		c.Output.Database = v
	}
	if v := os.Getenv("WORDSEQ_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WORDSEQ_WORKERS must be an integer, got %q", v)
		}
		c.Performance.Workers = n
	}
	if v := os.Getenv("WORDSEQ_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path must not be empty")
	}
	if c.Output.Sequences == "" || c.Output.Words == "" {
		return fmt.Errorf("output.sequences and output.words must not be empty")
	}
	if filepath.Clean(c.Output.Sequences) == filepath.Clean(c.Output.Words) {
		return fmt.Errorf("output.sequences and output.words must be different files, both are %s", c.Output.Sequences)
	}
	if in := filepath.Clean(c.Input.Path); c.Input.Path != "-" &&
		(in == filepath.Clean(c.Output.Sequences) || in == filepath.Clean(c.Output.Words)) {
		return fmt.Errorf("input.path must not be one of the output files")
	}
	if c.Performance.Workers < 0 {
		return fmt.Errorf("performance.workers must be non-negative, got %d", c.Performance.Workers)
	}
	if c.Performance.BatchSize < 0 {
		return fmt.Errorf("performance.batch_size must be non-negative, got %d", c.Performance.BatchSize)
	}
	if _, err := c.WatchDebounce(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}

	return nil
}

// WatchDebounce parses Watch.Debounce.
func (c *Config) WatchDebounce() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce must be a duration like 500ms, got %q", c.Watch.Debounce)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce must be non-negative, got %s", d)
	}
	return d, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// BackupUserConfig copies the user config to a timestamped .bak file.
// Returns the backup path, or "" if there is no user config.
func BackupUserConfig() (string, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return "", nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to read config for backup: %w", err)
	}

	backupPath := fmt.Sprintf("%s.bak.%s", configPath, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return backupPath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
