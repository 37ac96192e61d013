// Package config loads process-level settings for devagent.
//
// Settings come from <workdir>/.devagent/config.yaml, then DEVAGENT_*
// environment variables, then defaults. Repository workflow settings
// (branch names, GitHub owner and repo) are not here; they live in the
// config_entries table.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// StateDirName is the per-repository state directory.
const StateDirName = ".devagent"

const (
	configFileName   = "config.yaml"
	databaseFileName = "devagent.db"
	envPrefix        = "DEVAGENT_"

	defaultLogLevel   = "warn"
	defaultLogFormat  = "console"
	defaultMaxRetries = 3
)

// Config is the process configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	GitHub   GitHubConfig   `koanf:"github"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// GitHubConfig holds credentials and transport settings for the tracker.
type GitHubConfig struct {
	Token      string `koanf:"token"`
	BaseURL    string `koanf:"base_url"`
	MaxRetries int    `koanf:"max_retries"`
}

// StateDir returns the state directory for workdir.
func StateDir(workdir string) string {
	return filepath.Join(workdir, StateDirName)
}

// DefaultPath returns the config file path for workdir.
func DefaultPath(workdir string) string {
	return filepath.Join(StateDir(workdir), configFileName)
}

// Load reads configuration for workdir. configPath overrides the default
// file location; a missing file is not an error.
func Load(workdir, configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = DefaultPath(workdir)
	}

	content, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// DEVAGENT_LOG_LEVEL -> log.level, DEVAGENT_GITHUB_MAX_RETRIES -> github.max_retries
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg, workdir, k.Exists("github.max_retries"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func applyDefaults(cfg *Config, workdir string, retriesSet bool) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(StateDir(workdir), databaseFileName)
	} else if !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(workdir, cfg.Database.Path)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaultLogFormat
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if !retriesSet {
		cfg.GitHub.MaxRetries = defaultMaxRetries
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.GitHub.MaxRetries < 0 {
		return fmt.Errorf("github.max_retries must not be negative, got %d", c.GitHub.MaxRetries)
	}
	return nil
}

// Save writes cfg as YAML to path. The token is written only when set.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	k := koanf.New(".")
	values := map[string]any{
		"database.path":      cfg.Database.Path,
		"log.level":          cfg.Log.Level,
		"log.format":         cfg.Log.Format,
		"github.max_retries": cfg.GitHub.MaxRetries,
	}
	if cfg.GitHub.BaseURL != "" {
		values["github.base_url"] = cfg.GitHub.BaseURL
	}
	if cfg.GitHub.Token != "" {
		values["github.token"] = cfg.GitHub.Token
	}
	for key, v := range values {
		if err := k.Set(key, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory with a .gitignore that keeps
// its contents out of the working tree.
func EnsureStateDir(workdir string) (string, error) {
	dir := StateDir(workdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", StateDirName, err)
	}
	ignore := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignore); os.IsNotExist(err) {
		if err := os.WriteFile(ignore, []byte("*\n"), 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", ignore, err)
		}
	}
	return dir, nil
}
