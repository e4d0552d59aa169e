package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the codereview configuration.
type Config struct {
	Provider    string        `yaml:"provider" json:"provider"`
	Model       string        `yaml:"model" json:"model"`
	BaseURL     string        `yaml:"baseURL,omitempty" json:"baseURL,omitempty"`
	Temperature float64       `yaml:"temperature" json:"temperature"`
	MaxTokens   int           `yaml:"maxTokens" json:"maxTokens"`
	Render      bool          `yaml:"render" json:"render"`
	Cache       CacheConfig   `yaml:"cache" json:"cache"`
	Privacy     PrivacyConfig `yaml:"privacy" json:"privacy"`
	History     HistoryConfig `yaml:"history" json:"history"`
	Diff        DiffConfig    `yaml:"diff" json:"diff"`

	// APIKey is resolved from the provider's environment variable.
	APIKey string `yaml:"-" json:"-"`
}

// CacheConfig controls reply caching.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Dir        string `yaml:"dir,omitempty" json:"dir,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds" json:"ttlSeconds"`
}

// PrivacyConfig controls secret redaction.
type PrivacyConfig struct {
	RedactSecrets bool     `yaml:"redactSecrets" json:"redactSecrets"`
	RedactPaths   []string `yaml:"redactPaths,omitempty" json:"redactPaths,omitempty"`
}

// HistoryConfig controls the transcript database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`
}

// DiffConfig controls how git diffs are collected for --diff reviews.
type DiffConfig struct {
	ContextLines int `yaml:"contextLines" json:"contextLines"`
	MaxBytes     int `yaml:"maxBytes" json:"maxBytes"`
}

var defaultModels = map[string]string{
	"openai":    "gpt-4",
	"anthropic": "claude-sonnet-4-6",
	"claude":    "claude-sonnet-4-6",
	"ollama":    "llama3.1",
}

// Default returns a Config with all defaults applied. The model is left empty
// and resolved from the provider by Load.
func Default() Config {
	return Config{
		Provider:    "openai",
		Temperature: 0.3,
		MaxTokens:   2048,
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Diff: DiffConfig{
			MaxBytes: 200000,
		},
	}
}

// MaxTemperature returns the highest sampling temperature provider accepts.
// Anthropic caps temperature at 1; the others allow up to 2.
func MaxTemperature(provider string) float64 {
	switch provider {
	case "anthropic", "claude":
		return 1
	default:
		return 2
	}
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// ConfigDir returns the platform-appropriate config directory.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codereview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "codereview"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "codereview"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "codereview"), nil
	default:
		return filepath.Join(home, ".config", "codereview"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns the platform-appropriate directory for the history database.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "codereview"), nil
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return ConfigDir()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "codereview"), nil
}

// LoadFile decodes the config file over the defaults. A missing file yields
// the defaults and a nil error.
func LoadFile() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only set flags should be present).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := resolve(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if limit := MaxTemperature(c.Provider); c.Temperature < 0 || c.Temperature > limit {
		return fmt.Errorf("temperature for %s must be between 0 and %g, got %g", c.Provider, limit, c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("maxTokens must be positive, got %d", c.MaxTokens)
	}
	if c.Diff.ContextLines < 0 || c.Diff.MaxBytes < 0 {
		return fmt.Errorf("diff limits must not be negative")
	}
	return nil
}

var envKeys = map[string]string{
	"CODEREVIEW_PROVIDER":    "provider",
	"CODEREVIEW_MODEL":       "model",
	"CODEREVIEW_BASE_URL":    "baseURL",
	"CODEREVIEW_TEMPERATURE": "temperature",
	"CODEREVIEW_MAX_TOKENS":  "maxTokens",
	"CODEREVIEW_RENDER":      "render",
	"CODEREVIEW_HISTORY":     "history.enabled",
	"CODEREVIEW_CACHE":       "cache.enabled",
}

func mergeEnv(cfg *Config) error {
	for env, key := range envKeys {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// resolve fills in values derived from other settings: the provider's default
// model, the API key and the history database path.
func resolve(cfg *Config) error {
	if cfg.Model == "" && cfg.Provider == "openai" {
		cfg.Model = os.Getenv("OPENAI_MODEL")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	switch cfg.Provider {
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		dir, err := DataDir()
		if err != nil {
			return err
		}
		cfg.History.Path = filepath.Join(dir, "history.db")
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "baseURL":
		cfg.BaseURL = value
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = f
	case "maxTokens":
		return setInt(&cfg.MaxTokens, key, value)
	case "render":
		return setBool(&cfg.Render, key, value)
	case "cache.enabled":
		return setBool(&cfg.Cache.Enabled, key, value)
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		return setInt(&cfg.Cache.TTLSeconds, key, value)
	case "privacy.redactSecrets":
		return setBool(&cfg.Privacy.RedactSecrets, key, value)
	case "history.enabled":
		return setBool(&cfg.History.Enabled, key, value)
	case "history.path":
		cfg.History.Path = value
	case "diff.contextLines":
		return setInt(&cfg.Diff.ContextLines, key, value)
	case "diff.maxBytes":
		return setInt(&cfg.Diff.MaxBytes, key, value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be true or false: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}
