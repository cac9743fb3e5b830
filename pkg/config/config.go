// Package config provides configuration management for modsync.
// Settings are read from a YAML file; anything left unset falls back to
// DefaultConfig, and CLI flags override the result.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/fsutil"
	"github.com/glorpus-work/modsync/pkg/model"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// HooksConfig points at optional tengo scripts run around installs.
type HooksConfig struct {
	PostInstall string `yaml:"post_install,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Registry settings
	RegistryURL string `yaml:"registry_url"`
	UserAgent   string `yaml:"user_agent,omitempty"`

	// Paths
	InstallDir   string `yaml:"install_dir"`
	ManifestPath string `yaml:"manifest_path"`
	WorkDir      string `yaml:"work_dir,omitempty"` // where archives are downloaded; defaults to the system temp directory

	// Network settings
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	MaxConcurrent int           `yaml:"max_concurrent"`

	// Upgrade settings
	Baseline string `yaml:"baseline"` // declared, installed

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error

	Hooks HooksConfig `yaml:"hooks,omitempty"`
}

// Default configuration values.
const (
	DefaultRegistryURL  = "https://thunderstore.io"
	DefaultInstallDir   = "/home/steam/valheim/BepInEx/plugins"
	DefaultManifestPath = "/home/steam/valheim/mods.json"
	DefaultUserAgent    = "modsync/1.0"

	// DefaultHTTPTimeout bounds each registry request and archive download.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRetryDelay is the pause before the single registry retry.
	DefaultRetryDelay = 250 * time.Millisecond

	// DefaultMaxConcurrent is the number of installs in flight at once.
	DefaultMaxConcurrent = 3

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			RegistryURL:   DefaultRegistryURL,
			UserAgent:     DefaultUserAgent,
			InstallDir:    DefaultInstallDir,
			ManifestPath:  DefaultManifestPath,
			HTTPTimeout:   DefaultHTTPTimeout,
			RetryDelay:    DefaultRetryDelay,
			MaxConcurrent: DefaultMaxConcurrent,
			Baseline:      string(model.BaselineInstalled),
			OutputFormat:  string(logger.FormatText),
			LogLevel:      "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}
	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return cfg, cfg.expandPaths()
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()
	if err := config.expandPaths(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig writes the configuration to path via a temp file and rename.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	data, err := c.ToYAML()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(absPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var sb strings.Builder
	encoder := yaml.NewEncoder(&sb)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return []byte(sb.String()), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	return validateSettings(c.Settings)
}

func validateSettings(s Settings) error {
	if strings.TrimSpace(s.RegistryURL) == "" {
		return errors.ErrRegistryURLEmpty
	}
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	if s.MaxConcurrent < 1 {
		return errors.ErrMaxConcurrentInvalid
	}
	if _, err := model.ParseBaselineMode(s.Baseline); err != nil {
		return errors.Wrap(errors.ErrInvalidBaselineMode, err.Error())
	}
	switch logger.OutputFormat(s.OutputFormat) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: '%s', must be one of: text, json", errors.ErrInvalidOutputFormat, s.OutputFormat)
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: '%s', must be one of: debug, info, warn, error", errors.ErrInvalidLogLevel, s.LogLevel)
	}
	return nil
}

// BaselineMode returns the parsed baseline mode. Validate must have passed.
func (c *Config) BaselineMode() model.BaselineMode {
	mode, err := model.ParseBaselineMode(c.Settings.Baseline)
	if err != nil {
		return model.BaselineInstalled
	}
	return mode
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "modsync", "config.yaml"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.RegistryURL == "" {
		c.Settings.RegistryURL = defaults.Settings.RegistryURL
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.InstallDir == "" {
		c.Settings.InstallDir = defaults.Settings.InstallDir
	}
	if c.Settings.ManifestPath == "" {
		c.Settings.ManifestPath = defaults.Settings.ManifestPath
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.RetryDelay == 0 {
		c.Settings.RetryDelay = defaults.Settings.RetryDelay
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.Baseline == "" {
		c.Settings.Baseline = defaults.Settings.Baseline
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}

// expandPaths resolves a leading ~ in every path setting.
func (c *Config) expandPaths() error {
	for _, p := range []*string{
		&c.Settings.InstallDir,
		&c.Settings.ManifestPath,
		&c.Settings.WorkDir,
		&c.Settings.Hooks.PostInstall,
	} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidPath, "%s: %v", *p, err)
		}
		*p = expanded
	}
	return nil
}
