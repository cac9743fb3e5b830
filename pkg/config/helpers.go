package config

import (
	"fmt"
	"strconv"
	"time"
)

// Keys returns the configuration keys understood by SetValue and GetValue,
// in display order.
func Keys() []string {
	return []string{
		"registry_url",
		"user_agent",
		"install_dir",
		"manifest_path",
		"work_dir",
		"http_timeout",
		"retry_delay",
		"max_concurrent",
		"baseline",
		"output_format",
		"log_level",
		"hooks.post_install",
	}
}

// SetValue sets a configuration value by key and re-validates the result.
func (c *Config) SetValue(key, value string) error {
	s := &c.Settings
	switch key {
	case "registry_url":
		s.RegistryURL = value
	case "user_agent":
		s.UserAgent = value
	case "install_dir":
		s.InstallDir = value
	case "manifest_path":
		s.ManifestPath = value
	case "work_dir":
		s.WorkDir = value
	case "http_timeout", "retry_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %s", key, value)
		}
		if key == "http_timeout" {
			s.HTTPTimeout = d
		} else {
			s.RetryDelay = d
		}
	case "max_concurrent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %s", key, value)
		}
		s.MaxConcurrent = n
	case "baseline":
		s.Baseline = value
	case "output_format":
		s.OutputFormat = value
	case "log_level":
		s.LogLevel = value
	case "hooks.post_install":
		s.Hooks.PostInstall = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return c.Validate()
}

// GetValue returns the value of key rendered as a string.
func (c *Config) GetValue(key string) (string, error) {
	s := c.Settings
	switch key {
	case "registry_url":
		return s.RegistryURL, nil
	case "user_agent":
		return s.UserAgent, nil
	case "install_dir":
		return s.InstallDir, nil
	case "manifest_path":
		return s.ManifestPath, nil
	case "work_dir":
		return s.WorkDir, nil
	case "http_timeout":
		return s.HTTPTimeout.String(), nil
	case "retry_delay":
		return s.RetryDelay.String(), nil
	case "max_concurrent":
		return strconv.Itoa(s.MaxConcurrent), nil
	case "baseline":
		return s.Baseline, nil
	case "output_format":
		return s.OutputFormat, nil
	case "log_level":
		return s.LogLevel, nil
	case "hooks.post_install":
		return s.Hooks.PostInstall, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}
