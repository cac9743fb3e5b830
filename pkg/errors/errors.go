// Package errors defines the sentinel errors shared across modsync and small
// helpers for wrapping them with context. Callers compare with the standard
// library's errors.Is.
package errors

import "fmt"

// Common error types.
var (
	// Version errors.
	ErrParse = fmt.Errorf("malformed version")

	// Registry errors. Both are scoped to a single package.
	ErrRegistryUnavailable = fmt.Errorf("registry unavailable")
	ErrRegistrySchema      = fmt.Errorf("registry response does not match expected schema")

	// Install errors. Both are scoped to a single package.
	ErrDownload   = fmt.Errorf("download failed")
	ErrExtraction = fmt.Errorf("extraction failed")

	// ErrManifestIO is returned when the dependency manifest cannot be written.
	ErrManifestIO = fmt.Errorf("manifest io failed")

	// ErrNoPackagesResolved is returned when the manifest lists mods but not a
	// single one could be looked up in the registry.
	ErrNoPackagesResolved = fmt.Errorf("no packages could be resolved")

	// Config errors.
	ErrEmptyConfigPath      = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath    = fmt.Errorf("invalid config file path")
	ErrConfigParse          = fmt.Errorf("failed to parse config")
	ErrConfigValidation     = fmt.Errorf("invalid configuration")
	ErrConfigEncode         = fmt.Errorf("failed to encode config")
	ErrConfigDirectory      = fmt.Errorf("failed to create config directory")
	ErrHTTPTimeoutNegative  = fmt.Errorf("http_timeout cannot be negative")
	ErrMaxConcurrentInvalid = fmt.Errorf("max_concurrent must be at least 1")
	ErrInvalidBaselineMode  = fmt.Errorf("invalid baseline mode")
	ErrInvalidLogLevel      = fmt.Errorf("invalid log level")
	ErrInvalidOutputFormat  = fmt.Errorf("invalid output format")
	ErrRegistryURLEmpty     = fmt.Errorf("registry_url cannot be empty")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")

	// ErrInvalidPath is returned when a file or directory path is invalid.
	ErrInvalidPath = fmt.Errorf("invalid path")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Tag marks err as belonging to the sentinel category kind while keeping the
// original error reachable through errors.Is / errors.As.
func Tag(kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}
