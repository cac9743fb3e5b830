package model

import "fmt"

// BaselineMode selects which version an outdated check compares against.
type BaselineMode string

const (
	// BaselineDeclared compares against the version recorded in the manifest.
	BaselineDeclared BaselineMode = "declared"
	// BaselineInstalled compares against the version probed from the install directory.
	BaselineInstalled BaselineMode = "installed"
)

// ParseBaselineMode converts a config or flag value into a BaselineMode.
func ParseBaselineMode(s string) (BaselineMode, error) {
	switch BaselineMode(s) {
	case BaselineDeclared, BaselineInstalled:
		return BaselineMode(s), nil
	default:
		return "", fmt.Errorf("unknown baseline mode %q (want %q or %q)", s, BaselineDeclared, BaselineInstalled)
	}
}

// ResolveFailure records a package whose registry lookup failed.
type ResolveFailure struct {
	Identity PackageIdentity
	Err      error
}

// UpgradePlan is the result of comparing a baseline against the registry.
// Every baseline identity ends up in exactly one of the three lists.
type UpgradePlan struct {
	Upgrades []RegistryPackage
	Current  []RegistryPackage
	Failures []ResolveFailure
}

// Empty reports whether the plan contains nothing to install.
func (p UpgradePlan) Empty() bool {
	return len(p.Upgrades) == 0
}
