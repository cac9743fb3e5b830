package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/hashicorp/go-version"
)

// versionPattern is the only accepted shape: three dot-separated integers.
var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// SemanticVersion is a (major, minor, patch) triple parsed from "X.Y.Z".
type SemanticVersion struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ZeroVersion is the sentinel used for packages that are not installed.
var ZeroVersion = SemanticVersion{}

// ParseVersion parses a strict "X.Y.Z" version string.
func ParseVersion(raw string) (SemanticVersion, error) {
	trimmed := strings.TrimSpace(raw)
	if !versionPattern.MatchString(trimmed) {
		return SemanticVersion{}, fmt.Errorf("%q is not of the form X.Y.Z: %w", raw, errors.ErrParse)
	}
	v, err := version.NewVersion(trimmed)
	if err != nil {
		return SemanticVersion{}, errors.Tag(errors.ErrParse, err)
	}
	segments := v.Segments64()
	return SemanticVersion{
		Major: uint64(segments[0]),
		Minor: uint64(segments[1]),
		Patch: uint64(segments[2]),
	}, nil
}

// MustParseVersion is like ParseVersion but panics on malformed input.
func MustParseVersion(raw string) SemanticVersion {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version as "X.Y.Z".
func (v SemanticVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether v is the 0.0.0 sentinel.
func (v SemanticVersion) IsZero() bool {
	return v == ZeroVersion
}

// Compare returns -1, 0 or 1 depending on whether v is lower than, equal to
// or higher than other. Components are compared in (major, minor, patch) order.
func (v SemanticVersion) Compare(other SemanticVersion) int {
	return v.semver().Compare(other.semver())
}

// IsOlderThan reports whether v precedes candidate.
func (v SemanticVersion) IsOlderThan(candidate SemanticVersion) bool {
	return v.Compare(candidate) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (v SemanticVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *SemanticVersion) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v SemanticVersion) semver() *version.Version {
	return version.Must(version.NewVersion(v.String()))
}

// IsOlder reports whether current is an older version than candidate.
// A version that is ahead at an earlier component is never older, so
// IsOlder("2.0.0", "1.9.9") is false.
func IsOlder(current, candidate string) (bool, error) {
	cur, err := ParseVersion(current)
	if err != nil {
		return false, errors.Wrap(err, "current version")
	}
	cand, err := ParseVersion(candidate)
	if err != nil {
		return false, errors.Wrap(err, "candidate version")
	}
	return cur.IsOlderThan(cand), nil
}
