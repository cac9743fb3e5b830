// Package model provides the data structures shared by the manifest store,
// registry client, resolver, installer and orchestrator.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glorpus-work/modsync/pkg/errors"
)

// PackageIdentity is the stable key of a package across versions.
type PackageIdentity struct {
	Author string `json:"author"`
	Name   string `json:"package"`
}

// String returns "author-name", which is also the install directory name.
func (id PackageIdentity) String() string {
	return id.Author + "-" + id.Name
}

// Validate checks that both parts of the identity are usable as a path segment.
func (id PackageIdentity) Validate() error {
	parts := []struct{ label, value string }{{"author", id.Author}, {"package", id.Name}}
	for _, p := range parts {
		label, part := p.label, p.value
		if part == "" {
			return fmt.Errorf("%s cannot be empty", label)
		}
		if strings.ContainsAny(part, `/\`) || part == "." || part == ".." {
			return fmt.Errorf("%s %q is not a valid path segment", label, part)
		}
	}
	return nil
}

// ModDependency is one entry of the dependency manifest.
//
// An entry whose version cannot be parsed still loads: Version stays zero and
// RawVersion keeps the JSON value as written so it is saved back unchanged.
type ModDependency struct {
	PackageIdentity
	Version    SemanticVersion
	RawVersion string
}

type modDependencyJSON struct {
	Author  string          `json:"author"`
	Name    string          `json:"package"`
	Version json.RawMessage `json:"version"`
}

// Identity returns the package identity of the dependency.
func (d ModDependency) Identity() PackageIdentity {
	return d.PackageIdentity
}

// VersionErr returns the parse error of an entry with an unreadable version,
// or nil. The error wraps errors.ErrParse.
func (d ModDependency) VersionErr() error {
	if d.RawVersion == "" {
		return nil
	}
	_, err := parseRawVersion(json.RawMessage(d.RawVersion))
	return err
}

// DeclaredVersion renders the version as recorded in the manifest.
func (d ModDependency) DeclaredVersion() string {
	if d.RawVersion != "" {
		return d.RawVersion
	}
	return d.Version.String()
}

// MarshalJSON implements json.Marshaler.
func (d ModDependency) MarshalJSON() ([]byte, error) {
	version := json.RawMessage(d.RawVersion)
	if d.RawVersion == "" {
		text, err := json.Marshal(d.Version.String())
		if err != nil {
			return nil, err
		}
		version = text
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(modDependencyJSON{Author: d.Author, Name: d.Name, Version: version}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler. A malformed version does not fail
// decoding; see VersionErr.
func (d *ModDependency) UnmarshalJSON(data []byte) error {
	var raw modDependencyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = ModDependency{PackageIdentity: PackageIdentity{Author: raw.Author, Name: raw.Name}}

	v, err := parseRawVersion(raw.Version)
	if err != nil {
		d.RawVersion = string(raw.Version)
		if len(raw.Version) == 0 {
			d.RawVersion = "null"
		}
		return nil
	}
	d.Version = v
	return nil
}

func parseRawVersion(raw json.RawMessage) (SemanticVersion, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return SemanticVersion{}, fmt.Errorf("version %s is not a string: %w", string(raw), errors.ErrParse)
	}
	return ParseVersion(s)
}

// RegistryPackage is the registry's current view of a package.
type RegistryPackage struct {
	Identity      PackageIdentity
	LatestVersion SemanticVersion
	DownloadURL   string
	FullName      string
}

// InstalledVersionRecord is the version found on disk for a package.
// Version is ZeroVersion when nothing usable was found.
type InstalledVersionRecord struct {
	Identity PackageIdentity
	Version  SemanticVersion
}
