// Package manifest reads and writes the dependency manifest and probes the
// install directory for the versions that are actually on disk.
package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/fsutil"
	"github.com/glorpus-work/modsync/pkg/model"
)

// installedManifestSuffix matches the per-package metadata file shipped inside
// every registry archive.
const installedManifestSuffix = "manifest.json"

// Store is the filesystem-backed manifest store.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the manifest at path. A missing or unreadable manifest is logged
// and treated as empty. Entries with an unreadable version are kept; see
// model.ModDependency.VersionErr.
func (s *Store) Load(path string) model.DependencyManifest {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Dependency manifest not found, starting with an empty manifest", logger.Fields{"path": path})
		} else {
			logger.Warn("Failed to read dependency manifest", logger.Fields{"path": path, "error": err.Error()})
		}
		return emptyManifest()
	}

	var m model.DependencyManifest
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Warn("Failed to parse dependency manifest", logger.Fields{"path": path, "error": err.Error()})
		return emptyManifest()
	}
	if m.Mods == nil {
		m.Mods = []model.ModDependency{}
	}

	for _, mod := range m.Mods {
		logger.Debug("Loaded dependency", logger.Fields{
			"package": mod.Identity().String(),
			"version": mod.DeclaredVersion(),
		})
	}
	return m
}

// Save writes the manifest to path atomically. The output uses tab
// indentation and a trailing newline.
func (s *Store) Save(path string, m model.DependencyManifest) error {
	data, err := Encode(m)
	if err != nil {
		return errors.Tag(errors.ErrManifestIO, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
			return errors.Tag(errors.ErrManifestIO, errors.Wrapf(err, "create manifest directory %s", dir))
		}
	}
	if err := fsutil.WriteFileAtomic(path, data, fsutil.FileModeDefault); err != nil {
		return errors.Tag(errors.ErrManifestIO, err)
	}
	logger.Debug("Saved dependency manifest", logger.Fields{"path": path, "mods": len(m.Mods)})
	return nil
}

// Encode renders the manifest in its on-disk form.
func Encode(m model.DependencyManifest) ([]byte, error) {
	if m.Mods == nil {
		m.Mods = []model.ModDependency{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, errors.Wrap(err, "encode manifest")
	}
	return buf.Bytes(), nil
}

type installedManifest struct {
	VersionNumber string `json:"version_number"`
}

// ProbeInstalledVersion looks inside installRoot/{author}-{name} for the
// package's own manifest and returns the version recorded there. Any failure
// yields model.ZeroVersion.
func (s *Store) ProbeInstalledVersion(id model.PackageIdentity, installRoot string) model.SemanticVersion {
	dir := filepath.Join(installRoot, id.String())
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug("Package not installed", logger.Fields{"package": id.String(), "path": dir})
		return model.ZeroVersion
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), installedManifestSuffix) {
			continue
		}
		v, err := readInstalledVersion(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("Failed to read installed package manifest", logger.Fields{
				"package": id.String(),
				"file":    entry.Name(),
				"error":   err.Error(),
			})
			return model.ZeroVersion
		}
		return v
	}
	return model.ZeroVersion
}

// Probe returns the installed version record for every identity, in order.
func (s *Store) Probe(ids []model.PackageIdentity, installRoot string) []model.InstalledVersionRecord {
	records := make([]model.InstalledVersionRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, model.InstalledVersionRecord{
			Identity: id,
			Version:  s.ProbeInstalledVersion(id, installRoot),
		})
	}
	return records
}

func readInstalledVersion(path string) (model.SemanticVersion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ZeroVersion, err
	}
	// Registry archives frequently carry a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var im installedManifest
	if err := json.Unmarshal(data, &im); err != nil {
		return model.ZeroVersion, errors.Wrap(err, "decode installed manifest")
	}
	return model.ParseVersion(im.VersionNumber)
}

func emptyManifest() model.DependencyManifest {
	return model.DependencyManifest{Mods: []model.ModDependency{}}
}
