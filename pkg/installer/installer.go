// Package installer downloads a registry package and unpacks it into the
// install directory, replacing whatever version was there before.
package installer

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/download"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/fsutil"
	"github.com/glorpus-work/modsync/pkg/hook"
	"github.com/glorpus-work/modsync/pkg/model"
)

// Downloader fetches a remote archive into dir.
type Downloader interface {
	Fetch(ctx context.Context, item download.Item, dir string) (string, error)
}

// Extractor unpacks an archive into a directory.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string) error
}

// PostInstallHook runs after a package has been put in place.
type PostInstallHook interface {
	Execute(ctx context.Context, hc hook.Context) error
}

// Installer handles package installation and updates.
type Installer struct {
	DL      Downloader
	Archive Extractor
	Hook    PostInstallHook // optional
	WorkDir string          // where archives are downloaded; defaults to os.TempDir()
}

// New creates a new Installer instance.
func New(dl Downloader, archive Extractor, workDir string, postInstall PostInstallHook) *Installer {
	return &Installer{DL: dl, Archive: archive, WorkDir: workDir, Hook: postInstall}
}

// Install downloads pkg and installs it into installRoot/{author}-{name}.
// The new contents are extracted into a staging directory first so a failed
// extraction leaves the previous install untouched. The downloaded archive is
// always removed.
func (i *Installer) Install(ctx context.Context, pkg model.RegistryPackage, installRoot string) error {
	id := pkg.Identity
	if err := id.Validate(); err != nil {
		return err
	}

	workDir := i.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}

	fields := logger.Fields{"package": id.String(), "version": pkg.LatestVersion.String()}
	logger.Debug("Downloading package", fields)

	archivePath, err := i.DL.Fetch(ctx, download.Item{ID: id.String(), URL: pkg.DownloadURL}, workDir)
	if err != nil {
		if !stderrors.Is(err, errors.ErrDownload) {
			err = errors.Tag(errors.ErrDownload, err)
		}
		return errors.Wrapf(err, "download %s", id)
	}
	defer func() {
		if rmErr := os.Remove(archivePath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("Failed to remove downloaded archive", logger.Fields{"path": archivePath, "error": rmErr.Error()})
		}
	}()

	target := filepath.Join(installRoot, id.String())
	if err := i.extract(ctx, archivePath, installRoot, target); err != nil {
		return errors.Wrapf(errors.Tag(errors.ErrExtraction, err), "install %s", id)
	}

	logger.Success("Installed package", fields)
	i.runHook(ctx, pkg, target)
	return nil
}

func (i *Installer) extract(ctx context.Context, archivePath, installRoot, target string) error {
	if err := os.MkdirAll(installRoot, fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "create install directory")
	}

	staging, err := os.MkdirTemp(installRoot, "."+filepath.Base(target)+"-staging-*")
	if err != nil {
		return errors.Wrap(err, "create staging directory")
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := os.Chmod(staging, fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "set staging directory permissions")
	}
	if err := i.Archive.ExtractAll(ctx, archivePath, staging); err != nil {
		return err
	}
	return fsutil.ReplaceDir(staging, target)
}

func (i *Installer) runHook(ctx context.Context, pkg model.RegistryPackage, target string) {
	if i.Hook == nil {
		return
	}
	err := i.Hook.Execute(ctx, hook.Context{
		PackageAuthor:  pkg.Identity.Author,
		PackageName:    pkg.Identity.Name,
		PackageVersion: pkg.LatestVersion.String(),
		InstallPath:    target,
	})
	if err != nil {
		logger.Warn("Post-install hook failed", logger.Fields{"package": pkg.Identity.String(), "error": err.Error()})
	}
}
