// Package download fetches package archives over HTTP into a working
// directory.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/fsutil"
)

// Item represents one remote resource to download.
type Item struct {
	ID  string // used to name the temporary file, e.g. ValheimModding-Jotunn
	URL string
}

// Manager is a simple HTTP download manager.
type Manager struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a new download manager with the given timeout and user agent.
func NewManager(timeout time.Duration, userAgent string) *Manager {
	if userAgent == "" {
		userAgent = "modsync/1.0"
	}
	return &Manager{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads item into a uniquely named file inside dir and returns its
// path. The caller owns the file and must remove it. On failure nothing is
// left behind and the error wraps errors.ErrDownload.
func (m *Manager) Fetch(ctx context.Context, item Item, dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("download dir cannot be empty: %w", errors.ErrInvalidPath)
	}
	if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
		return "", errors.Tag(errors.ErrDownload, errors.Wrap(err, "could not create download dir"))
	}

	resp, err := m.doRequest(ctx, item)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	path, err := writeBodyToTemp(resp.Body, dir, item.ID)
	if err != nil {
		return "", errors.Tag(errors.ErrDownload, err)
	}
	logger.Debug("Downloaded archive", logger.Fields{"id": item.ID, "url": item.URL, "path": path})
	return path, nil
}

func (m *Manager) doRequest(ctx context.Context, item Item) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, http.NoBody)
	if err != nil {
		return nil, errors.Tag(errors.ErrDownload, errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("User-Agent", m.userAgent)
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.Tag(errors.ErrDownload, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for %s: %w", resp.StatusCode, item.URL, errors.ErrDownload)
	}
	return resp, nil
}

func writeBodyToTemp(body io.Reader, dir, id string) (path string, err error) {
	tmp, err := os.CreateTemp(dir, filepath.Base(id)+"-*.download")
	if err != nil {
		return "", errors.Wrap(err, "could not create temp file")
	}
	path = tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(path)
		}
	}()

	if _, err = io.Copy(tmp, body); err != nil {
		return "", errors.Wrap(err, "could not write file")
	}
	if err = tmp.Sync(); err != nil {
		return "", errors.Wrap(err, "could not sync file")
	}
	if err = tmp.Close(); err != nil {
		return "", errors.Wrap(err, "could not close file")
	}
	return path, nil
}
