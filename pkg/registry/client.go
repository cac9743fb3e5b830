// Package registry talks to a Thunderstore-style package registry.
package registry

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/model"
)

const (
	packagePathFmt = "/api/experimental/package/%s/%s/"
	retryCount     = 1
	maxBodySize    = 4 << 20
)

// Options configure a Client.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RetryDelay time.Duration
}

// Client fetches package metadata from the registry.
type Client struct {
	baseURL    string
	userAgent  string
	retryDelay time.Duration
	httpClient *http.Client
}

// NewClient creates a registry client.
func NewClient(opts Options) *Client {
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "modsync/1.0"
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  userAgent,
		retryDelay: opts.RetryDelay,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

type packageResponse struct {
	Namespace string         `json:"namespace"`
	Name      string         `json:"name"`
	FullName  string         `json:"full_name"`
	Latest    *latestVersion `json:"latest"`
}

type latestVersion struct {
	VersionNumber string `json:"version_number"`
	DownloadURL   string `json:"download_url"`
	FullName      string `json:"full_name"`
}

// FetchPackage returns the latest published version of the package.
func (c *Client) FetchPackage(ctx context.Context, id model.PackageIdentity) (model.RegistryPackage, error) {
	endpoint := c.baseURL + fmt.Sprintf(packagePathFmt, url.PathEscape(id.Author), url.PathEscape(id.Name))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return model.RegistryPackage{}, errors.Wrapf(err, "fetch %s", id)
	}

	pkg, err := decodePackage(body)
	if err != nil {
		return model.RegistryPackage{}, errors.Wrapf(err, "decode %s", id)
	}
	logger.Debug("Fetched registry metadata", logger.Fields{
		"package": pkg.Identity.String(),
		"latest":  pkg.LatestVersion.String(),
	})
	return pkg, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	for attempt := 0; attempt <= retryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
		if err != nil {
			return nil, errors.Tag(errors.ErrRegistryUnavailable, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetry(ctx, err, 0, attempt) {
				if c.wait(ctx) {
					continue
				}
			}
			return nil, errors.Tag(errors.ErrRegistryUnavailable, err)
		}

		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			_ = resp.Body.Close()
			if c.shouldRetry(ctx, nil, status, attempt) && c.wait(ctx) {
				continue
			}
			return nil, fmt.Errorf("unexpected status code %d: %w", status, errors.ErrRegistryUnavailable)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		_ = resp.Body.Close()
		if err != nil {
			return nil, errors.Tag(errors.ErrRegistryUnavailable, err)
		}
		return body, nil
	}
	return nil, fmt.Errorf("retry budget exhausted: %w", errors.ErrRegistryUnavailable)
}

func (c *Client) shouldRetry(ctx context.Context, err error, statusCode, attempt int) bool {
	if attempt >= retryCount || ctx.Err() != nil {
		return false
	}
	if err != nil {
		var netErr net.Error
		return stderrors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}

// wait sleeps for the retry delay and reports false if ctx ended first.
func (c *Client) wait(ctx context.Context) bool {
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func decodePackage(body []byte) (model.RegistryPackage, error) {
	var payload packageResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.RegistryPackage{}, errors.Tag(errors.ErrRegistrySchema, err)
	}

	var missing []string
	if payload.Namespace == "" {
		missing = append(missing, "namespace")
	}
	if payload.Name == "" {
		missing = append(missing, "name")
	}
	if payload.Latest == nil {
		missing = append(missing, "latest")
	} else {
		if payload.Latest.VersionNumber == "" {
			missing = append(missing, "latest.version_number")
		}
		if payload.Latest.DownloadURL == "" {
			missing = append(missing, "latest.download_url")
		}
		if payload.Latest.FullName == "" {
			missing = append(missing, "latest.full_name")
		}
	}
	if len(missing) > 0 {
		return model.RegistryPackage{}, fmt.Errorf("missing fields %s: %w", strings.Join(missing, ", "), errors.ErrRegistrySchema)
	}

	latest, err := model.ParseVersion(payload.Latest.VersionNumber)
	if err != nil {
		return model.RegistryPackage{}, errors.Tag(errors.ErrRegistrySchema, err)
	}
	if _, err := url.ParseRequestURI(payload.Latest.DownloadURL); err != nil {
		return model.RegistryPackage{}, errors.Tag(errors.ErrRegistrySchema, err)
	}

	return model.RegistryPackage{
		Identity:      model.PackageIdentity{Author: payload.Namespace, Name: payload.Name},
		LatestVersion: latest,
		DownloadURL:   payload.Latest.DownloadURL,
		FullName:      payload.Latest.FullName,
	}, nil
}
