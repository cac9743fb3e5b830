package registry

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jotunnResponse = `{
	"namespace": "ValheimModding",
	"name": "Jotunn",
	"full_name": "ValheimModding-Jotunn",
	"latest": {
		"namespace": "ValheimModding",
		"name": "Jotunn",
		"version_number": "2.21.0",
		"full_name": "ValheimModding-Jotunn-2.21.0",
		"download_url": "https://thunderstore.io/package/download/ValheimModding/Jotunn/2.21.0/"
	}
}`

var jotunn = model.PackageIdentity{Author: "ValheimModding", Name: "Jotunn"}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Options{
		BaseURL:    srv.URL,
		UserAgent:  "modsync-test",
		Timeout:    2 * time.Second,
		RetryDelay: time.Millisecond,
	})
}

func TestFetchPackage_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/experimental/package/ValheimModding/Jotunn/", r.URL.Path)
		assert.Equal(t, "modsync-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(jotunnResponse))
	}))
	defer srv.Close()

	pkg, err := newTestClient(srv).FetchPackage(context.Background(), jotunn)
	require.NoError(t, err)
	assert.Equal(t, model.RegistryPackage{
		Identity:      jotunn,
		LatestVersion: model.MustParseVersion("2.21.0"),
		DownloadURL:   "https://thunderstore.io/package/download/ValheimModding/Jotunn/2.21.0/",
		FullName:      "ValheimModding-Jotunn-2.21.0",
	}, pkg)
}

func TestFetchPackage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"detail":"Not found."}`, wantErr: errors.ErrRegistryUnavailable},
		{name: "server error", status: http.StatusBadGateway, body: "", wantErr: errors.ErrRegistryUnavailable},
		{name: "invalid json", status: http.StatusOK, body: "<html>", wantErr: errors.ErrRegistrySchema},
		{name: "missing latest", status: http.StatusOK, body: `{"namespace":"a","name":"b"}`, wantErr: errors.ErrRegistrySchema},
		{name: "missing download url", status: http.StatusOK, body: `{"namespace":"a","name":"b","latest":{"version_number":"1.0.0","full_name":"a-b-1.0.0"}}`, wantErr: errors.ErrRegistrySchema},
		{name: "malformed version", status: http.StatusOK, body: `{"namespace":"a","name":"b","latest":{"version_number":"1.0","full_name":"a-b-1.0","download_url":"https://x/"}}`, wantErr: errors.ErrRegistrySchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv).FetchPackage(context.Background(), jotunn)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestFetchPackage_RetriesOnceOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(jotunnResponse))
	}))
	defer srv.Close()

	pkg, err := newTestClient(srv).FetchPackage(context.Background(), jotunn)
	require.NoError(t, err)
	assert.Equal(t, "2.21.0", pkg.LatestVersion.String())
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchPackage_GivesUpAfterRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchPackage(context.Background(), jotunn)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrRegistryUnavailable))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchPackage_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchPackage(context.Background(), jotunn)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchPackage_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := newTestClient(srv)
	srv.Close()

	_, err := client.FetchPackage(context.Background(), jotunn)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrRegistryUnavailable))
}

func TestFetchPackage_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(jotunnResponse))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(srv).FetchPackage(ctx, jotunn)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}
