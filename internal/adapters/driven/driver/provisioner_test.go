package driver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuie0000/wordbook/internal/adapters/driven/lockfile"
	"github.com/xuie0000/wordbook/internal/core/domain"
)

func newTestProvisioner(t *testing.T, url, sha1 string) (*Provisioner, Config) {
	t.Helper()

	dir := t.TempDir()
	cfg := Config{
		DataDir: dir,
		URL:     url,
		SHA1:    sha1,
		Version: "1.4.0",
	}
	return New(cfg, lockfile.New(filepath.Join(dir, "wordbook.lock"))), cfg
}

func TestConfig_ArtifactName(t *testing.T) {
	cfg := Config{DataDir: "/data", Version: "1.4.0"}
	assert.Equal(t, "wordbook-driver-1.4.0.so", cfg.ArtifactName())
	assert.Equal(t, "/data/wordbook-driver-1.4.0.so", cfg.ArtifactPath())
}

func TestProvisioner_LocatePrefersEmbeddedDriver(t *testing.T) {
	p, _ := newTestProvisioner(t, "http://unused.invalid", helloSHA1)

	handle, err := p.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EmbeddedDriverName, handle.Name)
}

func TestProvisioner_DownloadInstallsVerifiedArtifact(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	p, cfg := newTestProvisioner(t, srv.URL, helloSHA1)
	require.NoError(t, p.Download(context.Background()))

	data, err := os.ReadFile(cfg.ArtifactPath())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.EqualValues(t, 1, requests.Load())

	// A second download finds the verified artifact and skips the network.
	require.NoError(t, p.Download(context.Background()))
	assert.EqualValues(t, 1, requests.Load())
}

func TestProvisioner_DownloadReplacesStaleArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	p, cfg := newTestProvisioner(t, srv.URL, helloSHA1)
	require.NoError(t, os.WriteFile(cfg.ArtifactPath(), []byte("partial junk"), 0600))

	require.NoError(t, p.Download(context.Background()))
	assert.True(t, checksumMatches(cfg.ArtifactPath(), helloSHA1))
}

func TestProvisioner_DownloadRejectsChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("tampered payload"))
	}))
	defer srv.Close()

	p, cfg := newTestProvisioner(t, srv.URL, helloSHA1)
	err := p.Download(context.Background())
	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)

	assertNoArtifacts(t, cfg.DataDir)
}

func TestProvisioner_DownloadFailsOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	p, cfg := newTestProvisioner(t, srv.URL, helloSHA1)
	err := p.Download(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDownloadCancelled)

	assertNoArtifacts(t, cfg.DataDir)
}

func TestProvisioner_DownloadCancelled(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	p, cfg := newTestProvisioner(t, srv.URL, helloSHA1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Download(ctx)
	assert.ErrorIs(t, err, domain.ErrDownloadCancelled)
	assert.Zero(t, requests.Load())

	assertNoArtifacts(t, cfg.DataDir)
}

// assertNoArtifacts checks that no artifact or leftover temp file survived
// a failed download. The lock file is the only expected entry.
func assertNoArtifacts(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, "wordbook.lock", e.Name(), "unexpected file left behind: %s", e.Name())
	}
}

func TestWatchArtifact(t *testing.T) {
	dir := t.TempDir()

	installed := make(chan struct{}, 1)
	w, err := WatchArtifact(dir, "wordbook-driver-1.4.0.so", func() {
		select {
		case installed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	// Unrelated files are ignored.
	writeFile(t, dir, "other.txt", "noise")

	// The artifact appearing triggers the callback.
	writeFile(t, dir, "wordbook-driver-1.4.0.so", "hello")

	select {
	case <-installed:
	case <-time.After(2 * time.Second):
		t.Fatal("artifact install callback never fired")
	}
}
