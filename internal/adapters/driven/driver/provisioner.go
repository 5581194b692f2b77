package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/xuie0000/wordbook/internal/core/domain"
	"github.com/xuie0000/wordbook/internal/core/ports/driven"
	"github.com/xuie0000/wordbook/internal/logger"
)

// Ensure Provisioner implements the port.
var _ driven.DriverProvisioner = (*Provisioner)(nil)

// Config carries the artifact coordinates: where artifacts live, where to
// fetch them from, and the pinned integrity digest.
type Config struct {
	// DataDir is the directory holding the artifact (and the database).
	DataDir string

	// URL is the fixed HTTPS location of the versioned artifact.
	URL string

	// SHA1 is the pinned digest the artifact must match before trust.
	SHA1 string

	// Version names the artifact file on disk.
	Version string
}

// ArtifactName returns the versioned artifact file name.
func (c Config) ArtifactName() string {
	return "wordbook-driver-" + c.Version + ".so"
}

// ArtifactPath returns the artifact's on-disk destination.
func (c Config) ArtifactPath() string {
	return filepath.Join(c.DataDir, c.ArtifactName())
}

// Provisioner locates or downloads the database driver artifact. All
// artifact existence checks and downloads happen under the cross-process
// file lock, so concurrent host processes never clobber each other.
type Provisioner struct {
	cfg    Config
	lock   driven.FileLocker
	client *http.Client
}

// New creates a provisioner. The lock must guard the data directory the
// artifact is installed into.
func New(cfg Config, lock driven.FileLocker) *Provisioner {
	return &Provisioner{cfg: cfg, lock: lock, client: http.DefaultClient}
}

// SetHTTPClient overrides the HTTP client. Used by tests.
func (p *Provisioner) SetHTTPClient(c *http.Client) {
	p.client = c
}

// Locate finds an already-available driver without network access: the
// compiled-in driver first, then a verified on-disk artifact. Returns
// domain.ErrNoDriver when neither is usable.
func (p *Provisioner) Locate(ctx context.Context) (driven.DriverHandle, error) {
	embedded := NewEmbeddedProbe()
	if embedded.Usable() {
		return embedded.Open()
	}

	var handle driven.DriverHandle
	err := p.lock.WithLock(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		probe := NewArtifactProbe(p.cfg.ArtifactPath(), p.cfg.SHA1)
		if !probe.Usable() {
			return domain.ErrNoDriver
		}
		h, err := probe.Open()
		if err != nil {
			logger.Warn("driver: artifact failed verification: %v", err)
			return fmt.Errorf("%w: %w", domain.ErrNoDriver, err)
		}
		handle = h
		return nil
	})
	if err != nil {
		return driven.DriverHandle{}, err
	}
	return handle, nil
}

// Download fetches the driver artifact, verifies it against the pinned
// digest and installs it atomically relative to the file lock. A cancelled
// or failed download leaves no partial artifact behind.
func (p *Provisioner) Download(ctx context.Context) error {
	return p.lock.WithLock(func() error {
		dest := p.cfg.ArtifactPath()

		// Another process may have finished the download while we
		// waited for the lock.
		if checksumMatches(dest, p.cfg.SHA1) {
			logger.Info("driver: artifact already installed")
			return nil
		}

		// Whatever is there now is stale or partial.
		if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale artifact: %w", err)
		}

		if err := os.MkdirAll(p.cfg.DataDir, 0700); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		if ctx.Err() != nil {
			return domain.ErrDownloadCancelled
		}
		return p.fetch(ctx, dest)
	})
}

// fetch streams the artifact into a temporary file in the destination
// directory, renames it into place and re-verifies the checksum after the
// move. The temporary file is removed on every exit path.
func (p *Provisioner) fetch(ctx context.Context, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	logger.Info("driver: downloading %s", p.cfg.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("building download request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		tmp.Close()
		if errors.Is(err, context.Canceled) {
			return domain.ErrDownloadCancelled
		}
		return fmt.Errorf("downloading driver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		tmp.Close()
		return fmt.Errorf("downloading driver: unexpected status %s", resp.Status)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		if ctx.Err() != nil {
			return domain.ErrDownloadCancelled
		}
		return fmt.Errorf("writing driver artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	// Cancellation check after the transfer, before install.
	if ctx.Err() != nil {
		return domain.ErrDownloadCancelled
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("installing driver artifact: %w", err)
	}

	// Re-validate after the move; a mismatch means the download was
	// corrupted and the artifact must not be trusted.
	if !checksumMatches(dest, p.cfg.SHA1) {
		os.Remove(dest)
		return domain.ErrChecksumMismatch
	}

	logger.Info("driver: artifact installed at %s", dest)
	return nil
}
