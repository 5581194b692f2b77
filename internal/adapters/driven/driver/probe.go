package driver

import (
	"database/sql"
	"fmt"
	"os"
	"plugin"
	"runtime"
	"slices"

	"github.com/xuie0000/wordbook/internal/core/domain"
	"github.com/xuie0000/wordbook/internal/core/ports/driven"
)

// Ensure both probes implement the port.
var (
	_ driven.DriverProbe = (*EmbeddedProbe)(nil)
	_ driven.DriverProbe = (*ArtifactProbe)(nil)
)

// EmbeddedProbe checks the compiled-in SQLite driver.
type EmbeddedProbe struct {
	goos   string
	goarch string
}

// NewEmbeddedProbe creates a probe for the current platform.
func NewEmbeddedProbe() *EmbeddedProbe {
	return &EmbeddedProbe{goos: runtime.GOOS, goarch: runtime.GOARCH}
}

// NewEmbeddedProbeFor creates a probe for an explicit platform. Used by
// tests to exercise the compatibility predicate.
func NewEmbeddedProbeFor(goos, goarch string) *EmbeddedProbe {
	return &EmbeddedProbe{goos: goos, goarch: goarch}
}

// Usable reports whether the compiled-in driver is registered and the
// platform is not the known-incompatible combination.
func (p *EmbeddedProbe) Usable() bool {
	if !EmbeddedCompatible(p.goos, p.goarch) {
		return false
	}
	return slices.Contains(sql.Drivers(), EmbeddedDriverName)
}

// Open returns the handle for the compiled-in driver.
func (p *EmbeddedProbe) Open() (driven.DriverHandle, error) {
	if !p.Usable() {
		return driven.DriverHandle{}, domain.ErrNoDriver
	}
	return driven.DriverHandle{Name: EmbeddedDriverName}, nil
}

// ArtifactProbe checks a previously downloaded driver artifact on disk.
// The artifact is only trusted after its SHA-1 matches the pinned digest.
type ArtifactProbe struct {
	path   string
	pinned string
}

// NewArtifactProbe creates a probe rooted at the artifact path with the
// pinned SHA-1 digest.
func NewArtifactProbe(path, pinnedSHA1 string) *ArtifactProbe {
	return &ArtifactProbe{path: path, pinned: pinnedSHA1}
}

// Usable reports whether the artifact exists and passes verification.
func (p *ArtifactProbe) Usable() bool {
	return checksumMatches(p.path, p.pinned)
}

// Open loads the artifact and resolves the database/sql driver name it
// registered. A broken artifact is deleted so the next initialization
// attempt starts clean.
func (p *ArtifactProbe) Open() (driven.DriverHandle, error) {
	plug, err := plugin.Open(p.path)
	if err != nil {
		os.Remove(p.path)
		return driven.DriverHandle{}, fmt.Errorf("loading driver artifact: %w", err)
	}

	sym, err := plug.Lookup("DriverName")
	if err != nil {
		os.Remove(p.path)
		return driven.DriverHandle{}, fmt.Errorf("resolving driver name: %w", err)
	}
	name, ok := sym.(*string)
	if !ok || *name == "" {
		os.Remove(p.path)
		return driven.DriverHandle{}, fmt.Errorf("driver artifact exports no usable DriverName")
	}
	return driven.DriverHandle{Name: *name}, nil
}
