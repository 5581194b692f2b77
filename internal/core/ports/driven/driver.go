package driven

import "context"

// DriverHandle identifies a usable database/sql driver by its registered
// name. The store engine opens its connection through this name.
type DriverHandle struct {
	Name string
}

// DriverProbe checks one way of obtaining a database driver.
// Implementations cover the compiled-in driver and a downloaded artifact.
type DriverProbe interface {
	// Usable reports whether this probe can currently produce a driver.
	Usable() bool

	// Open produces a driver handle. Only valid when Usable returned
	// true; a probe whose artifact turns out to be broken reports an
	// error and disposes of the artifact.
	Open() (DriverHandle, error)
}

// DriverProvisioner obtains a working database driver, downloading the
// driver artifact on demand.
type DriverProvisioner interface {
	// Locate finds an already-available driver without network access.
	// Returns domain.ErrNoDriver when none is usable.
	Locate(ctx context.Context) (DriverHandle, error)

	// Download fetches and installs the driver artifact, verifying it
	// against the pinned checksum. Cancellable via ctx; a cancelled
	// download leaves no partial artifact installed.
	Download(ctx context.Context) error
}
