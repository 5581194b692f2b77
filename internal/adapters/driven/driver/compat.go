package driver

// EmbeddedDriverName is the database/sql name registered by the
// compiled-in SQLite driver.
const EmbeddedDriverName = "sqlite"

// EmbeddedCompatible reports whether the compiled-in driver works on the
// given platform. The bundled pure-Go engine is known to be broken on
// windows/arm64; on that combination the service falls back to the
// downloadable driver artifact.
func EmbeddedCompatible(goos, goarch string) bool {
	return !(goos == "windows" && goarch == "arm64")
}
