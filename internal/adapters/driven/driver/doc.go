// Package driver locates or downloads the database driver.
//
// Two probes are tried in order: the compiled-in driver (unless the
// platform is the known-incompatible combination) and a downloaded driver
// artifact verified against a pinned SHA-1 digest. Artifact checks and
// downloads run under the cross-process file lock so that multiple host
// processes sharing one data directory never race each other.
package driver
