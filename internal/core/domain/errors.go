package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotInitialized indicates a data operation was invoked while the
	// lifecycle state is not RUNNING. Always a programming-error signal;
	// callers are expected to check the lifecycle state first.
	ErrNotInitialized = errors.New("wordbook not initialized")

	// ErrMissingID indicates an operation that requires a persisted entry
	// was given one without a storage identity.
	ErrMissingID = errors.New("word entry has no id")

	// ErrAlreadyExists indicates a uniqueness violation on insert: a row
	// with the same word (case-insensitive) and language pair exists.
	// Recoverable by looking up the existing row.
	ErrAlreadyExists = errors.New("word already exists")

	// ErrStorage indicates a persistence failure other than a uniqueness
	// violation. The underlying cause is wrapped alongside it.
	ErrStorage = errors.New("storage failure")

	// ErrNoDriver indicates no usable database driver was found.
	ErrNoDriver = errors.New("no usable database driver")

	// ErrDownloadCancelled indicates a driver download was cancelled
	// before completing.
	ErrDownloadCancelled = errors.New("driver download cancelled")

	// ErrChecksumMismatch indicates a driver artifact failed integrity
	// verification against the pinned digest.
	ErrChecksumMismatch = errors.New("driver artifact checksum mismatch")
)
