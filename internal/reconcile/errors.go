package reconcile

import "errors"

var (
	// ErrRecordPersistence is returned when an identity could not be written to the store.
	// During a full sync it is counted per entry and does not abort the run.
	ErrRecordPersistence = errors.New("failed to persist identity")

	// ErrDirectoryUserNotFound is returned when a single-account sync finds no directory entry.
	ErrDirectoryUserNotFound = errors.New("directory user not found")

	// ErrInvalidAttributes is returned for attributes without an account name.
	ErrInvalidAttributes = errors.New("directory attributes without account name")

	// ErrSyncInProgress is returned when a full sync is requested while another one runs.
	ErrSyncInProgress = errors.New("directory sync already in progress")

	// ErrNoReport is returned when no full sync has completed yet.
	ErrNoReport = errors.New("no directory sync report available")
)
