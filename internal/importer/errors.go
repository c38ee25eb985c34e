package importer

import "errors"

var (
	// ErrPurge indicates a stale per-asset collection could not be removed.
	ErrPurge = errors.New("purge stale collection")

	// ErrReconcile indicates the scene rejected a relink, transform or cleanup step.
	ErrReconcile = errors.New("reconcile imported objects")
)
