package scene

import "errors"

var (
	// ErrNotFound indicates the named object or collection doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyName indicates an object or collection name was empty.
	ErrEmptyName = errors.New("empty name")

	// ErrRootCollection indicates an attempt to remove the master collection.
	ErrRootCollection = errors.New("cannot remove the root collection")
)
