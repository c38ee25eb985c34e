package exporter

import "errors"

var (
	// ErrPathOutsideRoot indicates an export location that would escape the task directory.
	ErrPathOutsideRoot = errors.New("export location outside task directory")

	// ErrDuplicateShortName indicates two units in one export resolve to the same name.
	ErrDuplicateShortName = errors.New("duplicate shortName")

	// ErrUnsupportedKind indicates a selected root that is neither a mesh nor a container.
	ErrUnsupportedKind = errors.New("unsupported object kind")
)
