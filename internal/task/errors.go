package task

import "errors"

var (
	// ErrMissingOrEmpty indicates the task file does not exist or has no content.
	ErrMissingOrEmpty = errors.New("task file missing or empty")

	// ErrMalformed indicates the task document is missing a required field or has an invalid value.
	ErrMalformed = errors.New("malformed task document")
)
