package bridge

import "errors"

// ErrConfiguration indicates the task file path is unset or still the placeholder.
var ErrConfiguration = errors.New("task file path not configured")
