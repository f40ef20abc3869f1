package wpconfig

import "errors"

var (
	// ErrEmptyBasePath is returned when Configure is called without a base path.
	ErrEmptyBasePath = errors.New("base path must not be empty")
	// ErrInvalidOverride is returned when the local override file holds
	// anything other than a flat map of scalars.
	ErrInvalidOverride = errors.New("local override must be a flat map of scalar values")
)
