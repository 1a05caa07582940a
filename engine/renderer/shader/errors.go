package shader

import "errors"

var (
	// ErrEmptySource is returned for a blank WGSL source.
	ErrEmptySource = errors.New("shader: empty source")

	// ErrEntryPointNotFound is returned when a source declares no entry point for the requested stage.
	ErrEntryPointNotFound = errors.New("shader: entry point not found")

	// ErrInvalidSource is returned when the WGSL source cannot be parsed or lowered.
	ErrInvalidSource = errors.New("shader: invalid source")
)
