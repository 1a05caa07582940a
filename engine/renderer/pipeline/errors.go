package pipeline

import "errors"

var (
	// ErrMissingLayout is returned by Build when neither a pipeline layout nor bind group layouts were set.
	ErrMissingLayout = errors.New("pipeline: missing layout")

	// ErrMissingVertexShader is returned by Build when no vertex shader source was set.
	ErrMissingVertexShader = errors.New("pipeline: missing vertex shader")

	// ErrMissingFragmentShader is returned by Build when no fragment shader source was set.
	ErrMissingFragmentShader = errors.New("pipeline: missing fragment shader")

	// ErrDraftConsumed is returned when Build is called on a builder that already ran Build.
	ErrDraftConsumed = errors.New("pipeline: builder already consumed by Build")

	// ErrNilDevice is returned when Build is called without a device.
	ErrNilDevice = errors.New("pipeline: nil device")
)
