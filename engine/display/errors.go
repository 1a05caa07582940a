package display

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAdapter is returned when no physical adapter compatible with the surface exists.
	ErrNoAdapter = errors.New("display: no compatible adapter")

	// ErrNoSurface is returned when the surface target cannot describe a native surface.
	ErrNoSurface = errors.New("display: surface target returned no surface descriptor")

	// ErrMissingFeature is returned when the adapter lacks a required feature.
	ErrMissingFeature = errors.New("display: adapter is missing a required feature")

	// ErrLimitUnsupported is returned when the required limits floor exceeds what the adapter supports.
	ErrLimitUnsupported = errors.New("display: adapter cannot satisfy the required limits")

	// ErrNoSurfaceFormat is returned when the surface reports no compatible texture format.
	ErrNoSurfaceFormat = errors.New("display: surface reports no supported formats")

	// ErrNoPresentMode is returned when the surface reports no present mode.
	ErrNoPresentMode = errors.New("display: surface reports no present modes")

	// ErrNoAlphaMode is returned when the surface reports no alpha mode.
	ErrNoAlphaMode = errors.New("display: surface reports no alpha modes")

	// ErrZeroExtent is returned when a configuration would be applied with a zero dimension.
	ErrZeroExtent = errors.New("display: surface dimensions must be positive")

	// ErrSurfaceOutdated signals that the surface must be reconfigured before the next acquire.
	ErrSurfaceOutdated = errors.New("display: surface outdated")

	// ErrSurfaceLost signals that the surface was lost and must be reconfigured.
	ErrSurfaceLost = errors.New("display: surface lost")

	// ErrSurfaceTimeout signals that acquiring the next texture timed out. The frame is skipped and
	// the surface is left as is.
	ErrSurfaceTimeout = errors.New("display: surface acquire timed out")

	// ErrOutOfMemory signals that the device ran out of memory while acquiring a frame.
	ErrOutOfMemory = errors.New("display: out of memory")

	// ErrDeviceLost signals that the logical device is gone.
	ErrDeviceLost = errors.New("display: device lost")

	// ErrFatal wraps every error after which the display cannot produce frames anymore.
	// The driver is expected to stop its render loop when it sees this error.
	ErrFatal = errors.New("display: fatal")

	// ErrNotReady is returned by frame operations on a display that never finished initialization.
	ErrNotReady = errors.New("display: not ready")

	// ErrNoFrame is returned when presenting a nil or already presented frame.
	ErrNoFrame = errors.New("display: no acquired frame to present")
)

// isRecoverable reports whether an acquisition failure can be fixed by reconfiguring the surface.
func isRecoverable(err error) bool {
	return errors.Is(err, ErrSurfaceOutdated) || errors.Is(err, ErrSurfaceLost)
}

// classifyAcquireError maps the error returned by the native surface texture acquisition onto the
// display's sentinel errors. The binding only reports the acquisition status as error text, so the
// message is matched. A status that is not recognised is returned wrapped but unclassified, which
// the display treats as fatal.
func classifyAcquireError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"):
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	case strings.Contains(msg, "device lost"), strings.Contains(msg, "devicelost"):
		return fmt.Errorf("%w: %w", ErrDeviceLost, err)
	case strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %w", ErrSurfaceLost, err)
	case strings.Contains(msg, "outdated"):
		return fmt.Errorf("%w: %w", ErrSurfaceOutdated, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return fmt.Errorf("%w: %w", ErrSurfaceTimeout, err)
	default:
		return fmt.Errorf("display: unrecognised acquisition status: %w", err)
	}
}
