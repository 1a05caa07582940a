package display

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// AdapterOptions are the hints used when requesting a physical adapter.
type AdapterOptions struct {
	PowerPreference      wgpu.PowerPreference
	ForceFallbackAdapter bool
}

// AdapterInfo describes the bound physical adapter and what it supports.
type AdapterInfo struct {
	Name     string
	Backend  wgpu.BackendType
	Type     wgpu.AdapterType
	Features []wgpu.FeatureName
	Limits   wgpu.Limits
}

// DisplayBackend is the native surface/device boundary driven by the Display state machine.
// All methods are called from the goroutine that owns the Display.
type DisplayBackend interface {
	// RequestAdapter binds a physical adapter compatible with the surface.
	//
	// Parameters:
	//   - options: power preference and fallback hints
	//
	// Returns:
	//   - AdapterInfo: the adapter's identity, features and limits
	//   - error: an error if no compatible adapter exists
	RequestAdapter(options AdapterOptions) (AdapterInfo, error)

	// RequestDevice creates the logical device and its queue on the bound adapter.
	//
	// Parameters:
	//   - label: debug label for the device
	//   - features: the resolved feature set to enable
	//   - limits: the resolved limits to request
	//
	// Returns:
	//   - error: an error if device creation fails
	RequestDevice(label string, features []wgpu.FeatureName, limits wgpu.Limits) error

	// Capabilities returns the formats, present modes and alpha modes the surface supports
	// with the bound adapter.
	//
	// Returns:
	//   - Capabilities: the compatibility report
	Capabilities() Capabilities

	// Configure applies a configuration record to the surface.
	//
	// Parameters:
	//   - config: the record to apply, with positive dimensions
	Configure(config SurfaceConfiguration)

	// AcquireTexture requests the next presentable texture and a default view of it.
	// Errors are classified with the display's sentinel errors (ErrSurfaceOutdated, ErrSurfaceLost,
	// ErrSurfaceTimeout, ErrOutOfMemory, ErrDeviceLost).
	//
	// Returns:
	//   - *wgpu.Texture: the surface texture
	//   - *wgpu.TextureView: a view created with default parameters
	//   - error: the classified acquisition error
	AcquireTexture() (*wgpu.Texture, *wgpu.TextureView, error)

	// Present hands the most recently acquired texture back to the surface for display.
	//
	// Returns:
	//   - error: an error if presentation fails
	Present() error

	// ReleaseFrame releases the per-frame texture and view after presentation.
	//
	// Parameters:
	//   - texture: the acquired texture, may be nil
	//   - view: the acquired view, may be nil
	ReleaseFrame(texture *wgpu.Texture, view *wgpu.TextureView)

	// Device returns the logical device, nil before RequestDevice succeeded.
	Device() *wgpu.Device

	// Queue returns the device's command queue, nil before RequestDevice succeeded.
	Queue() *wgpu.Queue

	// Release frees the surface, device, adapter and instance.
	Release()
}
