package display

import (
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// DisplayBuilderOption is a functional option applied to a display during construction via NewDisplay.
type DisplayBuilderOption func(*display)

// WithBackend replaces the WebGPU backend. When set, no native surface is created from the target.
//
// Parameters:
//   - backend: the DisplayBackend to drive
//
// Returns:
//   - DisplayBuilderOption: a function that applies the backend option to a display
func WithBackend(backend DisplayBackend) DisplayBuilderOption {
	return func(d *display) {
		d.backend = backend
	}
}

// WithLogger sets the diagnostic sink for the display. When not specified, the package logger
// from common.Logger is used, which discards everything unless the application installed one.
//
// Parameters:
//   - logger: the logger to use, nil restores the default
//
// Returns:
//   - DisplayBuilderOption: a function that applies the logger option to a display
func WithLogger(logger *slog.Logger) DisplayBuilderOption {
	return func(d *display) {
		d.logger = logger
	}
}

// WithLabel sets the debug label attached to the device.
//
// Parameters:
//   - label: the device label
//
// Returns:
//   - DisplayBuilderOption: a function that applies the label option to a display
func WithLabel(label string) DisplayBuilderOption {
	return func(d *display) {
		d.label = label
	}
}

// WithRequirements replaces the whole requirement set. Options applied after it refine it.
//
// Parameters:
//   - req: the requirements to negotiate with
//
// Returns:
//   - DisplayBuilderOption: a function that applies the requirements option to a display
func WithRequirements(req Requirements) DisplayBuilderOption {
	return func(d *display) {
		d.requirements = req
	}
}

// WithPowerPreference sets the adapter power preference. The default is high performance.
//
// Parameters:
//   - pref: the power preference hint
//
// Returns:
//   - DisplayBuilderOption: a function that applies the power preference option to a display
func WithPowerPreference(pref wgpu.PowerPreference) DisplayBuilderOption {
	return func(d *display) {
		d.requirements.PowerPreference = pref
	}
}

// WithForceFallbackAdapter forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - DisplayBuilderOption: a function that applies the fallback adapter option to a display
func WithForceFallbackAdapter(force bool) DisplayBuilderOption {
	return func(d *display) {
		d.requirements.ForceFallbackAdapter = force
	}
}

// WithRequiredFeatures appends features the device must enable. Negotiation fails when the
// adapter lacks any of them.
//
// Parameters:
//   - features: the required features
//
// Returns:
//   - DisplayBuilderOption: a function that applies the required features option to a display
func WithRequiredFeatures(features ...wgpu.FeatureName) DisplayBuilderOption {
	return func(d *display) {
		d.requirements.RequiredFeatures = append(d.requirements.RequiredFeatures, features...)
	}
}

// WithOptionalFeatures appends features enabled only when the adapter supports them.
//
// Parameters:
//   - features: the optional features
//
// Returns:
//   - DisplayBuilderOption: a function that applies the optional features option to a display
func WithOptionalFeatures(features ...wgpu.FeatureName) DisplayBuilderOption {
	return func(d *display) {
		d.requirements.OptionalFeatures = append(d.requirements.OptionalFeatures, features...)
	}
}

// WithRequiredLimits sets the minimum limits profile. The default is wgpu.DefaultLimits.
//
// Parameters:
//   - limits: the limits floor
//
// Returns:
//   - DisplayBuilderOption: a function that applies the limits option to a display
func WithRequiredLimits(limits wgpu.Limits) DisplayBuilderOption {
	return func(d *display) {
		d.requirements.Limits = limits
	}
}

// WithPresentModePreference sets an ordered present mode preference. Without one the first mode
// the surface reports is used.
//
// Parameters:
//   - modes: the ordered preference, e.g. Mailbox then Fifo
//
// Returns:
//   - DisplayBuilderOption: a function that applies the present mode preference to a display
func WithPresentModePreference(modes ...wgpu.PresentMode) DisplayBuilderOption {
	return func(d *display) {
		d.presentPreference = append([]wgpu.PresentMode(nil), modes...)
	}
}
