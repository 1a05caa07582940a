package display

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Requirements describes what the caller needs from the adapter and device.
type Requirements struct {
	// PowerPreference hints which adapter to pick on multi-GPU systems.
	PowerPreference wgpu.PowerPreference

	// ForceFallbackAdapter forces a CPU/software adapter (e.g. lavapipe, SwiftShader).
	ForceFallbackAdapter bool

	// RequiredFeatures must all be supported by the adapter, otherwise negotiation fails.
	RequiredFeatures []wgpu.FeatureName

	// OptionalFeatures are enabled when the adapter supports them and skipped otherwise.
	OptionalFeatures []wgpu.FeatureName

	// Limits is the minimum limits profile. Maximum limits may not exceed the adapter's,
	// alignment limits may not be finer than the adapter's.
	Limits wgpu.Limits
}

// DefaultRequirements returns requirements with no features and the binding's default limits, which
// leave every limit undefined so the device gets the adapter's defaults.
//
// Returns:
//   - Requirements: the default requirement set
func DefaultRequirements() Requirements {
	return Requirements{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
		Limits:          wgpu.DefaultLimits(),
	}
}

// negotiation is the outcome of binding an adapter and device.
type negotiation struct {
	adapter  AdapterInfo
	features []wgpu.FeatureName
	limits   wgpu.Limits
}

// ResolveFeatures computes the feature set to request from the device.
// Every required feature must be supported. Optional features are intersected with the supported set.
// The result lists required features first, in order, followed by the supported optional ones.
//
// Parameters:
//   - supported: the features the adapter reports
//   - required: features the caller cannot run without
//   - optional: features the caller uses when available
//
// Returns:
//   - []wgpu.FeatureName: the features to enable
//   - error: ErrMissingFeature naming every unsupported required feature
func ResolveFeatures(supported, required, optional []wgpu.FeatureName) ([]wgpu.FeatureName, error) {
	var missing []string
	enabled := make([]wgpu.FeatureName, 0, len(required)+len(optional))
	for _, f := range required {
		if !slices.Contains(supported, f) {
			missing = append(missing, fmt.Sprintf("%v", f))
			continue
		}
		if !slices.Contains(enabled, f) {
			enabled = append(enabled, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFeature, strings.Join(missing, ", "))
	}
	for _, f := range optional {
		if slices.Contains(supported, f) && !slices.Contains(enabled, f) {
			enabled = append(enabled, f)
		}
	}
	return enabled, nil
}

// undefinedLimit reports whether v is the binding's "no requirement" sentinel (all bits set).
func undefinedLimit[T uint32 | uint64](v T) bool {
	return v == ^T(0)
}

// atMost records a problem when a requested maximum exceeds the supported one.
func atMost[T uint32 | uint64](problems *[]string, name string, floor, supported T) {
	if undefinedLimit(floor) {
		return
	}
	if floor > supported {
		*problems = append(*problems, fmt.Sprintf("%s requested %d, adapter supports %d", name, floor, supported))
	}
}

// atLeast records a problem when a requested alignment is finer than the supported one.
func atLeast[T uint32 | uint64](problems *[]string, name string, floor, supported T) {
	if floor == 0 || undefinedLimit(floor) {
		return
	}
	if floor < supported {
		*problems = append(*problems, fmt.Sprintf("%s requested %d, adapter requires at least %d", name, floor, supported))
	}
}

// ResolveLimits tightens the caller's limits floor to the adapter.
// The floor is validated against the adapter first; the texture resolution limits are then raised
// to the adapter's values so render targets can match any surface size the adapter can present.
// Limits left undefined carry no floor and are passed through. Unset (zero or undefined) alignment
// limits take the adapter's value.
//
// Parameters:
//   - floor: the minimum limits profile the caller needs
//   - supported: the limits the adapter reports
//
// Returns:
//   - wgpu.Limits: the limits to request from the device
//   - error: ErrLimitUnsupported naming every limit the adapter cannot satisfy
func ResolveLimits(floor, supported wgpu.Limits) (wgpu.Limits, error) {
	var problems []string
	atMost(&problems, "MaxTextureDimension1D", floor.MaxTextureDimension1D, supported.MaxTextureDimension1D)
	atMost(&problems, "MaxTextureDimension2D", floor.MaxTextureDimension2D, supported.MaxTextureDimension2D)
	atMost(&problems, "MaxTextureDimension3D", floor.MaxTextureDimension3D, supported.MaxTextureDimension3D)
	atMost(&problems, "MaxTextureArrayLayers", floor.MaxTextureArrayLayers, supported.MaxTextureArrayLayers)
	atMost(&problems, "MaxBindGroups", floor.MaxBindGroups, supported.MaxBindGroups)
	atMost(&problems, "MaxUniformBufferBindingSize", floor.MaxUniformBufferBindingSize, supported.MaxUniformBufferBindingSize)
	atMost(&problems, "MaxStorageBufferBindingSize", floor.MaxStorageBufferBindingSize, supported.MaxStorageBufferBindingSize)
	atMost(&problems, "MaxVertexBuffers", floor.MaxVertexBuffers, supported.MaxVertexBuffers)
	atMost(&problems, "MaxBufferSize", floor.MaxBufferSize, supported.MaxBufferSize)
	atMost(&problems, "MaxVertexAttributes", floor.MaxVertexAttributes, supported.MaxVertexAttributes)
	atMost(&problems, "MaxVertexBufferArrayStride", floor.MaxVertexBufferArrayStride, supported.MaxVertexBufferArrayStride)
	atLeast(&problems, "MinUniformBufferOffsetAlignment", floor.MinUniformBufferOffsetAlignment, supported.MinUniformBufferOffsetAlignment)
	atLeast(&problems, "MinStorageBufferOffsetAlignment", floor.MinStorageBufferOffsetAlignment, supported.MinStorageBufferOffsetAlignment)
	if len(problems) > 0 {
		return wgpu.Limits{}, fmt.Errorf("%w: %s", ErrLimitUnsupported, strings.Join(problems, "; "))
	}

	resolved := floor
	resolved.MaxTextureDimension1D = supported.MaxTextureDimension1D
	resolved.MaxTextureDimension2D = supported.MaxTextureDimension2D
	if a := resolved.MinUniformBufferOffsetAlignment; a == 0 || undefinedLimit(a) {
		resolved.MinUniformBufferOffsetAlignment = supported.MinUniformBufferOffsetAlignment
	}
	if a := resolved.MinStorageBufferOffsetAlignment; a == 0 || undefinedLimit(a) {
		resolved.MinStorageBufferOffsetAlignment = supported.MinStorageBufferOffsetAlignment
	}
	return resolved, nil
}

// negotiate binds the adapter and creates the device and queue. This is the only place a physical
// GPU is bound and it runs once per Display.
func negotiate(backend DisplayBackend, req Requirements, label string, logger *slog.Logger) (negotiation, error) {
	info, err := backend.RequestAdapter(AdapterOptions{
		PowerPreference:      req.PowerPreference,
		ForceFallbackAdapter: req.ForceFallbackAdapter,
	})
	if err != nil {
		return negotiation{}, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	logger.Info("adapter selected",
		slog.String("name", info.Name),
		slog.Any("backend", info.Backend),
		slog.Any("type", info.Type),
	)

	features, err := ResolveFeatures(info.Features, req.RequiredFeatures, req.OptionalFeatures)
	if err != nil {
		return negotiation{}, err
	}
	limits, err := ResolveLimits(req.Limits, info.Limits)
	if err != nil {
		return negotiation{}, err
	}

	if err := backend.RequestDevice(label, features, limits); err != nil {
		return negotiation{}, fmt.Errorf("display: failed to request device: %w", err)
	}
	logger.Debug("device created", slog.Any("features", features), slog.Int("featureCount", len(features)))

	return negotiation{adapter: info, features: features, limits: limits}, nil
}
