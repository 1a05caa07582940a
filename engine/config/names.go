package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// featureNames maps kebab-case WebGPU feature names to the binding's values.
var featureNames = map[string]wgpu.FeatureName{
	"depth-clip-control":       wgpu.FeatureNameDepthClipControl,
	"depth32float-stencil8":    wgpu.FeatureNameDepth32FloatStencil8,
	"timestamp-query":          wgpu.FeatureNameTimestampQuery,
	"texture-compression-bc":   wgpu.FeatureNameTextureCompressionBC,
	"texture-compression-etc2": wgpu.FeatureNameTextureCompressionETC2,
	"texture-compression-astc": wgpu.FeatureNameTextureCompressionASTC,
	"indirect-first-instance":  wgpu.FeatureNameIndirectFirstInstance,
	"shader-f16":               wgpu.FeatureNameShaderF16,
	"rg11b10ufloat-renderable": wgpu.FeatureNameRG11B10UfloatRenderable,
	"bgra8unorm-storage":       wgpu.FeatureNameBGRA8UnormStorage,
	"float32-filterable":       wgpu.FeatureNameFloat32Filterable,
}

var presentModeNames = map[string]wgpu.PresentMode{
	"fifo":         wgpu.PresentModeFifo,
	"fifo-relaxed": wgpu.PresentModeFifoRelaxed,
	"immediate":    wgpu.PresentModeImmediate,
	"mailbox":      wgpu.PresentModeMailbox,
}

var powerPreferenceNames = map[string]wgpu.PowerPreference{
	"":                 wgpu.PowerPreferenceUndefined,
	"low-power":        wgpu.PowerPreferenceLowPower,
	"high-performance": wgpu.PowerPreferenceHighPerformance,
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// ParseFeature parses a WebGPU feature name such as "timestamp-query". Case and underscores are ignored.
//
// Parameters:
//   - name: the feature name
//
// Returns:
//   - wgpu.FeatureName: the feature
//   - error: ErrUnknownFeature for names the binding does not know
func ParseFeature(name string) (wgpu.FeatureName, error) {
	f, ok := featureNames[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	return f, nil
}

// ParseFeatures parses every name with ParseFeature, failing on the first unknown one.
func ParseFeatures(names []string) ([]wgpu.FeatureName, error) {
	out := make([]wgpu.FeatureName, 0, len(names))
	for _, n := range names {
		f, err := ParseFeature(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ParsePresentMode parses "fifo", "fifo-relaxed", "immediate" or "mailbox".
//
// Parameters:
//   - name: the present mode name
//
// Returns:
//   - wgpu.PresentMode: the present mode
//   - error: ErrUnknownPresentMode for other names
func ParsePresentMode(name string) (wgpu.PresentMode, error) {
	m, ok := presentModeNames[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPresentMode, name)
	}
	return m, nil
}

// ParsePowerPreference parses "low-power" or "high-performance". The empty name leaves the choice to the adapter.
//
// Parameters:
//   - name: the power preference name
//
// Returns:
//   - wgpu.PowerPreference: the power preference
//   - error: ErrUnknownPowerPreference for other names
func ParsePowerPreference(name string) (wgpu.PowerPreference, error) {
	p, ok := powerPreferenceNames[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPowerPreference, name)
	}
	return p, nil
}

// ParseLogLevel parses a slog level name such as "debug" or "warn". The empty name is info.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("config: %w", err)
	}
	return level, nil
}
