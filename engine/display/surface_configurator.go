package display

import (
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// Capabilities is the adapter-and-surface compatibility report used to configure a surface.
// Each list is in the order the platform reported it.
type Capabilities struct {
	Formats      []wgpu.TextureFormat
	PresentModes []wgpu.PresentMode
	AlphaModes   []wgpu.CompositeAlphaMode
}

// SurfaceConfiguration is the record applied to a surface.
// Width and Height are always positive when the record is applied.
type SurfaceConfiguration struct {
	Format      wgpu.TextureFormat
	PresentMode wgpu.PresentMode
	AlphaMode   wgpu.CompositeAlphaMode
	Width       uint32
	Height      uint32
}

// srgbFormats lists the perceptually encoded formats a surface can report.
// Surfaces only expose 8-bit RGBA/BGRA color formats in an sRGB variant.
var srgbFormats = map[wgpu.TextureFormat]struct{}{
	wgpu.TextureFormatRGBA8UnormSrgb: {},
	wgpu.TextureFormatBGRA8UnormSrgb: {},
}

// IsSRGB reports whether the texture format stores perceptually (sRGB) encoded color.
//
// Parameters:
//   - format: the texture format to check
//
// Returns:
//   - bool: true for sRGB formats
func IsSRGB(format wgpu.TextureFormat) bool {
	_, ok := srgbFormats[format]
	return ok
}

// SelectFormat picks the first sRGB format from the reported list, falling back to the first
// reported format when none is sRGB.
//
// Parameters:
//   - formats: the formats reported by the surface, in platform order
//
// Returns:
//   - wgpu.TextureFormat: the selected format
//   - error: ErrNoSurfaceFormat if the list is empty
func SelectFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	if len(formats) == 0 {
		return wgpu.TextureFormatUndefined, ErrNoSurfaceFormat
	}
	if i := slices.IndexFunc(formats, IsSRGB); i >= 0 {
		return formats[i], nil
	}
	return formats[0], nil
}

// SelectPresentMode picks the first mode of the preference list the surface supports.
// With no preference, or when no preferred mode is available, the first reported mode is used.
//
// Parameters:
//   - available: the present modes reported by the surface, in platform order
//   - preference: optional ordered preference, may be empty
//
// Returns:
//   - wgpu.PresentMode: the selected present mode
//   - error: ErrNoPresentMode if the surface reports none
func SelectPresentMode(available []wgpu.PresentMode, preference []wgpu.PresentMode) (wgpu.PresentMode, error) {
	if len(available) == 0 {
		return 0, ErrNoPresentMode
	}
	for _, mode := range preference {
		if slices.Contains(available, mode) {
			return mode, nil
		}
	}
	return available[0], nil
}

// NewSurfaceConfiguration builds the configuration record for a surface of the given pixel size.
// The format prefers sRGB, the present mode follows the optional preference and the alpha mode is
// the first reported one.
//
// Parameters:
//   - caps: the surface capabilities for the negotiated adapter
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//   - presentPreference: optional ordered present mode preference
//
// Returns:
//   - SurfaceConfiguration: the record to apply
//   - error: ErrZeroExtent for a zero dimension, or an error describing the empty capability list
func NewSurfaceConfiguration(caps Capabilities, width, height uint32, presentPreference ...wgpu.PresentMode) (SurfaceConfiguration, error) {
	if width == 0 || height == 0 {
		return SurfaceConfiguration{}, fmt.Errorf("%w: %dx%d", ErrZeroExtent, width, height)
	}
	format, err := SelectFormat(caps.Formats)
	if err != nil {
		return SurfaceConfiguration{}, err
	}
	presentMode, err := SelectPresentMode(caps.PresentModes, presentPreference)
	if err != nil {
		return SurfaceConfiguration{}, err
	}
	if len(caps.AlphaModes) == 0 {
		return SurfaceConfiguration{}, ErrNoAlphaMode
	}
	return SurfaceConfiguration{
		Format:      format,
		PresentMode: presentMode,
		AlphaMode:   caps.AlphaModes[0],
		Width:       width,
		Height:      height,
	}, nil
}
