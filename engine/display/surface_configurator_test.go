package display

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSRGB(t *testing.T) {
	assert.True(t, IsSRGB(wgpu.TextureFormatRGBA8UnormSrgb))
	assert.True(t, IsSRGB(wgpu.TextureFormatBGRA8UnormSrgb))
	assert.False(t, IsSRGB(wgpu.TextureFormatRGBA8Unorm))
	assert.False(t, IsSRGB(wgpu.TextureFormatBGRA8Unorm))
	assert.False(t, IsSRGB(wgpu.TextureFormatUndefined))
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []wgpu.TextureFormat
		want    wgpu.TextureFormat
		wantErr error
	}{
		{
			name:    "first srgb wins",
			formats: []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb},
			want:    wgpu.TextureFormatRGBA8UnormSrgb,
		},
		{
			name:    "falls back to first reported",
			formats: []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatBGRA8Unorm},
			want:    wgpu.TextureFormatRGBA8Unorm,
		},
		{
			name:    "empty list",
			wantErr: ErrNoSurfaceFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectFormat(tt.formats)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectPresentMode(t *testing.T) {
	available := []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeImmediate}

	got, err := SelectPresentMode(available, nil)
	require.NoError(t, err)
	assert.Equal(t, wgpu.PresentModeFifo, got)

	got, err = SelectPresentMode(available, []wgpu.PresentMode{wgpu.PresentModeMailbox, wgpu.PresentModeImmediate})
	require.NoError(t, err)
	assert.Equal(t, wgpu.PresentModeImmediate, got)

	got, err = SelectPresentMode(available, []wgpu.PresentMode{wgpu.PresentModeMailbox})
	require.NoError(t, err)
	assert.Equal(t, wgpu.PresentModeFifo, got)

	_, err = SelectPresentMode(nil, nil)
	assert.ErrorIs(t, err, ErrNoPresentMode)
}

func TestNewSurfaceConfiguration(t *testing.T) {
	caps := Capabilities{
		Formats:      []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
		PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo},
		AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
	}

	config, err := NewSurfaceConfiguration(caps, 800, 600)
	require.NoError(t, err)
	assert.Equal(t, SurfaceConfiguration{
		Format:      wgpu.TextureFormatBGRA8UnormSrgb,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   wgpu.CompositeAlphaModeOpaque,
		Width:       800,
		Height:      600,
	}, config)

	t.Run("zero extent", func(t *testing.T) {
		_, err := NewSurfaceConfiguration(caps, 0, 600)
		assert.ErrorIs(t, err, ErrZeroExtent)
		_, err = NewSurfaceConfiguration(caps, 800, 0)
		assert.ErrorIs(t, err, ErrZeroExtent)
	})

	t.Run("no alpha mode", func(t *testing.T) {
		noAlpha := caps
		noAlpha.AlphaModes = nil
		_, err := NewSurfaceConfiguration(noAlpha, 800, 600)
		assert.ErrorIs(t, err, ErrNoAlphaMode)
	})

	t.Run("first alpha mode", func(t *testing.T) {
		multi := caps
		multi.AlphaModes = []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeInherit, wgpu.CompositeAlphaModeOpaque}
		config, err := NewSurfaceConfiguration(multi, 800, 600)
		require.NoError(t, err)
		assert.Equal(t, wgpu.CompositeAlphaModeInherit, config.AlphaMode)
	})
}
