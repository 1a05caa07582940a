package display

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDisplay(t *testing.T, b *fakeBackend, opts ...DisplayBuilderOption) *display {
	t.Helper()
	d, err := NewDisplay(fakeTarget{width: 800, height: 600}, append([]DisplayBuilderOption{WithBackend(b)}, opts...)...)
	require.NoError(t, err)
	return d.(*display)
}

func TestNewDisplayConfiguresSurface(t *testing.T) {
	b := newFakeBackend()
	d := newTestDisplay(t, b)

	assert.Equal(t, StateReady, d.State())
	require.Len(t, b.configured, 1)
	assert.Equal(t, SurfaceConfiguration{
		Format:      wgpu.TextureFormatBGRA8UnormSrgb,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   wgpu.CompositeAlphaModeOpaque,
		Width:       800,
		Height:      600,
	}, d.Configuration())
	assert.Equal(t, "fake adapter", d.Adapter().Name)
}

func TestNewDisplayMissingFeature(t *testing.T) {
	b := newFakeBackend()
	_, err := NewDisplay(fakeTarget{width: 800, height: 600},
		WithBackend(b),
		WithRequiredFeatures(wgpu.FeatureNameDepthClipControl),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFeature)
	assert.True(t, b.released)
	assert.Empty(t, b.configured)
}

func TestNewDisplayNoAdapter(t *testing.T) {
	b := newFakeBackend()
	b.adapterErr = errors.New("nothing found")
	_, err := NewDisplay(fakeTarget{width: 800, height: 600}, WithBackend(b))
	assert.ErrorIs(t, err, ErrNoAdapter)
}

func TestNewDisplayOptionalFeatures(t *testing.T) {
	b := newFakeBackend()
	b.info.Features = []wgpu.FeatureName{wgpu.FeatureNameTimestampQuery}
	d := newTestDisplay(t, b, WithOptionalFeatures(wgpu.FeatureNameTimestampQuery, wgpu.FeatureNameShaderF16))

	assert.Equal(t, []wgpu.FeatureName{wgpu.FeatureNameTimestampQuery}, d.Features())
	assert.Equal(t, []wgpu.FeatureName{wgpu.FeatureNameTimestampQuery}, b.requestedFeatures)
}

func TestNewDisplayNilTarget(t *testing.T) {
	_, err := NewDisplay(nil, WithBackend(newFakeBackend()))
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestResize(t *testing.T) {
	b := newFakeBackend()
	d := newTestDisplay(t, b)

	t.Run("zero dimension is ignored", func(t *testing.T) {
		before := d.Configuration()
		require.NoError(t, d.Resize(0, 600))
		require.NoError(t, d.Resize(800, 0))
		require.NoError(t, d.Resize(0, 0))
		assert.Equal(t, before, d.Configuration())
		assert.Len(t, b.configured, 1)
	})

	t.Run("positive size reconfigures", func(t *testing.T) {
		require.NoError(t, d.Resize(1024, 768))
		assert.Equal(t, uint32(1024), d.Configuration().Width)
		assert.Equal(t, uint32(768), d.Configuration().Height)
		assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, d.Configuration().Format)
		require.Len(t, b.configured, 2)
		assert.Equal(t, d.Configuration(), b.configured[1])
	})

	t.Run("repeated size is idempotent", func(t *testing.T) {
		require.NoError(t, d.Resize(1024, 768))
		require.Len(t, b.configured, 3)
		assert.Equal(t, b.configured[1], b.configured[2])
	})
}

func TestResizeAfterFatal(t *testing.T) {
	b := newFakeBackend()
	d := newTestDisplay(t, b)
	d.state = StateFatal
	assert.ErrorIs(t, d.Resize(640, 480), ErrFatal)
}

func TestAcquireAndPresent(t *testing.T) {
	b := newFakeBackend()
	d := newTestDisplay(t, b)

	frame, err := d.AcquireFrame()
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.NotNil(t, frame.Texture)
	assert.NotNil(t, frame.View)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, frame.Format)
	assert.Equal(t, uint32(800), frame.Width)

	require.NoError(t, d.Present(frame))
	assert.Equal(t, 1, b.presents)
	assert.Equal(t, 1, b.releasedFrames)

	assert.ErrorIs(t, d.Present(frame), ErrNoFrame)
	assert.ErrorIs(t, d.Present(nil), ErrNoFrame)
	assert.Equal(t, 1, b.presents)
}

func TestPresentError(t *testing.T) {
	b := newFakeBackend()
	b.presentErr = errors.New("swapchain gone")
	d := newTestDisplay(t, b)

	frame, err := d.AcquireFrame()
	require.NoError(t, err)
	err = d.Present(frame)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swapchain gone")
	assert.Equal(t, 1, b.releasedFrames)
}

func TestAcquireRecoversOnce(t *testing.T) {
	b := newFakeBackend()
	b.acquireErrs = []error{classifyAcquireError(errors.New("surface texture status: outdated"))}
	d := newTestDisplay(t, b)

	frame, err := d.AcquireFrame()
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, StateReady, d.State())
	assert.Equal(t, 2, b.acquires)
	require.Len(t, b.configured, 2)
	assert.Equal(t, b.configured[0], b.configured[1])
}

func TestAcquireLostSurfaceRecovers(t *testing.T) {
	b := newFakeBackend()
	b.acquireErrs = []error{classifyAcquireError(errors.New("surface lost"))}
	d := newTestDisplay(t, b)

	_, err := d.AcquireFrame()
	require.NoError(t, err)
	assert.Equal(t, StateReady, d.State())
}

func TestAcquireFailsTwiceIsFatal(t *testing.T) {
	b := newFakeBackend()
	outdated := classifyAcquireError(errors.New("outdated"))
	b.acquireErrs = []error{outdated, outdated, outdated}
	d := newTestDisplay(t, b)

	frame, err := d.AcquireFrame()
	assert.Nil(t, frame)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatal)
	assert.ErrorIs(t, err, ErrSurfaceOutdated)
	assert.Equal(t, StateFatal, d.State())
	assert.Equal(t, 2, b.acquires)
	assert.Len(t, b.configured, 2)

	_, err = d.AcquireFrame()
	assert.ErrorIs(t, err, ErrFatal)
	assert.Equal(t, 2, b.acquires)
}

func TestAcquireOutOfMemoryIsFatal(t *testing.T) {
	b := newFakeBackend()
	b.acquireErrs = []error{classifyAcquireError(errors.New("Out of memory"))}
	d := newTestDisplay(t, b)

	_, err := d.AcquireFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatal)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, StateFatal, d.State())
	assert.Equal(t, 1, b.acquires)
	assert.Len(t, b.configured, 1)
}

func TestAcquireTimeoutSkipsFrame(t *testing.T) {
	b := newFakeBackend()
	b.acquireErrs = []error{classifyAcquireError(errors.New("status: Timeout"))}
	d := newTestDisplay(t, b)

	frame, err := d.AcquireFrame()
	assert.Nil(t, frame)
	assert.ErrorIs(t, err, ErrSurfaceTimeout)
	assert.NotErrorIs(t, err, ErrFatal)
	assert.Equal(t, StateReady, d.State())
	assert.Equal(t, 1, b.acquires)
	assert.Len(t, b.configured, 1)

	frame, err = d.AcquireFrame()
	require.NoError(t, err)
	assert.NotNil(t, frame)
}

func TestAcquireUnrecognisedStatusIsFatal(t *testing.T) {
	b := newFakeBackend()
	b.acquireErrs = []error{classifyAcquireError(errors.New("status: Unknown"))}
	d := newTestDisplay(t, b)

	_, err := d.AcquireFrame()
	assert.ErrorIs(t, err, ErrFatal)
	assert.Equal(t, StateFatal, d.State())
	assert.Equal(t, 1, b.acquires)
}

func TestSetPresentModePreference(t *testing.T) {
	b := newFakeBackend()
	b.caps.PresentModes = []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeImmediate}
	d := newTestDisplay(t, b)
	assert.Equal(t, wgpu.PresentModeFifo, d.Configuration().PresentMode)

	require.NoError(t, d.SetPresentModePreference(wgpu.PresentModeMailbox, wgpu.PresentModeImmediate))
	assert.Equal(t, wgpu.PresentModeImmediate, d.Configuration().PresentMode)

	require.NoError(t, d.SetPresentModePreference())
	assert.Equal(t, wgpu.PresentModeFifo, d.Configuration().PresentMode)
}

func TestRelease(t *testing.T) {
	b := newFakeBackend()
	d := newTestDisplay(t, b)
	d.Release()
	assert.True(t, b.released)
	assert.Equal(t, StateFatal, d.State())
	d.Release()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "recovering", StateRecovering.String())
	assert.Equal(t, "fatal", StateFatal.String())
	assert.Equal(t, "State(9)", State(9).String())
}
