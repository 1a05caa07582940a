package display

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeBackend is a scripted DisplayBackend. Acquire results are consumed in order; once the
// script is exhausted every acquisition succeeds.
type fakeBackend struct {
	info       AdapterInfo
	adapterErr error
	deviceErr  error
	caps       Capabilities

	acquireErrs []error
	presentErr  error

	requestedFeatures []wgpu.FeatureName
	requestedLimits   wgpu.Limits
	configured        []SurfaceConfiguration
	acquires          int
	presents          int
	releasedFrames    int
	released          bool
}

var _ DisplayBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		info: AdapterInfo{
			Name:   "fake adapter",
			Limits: adapterLimits(),
		},
		caps: Capabilities{
			Formats:      []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
			PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo},
			AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
		},
	}
}

// adapterLimits returns concrete limits in the range a desktop adapter reports. Fields the display
// does not check keep the binding's undefined value.
func adapterLimits() wgpu.Limits {
	l := wgpu.DefaultLimits()
	l.MaxTextureDimension1D = 16384
	l.MaxTextureDimension2D = 16384
	l.MaxTextureDimension3D = 2048
	l.MaxTextureArrayLayers = 2048
	l.MaxBindGroups = 8
	l.MaxUniformBufferBindingSize = 65536
	l.MaxStorageBufferBindingSize = 134217728
	l.MaxVertexBuffers = 16
	l.MaxBufferSize = 268435456
	l.MaxVertexAttributes = 32
	l.MaxVertexBufferArrayStride = 2048
	l.MinUniformBufferOffsetAlignment = 256
	l.MinStorageBufferOffsetAlignment = 256
	return l
}

func (f *fakeBackend) RequestAdapter(AdapterOptions) (AdapterInfo, error) {
	if f.adapterErr != nil {
		return AdapterInfo{}, f.adapterErr
	}
	return f.info, nil
}

func (f *fakeBackend) RequestDevice(_ string, features []wgpu.FeatureName, limits wgpu.Limits) error {
	f.requestedFeatures = features
	f.requestedLimits = limits
	return f.deviceErr
}

func (f *fakeBackend) Capabilities() Capabilities {
	return f.caps
}

func (f *fakeBackend) Configure(config SurfaceConfiguration) {
	f.configured = append(f.configured, config)
}

func (f *fakeBackend) AcquireTexture() (*wgpu.Texture, *wgpu.TextureView, error) {
	f.acquires++
	if len(f.acquireErrs) > 0 {
		err := f.acquireErrs[0]
		f.acquireErrs = f.acquireErrs[1:]
		if err != nil {
			return nil, nil, err
		}
	}
	return &wgpu.Texture{}, &wgpu.TextureView{}, nil
}

func (f *fakeBackend) Present() error {
	f.presents++
	return f.presentErr
}

func (f *fakeBackend) ReleaseFrame(*wgpu.Texture, *wgpu.TextureView) {
	f.releasedFrames++
}

func (f *fakeBackend) Device() *wgpu.Device { return nil }

func (f *fakeBackend) Queue() *wgpu.Queue { return nil }

func (f *fakeBackend) Release() {
	f.released = true
}

// fakeTarget is a SurfaceTarget with a fixed size and no native window.
type fakeTarget struct {
	width, height int
}

func (t fakeTarget) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (t fakeTarget) Width() int                                 { return t.width }
func (t fakeTarget) Height() int                                { return t.height }
