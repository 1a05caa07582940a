package display

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuDisplayBackend struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

var _ DisplayBackend = &wgpuDisplayBackend{}

// newWGPUDisplayBackend creates the WebGPU instance and the surface for the given descriptor.
// This is the only place a surface is created from a native window handle: the window the
// descriptor was taken from must outlive the returned backend, and Release must run before the
// window is destroyed.
func newWGPUDisplayBackend(descriptor *wgpu.SurfaceDescriptor) (*wgpuDisplayBackend, error) {
	if descriptor == nil {
		return nil, ErrNoSurface
	}
	b := &wgpuDisplayBackend{
		instance: wgpu.CreateInstance(nil),
	}
	b.surface = b.instance.CreateSurface(descriptor)
	if b.surface == nil {
		b.instance.Release()
		return nil, ErrNoSurface
	}
	return b, nil
}

func (b *wgpuDisplayBackend) RequestAdapter(options AdapterOptions) (AdapterInfo, error) {
	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      options.PowerPreference,
		ForceFallbackAdapter: options.ForceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return AdapterInfo{}, err
	}
	if a == nil {
		return AdapterInfo{}, errors.New("instance returned no adapter")
	}
	b.adapter = a

	info := a.GetInfo()
	supported := a.GetLimits()
	return AdapterInfo{
		Name:     info.Name,
		Backend:  info.BackendType,
		Type:     info.AdapterType,
		Features: a.EnumerateFeatures(),
		Limits:   supported.Limits,
	}, nil
}

func (b *wgpuDisplayBackend) RequestDevice(label string, features []wgpu.FeatureName, limits wgpu.Limits) error {
	if b.adapter == nil {
		return errors.New("no adapter bound")
	}
	d, err := b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: features,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		return err
	}
	b.device = d
	b.queue = d.GetQueue()
	return nil
}

func (b *wgpuDisplayBackend) Capabilities() Capabilities {
	caps := b.surface.GetCapabilities(b.adapter)
	return Capabilities{
		Formats:      caps.Formats,
		PresentModes: caps.PresentModes,
		AlphaModes:   caps.AlphaModes,
	}
}

func (b *wgpuDisplayBackend) Configure(config SurfaceConfiguration) {
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      config.Format,
		Width:       config.Width,
		Height:      config.Height,
		PresentMode: config.PresentMode,
		AlphaMode:   config.AlphaMode,
	})
}

func (b *wgpuDisplayBackend) AcquireTexture() (*wgpu.Texture, *wgpu.TextureView, error) {
	texture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, nil, classifyAcquireError(err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, nil, fmt.Errorf("failed to create surface texture view: %w", err)
	}
	return texture, view, nil
}

func (b *wgpuDisplayBackend) Present() error {
	if b.surface == nil {
		return ErrNoSurface
	}
	b.surface.Present()
	return nil
}

func (b *wgpuDisplayBackend) ReleaseFrame(texture *wgpu.Texture, view *wgpu.TextureView) {
	if view != nil {
		view.Release()
	}
	if texture != nil {
		texture.Release()
	}
}

func (b *wgpuDisplayBackend) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuDisplayBackend) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuDisplayBackend) Release() {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
