package renderer

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackend struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	attachments      Attachments
	msaaTexture      *wgpu.Texture
	msaaTextureView  *wgpu.TextureView
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
}

var _ RendererBackend = &wgpuRendererBackend{}

func newWGPURendererBackend(device *wgpu.Device, queue *wgpu.Queue) (*wgpuRendererBackend, error) {
	if device == nil || queue == nil {
		return nil, errors.New("renderer: display has no device")
	}
	return &wgpuRendererBackend{device: device, queue: queue}, nil
}

func (b *wgpuRendererBackend) CreateBuffer(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
}

func (b *wgpuRendererBackend) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackend) createAttachment(label string, format wgpu.TextureFormat, a Attachments) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              a.Width,
			Height:             a.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   uint32(a.SampleCount),
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("renderer: failed to create %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("renderer: failed to create %s view: %w", label, err)
	}
	return tex, view, nil
}

func (b *wgpuRendererBackend) ConfigureAttachments(a Attachments) error {
	b.releaseAttachments()
	b.attachments = a

	var err error
	if a.SampleCount > 1 {
		// The pass draws into the MSAA texture and resolves into the frame's view.
		b.msaaTexture, b.msaaTextureView, err = b.createAttachment("MSAA Texture", a.Format, a)
		if err != nil {
			return err
		}
	}
	if a.DepthFormat != wgpu.TextureFormatUndefined {
		// Depth texture sample count must match the color attachment.
		b.depthTexture, b.depthTextureView, err = b.createAttachment("Depth Texture", a.DepthFormat, a)
		if err != nil {
			b.releaseAttachments()
			return err
		}
	}
	return nil
}

func (b *wgpuRendererBackend) BeginPass(target *wgpu.TextureView, clear wgpu.Color) error {
	if b.frameEncoder != nil {
		return errors.New("renderer: previous pass not submitted")
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}

	color := wgpu.RenderPassColorAttachment{
		View:       target,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: clear,
	}
	if b.msaaTextureView != nil {
		color.View = b.msaaTextureView
		color.ResolveTarget = target
		color.StoreOp = wgpu.StoreOpDiscard
	}
	desc := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
	}
	if b.depthTextureView != nil {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		}
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(desc)
	return nil
}

func (b *wgpuRendererBackend) SetPipeline(p *wgpu.RenderPipeline) {
	b.framePass.SetPipeline(p)
}

func (b *wgpuRendererBackend) SetBindGroup(group uint32, bindGroup *wgpu.BindGroup) {
	b.framePass.SetBindGroup(group, bindGroup, nil)
}

func (b *wgpuRendererBackend) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer) {
	b.framePass.SetVertexBuffer(slot, buffer, 0, wgpu.WholeSize)
}

func (b *wgpuRendererBackend) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat) {
	b.framePass.SetIndexBuffer(buffer, format, 0, wgpu.WholeSize)
}

func (b *wgpuRendererBackend) Draw(vertexCount, instanceCount uint32) {
	b.framePass.Draw(vertexCount, instanceCount, 0, 0)
}

func (b *wgpuRendererBackend) DrawIndexed(indexCount, instanceCount uint32) {
	b.framePass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

func (b *wgpuRendererBackend) EndPass() error {
	if b.frameEncoder == nil {
		return errors.New("renderer: no pass in progress")
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.framePass.Release()
		b.frameEncoder.Release()
		b.framePass = nil
		b.frameEncoder = nil
		return fmt.Errorf("renderer: failed to finish command encoder: %w", err)
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.framePass.Release()
	b.frameEncoder.Release()
	b.framePass = nil
	b.frameEncoder = nil
	return nil
}

func (b *wgpuRendererBackend) Release() {
	if b.framePass != nil {
		b.framePass.Release()
		b.framePass = nil
	}
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	b.releaseAttachments()
}
