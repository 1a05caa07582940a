package renderer

import (
	"github.com/Carmen-Shannon/oxy-display/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pass records draws into the frame's render pass. It is valid until Renderer.Submit.
// Recording into a submitted pass is ignored.
type Pass struct {
	backend RendererBackend
	ended   bool
}

// SetPipeline binds a pipeline for the following draws.
func (p *Pass) SetPipeline(pl pipeline.Pipeline) *Pass {
	if !p.ended && pl != nil {
		p.backend.SetPipeline(pl.RenderPipeline())
	}
	return p
}

// SetBindGroup binds a bind group at @group(group).
func (p *Pass) SetBindGroup(group uint32, bindGroup *wgpu.BindGroup) *Pass {
	if !p.ended {
		p.backend.SetBindGroup(group, bindGroup)
	}
	return p
}

// SetVertexBuffer binds a vertex buffer at the slot of the pipeline's n-th VertexBuffer layout.
func (p *Pass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer) *Pass {
	if !p.ended {
		p.backend.SetVertexBuffer(slot, buffer)
	}
	return p
}

// SetIndexBuffer binds an index buffer for DrawIndexed.
func (p *Pass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat) *Pass {
	if !p.ended {
		p.backend.SetIndexBuffer(buffer, format)
	}
	return p
}

// Draw records a non-indexed draw.
func (p *Pass) Draw(vertexCount, instanceCount uint32) *Pass {
	if !p.ended {
		p.backend.Draw(vertexCount, instanceCount)
	}
	return p
}

// DrawIndexed records an indexed draw.
func (p *Pass) DrawIndexed(indexCount, instanceCount uint32) *Pass {
	if !p.ended {
		p.backend.DrawIndexed(indexCount, instanceCount)
	}
	return p
}

// Ended reports whether the pass was submitted.
func (p *Pass) Ended() bool {
	return p.ended
}
