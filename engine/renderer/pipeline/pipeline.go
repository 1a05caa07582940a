package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// AlphaBlend is the conventional straight-alpha blend state: source over destination for color,
// additive coverage for alpha.
var AlphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// pipeline is the implementation of the Pipeline interface.
// It owns the native pipeline together with the shader modules and the layout Build created for it.
type pipeline struct {
	label string

	renderPipeline *wgpu.RenderPipeline
	layout         *wgpu.PipelineLayout
	// ownsLayout is true when Build created the layout from bind group layouts.
	ownsLayout bool

	vertexModule, fragmentModule *wgpu.ShaderModule
	vertexEntry, fragmentEntry   string

	targets      []wgpu.ColorTargetState
	buffers      []wgpu.VertexBufferLayout
	primitive    wgpu.PrimitiveState
	depthStencil *wgpu.DepthStencilState
	multisample  wgpu.MultisampleState
	multiview    *uint32
}

// Pipeline is an immutable, fully constructed render pipeline returned by Builder.Build.
// The accessors report the state the native pipeline was created with.
type Pipeline interface {
	// Label returns the debug label the pipeline was created with.
	//
	// Returns:
	//   - string: the pipeline label
	Label() string

	// RenderPipeline returns the native pipeline to bind in a render pass.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the native pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// Layout returns the pipeline layout the pipeline was created with.
	//
	// Returns:
	//   - *wgpu.PipelineLayout: the layout
	Layout() *wgpu.PipelineLayout

	// VertexEntryPoint returns the vertex stage entry point name.
	//
	// Returns:
	//   - string: the vertex entry point
	VertexEntryPoint() string

	// FragmentEntryPoint returns the fragment stage entry point name.
	//
	// Returns:
	//   - string: the fragment entry point
	FragmentEntryPoint() string

	// ColorTargets returns the fragment outputs, index i being output slot @location(i).
	//
	// Returns:
	//   - []wgpu.ColorTargetState: a copy of the color targets
	ColorTargets() []wgpu.ColorTargetState

	// VertexBuffers returns the vertex buffer layouts, index i being vertex buffer slot i.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: a copy of the vertex buffer layouts
	VertexBuffers() []wgpu.VertexBufferLayout

	// Primitive returns the primitive state (topology, strip index format, front face and cull mode).
	//
	// Returns:
	//   - wgpu.PrimitiveState: the primitive state
	Primitive() wgpu.PrimitiveState

	// DepthStencil returns the depth/stencil state, nil when the pipeline has no depth attachment.
	//
	// Returns:
	//   - *wgpu.DepthStencilState: a copy of the depth/stencil state, or nil
	DepthStencil() *wgpu.DepthStencilState

	// Multisample returns the multisample state.
	//
	// Returns:
	//   - wgpu.MultisampleState: the multisample state
	Multisample() wgpu.MultisampleState

	// Multiview returns the requested multiview layer count.
	//
	// Returns:
	//   - uint32: the layer count
	//   - bool: false when multiview was not requested
	Multiview() (uint32, bool)

	// Release frees the native pipeline, its shader modules and the layout if Build created it.
	Release()
}

var _ Pipeline = &pipeline{}

func (p *pipeline) Label() string {
	return p.label
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Layout() *wgpu.PipelineLayout {
	return p.layout
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntry
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *pipeline) ColorTargets() []wgpu.ColorTargetState {
	return append([]wgpu.ColorTargetState(nil), p.targets...)
}

func (p *pipeline) VertexBuffers() []wgpu.VertexBufferLayout {
	return append([]wgpu.VertexBufferLayout(nil), p.buffers...)
}

func (p *pipeline) Primitive() wgpu.PrimitiveState {
	return p.primitive
}

func (p *pipeline) DepthStencil() *wgpu.DepthStencilState {
	if p.depthStencil == nil {
		return nil
	}
	ds := *p.depthStencil
	return &ds
}

func (p *pipeline) Multisample() wgpu.MultisampleState {
	return p.multisample
}

func (p *pipeline) Multiview() (uint32, bool) {
	if p.multiview == nil {
		return 0, false
	}
	return *p.multiview, true
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.ownsLayout && p.layout != nil {
		p.layout.Release()
	}
	p.layout = nil
	releaseShaderModule(p.vertexModule)
	releaseShaderModule(p.fragmentModule)
	p.vertexModule, p.fragmentModule = nil, nil
}
