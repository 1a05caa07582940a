package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-display/common"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Builder accumulates render pipeline state and produces a Pipeline with Build.
//
// Every configuration method mutates the builder and returns it, so calls chain in any order.
// A later call of the same kind replaces the earlier value, except ColorTarget, SolidColorTarget,
// ColorTargets and VertexBuffer, which append: the append order is the shader slot order.
//
// Build is terminal. Whether it succeeds or fails the builder is consumed and a second Build
// returns ErrDraftConsumed.
type Builder struct {
	logger *slog.Logger
	label  string

	layout           *wgpu.PipelineLayout
	bindGroupLayouts []*wgpu.BindGroupLayout
	layoutFromGroups bool

	vertex, fragment           *shader.Source
	vertexEntry, fragmentEntry string
	resolveEntryPoints         bool

	topology    wgpu.PrimitiveTopology
	frontFace   wgpu.FrontFace
	cullMode    wgpu.CullMode
	indexFormat wgpu.IndexFormat

	targets []wgpu.ColorTargetState
	buffers []wgpu.VertexBufferLayout

	depthStencil *wgpu.DepthStencilState
	depthBias    *depthBias

	multisample wgpu.MultisampleState
	multiview   *uint32

	consumed bool
}

type depthBias struct {
	constant   int32
	slopeScale float32
	clamp      float32
}

// NewBuilder creates a builder with a triangle list topology, counter-clockwise front faces,
// no culling, 32-bit indices, one sample per pixel and no depth/stencil state.
//
// Parameters:
//   - label: the debug label of the pipeline, also used for the shader modules and a created layout
//
// Returns:
//   - *Builder: the new builder
func NewBuilder(label string) *Builder {
	return &Builder{
		label:       label,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		cullMode:    wgpu.CullModeNone,
		indexFormat: wgpu.IndexFormatUint32,
		multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

// Logger sets the logger Build reports to. When not set the package logger from common.Logger is used.
func (b *Builder) Logger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Label sets the debug label.
func (b *Builder) Label(label string) *Builder {
	b.label = label
	return b
}

// Layout sets an existing pipeline layout. It replaces bind group layouts set earlier.
//
// Parameters:
//   - layout: the pipeline layout
//
// Returns:
//   - *Builder: the builder
func (b *Builder) Layout(layout *wgpu.PipelineLayout) *Builder {
	b.layout = layout
	b.bindGroupLayouts = nil
	b.layoutFromGroups = false
	return b
}

// BindGroupLayouts makes Build create the pipeline layout from the given bind group layouts, index i
// being @group(i). Calling it with no layouts describes a pipeline without bindings.
// It replaces a layout set earlier.
//
// Parameters:
//   - layouts: the bind group layouts in group order
//
// Returns:
//   - *Builder: the builder
func (b *Builder) BindGroupLayouts(layouts ...*wgpu.BindGroupLayout) *Builder {
	b.layout = nil
	b.bindGroupLayouts = append([]*wgpu.BindGroupLayout(nil), layouts...)
	b.layoutFromGroups = true
	return b
}

// VertexShader sets the WGSL source of the vertex stage.
func (b *Builder) VertexShader(code string) *Builder {
	return b.VertexSource(shader.Inline(b.label+" vertex", shader.StageVertex, code))
}

// FragmentShader sets the WGSL source of the fragment stage.
func (b *Builder) FragmentShader(code string) *Builder {
	return b.FragmentSource(shader.Inline(b.label+" fragment", shader.StageFragment, code))
}

// VertexSource sets the vertex stage from a loaded source. A non-empty src.EntryPoint is used
// unless VertexEntryPoint is called.
func (b *Builder) VertexSource(src shader.Source) *Builder {
	b.vertex = &src
	return b
}

// FragmentSource sets the fragment stage from a loaded source. A non-empty src.EntryPoint is used
// unless FragmentEntryPoint is called.
func (b *Builder) FragmentSource(src shader.Source) *Builder {
	b.fragment = &src
	return b
}

// VertexEntryPoint sets the vertex entry point name. The default is vs_main.
func (b *Builder) VertexEntryPoint(name string) *Builder {
	b.vertexEntry = name
	return b
}

// FragmentEntryPoint sets the fragment entry point name. The default is fs_main.
func (b *Builder) FragmentEntryPoint(name string) *Builder {
	b.fragmentEntry = name
	return b
}

// ResolveEntryPoints makes Build look up entry points missing from the configuration in the WGSL
// source itself (the first @vertex and @fragment functions) instead of using vs_main and fs_main.
func (b *Builder) ResolveEntryPoints(enabled bool) *Builder {
	b.resolveEntryPoints = enabled
	return b
}

// FrontFace sets the winding order of front-facing triangles.
func (b *Builder) FrontFace(face wgpu.FrontFace) *Builder {
	b.frontFace = face
	return b
}

// CullMode sets which faces are culled.
func (b *Builder) CullMode(mode wgpu.CullMode) *Builder {
	b.cullMode = mode
	return b
}

// Topology sets the primitive topology.
func (b *Builder) Topology(topology wgpu.PrimitiveTopology) *Builder {
	b.topology = topology
	return b
}

// IndexFormat sets the index format used with strip topologies. It is ignored for list topologies.
func (b *Builder) IndexFormat(format wgpu.IndexFormat) *Builder {
	b.indexFormat = format
	return b
}

// ColorTarget appends a fragment output. The n-th call describes @location(n).
//
// Parameters:
//   - format: the texture format of the attachment
//   - blend: the blend state, nil to disable blending
//   - writeMask: the channels written
//
// Returns:
//   - *Builder: the builder
func (b *Builder) ColorTarget(format wgpu.TextureFormat, blend *wgpu.BlendState, writeMask wgpu.ColorWriteMask) *Builder {
	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: writeMask,
	}
	if blend != nil {
		bs := *blend
		target.Blend = &bs
	}
	b.targets = append(b.targets, target)
	return b
}

// SolidColorTarget appends an opaque fragment output: no blending, all channels written.
// It is shorthand for ColorTarget(format, nil, wgpu.ColorWriteMaskAll).
func (b *Builder) SolidColorTarget(format wgpu.TextureFormat) *Builder {
	return b.ColorTarget(format, nil, wgpu.ColorWriteMaskAll)
}

// ColorTargets appends fully specified fragment outputs in order.
func (b *Builder) ColorTargets(targets ...wgpu.ColorTargetState) *Builder {
	for _, t := range targets {
		b.ColorTarget(t.Format, t.Blend, t.WriteMask)
	}
	return b
}

// VertexBuffer appends a vertex buffer layout. The n-th call describes vertex buffer slot n.
func (b *Builder) VertexBuffer(layout wgpu.VertexBufferLayout) *Builder {
	layout.Attributes = append([]wgpu.VertexAttribute(nil), layout.Attributes...)
	b.buffers = append(b.buffers, layout)
	return b
}

// DepthStencil sets the complete depth/stencil state. Without it the pipeline has no depth attachment.
func (b *Builder) DepthStencil(state wgpu.DepthStencilState) *Builder {
	b.depthStencil = &state
	return b
}

// DepthNoStencil sets a depth-only state: the given format, write flag and compare function, a
// stencil test that always passes and keeps the stencil untouched, and zero depth bias.
//
// Parameters:
//   - format: the depth attachment format
//   - writeEnabled: whether depth values are written
//   - compare: the depth comparison function
//
// Returns:
//   - *Builder: the builder
func (b *Builder) DepthNoStencil(format wgpu.TextureFormat, writeEnabled bool, compare wgpu.CompareFunction) *Builder {
	return b.DepthStencil(DepthOnlyState(format, writeEnabled, compare))
}

// DepthFormat sets a depth-only state with depth writes and a less-than comparison.
func (b *Builder) DepthFormat(format wgpu.TextureFormat) *Builder {
	return b.DepthNoStencil(format, true, wgpu.CompareFunctionLess)
}

// DepthBias overrides the depth bias of the depth/stencil state at Build time.
// It has no effect on a pipeline without depth/stencil state.
//
// Parameters:
//   - constant: the constant depth bias
//   - slopeScale: the slope scaled depth bias
//   - clamp: the maximum depth bias
//
// Returns:
//   - *Builder: the builder
func (b *Builder) DepthBias(constant int32, slopeScale, clamp float32) *Builder {
	b.depthBias = &depthBias{constant: constant, slopeScale: slopeScale, clamp: clamp}
	return b
}

// SampleCount sets the number of samples per pixel.
func (b *Builder) SampleCount(count uint32) *Builder {
	b.multisample.Count = count
	return b
}

// SampleMask sets which samples are written.
func (b *Builder) SampleMask(mask uint32) *Builder {
	b.multisample.Mask = mask
	return b
}

// AlphaToCoverage toggles alpha-to-coverage.
func (b *Builder) AlphaToCoverage(enabled bool) *Builder {
	b.multisample.AlphaToCoverageEnabled = enabled
	return b
}

// Multiview requests rendering to the given number of array layers in one pass.
func (b *Builder) Multiview(layers uint32) *Builder {
	b.multiview = &layers
	return b
}

// DepthOnlyState returns the depth/stencil state DepthNoStencil sets.
//
// Parameters:
//   - format: the depth attachment format
//   - writeEnabled: whether depth values are written
//   - compare: the depth comparison function
//
// Returns:
//   - wgpu.DepthStencilState: the depth-only state
func DepthOnlyState(format wgpu.TextureFormat, writeEnabled bool, compare wgpu.CompareFunction) wgpu.DepthStencilState {
	face := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	return wgpu.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: writeEnabled,
		DepthCompare:      compare,
		StencilFront:      face,
		StencilBack:       face,
	}
}

func isStrip(topology wgpu.PrimitiveTopology) bool {
	return topology == wgpu.PrimitiveTopologyLineStrip || topology == wgpu.PrimitiveTopologyTriangleStrip
}

// Build creates the render pipeline on the device and consumes the builder.
//
// The checks run in a fixed order: the layout, then the vertex shader (compiled before the fragment
// shader is looked at), then the fragment shader. A missing layout fails before anything is compiled.
//
// Parameters:
//   - device: the device to create the modules, layout and pipeline on
//
// Returns:
//   - Pipeline: the constructed pipeline
//   - error: ErrDraftConsumed, ErrNilDevice, ErrMissingLayout, ErrMissingVertexShader,
//     ErrMissingFragmentShader or a device error
func (b *Builder) Build(device Device) (Pipeline, error) {
	if b.consumed {
		return nil, ErrDraftConsumed
	}
	b.consumed = true
	logger := common.LoggerOrDefault(b.logger)

	if device == nil {
		return nil, ErrNilDevice
	}
	if b.layout == nil && !b.layoutFromGroups {
		return nil, ErrMissingLayout
	}

	if b.vertex == nil {
		return nil, ErrMissingVertexShader
	}
	vertexEntry, err := b.entryPoint(*b.vertex, b.vertexEntry)
	if err != nil {
		return nil, err
	}
	vs, err := b.compile(device, *b.vertex)
	if err != nil {
		return nil, err
	}

	if b.fragment == nil {
		releaseShaderModule(vs)
		return nil, ErrMissingFragmentShader
	}
	fragmentEntry, err := b.entryPoint(*b.fragment, b.fragmentEntry)
	if err != nil {
		releaseShaderModule(vs)
		return nil, err
	}
	fs, err := b.compile(device, *b.fragment)
	if err != nil {
		releaseShaderModule(vs)
		return nil, err
	}

	p := &pipeline{
		label:          b.label,
		layout:         b.layout,
		vertexModule:   vs,
		fragmentModule: fs,
		vertexEntry:    vertexEntry,
		fragmentEntry:  fragmentEntry,
		targets:        b.targets,
		buffers:        b.buffers,
		primitive: wgpu.PrimitiveState{
			Topology:  b.topology,
			FrontFace: b.frontFace,
			CullMode:  b.cullMode,
		},
		multisample: b.multisample,
		multiview:   b.multiview,
	}
	if isStrip(b.topology) {
		p.primitive.StripIndexFormat = b.indexFormat
	}
	if b.depthStencil != nil {
		ds := *b.depthStencil
		if b.depthBias != nil {
			ds.DepthBias = b.depthBias.constant
			ds.DepthBiasSlopeScale = b.depthBias.slopeScale
			ds.DepthBiasClamp = b.depthBias.clamp
		}
		p.depthStencil = &ds
	} else if b.depthBias != nil {
		logger.Warn("depth bias set without depth/stencil state", slog.String("pipeline", b.label))
	}
	if b.multiview != nil {
		logger.Warn("multiview is not supported by the native binding, rendering a single view",
			slog.String("pipeline", b.label), slog.Any("layers", *b.multiview))
	}

	if b.layoutFromGroups {
		layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            b.label + " Layout",
			BindGroupLayouts: b.bindGroupLayouts,
		})
		if err != nil {
			releaseShaderModule(vs)
			releaseShaderModule(fs)
			return nil, fmt.Errorf("pipeline %q: failed to create layout: %w", b.label, err)
		}
		p.layout = layout
		p.ownsLayout = true
	}

	rp, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  b.label + " Render Pipeline",
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexEntry,
			Buffers:    p.buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentEntry,
			Targets:    p.targets,
		},
		Primitive:    p.primitive,
		DepthStencil: p.depthStencil,
		Multisample:  p.multisample,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("pipeline %q: failed to create render pipeline: %w", b.label, err)
	}
	p.renderPipeline = rp

	logger.Debug("render pipeline created",
		slog.String("pipeline", b.label),
		slog.String("vertexEntry", vertexEntry),
		slog.String("fragmentEntry", fragmentEntry),
		slog.Int("colorTargets", len(p.targets)),
		slog.Int("vertexBuffers", len(p.buffers)),
		slog.Bool("depth", p.depthStencil != nil),
	)
	return p, nil
}

// entryPoint picks the entry point for a stage: the explicit name, then the source's own, then the
// name found in the WGSL when resolution is enabled, then the conventional name.
func (b *Builder) entryPoint(src shader.Source, explicit string) (string, error) {
	if name := common.Coalesce(explicit, src.EntryPoint); name != "" {
		return name, nil
	}
	if !b.resolveEntryPoints {
		return shader.DefaultEntryPoint(src.Stage), nil
	}
	m, err := shader.Validate(src.Code)
	if err != nil {
		return "", fmt.Errorf("pipeline %q: %w", b.label, err)
	}
	name, err := m.EntryPoint(src.Stage)
	if err != nil {
		return "", fmt.Errorf("pipeline %q: %w", b.label, err)
	}
	return name, nil
}

func (b *Builder) compile(device Device, src shader.Source) (*wgpu.ShaderModule, error) {
	m, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: src.Key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: src.Code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: failed to compile %s shader %q: %w", b.label, src.Stage, src.Key, err)
	}
	return m, nil
}
