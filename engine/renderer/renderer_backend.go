package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1). This is the default.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

// Attachments describes the render targets of one pass besides the frame's own view.
type Attachments struct {
	// Format is the surface color format, used for the MSAA color texture.
	Format wgpu.TextureFormat

	// Width and Height are the attachment dimensions in pixels.
	Width, Height uint32

	// DepthFormat is the depth attachment format, TextureFormatUndefined for no depth attachment.
	DepthFormat wgpu.TextureFormat

	// SampleCount is the MSAA sample count of the pass.
	SampleCount MSAASampleCount
}

// RendererBackend is the native recording boundary driven by the Renderer.
// All methods are called from the goroutine that owns the Display.
type RendererBackend interface {
	// CreateBuffer creates a GPU buffer initialized with contents.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - contents: the initial data, its length is the buffer size
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if buffer creation fails
	CreateBuffer(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// ConfigureAttachments (re)creates the depth and MSAA textures for a new size or format.
	//
	// Parameters:
	//   - attachments: the attachment description
	//
	// Returns:
	//   - error: an error if a texture cannot be created
	ConfigureAttachments(attachments Attachments) error

	// BeginPass creates the frame's command encoder and begins a render pass that clears the
	// target view and the depth attachment.
	//
	// Parameters:
	//   - target: the frame's color view
	//   - clear: the clear color
	//
	// Returns:
	//   - error: an error if the encoder cannot be created
	BeginPass(target *wgpu.TextureView, clear wgpu.Color) error

	// SetPipeline binds a render pipeline in the current pass.
	SetPipeline(p *wgpu.RenderPipeline)

	// SetBindGroup binds a bind group at the given group index.
	SetBindGroup(group uint32, bindGroup *wgpu.BindGroup)

	// SetVertexBuffer binds a whole vertex buffer at the given slot.
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer)

	// SetIndexBuffer binds a whole index buffer.
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat)

	// Draw records a non-indexed draw.
	Draw(vertexCount, instanceCount uint32)

	// DrawIndexed records an indexed draw.
	DrawIndexed(indexCount, instanceCount uint32)

	// EndPass ends the render pass, finishes the encoder and submits it to the queue in a single submit.
	//
	// Returns:
	//   - error: an error if the encoder cannot be finished
	EndPass() error

	// Release frees the attachments and any unfinished frame state.
	Release()
}
