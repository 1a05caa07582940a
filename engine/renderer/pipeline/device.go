package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Device is the part of the logical device a Builder needs. *wgpu.Device satisfies it.
type Device interface {
	// CreateShaderModule compiles WGSL source into a shader module.
	//
	// Parameters:
	//   - descriptor: the module descriptor holding the WGSL source
	//
	// Returns:
	//   - *wgpu.ShaderModule: the compiled module
	//   - error: the compilation error
	CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)

	// CreatePipelineLayout creates a pipeline layout from bind group layouts.
	//
	// Parameters:
	//   - descriptor: the layout descriptor
	//
	// Returns:
	//   - *wgpu.PipelineLayout: the created layout
	//   - error: the creation error
	CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)

	// CreateRenderPipeline creates the native render pipeline.
	//
	// Parameters:
	//   - descriptor: the fully assembled pipeline descriptor
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created pipeline
	//   - error: the creation error
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)
}

var _ Device = (*wgpu.Device)(nil)

// releaseShaderModule frees a module compiled by a Build that did not produce a pipeline.
var releaseShaderModule = func(m *wgpu.ShaderModule) {
	if m != nil {
		m.Release()
	}
}
