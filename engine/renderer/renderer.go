package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-display/common"
	"github.com/Carmen-Shannon/oxy-display/engine/display"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrPassEnded is returned when recording into, or submitting, a pass that was already submitted.
	ErrPassEnded = errors.New("renderer: pass already submitted")

	// ErrPassActive is returned by BeginPass while another pass is still being recorded.
	ErrPassActive = errors.New("renderer: a pass is already being recorded")
)

// Target is the presentation side the Renderer draws for. display.Display satisfies it.
type Target interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Configuration() display.SurfaceConfiguration
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	logger  *slog.Logger
	target  Target
	backend RendererBackend

	pipelineCache map[string]pipeline.Pipeline

	depthFormat wgpu.TextureFormat
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	width, height uint32
	format        wgpu.TextureFormat
	active        *Pass
}

// Renderer records a single render pass per frame into a Display's frames.
//
// It owns the depth and MSAA attachments (sized to the surface), creates vertex and index buffers
// on the display's device, and caches the pipelines built for it by key so a shader reload can swap
// them in place.
type Renderer interface {
	// CreateVertexBuffer uploads vertex data into a new vertex buffer.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - data: the raw vertex bytes (see common.SliceToBytes)
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer
	//   - error: an error if buffer creation fails
	CreateVertexBuffer(label string, data []byte) (*wgpu.Buffer, error)

	// CreateIndexBuffer uploads index data into a new index buffer.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - data: the raw index bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer
	//   - error: an error if buffer creation fails
	CreateIndexBuffer(label string, data []byte) (*wgpu.Buffer, error)

	// CreateUniformBuffer uploads data into a new uniform buffer that can be rewritten with the queue.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - data: the initial uniform bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the uniform buffer
	//   - error: an error if buffer creation fails
	CreateUniformBuffer(label string, data []byte) (*wgpu.Buffer, error)

	// Resize recreates the depth and MSAA attachments for the display's current configuration.
	// It must be called after Display.Resize. Nothing happens when the size and format did not change.
	//
	// Returns:
	//   - error: an error if an attachment cannot be created
	Resize() error

	// BeginPass starts the frame's render pass, clearing the frame and the depth attachment.
	//
	// Parameters:
	//   - frame: the frame acquired from the Display
	//   - clear: optional clear color for this pass, the renderer's clear color when omitted
	//
	// Returns:
	//   - *Pass: the pass to record draws into
	//   - error: ErrPassActive, or an error if the encoder cannot be created
	BeginPass(frame *display.Frame, clear ...wgpu.Color) (*Pass, error)

	// Submit ends the pass and submits its commands with a single queue submit.
	//
	// Parameters:
	//   - pass: the pass returned by BeginPass
	//
	// Returns:
	//   - error: ErrPassEnded, or the encoder error
	Submit(pass *Pass) error

	// DepthFormat returns the depth attachment format, TextureFormatUndefined when there is none.
	// Pipelines drawn by this renderer must use the same depth format.
	DepthFormat() wgpu.TextureFormat

	// SampleCount returns the MSAA sample count pipelines drawn by this renderer must use.
	SampleCount() MSAASampleCount

	// SetClearColor sets the color frames are cleared to.
	SetClearColor(c wgpu.Color)

	// Pipeline retrieves the cached Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves a copy of the entire pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: pipeline keys to their Pipeline
	Pipelines() map[string]pipeline.Pipeline

	// SetPipeline adds or replaces a Pipeline in the cache. A replaced pipeline is released.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline
	//   - p: the Pipeline to cache
	SetPipeline(key string, p pipeline.Pipeline)

	// Release frees the cached pipelines and the attachments.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the target's frames and sizes its attachments to the
// target's current configuration.
//
// Parameters:
//   - target: the display to render for
//   - options: functional options for depth, MSAA, clear color and backend selection
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the attachments cannot be created
func NewRenderer(target Target, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		target:        target,
		pipelineCache: make(map[string]pipeline.Pipeline),
		depthFormat:   wgpu.TextureFormatUndefined,
		sampleCount:   MSAAOff,
		clearColor:    wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	for _, opt := range options {
		opt(r)
	}
	r.logger = common.LoggerOrDefault(r.logger)

	if r.backend == nil {
		b, err := newWGPURendererBackend(target.Device(), target.Queue())
		if err != nil {
			return nil, err
		}
		r.backend = b
	}
	if err := r.Resize(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *renderer) createBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("renderer: buffer %q has no data", label)
	}
	buf, err := r.backend.CreateBuffer(label, data, usage)
	if err != nil {
		return nil, fmt.Errorf("renderer: failed to create buffer %q: %w", label, err)
	}
	return buf, nil
}

func (r *renderer) CreateVertexBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	return r.createBuffer(label, data, wgpu.BufferUsageVertex)
}

func (r *renderer) CreateIndexBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	return r.createBuffer(label, data, wgpu.BufferUsageIndex)
}

func (r *renderer) CreateUniformBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	return r.createBuffer(label, data, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
}

func (r *renderer) Resize() error {
	config := r.target.Configuration()
	if config.Width == r.width && config.Height == r.height && config.Format == r.format {
		return nil
	}
	err := r.backend.ConfigureAttachments(Attachments{
		Format:      config.Format,
		Width:       config.Width,
		Height:      config.Height,
		DepthFormat: r.depthFormat,
		SampleCount: r.sampleCount,
	})
	if err != nil {
		return err
	}
	r.width, r.height, r.format = config.Width, config.Height, config.Format
	r.logger.Debug("render attachments configured",
		slog.Any("width", config.Width),
		slog.Any("height", config.Height),
		slog.Any("depthFormat", r.depthFormat),
		slog.Any("sampleCount", uint32(r.sampleCount)),
	)
	return nil
}

func (r *renderer) BeginPass(frame *display.Frame, clear ...wgpu.Color) (*Pass, error) {
	if frame == nil || frame.View == nil {
		return nil, display.ErrNoFrame
	}
	if r.active != nil {
		return nil, ErrPassActive
	}
	color := r.clearColor
	if len(clear) > 0 {
		color = clear[0]
	}
	if err := r.backend.BeginPass(frame.View, color); err != nil {
		return nil, fmt.Errorf("renderer: failed to begin pass: %w", err)
	}
	r.active = &Pass{backend: r.backend}
	return r.active, nil
}

func (r *renderer) Submit(pass *Pass) error {
	if pass == nil || pass.ended || pass != r.active {
		return ErrPassEnded
	}
	pass.ended = true
	r.active = nil
	return r.backend.EndPass()
}

func (r *renderer) DepthFormat() wgpu.TextureFormat {
	return r.depthFormat
}

func (r *renderer) SampleCount() MSAASampleCount {
	return r.sampleCount
}

func (r *renderer) SetClearColor(c wgpu.Color) {
	r.clearColor = c
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) SetPipeline(key string, p pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.pipelineCache[key]; ok && old != nil && old != p {
		old.Release()
	}
	r.pipelineCache[key] = p
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		if p != nil {
			p.Release()
		}
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
