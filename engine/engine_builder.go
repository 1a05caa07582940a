package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-display/engine/display"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-display/engine/window"
)

// EngineBuilderOption is a functional option for configuring an engine.
type EngineBuilderOption func(*engine)

// WithWindow sets an existing window for the engine. The caller keeps ownership and closes it.
//
// Parameters:
//   - w: the Window to draw into
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
		e.ownsWindow = false
	}
}

// WithWindowOptions sets the options used when the engine creates its own window in Run.
// Ignored when WithWindow is used.
//
// Parameters:
//   - options: window builder options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithDisplayOptions adds options passed to display.NewDisplay. The App's feature and limit
// requirements are applied after them.
//
// Parameters:
//   - options: display builder options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDisplayOptions(options ...display.DisplayBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.displayOptions = append(e.displayOptions, options...)
	}
}

// WithRendererOptions adds options passed to renderer.NewRenderer.
//
// Parameters:
//   - options: renderer builder options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithShaderReload drains the watcher's events on the frame loop and calls callback for each
// changed file, so pipelines are rebuilt on the goroutine that owns the device.
//
// Parameters:
//   - watcher: the shader file watcher
//   - callback: function rebuilding whatever depends on the changed file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShaderReload(watcher shader.Watcher, callback ShaderReloadFunc) EngineBuilderOption {
	return func(e *engine) {
		e.watcher = watcher
		e.reloadCallback = callback
	}
}

// WithProfiler enables frame statistics, averaged over the given number of frames.
//
// Parameters:
//   - frames: frames per report, 0 for profiler.DefaultWindow
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(frames int) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = true
		e.statsWindow = frames
	}
}

// WithRenderFrameLimit caps the loop at the given frames per second, 0 for uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithLogger sets the logger for the engine and the display and renderer it creates.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}
