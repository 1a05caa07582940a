package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-display/common"
	"github.com/Carmen-Shannon/oxy-display/engine/display"
	"github.com/Carmen-Shannon/oxy-display/engine/profiler"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-display/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrAlreadyRunning is returned by Run while another Run is in progress.
var ErrAlreadyRunning = errors.New("engine: already running")

// App is the set of callbacks an application hands to Run. Every callback is optional and
// runs on the goroutine that called Run.
type App struct {
	// RequiredFeatures are device features the application cannot run without.
	RequiredFeatures []wgpu.FeatureName

	// OptionalFeatures are enabled when the adapter supports them. Check Context.Display().Features().
	OptionalFeatures []wgpu.FeatureName

	// RequiredLimits, when set, replaces the default limit floor.
	RequiredLimits *wgpu.Limits

	// Init is called once after the display and renderer exist, before the first frame.
	// An error aborts Run.
	Init func(ctx *Context) error

	// Resize is called after the surface was reconfigured to a non-zero size.
	Resize func(ctx *Context, width, height int)

	// KeyDown is called for every key press except Escape, which closes the window.
	KeyDown func(ctx *Context, keyCode uint32)

	// Update is called once per loop iteration with the seconds since the previous one.
	Update func(ctx *Context, dt float32)

	// Render records the frame. The engine presents the frame after Render returns, even on error.
	// A render or present error ends Run.
	Render func(ctx *Context, frame *display.Frame) error

	// Shutdown is called once before the renderer and display are released.
	Shutdown func(ctx *Context)
}

// ShaderReloadFunc handles a changed shader file, typically by rebuilding the pipelines that use it.
// A returned error is logged and the previous pipelines stay in use.
type ShaderReloadFunc func(ctx *Context, event shader.ReloadEvent) error

// engine implements the Engine interface.
type engine struct {
	mu      sync.Mutex
	running bool

	quitChannel chan struct{}
	quitOnce    sync.Once

	logger *slog.Logger

	window        window.Window
	ownsWindow    bool
	windowOptions []window.WindowBuilderOption

	displayOptions  []display.DisplayBuilderOption
	rendererOptions []renderer.RendererBuilderOption

	watcher        shader.Watcher
	reloadCallback ShaderReloadFunc

	frameStats       *profiler.FrameStats
	statsWindow      int
	profilingEnabled bool

	renderFrameLimit time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// Engine is the main entry point. It owns the window, creates the Display and Renderer for it
// and drives the application's callbacks one frame at a time on the calling goroutine.
type Engine interface {
	// Run creates the display for the window and runs the frame loop until the window closes,
	// Quit is called, or the display becomes fatal. Run must be called from the goroutine that
	// created the window (the main goroutine for GLFW).
	//
	// Parameters:
	//   - app: the application callbacks and device requirements
	//
	// Returns:
	//   - error: nil on a normal close, otherwise the initialization, render, or fatal display error
	Run(app App) error

	// Quit asks the frame loop to stop after the current frame.
	// Safe to call multiple times and from any goroutine.
	Quit()

	// Window returns the engine's window, nil before Run when the engine creates it itself.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default). The present mode still paces the loop.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, display, renderer, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		now:         time.Now,
		sleep:       time.Sleep,
	}
	for _, opt := range options {
		opt(e)
	}
	e.logger = common.LoggerOrDefault(e.logger)
	e.frameStats = profiler.NewFrameStats(profiler.WithWindow(e.statsWindow), profiler.WithLogger(e.logger), profiler.WithClock(e.now))
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

// displayOptionsFor merges the engine's display options with the application's requirements.
// Application requirements are applied last so they extend the configured ones.
func (e *engine) displayOptionsFor(app App) []display.DisplayBuilderOption {
	opts := make([]display.DisplayBuilderOption, 0, len(e.displayOptions)+4)
	opts = append(opts, display.WithLogger(e.logger))
	opts = append(opts, e.displayOptions...)
	if len(app.RequiredFeatures) > 0 {
		opts = append(opts, display.WithRequiredFeatures(app.RequiredFeatures...))
	}
	if len(app.OptionalFeatures) > 0 {
		opts = append(opts, display.WithOptionalFeatures(app.OptionalFeatures...))
	}
	if app.RequiredLimits != nil {
		opts = append(opts, display.WithRequiredLimits(*app.RequiredLimits))
	}
	return opts
}

func (e *engine) Run(app App) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if e.window == nil {
		e.window = window.NewWindow(e.windowOptions...)
		e.ownsWindow = true
	}
	if e.ownsWindow {
		defer func() {
			if err := e.window.Close(); err != nil {
				e.logger.Warn("failed to close window", slog.Any("error", err))
			}
		}()
	}

	d, err := display.NewDisplay(e.window, e.displayOptionsFor(app)...)
	if err != nil {
		return fmt.Errorf("engine: failed to create display: %w", err)
	}
	defer d.Release()

	rendererOptions := append([]renderer.RendererBuilderOption{renderer.WithRendererLogger(e.logger)}, e.rendererOptions...)
	r, err := renderer.NewRenderer(d, rendererOptions...)
	if err != nil {
		return fmt.Errorf("engine: failed to create renderer: %w", err)
	}
	defer r.Release()

	ctx := &Context{display: d, renderer: r, window: e.window, quit: e.Quit}

	var pendingResize *[2]int
	e.window.SetResizeCallback(func(width, height int) {
		pendingResize = &[2]int{width, height}
	})
	e.window.SetCloseCallback(e.Quit)
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		if app.KeyDown != nil {
			app.KeyDown(ctx, keyCode)
		}
	})

	if app.Init != nil {
		if err := app.Init(ctx); err != nil {
			return fmt.Errorf("engine: init failed: %w", err)
		}
	}
	if app.Shutdown != nil {
		defer app.Shutdown(ctx)
	}

	e.logger.Info("engine running",
		slog.Any("window", uint64(e.window.ID())),
		slog.Any("format", d.Configuration().Format),
		slog.Any("presentMode", d.Configuration().PresentMode),
	)

	last := e.now()
	for !e.quitting() {
		frameStart := e.now()
		if !e.window.PollEvents() {
			break
		}

		if pendingResize != nil {
			size := *pendingResize
			pendingResize = nil
			if err := e.resize(ctx, app, size[0], size[1]); err != nil {
				return err
			}
		}

		e.drainShaderReloads(ctx)

		now := e.now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		if app.Update != nil {
			app.Update(ctx, dt)
		}

		// Nothing can be presented while minimized.
		if cfg := d.Configuration(); e.window.Width() == 0 || e.window.Height() == 0 || cfg.Width == 0 || cfg.Height == 0 {
			e.frameStats.Reset()
			e.sleep(10 * time.Millisecond)
			continue
		}

		if err := e.frame(ctx, app); err != nil {
			return err
		}

		if e.profilingEnabled {
			e.frameStats.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
				e.sleep(remaining)
			}
		}
	}
	e.logger.Info("engine stopped")
	return nil
}

// resize reconfigures the display and renderer and notifies the application. A zero size only
// records the new size; the next non-zero size reconfigures.
func (e *engine) resize(ctx *Context, app App, width, height int) error {
	if err := ctx.display.Resize(width, height); err != nil {
		return fmt.Errorf("engine: resize failed: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := ctx.renderer.Resize(); err != nil {
		return fmt.Errorf("engine: resize failed: %w", err)
	}
	if app.Resize != nil {
		app.Resize(ctx, width, height)
	}
	return nil
}

// frame runs one acquire, render, present cycle.
func (e *engine) frame(ctx *Context, app App) error {
	frame, err := ctx.display.AcquireFrame()
	if errors.Is(err, display.ErrSurfaceTimeout) {
		e.logger.Warn("frame skipped", slog.Any("error", err))
		return nil
	}
	if err != nil {
		e.logger.Error("failed to acquire frame", slog.Any("error", err))
		return err
	}

	var renderErr error
	if app.Render != nil {
		renderErr = app.Render(ctx, frame)
	}
	if err := ctx.display.Present(frame); err != nil {
		e.logger.Error("failed to present frame", slog.Any("error", err))
		if renderErr != nil {
			return errors.Join(fmt.Errorf("engine: render failed: %w", renderErr), err)
		}
		return err
	}
	if renderErr != nil {
		return fmt.Errorf("engine: render failed: %w", renderErr)
	}
	return nil
}

// drainShaderReloads delivers every pending reload event without blocking.
func (e *engine) drainShaderReloads(ctx *Context) {
	if e.watcher == nil || e.reloadCallback == nil {
		return
	}
	for {
		select {
		case ev, ok := <-e.watcher.Events():
			if !ok {
				e.watcher = nil
				return
			}
			if err := e.reloadCallback(ctx, ev); err != nil {
				e.logger.Warn("shader reload failed", slog.String("path", ev.Path), slog.Any("error", err))
				continue
			}
			e.logger.Info("shader reloaded", slog.String("path", ev.Path))
		default:
			return
		}
	}
}
