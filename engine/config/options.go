package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-display/engine"
	"github.com/Carmen-Shannon/oxy-display/engine/display"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-display/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// WindowOptions converts the [window] table into window options. Zero values keep the window defaults.
//
// Returns:
//   - []window.WindowBuilderOption: the window options
func (c Config) WindowOptions() []window.WindowBuilderOption {
	var opts []window.WindowBuilderOption
	w := c.Window
	if w.Title != "" {
		opts = append(opts, window.WithTitle(w.Title))
	}
	if w.Width > 0 || w.Height > 0 {
		opts = append(opts, window.WithSize(w.Width, w.Height))
	}
	if w.MinWidth > 0 || w.MinHeight > 0 {
		opts = append(opts, window.WithMinSize(w.MinWidth, w.MinHeight))
	}
	if w.MaxWidth > 0 || w.MaxHeight > 0 {
		opts = append(opts, window.WithMaxSize(w.MaxWidth, w.MaxHeight))
	}
	if w.Resizable != nil {
		opts = append(opts, window.WithResizable(*w.Resizable))
	}
	return opts
}

// DisplayOptions converts the [display] table into display options.
//
// Returns:
//   - []display.DisplayBuilderOption: the display options
//   - error: ErrUnknownFeature, ErrUnknownPowerPreference or ErrUnknownPresentMode
func (c Config) DisplayOptions() ([]display.DisplayBuilderOption, error) {
	d := c.Display
	power, err := ParsePowerPreference(d.PowerPreference)
	if err != nil {
		return nil, err
	}
	required, err := ParseFeatures(d.RequiredFeatures)
	if err != nil {
		return nil, err
	}
	optional, err := ParseFeatures(d.OptionalFeatures)
	if err != nil {
		return nil, err
	}
	modes := make([]wgpu.PresentMode, 0, len(d.PresentModes))
	for _, name := range d.PresentModes {
		m, err := ParsePresentMode(name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}

	opts := []display.DisplayBuilderOption{
		display.WithPowerPreference(power),
		display.WithForceFallbackAdapter(d.ForceFallback),
	}
	if d.Label != "" {
		opts = append(opts, display.WithLabel(d.Label))
	}
	if len(required) > 0 {
		opts = append(opts, display.WithRequiredFeatures(required...))
	}
	if len(optional) > 0 {
		opts = append(opts, display.WithOptionalFeatures(optional...))
	}
	if len(modes) > 0 {
		opts = append(opts, display.WithPresentModePreference(modes...))
	}
	return opts, nil
}

// RendererOptions converts the [driver] table's msaa and depth keys into renderer options.
//
// Returns:
//   - []renderer.RendererBuilderOption: the renderer options
//   - error: an error for sample counts other than 1 and 4
func (c Config) RendererOptions() ([]renderer.RendererBuilderOption, error) {
	var opts []renderer.RendererBuilderOption
	switch renderer.MSAASampleCount(c.Driver.MSAA) {
	case 0, renderer.MSAAOff:
	case renderer.MSAA4x:
		opts = append(opts, renderer.WithMSAA(renderer.MSAA4x))
	default:
		return nil, fmt.Errorf("config: unsupported msaa sample count %d", c.Driver.MSAA)
	}
	if c.Driver.Depth {
		opts = append(opts, renderer.WithDepth(wgpu.TextureFormatDepth24Plus))
	}
	return opts, nil
}

// LoaderOptions converts the [shaders] table into shader loader options.
//
// Returns:
//   - []shader.LoaderBuilderOption: the loader options
func (c Config) LoaderOptions() []shader.LoaderBuilderOption {
	var opts []shader.LoaderBuilderOption
	if c.Shaders.Workers > 0 {
		opts = append(opts, shader.WithLoaderWorkers(c.Shaders.Workers))
	}
	if c.Shaders.Validate != nil {
		opts = append(opts, shader.WithValidation(*c.Shaders.Validate))
	}
	return opts
}

// Logger builds a text logger on stderr at the configured level.
//
// Returns:
//   - *slog.Logger: the logger
//   - error: an error for unknown level names
func (c Config) Logger() (*slog.Logger, error) {
	level, err := ParseLogLevel(c.Driver.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// EngineOptions converts the whole file into engine options: window, display and renderer
// options, the logger, and frame statistics when stats_window is set.
//
// Returns:
//   - []engine.EngineBuilderOption: the engine options
//   - error: the first conversion error
func (c Config) EngineOptions() ([]engine.EngineBuilderOption, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}
	displayOpts, err := c.DisplayOptions()
	if err != nil {
		return nil, err
	}
	rendererOpts, err := c.RendererOptions()
	if err != nil {
		return nil, err
	}
	opts := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithWindowOptions(c.WindowOptions()...),
		engine.WithDisplayOptions(displayOpts...),
		engine.WithRendererOptions(rendererOpts...),
	}
	if c.Driver.StatsWindow > 0 {
		opts = append(opts, engine.WithProfiler(c.Driver.StatsWindow))
	}
	return opts, nil
}
