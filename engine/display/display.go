package display

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-display/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// State is the lifecycle state of a Display.
type State int

const (
	// StateUninitialized is the state before negotiation and the first configuration succeeded.
	StateUninitialized State = iota

	// StateReady is the steady state: frames can be acquired and presented.
	StateReady

	// StateRecovering is entered while the surface is reconfigured after a failed acquisition.
	StateRecovering

	// StateFatal is terminal: the display cannot produce frames anymore.
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRecovering:
		return "recovering"
	case StateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SurfaceTarget is the window-side collaborator a Display presents into.
// window.Window satisfies it.
type SurfaceTarget interface {
	// SurfaceDescriptor returns the platform descriptor used to create the native surface.
	// The window behind it must outlive the Display.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the current drawable width in pixels.
	Width() int

	// Height returns the current drawable height in pixels.
	Height() int
}

// Frame is one acquired surface texture: the unit of work for a single render pass.
type Frame struct {
	// Texture is the surface texture, released after presentation.
	Texture *wgpu.Texture

	// View is the default view of Texture, used as the color attachment.
	View *wgpu.TextureView

	// Format is the surface format the texture was created with.
	Format wgpu.TextureFormat

	// Width and Height are the surface dimensions the frame was acquired at.
	Width, Height uint32

	presented bool
}

// Display owns a configured presentable surface along with the device and queue used to render into it.
// A Display is driven from a single goroutine.
type Display interface {
	// Resize reconfigures the surface for a new drawable size.
	// A zero dimension (e.g. a minimized window) is ignored and the stored configuration is left unchanged.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: ErrFatal or ErrNotReady if the display cannot be configured, otherwise nil
	Resize(width, height int) error

	// AcquireFrame requests the next presentable texture.
	// An outdated or lost surface is reconfigured once and acquisition retried once; if the retry fails,
	// or the device is out of memory, the display becomes fatal and the error wraps ErrFatal.
	// A timeout returns ErrSurfaceTimeout without changing state; the caller skips the frame.
	//
	// Returns:
	//   - *Frame: the acquired frame with a default view
	//   - error: ErrSurfaceTimeout for a skipped frame, an error wrapping ErrFatal when the render loop must stop
	AcquireFrame() (*Frame, error)

	// Present hands an acquired frame back to the surface and releases it.
	//
	// Parameters:
	//   - frame: the frame returned by AcquireFrame
	//
	// Returns:
	//   - error: ErrNoFrame for a nil or already presented frame, or the presentation error
	Present(frame *Frame) error

	// SetPresentModePreference replaces the ordered present mode preference and reconfigures the
	// surface. An empty preference restores the first reported mode.
	//
	// Parameters:
	//   - modes: the ordered preference
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	SetPresentModePreference(modes ...wgpu.PresentMode) error

	// State returns the current lifecycle state.
	State() State

	// Configuration returns a copy of the configuration currently applied to the surface.
	Configuration() SurfaceConfiguration

	// Adapter returns the negotiated adapter's description.
	Adapter() AdapterInfo

	// Features returns the features enabled on the device.
	Features() []wgpu.FeatureName

	// Limits returns the limits requested from the device.
	Limits() wgpu.Limits

	// Device returns the logical device shared with pipeline construction and draw recording.
	Device() *wgpu.Device

	// Queue returns the device's command queue.
	Queue() *wgpu.Queue

	// Release frees the surface and the device. The display is fatal afterwards.
	Release()
}

type display struct {
	backend      DisplayBackend
	logger       *slog.Logger
	label        string
	requirements Requirements

	presentPreference []wgpu.PresentMode

	state       State
	config      SurfaceConfiguration
	negotiation negotiation
}

var _ Display = &display{}

// NewDisplay negotiates an adapter and device for the target's surface and applies the first
// configuration at the target's current size. A failure here is fatal for the application.
//
// Parameters:
//   - target: the window to present into
//   - options: functional options for requirements, logging and backend selection
//
// Returns:
//   - Display: the ready display
//   - error: the negotiation or configuration error
func NewDisplay(target SurfaceTarget, options ...DisplayBuilderOption) (Display, error) {
	d := &display{
		label:        "oxy-display",
		requirements: DefaultRequirements(),
		state:        StateUninitialized,
	}
	for _, opt := range options {
		opt(d)
	}
	d.logger = common.LoggerOrDefault(d.logger)

	if target == nil {
		return nil, ErrNoSurface
	}
	if d.backend == nil {
		b, err := newWGPUDisplayBackend(target.SurfaceDescriptor())
		if err != nil {
			return nil, err
		}
		d.backend = b
	}

	n, err := negotiate(d.backend, d.requirements, d.label, d.logger)
	if err != nil {
		d.backend.Release()
		return nil, err
	}
	d.negotiation = n

	if err := d.configure(uint32(max(target.Width(), 0)), uint32(max(target.Height(), 0))); err != nil {
		d.backend.Release()
		return nil, err
	}
	d.state = StateReady
	return d, nil
}

// configure selects a configuration for the given size, applies it and stores it.
func (d *display) configure(width, height uint32) error {
	config, err := NewSurfaceConfiguration(d.backend.Capabilities(), width, height, d.presentPreference...)
	if err != nil {
		return err
	}
	d.backend.Configure(config)
	d.config = config
	d.logger.Info("surface configured",
		slog.Any("format", config.Format),
		slog.Any("presentMode", config.PresentMode),
		slog.Any("alphaMode", config.AlphaMode),
		slog.Any("width", config.Width),
		slog.Any("height", config.Height),
	)
	return nil
}

func (d *display) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		d.logger.Debug("ignoring resize with zero dimension", slog.Int("width", width), slog.Int("height", height))
		return nil
	}
	switch d.state {
	case StateFatal:
		return ErrFatal
	case StateUninitialized:
		return ErrNotReady
	}
	if err := d.configure(uint32(width), uint32(height)); err != nil {
		return fmt.Errorf("display: resize to %dx%d failed: %w", width, height, err)
	}
	return nil
}

func (d *display) AcquireFrame() (*Frame, error) {
	switch d.state {
	case StateFatal:
		return nil, ErrFatal
	case StateUninitialized:
		return nil, ErrNotReady
	}

	texture, view, err := d.backend.AcquireTexture()
	if err == nil {
		return d.newFrame(texture, view), nil
	}
	if errors.Is(err, ErrSurfaceTimeout) {
		d.logger.Warn("surface acquisition timed out, skipping frame")
		return nil, err
	}
	if !isRecoverable(err) {
		return nil, d.fail(err)
	}

	d.state = StateRecovering
	d.logger.Warn("surface acquisition failed, reconfiguring", slog.String("error", err.Error()))
	if cfgErr := d.configure(d.config.Width, d.config.Height); cfgErr != nil {
		return nil, d.fail(errors.Join(err, cfgErr))
	}

	texture, view, err = d.backend.AcquireTexture()
	if err != nil {
		return nil, d.fail(fmt.Errorf("acquisition failed after reconfiguration: %w", err))
	}
	d.state = StateReady
	return d.newFrame(texture, view), nil
}

func (d *display) newFrame(texture *wgpu.Texture, view *wgpu.TextureView) *Frame {
	return &Frame{
		Texture: texture,
		View:    view,
		Format:  d.config.Format,
		Width:   d.config.Width,
		Height:  d.config.Height,
	}
}

// fail moves the display into the fatal state and wraps err with ErrFatal.
func (d *display) fail(err error) error {
	d.state = StateFatal
	d.logger.Error("display failed", slog.String("error", err.Error()))
	return fmt.Errorf("%w: %w", ErrFatal, err)
}

func (d *display) Present(frame *Frame) error {
	if frame == nil || frame.presented {
		return ErrNoFrame
	}
	frame.presented = true
	err := d.backend.Present()
	d.backend.ReleaseFrame(frame.Texture, frame.View)
	frame.Texture, frame.View = nil, nil
	if err != nil {
		return fmt.Errorf("display: present failed: %w", err)
	}
	return nil
}

func (d *display) SetPresentModePreference(modes ...wgpu.PresentMode) error {
	d.presentPreference = append([]wgpu.PresentMode(nil), modes...)
	if d.state != StateReady {
		return nil
	}
	return d.configure(d.config.Width, d.config.Height)
}

func (d *display) State() State {
	return d.state
}

func (d *display) Configuration() SurfaceConfiguration {
	return d.config
}

func (d *display) Adapter() AdapterInfo {
	return d.negotiation.adapter
}

func (d *display) Features() []wgpu.FeatureName {
	return append([]wgpu.FeatureName(nil), d.negotiation.features...)
}

func (d *display) Limits() wgpu.Limits {
	return d.negotiation.limits
}

func (d *display) Device() *wgpu.Device {
	return d.backend.Device()
}

func (d *display) Queue() *wgpu.Queue {
	return d.backend.Queue()
}

func (d *display) Release() {
	if d.state == StateFatal && d.backend == nil {
		return
	}
	d.state = StateFatal
	if d.backend != nil {
		d.backend.Release()
		d.backend = nil
	}
}
