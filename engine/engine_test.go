package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-display/common"
	"github.com/Carmen-Shannon/oxy-display/engine/display"
	"github.com/Carmen-Shannon/oxy-display/engine/profiler"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-display/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs one scripted step per PollEvents call and reports closed once the script is exhausted.
type fakeWindow struct {
	width, height int
	steps         []func(w *fakeWindow)
	polls         int
	closed        bool

	onResize  func(width, height int)
	onClose   func()
	onKeyDown func(keyCode uint32)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) ID() window.ID                                { return 7 }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetCloseCallback(cb func())                   { w.onClose = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))        {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) IsRunning() bool                              { return !w.closed }
func (w *fakeWindow) Width() int                                   { return w.width }
func (w *fakeWindow) Height() int                                  { return w.height }

func (w *fakeWindow) PollEvents() bool {
	if w.polls >= len(w.steps) {
		w.closed = true
		return false
	}
	step := w.steps[w.polls]
	w.polls++
	if step != nil {
		step(w)
	}
	return !w.closed
}

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) resize(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func frames(n int) []func(*fakeWindow) {
	return make([]func(*fakeWindow), n)
}

type fakeDisplayBackend struct {
	acquireErrs []error
	presentErr  error
	features    []wgpu.FeatureName
	configured  []display.SurfaceConfiguration
	acquires    int
	presents    int
	released    bool
}

var _ display.DisplayBackend = &fakeDisplayBackend{}

func (b *fakeDisplayBackend) RequestAdapter(display.AdapterOptions) (display.AdapterInfo, error) {
	return display.AdapterInfo{
		Name:     "fake",
		Features: []wgpu.FeatureName{wgpu.FeatureNameTimestampQuery},
		Limits:   adapterLimits(),
	}, nil
}

func adapterLimits() wgpu.Limits {
	l := wgpu.DefaultLimits()
	l.MaxTextureDimension1D = 8192
	l.MaxTextureDimension2D = 8192
	l.MaxBindGroups = 4
	l.MaxVertexBuffers = 8
	l.MinUniformBufferOffsetAlignment = 256
	l.MinStorageBufferOffsetAlignment = 256
	return l
}

func (b *fakeDisplayBackend) RequestDevice(_ string, features []wgpu.FeatureName, _ wgpu.Limits) error {
	b.features = features
	return nil
}

func (b *fakeDisplayBackend) Capabilities() display.Capabilities {
	return display.Capabilities{
		Formats:      []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb},
		PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo},
		AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
	}
}

func (b *fakeDisplayBackend) Configure(config display.SurfaceConfiguration) {
	b.configured = append(b.configured, config)
}

func (b *fakeDisplayBackend) AcquireTexture() (*wgpu.Texture, *wgpu.TextureView, error) {
	b.acquires++
	if len(b.acquireErrs) > 0 {
		err := b.acquireErrs[0]
		b.acquireErrs = b.acquireErrs[1:]
		if err != nil {
			return nil, nil, err
		}
	}
	return &wgpu.Texture{}, &wgpu.TextureView{}, nil
}

func (b *fakeDisplayBackend) Present() error {
	b.presents++
	return b.presentErr
}

func (b *fakeDisplayBackend) ReleaseFrame(*wgpu.Texture, *wgpu.TextureView) {}
func (b *fakeDisplayBackend) Device() *wgpu.Device                          { return nil }
func (b *fakeDisplayBackend) Queue() *wgpu.Queue                            { return nil }
func (b *fakeDisplayBackend) Release()                                      { b.released = true }

type fakeRendererBackend struct {
	attachments []renderer.Attachments
	passes      int
	released    bool
}

var _ renderer.RendererBackend = &fakeRendererBackend{}

func (b *fakeRendererBackend) CreateBuffer(string, []byte, wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return &wgpu.Buffer{}, nil
}

func (b *fakeRendererBackend) ConfigureAttachments(a renderer.Attachments) error {
	b.attachments = append(b.attachments, a)
	return nil
}

func (b *fakeRendererBackend) BeginPass(*wgpu.TextureView, wgpu.Color) error {
	b.passes++
	return nil
}

func (b *fakeRendererBackend) SetPipeline(*wgpu.RenderPipeline)              {}
func (b *fakeRendererBackend) SetBindGroup(uint32, *wgpu.BindGroup)          {}
func (b *fakeRendererBackend) SetVertexBuffer(uint32, *wgpu.Buffer)          {}
func (b *fakeRendererBackend) SetIndexBuffer(*wgpu.Buffer, wgpu.IndexFormat) {}
func (b *fakeRendererBackend) Draw(uint32, uint32)                           {}
func (b *fakeRendererBackend) DrawIndexed(uint32, uint32)                    {}
func (b *fakeRendererBackend) EndPass() error                                { return nil }
func (b *fakeRendererBackend) Release()                                      { b.released = true }

type fakeWatcher struct {
	events chan shader.ReloadEvent
}

func (w *fakeWatcher) Events() <-chan shader.ReloadEvent { return w.events }
func (w *fakeWatcher) Add(string) error                   { return nil }

func (w *fakeWatcher) Close() error {
	close(w.events)
	return nil
}

type harness struct {
	win      *fakeWindow
	display  *fakeDisplayBackend
	renderer *fakeRendererBackend
	engine   *engine
}

func newHarness(t *testing.T, steps []func(*fakeWindow), opts ...EngineBuilderOption) *harness {
	t.Helper()
	h := &harness{
		win:      &fakeWindow{width: 800, height: 600, steps: steps},
		display:  &fakeDisplayBackend{},
		renderer: &fakeRendererBackend{},
	}
	opts = append([]EngineBuilderOption{
		WithWindow(h.win),
		WithLogger(common.NewNopLogger()),
		WithDisplayOptions(display.WithBackend(h.display)),
		WithRendererOptions(renderer.WithRendererBackend(h.renderer)),
	}, opts...)
	e, ok := NewEngine(opts...).(*engine)
	require.True(t, ok)
	e.sleep = func(time.Duration) {}
	h.engine = e
	return h
}

// drawApp submits one empty pass per frame.
func drawApp(renders *int) App {
	return App{
		Render: func(ctx *Context, frame *display.Frame) error {
			*renders++
			pass, err := ctx.Renderer().BeginPass(frame)
			if err != nil {
				return err
			}
			return ctx.Renderer().Submit(pass)
		},
	}
}

func TestRun_FrameLoop(t *testing.T) {
	h := newHarness(t, frames(3))
	var inits, updates, renders, shutdowns int
	app := drawApp(&renders)
	app.Init = func(ctx *Context) error {
		inits++
		assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, ctx.Format())
		assert.Equal(t, display.StateReady, ctx.Display().State())
		assert.Same(t, h.win, ctx.Window())
		return nil
	}
	app.Update = func(*Context, float32) { updates++ }
	app.Shutdown = func(*Context) { shutdowns++ }

	require.NoError(t, h.engine.Run(app))

	assert.Equal(t, 1, inits)
	assert.Equal(t, 3, updates)
	assert.Equal(t, 3, renders)
	assert.Equal(t, 3, h.display.presents)
	assert.Equal(t, 3, h.renderer.passes)
	assert.Equal(t, 1, shutdowns)
	assert.True(t, h.display.released)
	assert.True(t, h.renderer.released)
	assert.Equal(t, 3, h.win.polls)
}

func TestRun_QuitStopsLoop(t *testing.T) {
	h := newHarness(t, frames(10))
	renders := 0
	app := drawApp(&renders)
	app.Update = func(ctx *Context, _ float32) {
		if renders == 1 {
			ctx.Quit()
		}
	}

	require.NoError(t, h.engine.Run(app))
	assert.Equal(t, 2, renders)
}

func TestRun_AppRequirementsReachDevice(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.engine.Run(App{
		OptionalFeatures: []wgpu.FeatureName{wgpu.FeatureNameTimestampQuery, wgpu.FeatureNameShaderF16},
	}))
	assert.Equal(t, []wgpu.FeatureName{wgpu.FeatureNameTimestampQuery}, h.display.features)
}

func TestRun_MissingRequiredFeature(t *testing.T) {
	h := newHarness(t, nil)

	err := h.engine.Run(App{RequiredFeatures: []wgpu.FeatureName{wgpu.FeatureNameShaderF16}})
	assert.ErrorIs(t, err, display.ErrMissingFeature)
}

func TestRun_InitError(t *testing.T) {
	h := newHarness(t, frames(3))
	boom := errors.New("boom")
	renders := 0
	app := drawApp(&renders)
	app.Init = func(*Context) error { return boom }

	assert.ErrorIs(t, h.engine.Run(app), boom)
	assert.Zero(t, renders)
	assert.True(t, h.display.released)
}

func TestRun_Resize(t *testing.T) {
	steps := []func(*fakeWindow){
		func(w *fakeWindow) { w.resize(1024, 768) },
		func(w *fakeWindow) { w.resize(0, 0) },
		nil,
		func(w *fakeWindow) { w.resize(640, 480) },
	}
	h := newHarness(t, steps)
	var sizes [][2]int
	renders := 0
	app := drawApp(&renders)
	app.Resize = func(_ *Context, width, height int) {
		sizes = append(sizes, [2]int{width, height})
	}

	require.NoError(t, h.engine.Run(app))

	assert.Equal(t, [][2]int{{1024, 768}, {640, 480}}, sizes)
	// Minimized iterations present nothing.
	assert.Equal(t, 2, renders)

	require.Len(t, h.display.configured, 3)
	assert.Equal(t, uint32(1024), h.display.configured[1].Width)
	assert.Equal(t, uint32(640), h.display.configured[2].Width)

	require.Len(t, h.renderer.attachments, 3)
	assert.Equal(t, uint32(480), h.renderer.attachments[2].Height)
}

func TestRun_FatalAcquireStopsLoop(t *testing.T) {
	h := newHarness(t, frames(5))
	h.display.acquireErrs = []error{nil, fmt.Errorf("%w: device", display.ErrOutOfMemory)}
	renders := 0

	err := h.engine.Run(drawApp(&renders))

	assert.ErrorIs(t, err, display.ErrFatal)
	assert.ErrorIs(t, err, display.ErrOutOfMemory)
	assert.Equal(t, 1, renders)
	assert.True(t, h.display.released)
}

func TestRun_RecoverableAcquireKeepsRunning(t *testing.T) {
	h := newHarness(t, frames(3))
	h.display.acquireErrs = []error{fmt.Errorf("%w: stale", display.ErrSurfaceOutdated)}
	renders := 0

	require.NoError(t, h.engine.Run(drawApp(&renders)))
	assert.Equal(t, 3, renders)
	assert.Equal(t, 4, h.display.acquires)
}

func TestRun_AcquireTimeoutSkipsFrame(t *testing.T) {
	h := newHarness(t, frames(3))
	h.display.acquireErrs = []error{fmt.Errorf("%w: slow compositor", display.ErrSurfaceTimeout)}
	renders := 0

	require.NoError(t, h.engine.Run(drawApp(&renders)))
	assert.Equal(t, 2, renders)
	assert.Equal(t, 3, h.display.acquires)
	assert.Len(t, h.display.configured, 1)
}

func TestRun_RenderErrorStillPresents(t *testing.T) {
	h := newHarness(t, frames(3))
	boom := errors.New("boom")

	err := h.engine.Run(App{
		Render: func(*Context, *display.Frame) error { return boom },
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, h.display.presents)
}

func TestRun_PresentErrorStopsLoop(t *testing.T) {
	h := newHarness(t, frames(3))
	h.display.presentErr = errors.New("present rejected")
	renders, shutdowns := 0, 0
	app := drawApp(&renders)
	app.Shutdown = func(*Context) { shutdowns++ }

	err := h.engine.Run(app)

	assert.ErrorIs(t, err, h.display.presentErr)
	assert.Equal(t, 1, renders)
	assert.Equal(t, 1, h.display.presents)
	assert.Equal(t, 1, shutdowns)
	assert.True(t, h.display.released)
}

func TestRun_RenderAndPresentErrorsJoined(t *testing.T) {
	h := newHarness(t, frames(3))
	h.display.presentErr = errors.New("present rejected")
	boom := errors.New("boom")

	err := h.engine.Run(App{
		Render: func(*Context, *display.Frame) error { return boom },
	})

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, h.display.presentErr)
}

func TestRun_KeyDown(t *testing.T) {
	steps := []func(*fakeWindow){
		func(w *fakeWindow) { w.onKeyDown(common.KeyR) },
	}
	h := newHarness(t, steps)
	var keys []uint32

	require.NoError(t, h.engine.Run(App{
		KeyDown: func(_ *Context, keyCode uint32) { keys = append(keys, keyCode) },
	}))
	assert.Equal(t, []uint32{common.KeyR}, keys)
}

func TestRun_ShaderReload(t *testing.T) {
	w := &fakeWatcher{events: make(chan shader.ReloadEvent, 4)}
	w.events <- shader.ReloadEvent{Path: "a.wgsl"}
	w.events <- shader.ReloadEvent{Path: "b.wgsl"}

	var reloaded []string
	steps := []func(*fakeWindow){
		nil,
		func(*fakeWindow) { w.events <- shader.ReloadEvent{Path: "c.wgsl"} },
		func(*fakeWindow) { _ = w.Close() },
		nil,
	}
	h := newHarness(t, steps, WithShaderReload(w, func(_ *Context, ev shader.ReloadEvent) error {
		reloaded = append(reloaded, ev.Path)
		if ev.Path == "b.wgsl" {
			return errors.New("compile error")
		}
		return nil
	}))

	require.NoError(t, h.engine.Run(App{}))
	assert.Equal(t, []string{"a.wgsl", "b.wgsl", "c.wgsl"}, reloaded)
	assert.Nil(t, h.engine.watcher)
}

func TestRun_AlreadyRunning(t *testing.T) {
	h := newHarness(t, frames(1))
	var nested error

	require.NoError(t, h.engine.Run(App{
		Update: func(*Context, float32) { nested = h.engine.Run(App{}) },
	}))
	assert.ErrorIs(t, nested, ErrAlreadyRunning)
}

func TestRun_ProfilerTicks(t *testing.T) {
	h := newHarness(t, frames(4), WithProfiler(2))
	clock := time.Unix(0, 0)
	h.engine.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	h.engine.frameStats = profiler.NewFrameStats(
		profiler.WithWindow(2),
		profiler.WithClock(h.engine.now),
		profiler.WithLogger(common.NewNopLogger()),
	)

	require.NoError(t, h.engine.Run(App{}))
	assert.Equal(t, 2, h.engine.frameStats.Last().Frames)
}

func TestSetRenderFrameLimit(t *testing.T) {
	e := NewEngine(WithRenderFrameLimit(50)).(*engine)
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)

	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}
