package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-display/common"
	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindow_Defaults(t *testing.T) {
	w := newEngineWindow()

	assert.Equal(t, "oxy-display", w.title)
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.True(t, w.resizable)
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
}

func TestNewEngineWindow_Options(t *testing.T) {
	w := newEngineWindow(
		WithTitle("triangle"),
		WithSize(800, 600),
		WithMinSize(320, 240),
		WithMaxSize(1920, 1080),
		WithResizable(false),
	)

	assert.Equal(t, "triangle", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 240, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, 1080, w.maxHeight)
	assert.False(t, w.resizable)
}

func TestWithSize_IgnoresNonPositive(t *testing.T) {
	w := newEngineWindow(WithSize(0, 500), WithMinSize(-1, 100))

	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 500, w.Height())
	assert.Equal(t, 0, w.minWidth)
	assert.Equal(t, 100, w.minHeight)
}

func TestEngineWindow_IDsAreUnique(t *testing.T) {
	a := newEngineWindow()
	b := newEngineWindow()

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), a.ID())
}

func TestEngineWindow_FramebufferResized(t *testing.T) {
	w := newEngineWindow()
	var got [2]int
	w.SetResizeCallback(func(width, height int) {
		got = [2]int{width, height}
	})

	w.framebufferResized(0, 0)
	assert.Equal(t, [2]int{0, 0}, got)
	assert.Equal(t, 0, w.Width())

	w.framebufferResized(1024, 768)
	assert.Equal(t, [2]int{1024, 768}, got)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestEngineWindow_KeyEvents(t *testing.T) {
	w := newEngineWindow()
	var down, up []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })

	assert.False(t, w.keyEvent(common.KeyR, true))
	assert.False(t, w.keyEvent(common.KeyR, false))
	assert.Equal(t, []uint32{common.KeyR}, down)
	assert.Equal(t, []uint32{common.KeyR}, up)

	assert.True(t, w.keyEvent(common.KeyEsc, true))
	assert.False(t, w.keyEvent(common.KeyEsc, false))
	assert.Len(t, down, 1)
	assert.Len(t, up, 1)
}

func TestEngineWindow_CloseNotifiedOnce(t *testing.T) {
	w := newEngineWindow()
	closes := 0
	w.SetCloseCallback(func() { closes++ })

	assert.False(t, w.PollEvents())
	assert.False(t, w.PollEvents())
	assert.Equal(t, 1, closes)
	assert.Error(t, w.Close())
	assert.Equal(t, 1, closes)
}
