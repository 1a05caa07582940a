package engine

import (
	"github.com/Carmen-Shannon/oxy-display/engine/display"
	"github.com/Carmen-Shannon/oxy-display/engine/renderer"
	"github.com/Carmen-Shannon/oxy-display/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Context is what the App callbacks work with. It is only valid inside the callbacks of the Run that created it.
type Context struct {
	display  display.Display
	renderer renderer.Renderer
	window   window.Window
	quit     func()
}

// Display returns the display the engine created for the window.
func (c *Context) Display() display.Display {
	return c.display
}

// Renderer returns the renderer bound to the display.
func (c *Context) Renderer() renderer.Renderer {
	return c.renderer
}

// Window returns the window being drawn into.
func (c *Context) Window() window.Window {
	return c.window
}

// Device returns the display's logical device.
func (c *Context) Device() *wgpu.Device {
	return c.display.Device()
}

// Queue returns the display's queue.
func (c *Context) Queue() *wgpu.Queue {
	return c.display.Queue()
}

// Format returns the surface format pipelines must target.
func (c *Context) Format() wgpu.TextureFormat {
	return c.display.Configuration().Format
}

// Quit stops the frame loop after the current frame.
func (c *Context) Quit() {
	c.quit()
}
