//go:build js && wasm

package browser

import (
	"math"
	"sync"
	"syscall/js"
)

// Canvas draws on a <canvas> element through its 2D context
type Canvas struct {
	mu      sync.Mutex
	element js.Value
	ctx     js.Value
	width   int
	height  int
}

func newCanvas(el js.Value) *Canvas {
	return &Canvas{
		element: el,
		ctx:     el.Call("getContext", "2d"),
		width:   el.Get("width").Int(),
		height:  el.Get("height").Int(),
	}
}

// SetSize resizes the drawing buffer
func (c *Canvas) SetSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.element.Set("width", width)
	c.element.Set("height", height)
	c.width, c.height = width, height
}

// Size returns the drawing buffer size
func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Clear wipes the drawing buffer
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx.Call("clearRect", 0, 0, c.width, c.height)
}

// FillCircle fills a disc centered on (x, y)
func (c *Canvas) FillCircle(x, y, r float64, color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx.Call("beginPath")
	c.ctx.Call("arc", x, y, r, 0, 2*math.Pi)
	c.ctx.Call("closePath")
	c.ctx.Set("fillStyle", color)
	c.ctx.Call("fill")
}

// Text draws s with its top-left corner at (x, y)
func (c *Canvas) Text(x, y int, s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx.Set("fillStyle", "black")
	c.ctx.Set("textBaseline", "top")
	c.ctx.Set("font", "14px monospace")
	c.ctx.Call("fillText", s, x, y)
}

// Present is a no-op; the browser composites after the frame callback returns
func (c *Canvas) Present() {}

// View draws on whichever canvas is nested in a container when a frame starts
// Drawing is dropped while the container or its canvas is absent
type View struct {
	module      *Module
	containerID string
	cur         *Canvas
}

// View returns a drawing target bound to containerID
func (m *Module) View(containerID string) *View {
	return &View{module: m, containerID: containerID}
}

// Clear resolves the canvas for this frame and wipes it
func (v *View) Clear() {
	c, ok := v.module.Canvas(v.containerID)
	if !ok {
		v.cur = nil
		return
	}
	v.cur = c
	c.Clear()
}

func (v *View) FillCircle(x, y, r float64, color string) {
	if v.cur != nil {
		v.cur.FillCircle(x, y, r, color)
	}
}

func (v *View) Text(x, y int, s string) {
	if v.cur != nil {
		v.cur.Text(x, y, s)
	}
}

func (v *View) Present() {
	if v.cur != nil {
		v.cur.Present()
	}
}
