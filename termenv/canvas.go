package termenv

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Canvas draws on a tcell screen; one cell is one surface unit
type Canvas struct {
	screen tcell.Screen

	mu            sync.Mutex
	width, height int
	styles        map[string]tcell.Style
}

func newCanvas(screen tcell.Screen) *Canvas {
	return &Canvas{
		screen: screen,
		styles: make(map[string]tcell.Style),
	}
}

// SetSize implements bridge.Surface; the terminal decides its own size, so only the clip changes
func (c *Canvas) SetSize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
}

// Size returns the clip rectangle applied by the last resize pass
func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Clear blanks the screen
func (c *Canvas) Clear() {
	c.screen.Clear()
}

// style returns a background style for a color tag, cached per tag
func (c *Canvas) style(color string) tcell.Style {
	if st, ok := c.styles[color]; ok {
		return st
	}
	st := tcell.StyleDefault.Background(tcell.GetColor(color))
	c.styles[color] = st
	return st
}

// FillCircle paints every cell whose center lies within r of (x, y)
func (c *Canvas) FillCircle(x, y, r float64, color string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.style(color)
	minX, maxX := int(x-r), int(x+r)
	minY, maxY := int(y-r), int(y+r)
	for cy := max(minY, 0); cy <= maxY && cy < c.height; cy++ {
		for cx := max(minX, 0); cx <= maxX && cx < c.width; cx++ {
			dx := float64(cx) + 0.5 - x
			dy := float64(cy) + 0.5 - y
			if dx*dx+dy*dy <= r*r {
				c.screen.SetContent(cx, cy, ' ', nil, st)
			}
		}
	}
}

// Text writes s starting at cell (x, y), clipped to the surface
func (c *Canvas) Text(x, y int, s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if y < 0 || y >= c.height {
		return
	}
	for _, r := range s {
		if x >= c.width {
			return
		}
		if x >= 0 {
			c.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		}
		x++
	}
}

// Present flushes drawn cells to the terminal
func (c *Canvas) Present() {
	c.screen.Show()
}
