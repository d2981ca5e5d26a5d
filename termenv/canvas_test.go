package termenv

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimCanvas(t *testing.T, w, h int) (*Canvas, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(sim.Fini)
	sim.SetSize(w, h)
	c := newCanvas(sim)
	c.SetSize(w, h)
	return c, sim
}

func TestCanvas_FillCircle(t *testing.T) {
	c, sim := newSimCanvas(t, 20, 10)

	c.FillCircle(10, 5, 2, "#ff0000")
	c.Present()

	_, _, st, _ := sim.GetContent(10, 5)
	_, bg, _ := st.Decompose()
	if bg != tcell.GetColor("#ff0000") {
		t.Errorf("Expected center cell painted red, got %v", bg)
	}
	_, _, st, _ = sim.GetContent(0, 0)
	_, bg, _ = st.Decompose()
	if bg == tcell.GetColor("#ff0000") {
		t.Error("Expected far corner untouched")
	}
}

func TestCanvas_ClipsOutside(t *testing.T) {
	c, _ := newSimCanvas(t, 5, 5)

	// Must not panic or write outside the clip
	c.FillCircle(-3, -3, 4, "#00ff00")
	c.FillCircle(50, 50, 4, "#00ff00")
	c.Text(3, 2, "overflow")
	c.Text(0, 9, "below")
	c.Present()
}

func TestCanvas_Text(t *testing.T) {
	c, sim := newSimCanvas(t, 10, 2)

	c.Text(1, 0, "fps")
	c.Present()

	for i, want := range "fps" {
		r, _, _, _ := sim.GetContent(1+i, 0)
		if r != want {
			t.Errorf("Cell %d: expected %q, got %q", i+1, want, r)
		}
	}
}
