package scene

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/framebridge/bridge"
	"github.com/lixenwraith/framebridge/event"
	"github.com/lixenwraith/framebridge/motion"
)

type fakeCanvas struct {
	mu       sync.Mutex
	circles  int
	texts    []string
	presents chan struct{}
}

func newFakeCanvas() *fakeCanvas {
	return &fakeCanvas{presents: make(chan struct{}, 16)}
}

func (c *fakeCanvas) Clear() {
	c.mu.Lock()
	c.circles = 0
	c.texts = nil
	c.mu.Unlock()
}

func (c *fakeCanvas) FillCircle(x, y, r float64, color string) {
	c.mu.Lock()
	c.circles++
	c.mu.Unlock()
}

func (c *fakeCanvas) Text(x, y int, s string) {
	c.mu.Lock()
	c.texts = append(c.texts, s)
	c.mu.Unlock()
}

func (c *fakeCanvas) Present() {
	select {
	case c.presents <- struct{}{}:
	default:
	}
}

type recordingSounder struct {
	hits []motion.Bounce
}

func (r *recordingSounder) Bounce(hit motion.Bounce) {
	r.hits = append(r.hits, hit)
}

func TestResize_SeedsOnce(t *testing.T) {
	s := New(nil, WithBalls(4), WithSeed(7))

	if len(s.Balls()) != 0 {
		t.Fatalf("Expected no balls before resize, got %d", len(s.Balls()))
	}

	s.Resize(80, 25)
	first := s.Balls()
	if len(first) != 4 {
		t.Fatalf("Expected 4 seed balls, got %d", len(first))
	}
	for i, b := range first {
		if b.X < 0 || b.X > 80 || b.Y < 0 || b.Y > 25 {
			t.Errorf("Ball %d seeded out of bounds: (%f,%f)", i, b.X, b.Y)
		}
	}

	s.Resize(100, 40)
	if w, h := s.Bounds(); w != 100 || h != 40 {
		t.Errorf("Expected bounds 100x40, got %vx%v", w, h)
	}
	if got := s.Balls(); len(got) != 4 || got[0] != first[0] {
		t.Error("Expected a later resize to keep existing balls")
	}
}

func TestSeed_Deterministic(t *testing.T) {
	a := New(nil, WithSeed(42))
	b := New(nil, WithSeed(42))
	a.Resize(80, 25)
	b.Resize(80, 25)

	ba, bb := a.Balls(), b.Balls()
	for i := range ba {
		if ba[i] != bb[i] {
			t.Fatalf("Expected identical balls for the same seed, got %+v and %+v", ba[i], bb[i])
		}
	}
}

func TestRender_StepsAndDraws(t *testing.T) {
	c := newFakeCanvas()
	s := New(c, WithBalls(2), WithSeed(1))
	s.Resize(80, 25)
	before := s.Balls()

	if err := s.Render(60); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	after := s.Balls()
	for i := range before {
		if before[i] == after[i] {
			t.Errorf("Expected ball %d to move", i)
		}
	}
	if c.circles != 2 {
		t.Errorf("Expected 2 circles drawn, got %d", c.circles)
	}
	if len(c.texts) != 1 {
		t.Errorf("Expected one status line, got %v", c.texts)
	}
	if s.FPS() != 60 {
		t.Errorf("Expected fps 60, got %v", s.FPS())
	}
	select {
	case <-c.presents:
	default:
		t.Error("Expected Present after render")
	}
}

func TestRender_BounceSounds(t *testing.T) {
	snd := &recordingSounder{}
	s := New(nil, WithBalls(0), WithSounder(snd))
	s.Resize(100, 100)

	s.mu.Lock()
	s.balls = append(s.balls, motion.NewBall(95, 50, 10, 0, 2, "red"))
	s.mu.Unlock()

	s.Render(0)
	if len(snd.hits) != 1 || snd.hits[0] != motion.BounceRight {
		t.Fatalf("Expected one right-wall bounce, got %v", snd.hits)
	}

	// Moving back inside makes no sound
	s.Render(0)
	if len(snd.hits) != 1 {
		t.Errorf("Expected no further bounce, got %v", snd.hits)
	}
}

func TestMouseDown_AddAndReset(t *testing.T) {
	s := New(nil, WithBalls(2), WithSeed(3))
	s.Resize(80, 25)

	s.MouseDown(event.MouseArgs{Button: event.ButtonMain, OffsetX: 10, OffsetY: 5})
	balls := s.Balls()
	if len(balls) != 3 {
		t.Fatalf("Expected 3 balls after main press, got %d", len(balls))
	}
	if nb := balls[2]; nb.X != 10 || nb.Y != 5 {
		t.Errorf("Expected new ball at (10,5), got (%f,%f)", nb.X, nb.Y)
	}

	s.MouseDown(event.MouseArgs{Button: event.ButtonMain, OffsetX: 500, OffsetY: -3})
	if nb := s.Balls()[3]; nb.X != 80 || nb.Y != 0 {
		t.Errorf("Expected pointer clamped to (80,0), got (%f,%f)", nb.X, nb.Y)
	}

	s.MouseDown(event.MouseArgs{Button: event.ButtonSecondary})
	if got := len(s.Balls()); got != 2 {
		t.Errorf("Expected reset to 2 seed balls, got %d", got)
	}

	s.MouseDown(event.MouseArgs{Button: event.ButtonAuxiliary})
	if got := len(s.Balls()); got != 2 {
		t.Errorf("Expected middle button ignored, got %d balls", got)
	}
}

func TestMouseMove_DragsNewest(t *testing.T) {
	s := New(nil, WithBalls(1), WithSeed(5))
	s.Resize(80, 25)

	// Not dragging: ignored
	s.MouseMove(event.MouseArgs{OffsetX: 1, OffsetY: 1})
	if b := s.Balls()[0]; b.X == 1 && b.Y == 1 {
		t.Fatal("Expected move without a pressed button to be ignored")
	}

	s.MouseDown(event.MouseArgs{Button: event.ButtonMain, OffsetX: 20, OffsetY: 10})
	s.MouseMove(event.MouseArgs{OffsetX: 24, OffsetY: 12, MovementX: 4, MovementY: 2})

	b := s.Balls()[1]
	if b.X != 24 || b.Y != 12 {
		t.Errorf("Expected dragged ball at (24,12), got (%f,%f)", b.X, b.Y)
	}
	if b.XVel != 2 || b.YVel != 1 {
		t.Errorf("Expected velocity (2,1), got (%f,%f)", b.XVel, b.YVel)
	}

	s.MouseUp(event.MouseArgs{Button: event.ButtonMain})
	s.MouseMove(event.MouseArgs{OffsetX: 40, OffsetY: 20})
	if b := s.Balls()[1]; b.X != 24 {
		t.Errorf("Expected drag to end on release, got x=%f", b.X)
	}

	// A true bitmask also counts as held
	s.MouseMove(event.MouseArgs{OffsetX: 40, OffsetY: 20, Buttons: event.ButtonsPrimary})
	if b := s.Balls()[1]; b.X != 40 {
		t.Errorf("Expected bitmask drag to move ball, got x=%f", b.X)
	}
}

func TestBind_DrivenByBridge(t *testing.T) {
	m := bridge.NewMockModule(80, 25)
	m.AddSurface(bridge.DefaultContainerID)
	c := newFakeCanvas()
	s := New(c, WithBalls(2), WithSeed(9))

	b := bridge.New(m.Loader())
	s.Bind(b)
	defer func() {
		b.Dispose()
		b.Wait()
	}()

	if err := b.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if w, h := s.Bounds(); w != 80 || h != 25 {
		t.Fatalf("Expected bounds from initial resize pass, got %vx%v", w, h)
	}

	if err := m.FireMouse(event.KindMouseDown, event.MouseArgs{Button: event.ButtonMain, OffsetX: 3, OffsetY: 4}); err != nil {
		t.Fatalf("FireMouse failed: %v", err)
	}
	if got := len(s.Balls()); got != 3 {
		t.Errorf("Expected 3 balls after click, got %d", got)
	}

	m.RunFrame(0)
	m.RunFrame(50 * time.Millisecond)
	for range 2 {
		select {
		case <-c.presents:
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for render")
		}
	}
	if fps := s.FPS(); fps < 19.99 || fps > 20.01 {
		t.Errorf("Expected fps 20, got %v", fps)
	}
}
