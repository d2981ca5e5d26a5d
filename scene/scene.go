// Package scene is the bouncing-ball demo driven by bridge handlers
package scene

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/lixenwraith/framebridge/bridge"
	"github.com/lixenwraith/framebridge/event"
	"github.com/lixenwraith/framebridge/motion"
)

// Canvas is the drawing surface a scene redraws on every render tick
type Canvas interface {
	Clear()
	FillCircle(x, y, r float64, color string)
	Text(x, y int, s string)
	Present()
}

// Sounder reacts to wall hits
type Sounder interface {
	Bounce(hit motion.Bounce)
}

type silent struct{}

func (silent) Bounce(motion.Bounce) {}

// Default ball generation parameters, in surface units per tick
const (
	DefaultBalls     = 3
	DefaultMaxSpeed  = 1.5
	DefaultMinRadius = 1.0
	DefaultMaxRadius = 3.0

	dragVelocityScale = 0.5
)

// Option configures a Scene
type Option func(*Scene)

// WithBalls sets the number of seed balls
func WithBalls(n int) Option {
	return func(s *Scene) {
		if n >= 0 {
			s.seedCount = n
		}
	}
}

// WithSeed makes ball generation deterministic
func WithSeed(seed uint64) Option {
	return func(s *Scene) {
		s.seed = seed
	}
}

// WithSounder plays bounce effects through snd
func WithSounder(snd Sounder) Option {
	return func(s *Scene) {
		if snd != nil {
			s.sound = snd
		}
	}
}

// WithRadius bounds generated ball radii
func WithRadius(minR, maxR float64) Option {
	return func(s *Scene) {
		if minR > 0 && maxR >= minR {
			s.minR, s.maxR = minR, maxR
		}
	}
}

// WithMaxSpeed bounds generated ball velocities per axis
func WithMaxSpeed(v float64) Option {
	return func(s *Scene) {
		if v > 0 {
			s.maxSpeed = v
		}
	}
}

// WithLogger sets the scene logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// Scene owns the balls, the current bounds and the last reported frame rate
// Handlers are expected on the bridge executor; accessors may be called from anywhere
type Scene struct {
	mu sync.Mutex

	canvas Canvas
	sound  Sounder
	log    *zap.Logger

	seed      uint64
	seedCount int
	maxSpeed  float64
	minR      float64
	maxR      float64
	rng       *rand.Rand

	balls    []*motion.Ball
	seeded   bool
	width    float64
	height   float64
	fps      float64
	dragging bool
}

// New creates an empty scene; seed balls appear on the first resize
func New(canvas Canvas, opts ...Option) *Scene {
	s := &Scene{
		canvas:    canvas,
		sound:     silent{},
		log:       zap.NewNop(),
		seedCount: DefaultBalls,
		maxSpeed:  DefaultMaxSpeed,
		minR:      DefaultMinRadius,
		maxR:      DefaultMaxRadius,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	return s
}

// Bind registers the scene handlers on b
func (s *Scene) Bind(b *bridge.Bridge) {
	b.OnResize(s.Resize)
	b.OnRenderFrame(s.Render)
	b.OnMouseDown(s.MouseDown)
	b.OnMouseUp(s.MouseUp)
	b.OnMouseMove(s.MouseMove)
}

// Resize records the new bounds and seeds the balls on first use
func (s *Scene) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.width, s.height = float64(width), float64(height)
	if !s.seeded {
		s.resetLocked()
	}
	s.log.Debug("scene resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// Render advances every ball one step and redraws
func (s *Scene) Render(fps float64) error {
	s.mu.Lock()
	s.fps = fps
	var hit motion.Bounce
	for _, b := range s.balls {
		hit |= b.StepForward(s.width, s.height)
	}
	balls := make([]motion.Ball, len(s.balls))
	for i, b := range s.balls {
		balls[i] = *b
	}
	s.mu.Unlock()

	if hit.Any() {
		s.sound.Bounce(hit)
	}
	if s.canvas == nil {
		return nil
	}

	s.canvas.Clear()
	for _, b := range balls {
		s.canvas.FillCircle(b.X, b.Y, b.R, b.Color)
	}
	s.canvas.Text(0, 0, fmt.Sprintf("%3.0f fps  %d balls", fps, len(balls)))
	s.canvas.Present()
	return nil
}

// MouseDown adds a ball at the pointer on the main button and resets on the secondary one
func (s *Scene) MouseDown(args event.MouseArgs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch args.Button {
	case event.ButtonMain:
		b := motion.Random(s.rng, s.width, s.height, s.maxSpeed, s.minR, s.maxR)
		b.X, b.Y = s.clampX(float64(args.OffsetX)), s.clampY(float64(args.OffsetY))
		s.balls = append(s.balls, b)
		s.dragging = true
	case event.ButtonSecondary:
		s.resetLocked()
		s.log.Debug("scene reset", zap.Int("balls", len(s.balls)))
	}
	return nil
}

// MouseUp ends a drag
func (s *Scene) MouseUp(args event.MouseArgs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if args.Button == event.ButtonMain {
		s.dragging = false
	}
	return nil
}

// MouseMove drags the newest ball while the main button is held
func (s *Scene) MouseMove(args event.MouseArgs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dragging && !args.Pressed(event.ButtonsPrimary) {
		return nil
	}
	if len(s.balls) == 0 {
		return nil
	}
	b := s.balls[len(s.balls)-1]
	b.X, b.Y = s.clampX(float64(args.OffsetX)), s.clampY(float64(args.OffsetY))
	b.XVel = float64(args.MovementX) * dragVelocityScale
	b.YVel = float64(args.MovementY) * dragVelocityScale
	return nil
}

func (s *Scene) resetLocked() {
	s.balls = s.balls[:0]
	for range s.seedCount {
		s.balls = append(s.balls, motion.Random(s.rng, s.width, s.height, s.maxSpeed, s.minR, s.maxR))
	}
	s.seeded = true
	s.dragging = false
}

func (s *Scene) clampX(v float64) float64 { return max(0, min(v, s.width)) }
func (s *Scene) clampY(v float64) float64 { return max(0, min(v, s.height)) }

// Balls returns a copy of the current balls
func (s *Scene) Balls() []motion.Ball {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]motion.Ball, len(s.balls))
	for i, b := range s.balls {
		out[i] = *b
	}
	return out
}

// Bounds returns the last size delivered by a resize
func (s *Scene) Bounds() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// FPS returns the frame rate reported by the last render tick
func (s *Scene) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}
