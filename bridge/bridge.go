package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/framebridge/event"
)

// State is the bridge lifecycle position
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateActive
	StateDisposed
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateActive:
		return "active"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Handler signatures; a returned error travels back to the native callback
type (
	ResizeHandler func(width, height int) error
	RenderHandler func(fps float64) error
	MouseHandler  func(args event.MouseArgs) error
)

const defaultQueueSize = 64

// Option configures a Bridge
type Option func(*Bridge)

// WithContainerID overrides the id of the element wrapping the surface
func WithContainerID(id string) Option {
	return func(b *Bridge) {
		b.containerID = id
	}
}

// WithLogger sets the bridge logger, defaults to the package Logger
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// WithQueueSize sets how many deliveries may wait for the executor
func WithQueueSize(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.queueSize = n
		}
	}
}

// Bridge connects one native Module to host handlers
type Bridge struct {
	loader      Loader
	containerID string
	queueSize   int
	log         *zap.Logger
	exec        *executor

	state atomic.Int32

	// mu guards the module handle, subscriptions and frame scheduling
	mu         sync.Mutex
	module     Module
	subs       []Subscription
	frame      FrameToken
	generation uint64

	// Render timing, touched only on the executor
	lastRender  time.Duration
	hasRendered bool

	handlersMu  sync.RWMutex
	onResize    ResizeHandler
	onRender    RenderHandler
	onMouseDown MouseHandler
	onMouseUp   MouseHandler
	onMouseMove MouseHandler
}

// New creates an uninitialized bridge; no native work happens until Initialize
func New(loader Loader, opts ...Option) *Bridge {
	b := &Bridge{
		loader:      loader,
		containerID: DefaultContainerID,
		queueSize:   defaultQueueSize,
		log:         Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With(zap.String("container", b.containerID))
	b.exec = newExecutor(b.queueSize, func(kind event.Kind, err error) {
		b.log.Warn("handler failed", zap.Stringer("kind", kind), zap.Error(err))
	})
	return b
}

// State returns the current lifecycle state
func (b *Bridge) State() State {
	return State(b.state.Load())
}

// OnResize binds the resize handler, nil unbinds
func (b *Bridge) OnResize(h ResizeHandler) {
	b.handlersMu.Lock()
	b.onResize = h
	b.handlersMu.Unlock()
}

// OnRenderFrame binds the render handler, nil unbinds
func (b *Bridge) OnRenderFrame(h RenderHandler) {
	b.handlersMu.Lock()
	b.onRender = h
	b.handlersMu.Unlock()
}

// OnMouseDown binds the mouse-down handler, nil unbinds
func (b *Bridge) OnMouseDown(h MouseHandler) {
	b.handlersMu.Lock()
	b.onMouseDown = h
	b.handlersMu.Unlock()
}

// OnMouseUp binds the mouse-up handler, nil unbinds
func (b *Bridge) OnMouseUp(h MouseHandler) {
	b.handlersMu.Lock()
	b.onMouseUp = h
	b.handlersMu.Unlock()
}

// OnMouseMove binds the mouse-move handler, nil unbinds
func (b *Bridge) OnMouseMove(h MouseHandler) {
	b.handlersMu.Lock()
	b.onMouseMove = h
	b.handlersMu.Unlock()
}

func (b *Bridge) mouseHandler(kind event.Kind) MouseHandler {
	b.handlersMu.RLock()
	defer b.handlersMu.RUnlock()
	switch kind {
	case event.KindMouseDown:
		return b.onMouseDown
	case event.KindMouseUp:
		return b.onMouseUp
	case event.KindMouseMove:
		return b.onMouseMove
	}
	return nil
}

// Initialize loads the module if needed, subscribes to window events, runs one resize pass
// and requests the first animation frame
// Call it once the surface exists. Calling it again on an active bridge re-claims the
// active slot and re-runs the resize pass without subscribing twice
func (b *Bridge) Initialize(ctx context.Context) error {
	b.mu.Lock()
	switch b.State() {
	case StateDisposed:
		b.mu.Unlock()
		return ErrDisposed
	case StateActive:
		mod := b.module
		b.mu.Unlock()
		b.activate(mod)
		return b.resizePass()
	}

	b.state.Store(int32(StateInitializing))
	mod, err := b.loadModule(ctx)
	if err != nil {
		b.state.Store(int32(StateUninitialized))
		b.mu.Unlock()
		return err
	}

	for _, kind := range event.WindowKinds {
		sub, err := mod.Subscribe(kind, b.nativeCallback(kind))
		if err != nil {
			b.detachLocked()
			b.state.Store(int32(StateUninitialized))
			b.mu.Unlock()
			return fmt.Errorf("subscribe %s: %w", kind, err)
		}
		b.subs = append(b.subs, sub)
	}

	b.state.Store(int32(StateActive))
	gen := b.generation
	b.exec.start()
	b.mu.Unlock()

	b.activate(mod)
	b.log.Debug("bridge active")

	resizeErr := b.resizePass()
	if errors.Is(resizeErr, ErrDisposed) {
		return ErrDisposed
	}
	b.requestFrame(gen)
	return resizeErr
}

// loadModule returns the cached module or creates it, caller holds mu
func (b *Bridge) loadModule(ctx context.Context) (Module, error) {
	if b.module != nil {
		return b.module, nil
	}
	if b.loader == nil {
		return nil, ErrNoLoader
	}
	mod, err := b.loader(ctx)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	if mod == nil {
		return nil, fmt.Errorf("load module: loader returned nil module")
	}
	b.module = mod
	return mod, nil
}

// detachLocked closes every subscription, caller holds mu
func (b *Bridge) detachLocked() []error {
	var errs []error
	for _, sub := range b.subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.subs = nil
	return errs
}

// activate makes b the target of native callbacks
func (b *Bridge) activate(mod Module) {
	if prev := claim(b); prev != nil {
		b.log.Debug("bridge displaced previous active bridge")
	}
	if a, ok := mod.(Announcer); ok {
		a.Announce(b)
	}
}

// nativeCallback builds the entry point the module invokes for kind
func (b *Bridge) nativeCallback(kind event.Kind) Callback {
	if kind == event.KindResize {
		return func([]byte) error {
			return quiet(b.resizePass())
		}
	}

	return func(payload []byte) error {
		args, err := event.DecodeMouse(payload)
		if err != nil {
			b.log.Warn("rejected mouse record", zap.Stringer("kind", kind), zap.Error(err))
			return fmt.Errorf("%s: %w", kind, err)
		}
		return quiet(b.exec.await(kind, func() error {
			if h := b.mouseHandler(kind); h != nil {
				return h(args)
			}
			return nil
		}))
	}
}

// quiet drops ErrDisposed, which only means the event raced a Dispose
func quiet(err error) error {
	if errors.Is(err, ErrDisposed) {
		return nil
	}
	return err
}

// resizePass fits the surface to the window and forwards the new size
// A missing surface skips the pass without notifying the host
func (b *Bridge) resizePass() error {
	return b.exec.await(event.KindResize, func() error {
		b.mu.Lock()
		mod := b.module
		b.mu.Unlock()
		if mod == nil {
			return nil
		}

		surface, ok := mod.Surface(b.containerID)
		if !ok {
			b.log.Debug("surface not found, resize skipped")
			return nil
		}

		width, height := mod.InnerSize()
		surface.SetSize(width, height)

		b.handlersMu.RLock()
		h := b.onResize
		b.handlersMu.RUnlock()
		if h == nil {
			return nil
		}
		return h(width, height)
	})
}

// requestFrame schedules the next render tick for generation gen
func (b *Bridge) requestFrame(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation || b.State() != StateActive || b.module == nil {
		return
	}
	b.frame = b.module.RequestFrame(b.renderEntry(gen))
}

// renderEntry is the native render callback for one generation of frame requests
// Delivery is posted, not awaited, and the next frame is requested right after
func (b *Bridge) renderEntry(gen uint64) func(time.Duration) {
	return func(timestamp time.Duration) {
		b.mu.Lock()
		if gen != b.generation {
			b.mu.Unlock()
			return
		}
		b.frame = 0
		b.mu.Unlock()

		b.exec.post(event.KindRender, func() error {
			if !b.current(gen) {
				return nil
			}
			fps := b.tick(timestamp)
			b.handlersMu.RLock()
			h := b.onRender
			b.handlersMu.RUnlock()
			if h == nil {
				return nil
			}
			return h(fps)
		})

		b.requestFrame(gen)
	}
}

// current reports whether gen is still the live frame generation
func (b *Bridge) current(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return gen == b.generation
}

// tick records timestamp and returns frames per second since the previous tick
// The first tick and non-increasing timestamps report 0
func (b *Bridge) tick(timestamp time.Duration) float64 {
	var fps float64
	if b.hasRendered {
		if dt := timestamp - b.lastRender; dt > 0 {
			fps = 1.0 / dt.Seconds()
		}
	}
	b.lastRender = timestamp
	b.hasRendered = true
	return fps
}

// Dispose tears the bridge down; it is idempotent and a no-op if Initialize never ran
// The pending frame is cancelled, listeners are detached and the module is released once
func (b *Bridge) Dispose() error {
	b.mu.Lock()
	st := b.State()
	if st == StateDisposed || (st == StateUninitialized && b.module == nil) {
		b.mu.Unlock()
		return nil
	}
	b.state.Store(int32(StateDisposed))
	b.generation++

	mod := b.module
	b.module = nil
	if b.frame != 0 && mod != nil {
		mod.CancelFrame(b.frame)
	}
	b.frame = 0
	errs := b.detachLocked()
	b.mu.Unlock()

	b.exec.stop()

	if release(b) {
		b.log.Debug("bridge released active slot")
	}
	if mod == nil {
		return errors.Join(errs...)
	}
	if a, ok := mod.(Announcer); ok {
		a.Withdraw(b)
	}
	if err := mod.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release module: %w", err))
	}
	b.log.Debug("bridge disposed")
	return errors.Join(errs...)
}

// Wait blocks until the executor goroutine has exited after Dispose
func (b *Bridge) Wait() {
	b.exec.wait()
}
