package termenv

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/framebridge/bridge"
	"github.com/lixenwraith/framebridge/event"
)

// DefaultFrameRate is the scheduler rate used when none is configured
const DefaultFrameRate = 60

// Option configures an Environment
type Option func(*Environment)

// WithFrameRate sets the frame scheduler rate in frames per second
func WithFrameRate(fps int) Option {
	return func(e *Environment) {
		if fps > 0 {
			e.frameInterval = time.Second / time.Duration(fps)
		}
	}
}

// WithLogger sets the environment logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Environment) {
		if l != nil {
			e.log = l
		}
	}
}

// WithContainerID sets the container id the screen surface answers to
func WithContainerID(id string) Option {
	return func(e *Environment) {
		e.containerID = id
	}
}

// WithConvertOptions sets how native mouse state becomes event.MouseArgs
func WithConvertOptions(opts ...event.ConvertOption) Option {
	return func(e *Environment) {
		e.convert = opts
	}
}

// WithCrashHandler replaces the poll-loop panic handler
func WithCrashHandler(fn func(r any)) Option {
	return func(e *Environment) {
		e.crash = fn
	}
}

// Environment is a bridge.Module backed by a tcell screen
type Environment struct {
	screen        tcell.Screen
	canvas        *Canvas
	log           *zap.Logger
	frameInterval time.Duration
	containerID   string
	convert       []event.ConvertOption
	crash         func(r any)
	origin        time.Time

	mu        sync.Mutex
	listeners map[event.Kind]map[int]bridge.Callback
	nextID    int
	timers    map[bridge.FrameToken]*time.Timer
	nextToken bridge.FrameToken
	running   bool
	released  bool

	// Mouse tracking, owned by the poll goroutine
	mouseSeen    bool
	lastX, lastY int
	lastButtons  tcell.ButtonMask

	doneCh   chan struct{}
	doneOnce sync.Once
	pollDone chan struct{}
}

// New wraps screen; the screen is initialized by the loader, not here
func New(screen tcell.Screen, opts ...Option) *Environment {
	e := &Environment{
		screen:        screen,
		log:           zap.NewNop(),
		frameInterval: time.Second / DefaultFrameRate,
		containerID:   bridge.DefaultContainerID,
		listeners:     make(map[event.Kind]map[int]bridge.Callback),
		timers:        make(map[bridge.FrameToken]*time.Timer),
		doneCh:        make(chan struct{}),
		pollDone:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.crash == nil {
		e.crash = e.defaultCrash
	}
	e.canvas = newCanvas(screen)
	return e
}

// Loader returns a bridge.Loader that initializes the screen and starts event polling
func (e *Environment) Loader() bridge.Loader {
	return func(ctx context.Context) (bridge.Module, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.start(); err != nil {
			return nil, err
		}
		return e, nil
	}
}

func (e *Environment) start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return fmt.Errorf("terminal environment released")
	}
	if e.running {
		return nil
	}

	if err := e.screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	e.screen.EnableMouse(tcell.MouseMotionEvents)
	e.screen.HideCursor()
	e.screen.Clear()

	e.origin = time.Now()
	e.running = true
	go e.pollLoop()
	return nil
}

// Done is closed when the user asks to quit (Esc, Ctrl-C, q)
func (e *Environment) Done() <-chan struct{} {
	return e.doneCh
}

// Canvas returns the drawing surface backed by the screen
func (e *Environment) Canvas() *Canvas {
	return e.canvas
}

func (e *Environment) quit() {
	e.doneOnce.Do(func() {
		close(e.doneCh)
	})
}

func (e *Environment) defaultCrash(r any) {
	e.screen.Fini()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTERMINAL POLL CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}

// pollLoop reads screen events until the screen is finalized
func (e *Environment) pollLoop() {
	defer close(e.pollDone)
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("poll loop crashed", zap.Any("panic", r))
			e.crash(r)
		}
	}()

	for {
		ev := e.screen.PollEvent()
		if ev == nil {
			return
		}
		e.handle(ev)
	}
}

func (e *Environment) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		e.screen.Sync()
		e.fire(event.KindResize, nil)

	case *tcell.EventMouse:
		e.handleMouse(ev)

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			e.quit()
		}
	}
}

// buttonMap pairs tcell buttons with DOM button ids and pressed-buttons bits
var buttonMap = []struct {
	mask   tcell.ButtonMask
	button int32
	bit    int32
}{
	{tcell.ButtonPrimary, event.ButtonMain, event.ButtonsPrimary},
	{tcell.ButtonSecondary, event.ButtonSecondary, event.ButtonsSecondary},
	{tcell.ButtonMiddle, event.ButtonAuxiliary, event.ButtonsAuxiliary},
}

const trackedButtons = tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle

func domButtons(mask tcell.ButtonMask) int32 {
	var bits int32
	for _, m := range buttonMap {
		if mask&m.mask != 0 {
			bits |= m.bit
		}
	}
	return bits
}

// handleMouse splits one tcell mouse report into DOM-style move, down and up events
func (e *Environment) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons() & trackedButtons
	mods := ev.Modifiers()

	var dx, dy int
	if e.mouseSeen {
		dx, dy = x-e.lastX, y-e.lastY
	}
	moved := !e.mouseSeen || dx != 0 || dy != 0
	pressed := buttons &^ e.lastButtons
	released := e.lastButtons &^ buttons

	native := event.NativeMouse{
		ScreenX: int32(x), ScreenY: int32(y),
		ClientX: int32(x), ClientY: int32(y),
		OffsetX: int32(x), OffsetY: int32(y),
		MovementX: int32(dx), MovementY: int32(dy),
		AltKey:  mods&tcell.ModAlt != 0,
		CtrlKey: mods&tcell.ModCtrl != 0,
		Bubbles: true,
		Button:  event.ButtonMain,
		Buttons: domButtons(buttons),
	}

	e.mouseSeen = true
	e.lastX, e.lastY = x, y
	e.lastButtons = buttons

	if moved {
		e.fireMouse(event.KindMouseMove, native)
	}
	native.MovementX, native.MovementY = 0, 0
	for _, m := range buttonMap {
		if pressed&m.mask != 0 {
			native.Button = m.button
			e.fireMouse(event.KindMouseDown, native)
		}
	}
	for _, m := range buttonMap {
		if released&m.mask != 0 {
			native.Button = m.button
			e.fireMouse(event.KindMouseUp, native)
		}
	}
}

func (e *Environment) fireMouse(kind event.Kind, native event.NativeMouse) {
	data, err := event.EncodeMouse(native.Args(e.convert...))
	if err != nil {
		e.log.Warn("encode mouse record", zap.Stringer("kind", kind), zap.Error(err))
		return
	}
	e.fire(kind, data)
}

// fire invokes every listener for kind on the poll goroutine; errors end at this boundary
func (e *Environment) fire(kind event.Kind, payload []byte) {
	e.mu.Lock()
	fns := make([]bridge.Callback, 0, len(e.listeners[kind]))
	for _, fn := range e.listeners[kind] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		if err := fn(payload); err != nil {
			e.log.Warn("native callback failed", zap.Stringer("kind", kind), zap.Error(err))
		}
	}
}

// Subscribe implements bridge.Module
func (e *Environment) Subscribe(kind event.Kind, fn bridge.Callback) (bridge.Subscription, error) {
	if kind == event.KindNone || kind == event.KindRender {
		return nil, fmt.Errorf("cannot subscribe to %s", kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return nil, fmt.Errorf("terminal environment released")
	}
	if e.listeners[kind] == nil {
		e.listeners[kind] = make(map[int]bridge.Callback)
	}
	e.nextID++
	id := e.nextID
	e.listeners[kind][id] = fn

	return bridge.SubscriptionFunc(func() error {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[kind], id)
		return nil
	}), nil
}

// RequestFrame implements bridge.Module
func (e *Environment) RequestFrame(fn func(time.Duration)) bridge.FrameToken {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return 0
	}

	e.nextToken++
	token := e.nextToken
	// The timer callback takes mu, so it cannot observe the map before the insert below
	e.timers[token] = time.AfterFunc(e.frameInterval, func() {
		e.mu.Lock()
		_, live := e.timers[token]
		delete(e.timers, token)
		e.mu.Unlock()
		if live {
			fn(time.Since(e.origin))
		}
	})
	return token
}

// CancelFrame implements bridge.Module
func (e *Environment) CancelFrame(token bridge.FrameToken) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.timers[token]; ok {
		t.Stop()
		delete(e.timers, token)
	}
}

// InnerSize implements bridge.Module
func (e *Environment) InnerSize() (int, int) {
	return e.screen.Size()
}

// Surface implements bridge.Module; the screen is the only surface
func (e *Environment) Surface(containerID string) (bridge.Surface, bool) {
	if containerID != e.containerID {
		return nil, false
	}
	return e.canvas, true
}

// Release implements bridge.Module: stops timers and polling and restores the terminal
func (e *Environment) Release() error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return nil
	}
	e.released = true
	running := e.running
	for token, t := range e.timers {
		t.Stop()
		delete(e.timers, token)
	}
	for kind := range e.listeners {
		delete(e.listeners, kind)
	}
	e.mu.Unlock()

	if running {
		e.screen.Fini()
		<-e.pollDone
	}
	e.quit()
	return nil
}
