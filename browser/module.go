//go:build js && wasm

package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall/js"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/framebridge/bridge"
	"github.com/lixenwraith/framebridge/event"
)

// Option configures a Module
type Option func(*Module)

// WithLogger sets the module logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

// WithConvertOptions sets the NativeMouse to MouseArgs conversion options
func WithConvertOptions(opts ...event.ConvertOption) Option {
	return func(m *Module) {
		m.convert = opts
	}
}

// Module is the bridge.Module over the page window
type Module struct {
	window   js.Value
	document js.Value
	log      *zap.Logger
	convert  []event.ConvertOption

	mu        sync.Mutex
	listeners map[*js.Func]struct{}
	frames    map[bridge.FrameToken]js.Func
	surfaces  map[string]*Canvas
	announced []js.Func
	global    js.Value
	attached  bool
	released  bool
}

// New creates a module; the window is attached by its loader
func New(opts ...Option) *Module {
	m := &Module{
		log:       zap.NewNop(),
		listeners: make(map[*js.Func]struct{}),
		frames:    make(map[bridge.FrameToken]js.Func),
		surfaces:  make(map[string]*Canvas),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Loader returns a bridge.Loader that attaches the global window
func (m *Module) Loader() bridge.Loader {
	return func(ctx context.Context) (bridge.Module, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.released {
			return nil, errors.New("module released")
		}
		if m.attached {
			return m, nil
		}
		window := js.Global().Get("window")
		if window.IsUndefined() || window.IsNull() {
			return nil, errors.New("window is not available")
		}
		m.window = window
		m.document = window.Get("document")
		m.attached = true
		return m, nil
	}
}

// Subscribe adds a window listener for a resize or mouse kind
func (m *Module) Subscribe(kind event.Kind, fn bridge.Callback) (bridge.Subscription, error) {
	if kind == event.KindNone || kind == event.KindRender {
		return nil, fmt.Errorf("kind %s is not a window event", kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return nil, errors.New("module released")
	}

	name := kind.String()
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var payload []byte
		if kind.IsMouse() && len(args) > 0 {
			p, err := event.EncodeMouse(readMouse(args[0]).Args(m.convert...))
			if err != nil {
				m.log.Warn("mouse encode failed", zap.String("kind", name), zap.Error(err))
				return nil
			}
			payload = p
		}
		if err := fn(payload); err != nil {
			m.log.Debug("listener error", zap.String("kind", name), zap.Error(err))
			return err.Error()
		}
		return nil
	})
	m.window.Call("addEventListener", name, cb)
	m.listeners[&cb] = struct{}{}

	var once sync.Once
	return bridge.SubscriptionFunc(func() error {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, &cb)
			m.mu.Unlock()
			m.window.Call("removeEventListener", name, cb)
			cb.Release()
		})
		return nil
	}), nil
}

// readMouse copies MouseEvent properties into a NativeMouse
func readMouse(e js.Value) event.NativeMouse {
	num := func(key string) int32 {
		v := e.Get(key)
		if v.Type() != js.TypeNumber {
			return 0
		}
		return clampInt32(v.Float())
	}
	flag := func(key string) bool {
		v := e.Get(key)
		return v.Type() == js.TypeBoolean && v.Bool()
	}
	return event.NativeMouse{
		ScreenX:   num("screenX"),
		ScreenY:   num("screenY"),
		ClientX:   num("clientX"),
		ClientY:   num("clientY"),
		MovementX: num("movementX"),
		MovementY: num("movementY"),
		OffsetX:   num("offsetX"),
		OffsetY:   num("offsetY"),
		AltKey:    flag("altKey"),
		CtrlKey:   flag("ctrlKey"),
		Bubbles:   flag("bubbles"),
		Button:    num("button"),
		Buttons:   num("buttons"),
	}
}

// RequestFrame wraps requestAnimationFrame; each callback is released after it fires
func (m *Module) RequestFrame(fn func(time.Duration)) bridge.FrameToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return 0
	}

	var token bridge.FrameToken
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		m.mu.Lock()
		f, ok := m.frames[token]
		delete(m.frames, token)
		m.mu.Unlock()
		if !ok {
			return nil
		}
		defer f.Release()

		var ms float64
		if len(args) > 0 && args[0].Type() == js.TypeNumber {
			ms = args[0].Float()
		}
		fn(FrameTime(ms))
		return nil
	})
	token = bridge.FrameToken(m.window.Call("requestAnimationFrame", cb).Int())
	m.frames[token] = cb
	return token
}

// CancelFrame wraps cancelAnimationFrame
func (m *Module) CancelFrame(token bridge.FrameToken) {
	m.mu.Lock()
	cb, ok := m.frames[token]
	delete(m.frames, token)
	m.mu.Unlock()
	if !ok {
		return
	}
	m.window.Call("cancelAnimationFrame", int(token))
	cb.Release()
}

// InnerSize returns window.innerWidth and window.innerHeight
func (m *Module) InnerSize() (int, int) {
	return m.window.Get("innerWidth").Int(), m.window.Get("innerHeight").Int()
}

// Surface returns the first canvas nested in the element with containerID
func (m *Module) Surface(containerID string) (bridge.Surface, bool) {
	c, ok := m.Canvas(containerID)
	if !ok {
		return nil, false
	}
	return c, true
}

// Canvas returns the 2D canvas nested in containerID, cached per container
func (m *Module) Canvas(containerID string) (*Canvas, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.attached {
		return nil, false
	}

	holder := m.document.Call("getElementById", containerID)
	if holder.IsNull() || holder.IsUndefined() {
		delete(m.surfaces, containerID)
		return nil, false
	}
	el := holder.Call("querySelector", "canvas")
	if el.IsNull() || el.IsUndefined() {
		delete(m.surfaces, containerID)
		return nil, false
	}
	if c, ok := m.surfaces[containerID]; ok && c.element.Equal(el) {
		return c, true
	}
	c := newCanvas(el)
	m.surfaces[containerID] = c
	return c, true
}

// Announce publishes t as the frameBridge global
func (m *Module) Announce(t bridge.Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.releaseAnnounced()

	state := js.FuncOf(func(js.Value, []js.Value) any {
		return t.State().String()
	})
	dispose := js.FuncOf(func(js.Value, []js.Value) any {
		// Dispose cancels a pending frame and stops the executor; keep it off the JS loop
		go func() {
			if err := t.Dispose(); err != nil {
				m.log.Warn("dispose from page failed", zap.Error(err))
			}
		}()
		return nil
	})
	obj := js.Global().Get("Object").New()
	obj.Set("state", state)
	obj.Set("dispose", dispose)
	js.Global().Set(GlobalName, obj)
	m.announced = []js.Func{state, dispose}
	m.global = obj
}

func (m *Module) releaseAnnounced() {
	for _, f := range m.announced {
		f.Release()
	}
	m.announced = nil
}

// Withdraw removes the frameBridge global
func (m *Module) Withdraw(bridge.Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawLocked()
}

func (m *Module) withdrawLocked() {
	if m.announced == nil {
		return
	}
	// A later bridge may have replaced the global
	if js.Global().Get(GlobalName).Equal(m.global) {
		js.Global().Delete(GlobalName)
	}
	m.releaseAnnounced()
	m.global = js.Undefined()
}

// Release drops every listener and pending frame held by the module
func (m *Module) Release() error {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return nil
	}
	m.released = true
	frames := m.frames
	m.frames = make(map[bridge.FrameToken]js.Func)
	listeners := len(m.listeners)
	m.withdrawLocked()
	m.mu.Unlock()

	for token, cb := range frames {
		m.window.Call("cancelAnimationFrame", int(token))
		cb.Release()
	}
	if listeners > 0 {
		m.log.Warn("module released with live listeners", zap.Int("count", listeners))
	}
	return nil
}
