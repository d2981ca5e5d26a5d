package bridge

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/lixenwraith/framebridge/event"
)

// MockSurface records the sizes applied by resize passes
type MockSurface struct {
	mu            sync.Mutex
	width, height int
	sets          int
}

// SetSize implements Surface
func (s *MockSurface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.sets++
}

// Size returns the last applied size
func (s *MockSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Sets returns how many times SetSize was called
func (s *MockSurface) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// MockModule is a controllable Module for tests; events fire only when the test says so
type MockModule struct {
	mu            sync.Mutex
	width, height int
	surfaces      map[string]*MockSurface
	listeners     map[event.Kind]map[int]Callback
	nextListener  int
	frames        map[FrameToken]func(time.Duration)
	nextFrame     FrameToken
	cancelled     []FrameToken
	releases      int
	loads         int
	announced     Target
	subscribeErr  error
}

// NewMockModule creates a module whose window inner size is width x height
func NewMockModule(width, height int) *MockModule {
	return &MockModule{
		width:     width,
		height:    height,
		surfaces:  make(map[string]*MockSurface),
		listeners: make(map[event.Kind]map[int]Callback),
		frames:    make(map[FrameToken]func(time.Duration)),
	}
}

// Loader returns a Loader handing out this module and counting calls
func (m *MockModule) Loader() Loader {
	return func(ctx context.Context) (Module, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.loads++
		m.mu.Unlock()
		return m, nil
	}
}

// Loads returns how many times the loader ran
func (m *MockModule) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// AddSurface places a surface inside the container with the given id
func (m *MockModule) AddSurface(containerID string) *MockSurface {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &MockSurface{}
	m.surfaces[containerID] = s
	return s
}

// RemoveSurface removes the container's surface
func (m *MockModule) RemoveSurface(containerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.surfaces, containerID)
}

// FailSubscribe makes subsequent Subscribe calls return err
func (m *MockModule) FailSubscribe(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribeErr = err
}

// Subscribe implements Module
func (m *MockModule) Subscribe(kind event.Kind, fn Callback) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}
	if m.listeners[kind] == nil {
		m.listeners[kind] = make(map[int]Callback)
	}
	m.nextListener++
	id := m.nextListener
	m.listeners[kind][id] = fn
	return SubscriptionFunc(func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners[kind], id)
		return nil
	}), nil
}

// Listeners returns the number of attached listeners for kind
func (m *MockModule) Listeners(kind event.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners[kind])
}

// Fire invokes every listener for kind and returns their errors joined
func (m *MockModule) Fire(kind event.Kind, payload []byte) error {
	m.mu.Lock()
	ids := make([]int, 0, len(m.listeners[kind]))
	for id := range m.listeners[kind] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Callback, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.listeners[kind][id])
	}
	m.mu.Unlock()

	var errs []error
	for _, fn := range fns {
		if err := fn(payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FireMouse encodes args and fires a mouse kind
func (m *MockModule) FireMouse(kind event.Kind, args event.MouseArgs) error {
	data, err := event.EncodeMouse(args)
	if err != nil {
		return err
	}
	return m.Fire(kind, data)
}

// Resize changes the window inner size and fires a resize
func (m *MockModule) Resize(width, height int) error {
	m.mu.Lock()
	m.width, m.height = width, height
	m.mu.Unlock()
	return m.Fire(event.KindResize, nil)
}

// RequestFrame implements Module
func (m *MockModule) RequestFrame(fn func(time.Duration)) FrameToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextFrame++
	m.frames[m.nextFrame] = fn
	return m.nextFrame
}

// CancelFrame implements Module
func (m *MockModule) CancelFrame(token FrameToken) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.frames[token]; ok {
		delete(m.frames, token)
		m.cancelled = append(m.cancelled, token)
	}
}

// RunFrame fires the oldest pending frame request with timestamp
// Returns false if nothing was pending
func (m *MockModule) RunFrame(timestamp time.Duration) bool {
	m.mu.Lock()
	var (
		oldest FrameToken
		fn     func(time.Duration)
	)
	for token, f := range m.frames {
		if oldest == 0 || token < oldest {
			oldest, fn = token, f
		}
	}
	if fn != nil {
		delete(m.frames, oldest)
	}
	m.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(timestamp)
	return true
}

// PendingFrames returns the number of outstanding frame requests
func (m *MockModule) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// Cancelled returns the tokens dropped by CancelFrame
func (m *MockModule) Cancelled() []FrameToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FrameToken(nil), m.cancelled...)
}

// InnerSize implements Module
func (m *MockModule) InnerSize() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

// Surface implements Module
func (m *MockModule) Surface(containerID string) (Surface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.surfaces[containerID]
	if !ok {
		return nil, false
	}
	return s, true
}

// Release implements Module
func (m *MockModule) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases++
	return nil
}

// Releases returns how many times Release was called
func (m *MockModule) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

// Announce implements Announcer
func (m *MockModule) Announce(t Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announced = t
}

// Withdraw implements Announcer
func (m *MockModule) Withdraw(t Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.announced == t {
		m.announced = nil
	}
}

// Announced returns the target currently published to native code
func (m *MockModule) Announced() Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.announced
}
