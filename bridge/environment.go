package bridge

import (
	"context"
	"time"

	"github.com/lixenwraith/framebridge/event"
)

// DefaultContainerID is the id of the element wrapping the drawing surface
const DefaultContainerID = "canvasHolder"

// FrameToken identifies one pending animation-frame request, zero means none
type FrameToken uint64

// Callback receives one native notification
// Payload is a wire-encoded mouse record for mouse kinds and nil otherwise
// The returned error is the host handler's outcome for awaited kinds
type Callback func(payload []byte) error

// Subscription detaches one native listener
type Subscription interface {
	Close() error
}

// SubscriptionFunc adapts a function to Subscription
type SubscriptionFunc func() error

// Close implements Subscription
func (f SubscriptionFunc) Close() error {
	return f()
}

// Surface is the drawing target located inside the container
type Surface interface {
	// SetSize resizes the drawing buffer in pixels (cells for terminals)
	SetSize(width, height int)
}

// Module is the native-side counterpart of a bridge
type Module interface {
	// Subscribe registers fn for a window-level event kind
	Subscribe(kind event.Kind, fn Callback) (Subscription, error)

	// RequestFrame schedules fn for the next animation frame
	// fn receives the frame timestamp relative to the environment's time origin
	// Implementations must not invoke fn before RequestFrame returns
	RequestFrame(fn func(timestamp time.Duration)) FrameToken

	// CancelFrame drops a pending request; unknown or fired tokens are ignored
	CancelFrame(token FrameToken)

	// InnerSize returns the window's inner dimensions
	InnerSize() (width, height int)

	// Surface looks up the drawing surface nested inside the container element
	Surface(containerID string) (Surface, bool)

	// Release frees native resources held by the module
	Release() error
}

// Loader creates the module, called at most once per successful Initialize
type Loader func(ctx context.Context) (Module, error)

// Target is the view of a bridge exposed to native code
type Target interface {
	State() State
	Dispose() error
}

// Announcer is implemented by modules that publish the active bridge to native code
type Announcer interface {
	Announce(t Target)
	Withdraw(t Target)
}
