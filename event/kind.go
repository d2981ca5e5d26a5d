package event

// Kind identifies one of the native notifications forwarded by a bridge
type Kind uint8

const (
	// KindNone is the zero value, never delivered
	KindNone Kind = iota

	// KindRender is one animation-frame callback
	// Trigger: requestAnimationFrame / frame scheduler | Payload: timestamp
	KindRender

	// KindResize fires when the window (and therefore the surface) changes size
	// Trigger: window "resize" | Payload: nil, size is re-measured
	KindResize

	// KindMouseDown fires when a button is pressed
	// Trigger: window "mousedown" | Payload: wire-encoded MouseArgs
	KindMouseDown

	// KindMouseUp fires when a button is released
	// Trigger: window "mouseup" | Payload: wire-encoded MouseArgs
	KindMouseUp

	// KindMouseMove fires on pointer motion
	// Trigger: window "mousemove" | Payload: wire-encoded MouseArgs
	KindMouseMove
)

// IsMouse returns true for the three mouse kinds
func (k Kind) IsMouse() bool {
	return k == KindMouseDown || k == KindMouseUp || k == KindMouseMove
}

// String returns the native event name
func (k Kind) String() string {
	if name := KindName(k); name != "" {
		return name
	}
	return "none"
}

// WindowKinds lists the kinds a bridge subscribes to on the window, in subscription order
var WindowKinds = []Kind{KindResize, KindMouseDown, KindMouseUp, KindMouseMove}
