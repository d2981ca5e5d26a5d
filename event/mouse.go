package event

// MouseArgs is the mouse payload handed to host handlers
// Field names and widths are fixed for interop with the browser-side record
type MouseArgs struct {
	ScreenX   int32
	ScreenY   int32
	ClientX   int32
	ClientY   int32
	MovementX int32
	MovementY int32
	OffsetX   int32
	OffsetY   int32
	AltKey    bool
	CtrlKey   bool
	Bubbles   bool
	Buttons   int32
	Button    int32
}

// DOM MouseEvent.button values
const (
	ButtonMain      int32 = 0
	ButtonAuxiliary int32 = 1
	ButtonSecondary int32 = 2
	ButtonBack      int32 = 3
	ButtonForward   int32 = 4
)

// DOM MouseEvent.buttons bits
const (
	ButtonsNone      int32 = 0
	ButtonsPrimary   int32 = 1 << 0
	ButtonsSecondary int32 = 1 << 1
	ButtonsAuxiliary int32 = 1 << 2
	ButtonsBack      int32 = 1 << 3
	ButtonsForward   int32 = 1 << 4
)

// NativeMouse holds the raw MouseEvent properties read from an environment
// Buttons here is always the real pressed-buttons bitmask
type NativeMouse struct {
	ScreenX, ScreenY     int32
	ClientX, ClientY     int32
	MovementX, MovementY int32
	OffsetX, OffsetY     int32
	AltKey, CtrlKey      bool
	Bubbles              bool
	Button               int32
	Buttons              int32
}

// ConvertOption adjusts NativeMouse to MouseArgs conversion
type ConvertOption func(*convertConfig)

type convertConfig struct {
	buttonsBitmask bool
}

// WithButtonsBitmask fills MouseArgs.Buttons from the native pressed-buttons bitmask
// Without it Buttons duplicates Button, matching the historical browser-side record
func WithButtonsBitmask(enabled bool) ConvertOption {
	return func(c *convertConfig) {
		c.buttonsBitmask = enabled
	}
}

// Args converts native properties into the handler payload
func (n NativeMouse) Args(opts ...ConvertOption) MouseArgs {
	var cfg convertConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	buttons := n.Button
	if cfg.buttonsBitmask {
		buttons = n.Buttons
	}

	return MouseArgs{
		ScreenX:   n.ScreenX,
		ScreenY:   n.ScreenY,
		ClientX:   n.ClientX,
		ClientY:   n.ClientY,
		MovementX: n.MovementX,
		MovementY: n.MovementY,
		OffsetX:   n.OffsetX,
		OffsetY:   n.OffsetY,
		AltKey:    n.AltKey,
		CtrlKey:   n.CtrlKey,
		Bubbles:   n.Bubbles,
		Buttons:   buttons,
		Button:    n.Button,
	}
}

// Pressed returns true if the given DOM buttons bit is set in the payload
// Only meaningful when the payload was converted WithButtonsBitmask
func (a MouseArgs) Pressed(bit int32) bool {
	return a.Buttons&bit != 0
}
