package bridge

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/framebridge/event"
)

var (
	// ErrDisposed is returned when a bridge is used after Dispose
	ErrDisposed = errors.New("bridge disposed")
	// ErrNoLoader is returned by Initialize when the bridge has no module loader
	ErrNoLoader = errors.New("bridge has no module loader")
)

// HandlerError reports a host handler that panicked
type HandlerError struct {
	Kind  event.Kind
	Panic any
	Stack []byte
}

// Error implements error
func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s handler panicked: %v", e.Kind, e.Panic)
}
