package event

import "strings"

var (
	nameToKind = make(map[string]Kind)
	kindToName = make(map[Kind]string)
)

// RegisterKind maps a native event name to a Kind
// Later registrations of the same name or kind replace earlier ones
func RegisterKind(name string, k Kind) {
	nameToKind[name] = k
	kindToName[k] = name
}

// KindByName returns the Kind for a native event name, case-insensitive
func KindByName(name string) (Kind, bool) {
	k, ok := nameToKind[strings.ToLower(name)]
	return k, ok
}

// KindName returns the native event name for a Kind, empty if unregistered
func KindName(k Kind) string {
	return kindToName[k]
}

func init() {
	// DOM names, shared by every environment so logs read the same
	RegisterKind("animationframe", KindRender)
	RegisterKind("resize", KindResize)
	RegisterKind("mousedown", KindMouseDown)
	RegisterKind("mouseup", KindMouseUp)
	RegisterKind("mousemove", KindMouseMove)
}
