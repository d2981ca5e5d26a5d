// Package bridge forwards native frame, resize and mouse notifications to host handlers.
//
// A Bridge owns one lazily loaded Module (the native-side counterpart) and turns its untyped
// callbacks into an ordered sequence of typed notifications:
//
//   - render: fps computed from successive animation-frame timestamps
//   - resize: surface re-measured against the window inner size
//   - mouse down/up/move: validated wire records decoded to event.MouseArgs
//
// Lifecycle: Uninitialized -> Initializing -> Active -> Disposed.
// All handler invocations run on a single executor goroutine in arrival order, so a host never
// observes two handlers running at once. Render delivery is posted without waiting; resize and
// mouse delivery is awaited and the handler's error is returned to the native callback.
//
// Handlers must not call Initialize on their own bridge: it awaits the executor they run on.
package bridge
