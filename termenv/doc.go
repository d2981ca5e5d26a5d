// Package termenv runs a bridge on a tcell terminal.
//
// The terminal stands in for the browser window: the whole screen is the surface, registered
// under the bridge container id; tcell resize and mouse events become window events; a timer
// scheduler at a fixed rate replaces requestAnimationFrame. Esc, Ctrl-C and q close Done.
package termenv
