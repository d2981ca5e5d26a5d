// Package browser is the window/document environment for js/wasm builds
//
// A Module wraps the page window: window-level listeners are js.FuncOf callbacks
// removed and released on Close, frames come from requestAnimationFrame and the
// surface is the first <canvas> nested in the container element. The active
// bridge is published to page scripts as the frameBridge global.
package browser
