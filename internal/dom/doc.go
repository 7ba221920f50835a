// Package dom adapts the browser page to the navigation core: section
// layout, smooth scrolling, scroll events, localStorage and the rendering of
// controller state onto the server-rendered header. It only builds for
// GOOS=js GOARCH=wasm.
package dom
