// Package headless provides an offscreen OpenGL ES context for rendering
// without a window.
package headless

import "errors"

// ErrUnsupported is returned on platforms without EGL pbuffer support.
var ErrUnsupported = errors.New("egl headless rendering is not supported on this platform")
