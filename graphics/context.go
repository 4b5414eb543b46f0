package graphics

import (
	"github.com/richinsley/gomandelbulb/inputs"
)

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
	// Events returns the context's input source, or nil when it has none.
	Events() inputs.EventSource
}
