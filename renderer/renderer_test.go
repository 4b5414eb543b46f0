package renderer

import (
	"context"
	"testing"

	"github.com/richinsley/gomandelbulb/animation"
	"github.com/richinsley/gomandelbulb/inputs"
)

// windowContext is a graphics.Context whose window never asks to close.
type windowContext struct {
	events inputs.Listeners
	frames int
}

func (c *windowContext) MakeCurrent()                   {}
func (c *windowContext) Shutdown()                      {}
func (c *windowContext) ShouldClose() bool              { return false }
func (c *windowContext) EndFrame()                      { c.frames++ }
func (c *windowContext) GetFramebufferSize() (int, int) { return 64, 48 }
func (c *windowContext) Time() float64                  { return 0 }
func (c *windowContext) IsGLES() bool                   { return false }
func (c *windowContext) Events() inputs.EventSource     { return &c.events }

func TestRunStopsWhenContextCancelled(t *testing.T) {
	win := &windowContext{}
	r := &Renderer{context: win}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.Run(ctx, animation.NewDriver())

	if win.frames != 0 {
		t.Errorf("expected no frames after cancellation, got %d", win.frames)
	}
	if n := win.events.Count(); n != 0 {
		t.Errorf("expected driver detached on return, %d listeners left", n)
	}
}
