package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/gomandelbulb/inputs"
)

// Context is a GLFW window with a current OpenGL 4.1 core context. Pointer
// and key events are delivered to listeners registered through Events.
type Context struct {
	window    *glfw.Window
	listeners inputs.Listeners
}

// New creates and initializes a new GLFW window and returns a Context object.
func New(width, height int, visible bool, title string) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window: win,
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)

	return c, nil
}

// glfwKeyCallback is the function that will be called by GLFW on a key event.
func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
		return
	}
	if r, ok := KeyRune(key, mods); ok {
		c.listeners.Key(r)
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	width, height := w.GetSize()
	c.listeners.Cursor(xpos, ypos, width, height)
}

// KeyRune maps an unshifted letter key to its lower-case rune. Shifted
// letters produce upper-case characters, which no binding uses.
func KeyRune(key glfw.Key, mods glfw.ModifierKey) (rune, bool) {
	if mods&glfw.ModShift != 0 {
		return 0, false
	}
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		return 'a' + rune(key-glfw.KeyA), true
	}
	return 0, false
}

// Events returns the source pointer and key listeners register on.
func (c *Context) Events() inputs.EventSource {
	return &c.listeners
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown releases the native callbacks and destroys the window.
func (c *Context) Shutdown() {
	if n := c.listeners.Count(); n != 0 {
		log.Printf("glfwcontext: %d input listeners still registered at shutdown", n)
	}
	c.window.SetKeyCallback(nil)
	c.window.SetCursorPosCallback(nil)
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
