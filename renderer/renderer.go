// Package renderer draws the Mandelbulb with OpenGL, either into a window
// or offscreen for recording.
package renderer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gomandelbulb/animation"
	"github.com/richinsley/gomandelbulb/graphics"
	"github.com/richinsley/gomandelbulb/inputs"
	"github.com/richinsley/gomandelbulb/quad"
	"github.com/richinsley/gomandelbulb/shader"
)

// gl.Init loads function pointers for the current context; once is enough.
var glInitOnce sync.Once

type Renderer struct {
	context           graphics.Context
	quadVAO           uint32
	quadVBO           uint32
	pass              *RenderPass
	offscreenRenderer *OffscreenRenderer
	blitProgram       uint32
	width             int
	height            int
	recordMode        bool

	viewWidth  int
	viewHeight int
	planeScale mgl32.Vec2
}

// NewRenderer makes ctx current and prepares the offscreen target. In record
// mode the render size stays at width x height; otherwise it follows the
// framebuffer.
func NewRenderer(ctx graphics.Context, width, height int, recordMode bool) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		width:      width,
		height:     height,
		recordMode: recordMode,
	}

	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	w, h := r.renderSize()
	var err error
	r.offscreenRenderer, err = NewOffscreenRenderer(w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
	}

	return r, nil
}

func (r *Renderer) Shutdown() {
	if r.pass != nil {
		r.pass.Destroy()
	}
	if r.blitProgram != 0 {
		gl.DeleteProgram(r.blitProgram)
	}
	if r.offscreenRenderer != nil {
		r.offscreenRenderer.Destroy()
	}
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// InitScene builds the fullscreen quad and compiles the Mandelbulb and blit
// programs.
func (r *Renderer) InitScene() error {
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	isGLES := r.context.IsGLES()

	var err error
	if !r.recordMode {
		r.blitProgram, err = newProgram(shader.GenerateVertexShader(isGLES), shader.GetBlitFragmentShader(isGLES))
		if err != nil {
			return fmt.Errorf("failed to create blit program: %w", err)
		}
	}

	r.pass, err = newRenderPass(isGLES)
	if err != nil {
		return err
	}
	return nil
}

// renderSize is the fixed recording size, or the framebuffer size when
// interactive.
func (r *Renderer) renderSize() (int, int) {
	if r.recordMode {
		return r.width, r.height
	}
	return r.context.GetFramebufferSize()
}

// PlaneScale returns the plane-UV half extent of a width x height view of the
// plane, recomputing it only when the size changes.
func (r *Renderer) PlaneScale(width, height int) mgl32.Vec2 {
	if width != r.viewWidth || height != r.viewHeight {
		r.viewWidth, r.viewHeight = width, height
		r.planeScale = quad.NewView(quad.DefaultCamera(), quad.PlaneSize, width, height).Scale()
	}
	return r.planeScale
}

// RenderFrame draws one frame with u into the offscreen framebuffer.
func (r *Renderer) RenderFrame(u inputs.Uniforms) {
	width, height := r.renderSize()
	if width <= 0 || height <= 0 {
		return
	}
	r.offscreenRenderer.Resize(width, height)

	gl.BindFramebuffer(gl.FRAMEBUFFER, r.offscreenRenderer.fbo)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.pass.ShaderProgram)
	r.pass.updateUniforms(&u, r.PlaneScale(width, height))
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Run is the interactive loop. The driver receives the context's pointer and
// key events until the window closes or ctx is cancelled, and is detached
// before Run returns.
func (r *Renderer) Run(ctx context.Context, d *animation.Driver) {
	if events := r.context.Events(); events != nil {
		detach := d.Attach(events)
		defer detach()
	}

	startTime := r.context.Time()
	for ctx.Err() == nil && !r.context.ShouldClose() {
		elapsed := r.context.Time() - startTime
		fbWidth, fbHeight := r.context.GetFramebufferSize()

		u := d.Update(elapsed, fbWidth, fbHeight)
		r.RenderFrame(u)

		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.UseProgram(r.blitProgram)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.offscreenRenderer.textureID)
		gl.BindVertexArray(r.quadVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.Disable(gl.BLEND)

		r.context.EndFrame()
	}
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", logText)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
