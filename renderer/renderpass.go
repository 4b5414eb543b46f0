package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gomandelbulb/inputs"
	"github.com/richinsley/gomandelbulb/shader"
	xlate "github.com/richinsley/gomandelbulb/translator"
)

// RenderPass is the linked Mandelbulb program and the locations of its
// uniforms. A location of -1 means the translator optimized the uniform away.
type RenderPass struct {
	ShaderProgram uint32
	resolutionLoc int32
	timeLoc       int32
	camPosLoc     int32
	tiltLoc       int32
	panLoc        int32
	powerLoc      int32
	lightPosLoc   int32
	lightColorLoc int32
	planeScaleLoc int32
}

func newRenderPass(isGLES bool) (*RenderPass, error) {
	source, err := shader.GetFragmentShader()
	if err != nil {
		return nil, err
	}

	code, names, err := xlate.TranslateFragment(source, isGLES)
	if err != nil {
		return nil, err
	}

	program, err := newProgram(shader.GenerateVertexShader(isGLES), code)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	pass := &RenderPass{ShaderProgram: program}
	gl.UseProgram(program)

	location := func(name string) int32 {
		mapped, ok := names[name]
		if !ok {
			return -1
		}
		return gl.GetUniformLocation(program, gl.Str(mapped+"\x00"))
	}
	pass.resolutionLoc = location(shader.UniformResolution)
	pass.timeLoc = location(shader.UniformTime)
	pass.camPosLoc = location(shader.UniformCameraPosition)
	pass.tiltLoc = location(shader.UniformTilt)
	pass.panLoc = location(shader.UniformPan)
	pass.powerLoc = location(shader.UniformPower)
	pass.lightPosLoc = location(shader.UniformLightPosition)
	pass.lightColorLoc = location(shader.UniformLightColor)
	pass.planeScaleLoc = location(shader.UniformPlaneScale)

	return pass, nil
}

func (p *RenderPass) updateUniforms(u *inputs.Uniforms, planeScale mgl32.Vec2) {
	if p.resolutionLoc != -1 {
		gl.Uniform3fv(p.resolutionLoc, 1, &u.Resolution[0])
	}
	if p.timeLoc != -1 {
		gl.Uniform1f(p.timeLoc, u.Time)
	}
	if p.camPosLoc != -1 {
		gl.Uniform3fv(p.camPosLoc, 1, &u.CameraPosition[0])
	}
	if p.tiltLoc != -1 {
		gl.Uniform1f(p.tiltLoc, u.Tilt)
	}
	if p.panLoc != -1 {
		gl.Uniform1f(p.panLoc, u.Pan)
	}
	if p.powerLoc != -1 {
		gl.Uniform1f(p.powerLoc, u.Power)
	}
	if p.lightPosLoc != -1 {
		gl.Uniform3fv(p.lightPosLoc, 1, &u.LightPosition[0])
	}
	if p.lightColorLoc != -1 {
		gl.Uniform3fv(p.lightColorLoc, 1, &u.LightColor[0])
	}
	if p.planeScaleLoc != -1 {
		gl.Uniform2f(p.planeScaleLoc, planeScale[0], planeScale[1])
	}
}

func (p *RenderPass) Destroy() {
	gl.DeleteProgram(p.ShaderProgram)
}
