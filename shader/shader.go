package shader

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/richinsley/gomandelbulb/fractal"
)

// Uniform names as declared in the Mandelbulb fragment shader.
const (
	UniformResolution     = "iResolution"
	UniformTime           = "iTime"
	UniformCameraPosition = "camPos"
	UniformTilt           = "tilt"
	UniformPan            = "pan"
	UniformPower          = "power"
	UniformLightPosition  = "lightPos"
	UniformLightColor     = "lightColor"
	UniformPlaneScale     = "planeScale"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

func GetBlitFragmentShader(isGLES bool) string {
	if isGLES {
		return blitFragmentShaderSourceGLES
	}
	return blitFragmentShaderSourceGL
}

// ────────────────────────── Mandelbulb fragment shader ─────────────────────────

//go:embed mandelbulb.frag
var mandelbulbSource string

var mandelbulbTemplate = template.Must(template.New("mandelbulb").
	Funcs(template.FuncMap{"glsl": glslFloat}).
	Parse(mandelbulbSource))

type fragmentParams struct {
	Resolution     string
	Time           string
	CameraPosition string
	Tilt           string
	Pan            string
	Power          string
	LightPosition  string
	LightColor     string
	PlaneScale     string

	Iterations   int
	Bailout      float32
	MaxSteps     int
	HitThreshold float32
	NormalOffset float32
	MaxDistance  float32
}

// GetFragmentShader returns the Mandelbulb fragment shader in the WebGL2
// dialect, with its constants taken from the CPU implementation so both
// evaluate the same fractal.
func GetFragmentShader() (string, error) {
	var buf bytes.Buffer
	err := mandelbulbTemplate.Execute(&buf, fragmentParams{
		Resolution:     UniformResolution,
		Time:           UniformTime,
		CameraPosition: UniformCameraPosition,
		Tilt:           UniformTilt,
		Pan:            UniformPan,
		Power:          UniformPower,
		LightPosition:  UniformLightPosition,
		LightColor:     UniformLightColor,
		PlaneScale:     UniformPlaneScale,

		Iterations:   fractal.Iterations,
		Bailout:      fractal.Bailout,
		MaxSteps:     fractal.MaxSteps,
		HitThreshold: fractal.HitThreshold,
		NormalOffset: fractal.NormalOffset,
		MaxDistance:  fractal.MaxDistance,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate mandelbulb shader: %w", err)
	}
	return buf.String(), nil
}

// Uniforms lists every uniform the Mandelbulb fragment shader declares.
func Uniforms() []string {
	return []string{
		UniformResolution,
		UniformTime,
		UniformCameraPosition,
		UniformTilt,
		UniformPan,
		UniformPower,
		UniformLightPosition,
		UniformLightColor,
		UniformPlaneScale,
	}
}

// glslFloat formats v as a GLSL float literal; GLSL ES rejects "2" where a
// float is expected.
func glslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
