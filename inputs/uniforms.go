package inputs

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms holds the values uploaded to the Mandelbulb shader each frame.
type Uniforms struct {
	Time           float32
	Resolution     mgl32.Vec3 // width, height, 1
	CameraPosition mgl32.Vec3
	Pan            float32
	Tilt           float32
	Power          float32
	LightPosition  mgl32.Vec3
	LightColor     mgl32.Vec3
}

// DefaultUniforms returns the parameter set as it stands before the first
// frame has been driven.
func DefaultUniforms() Uniforms {
	return Uniforms{
		CameraPosition: mgl32.Vec3{0, 0, 2},
		Power:          8,
		LightPosition:  mgl32.Vec3{0, 5, 5},
		LightColor:     mgl32.Vec3{1, 1, 1},
	}
}
