// Package animation advances the Mandelbulb's camera and shader parameters
// once per rendered frame.
package animation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/richinsley/gomandelbulb/inputs"
)

const (
	// MoveSpeed is the camera offset applied per movement key press.
	MoveSpeed = 0.1
	// AngleScale converts a normalized pointer position to a pan/tilt angle.
	AngleScale = math.Pi / 10
)

var (
	BasePosition  = mgl64.Vec3{0, 0, 5}
	LightPosition = mgl32.Vec3{5, 5, 5}
)

// Camera is the viewer state the driver owns between frames.
type Camera struct {
	Offset mgl64.Vec3
	Pan    float64
	Tilt   float64
}

// Position is the base position moved by the accumulated keyboard offset.
func (c Camera) Position() mgl64.Vec3 {
	return BasePosition.Add(c.Offset)
}

// Driver turns elapsed time and input into shader uniforms. It is meant to be
// used from a single goroutine: the frame loop that also delivers input.
type Driver struct {
	camera     Camera
	panTarget  float64
	tiltTarget float64
	uniforms   inputs.Uniforms
}

func NewDriver() *Driver {
	return &Driver{
		uniforms: inputs.DefaultUniforms(),
	}
}

// Camera returns the current camera state.
func (d *Driver) Camera() Camera {
	return d.camera
}

// Targets returns the pan and tilt the camera is easing toward.
func (d *Driver) Targets() (pan, tilt float64) {
	return d.panTarget, d.tiltTarget
}

// Uniforms returns the parameters produced by the last Update.
func (d *Driver) Uniforms() inputs.Uniforms {
	return d.uniforms
}

// MouseMove sets the pan and tilt targets from a pointer position within a
// viewport of the given size.
func (d *Driver) MouseMove(x, y float64, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	nx := x/float64(width)*2 - 1
	ny := -(y/float64(height))*2 + 1

	d.tiltTarget = ny * AngleScale
	d.panTarget = nx * AngleScale
}

// KeyPress moves the camera offset for w, a, s and d; other keys are ignored.
func (d *Driver) KeyPress(key rune) {
	switch key {
	case 'w':
		d.camera.Offset = d.camera.Offset.Add(mgl64.Vec3{0, 0, -MoveSpeed})
	case 's':
		d.camera.Offset = d.camera.Offset.Add(mgl64.Vec3{0, 0, MoveSpeed})
	case 'a':
		d.camera.Offset = d.camera.Offset.Add(mgl64.Vec3{-MoveSpeed, 0, 0})
	case 'd':
		d.camera.Offset = d.camera.Offset.Add(mgl64.Vec3{MoveSpeed, 0, 0})
	}
}

// Attach subscribes the driver to src. The returned function removes both
// subscriptions; calling it more than once has no further effect.
func (d *Driver) Attach(src inputs.EventSource) (detach func()) {
	removeCursor := src.OnCursorMove(d.MouseMove)
	removeKey := src.OnKey(d.KeyPress)

	detached := false
	return func() {
		if detached {
			return
		}
		detached = true
		removeKey()
		removeCursor()
	}
}

// Power is the fractal exponent at a given elapsed time, breathing between
// 7 and 17 with a period of 20π seconds.
func Power(elapsed float64) float64 {
	return 12 + 5*math.Sin(elapsed/10)
}

// Update advances one frame and returns the uniforms to draw it with.
//
// The eased tilt is tracked on the camera but not written to the uniforms;
// the tilt uniform keeps its initial value.
func (d *Driver) Update(elapsed float64, width, height int) inputs.Uniforms {
	d.camera.Tilt = Ease(d.camera.Tilt, d.tiltTarget)
	d.camera.Pan = Ease(d.camera.Pan, d.panTarget)

	pos := d.camera.Position()
	d.uniforms.CameraPosition = mgl32.Vec3{float32(pos[0]), float32(pos[1]), float32(pos[2])}
	d.uniforms.Pan = float32(d.camera.Pan)
	d.uniforms.Power = float32(Power(elapsed))
	d.uniforms.Time = float32(elapsed)
	d.uniforms.Resolution = mgl32.Vec3{float32(width), float32(height), 1}
	d.uniforms.LightPosition = LightPosition

	return d.uniforms
}
