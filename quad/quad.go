// Package quad describes the square plane the Mandelbulb shader is painted on
// and the perspective camera that frames it.
package quad

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PlaneSize is the edge length of the shaded plane in world units.
const PlaneSize = float32(20)

// Camera is a perspective camera looking down -Z.
type Camera struct {
	Position mgl32.Vec3
	FovY     float32 // degrees
	Near     float32
	Far      float32
}

// DefaultCamera frames the plane from (0,0,5) with a 75 degree field of view.
func DefaultCamera() Camera {
	return Camera{
		Position: mgl32.Vec3{0, 0, 5},
		FovY:     75,
		Near:     0.1,
		Far:      1000,
	}
}

func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(mgl32.Vec3{0, 0, -1}), mgl32.Vec3{0, 1, 0})
}

// View is a plane of a given size framed by a camera at a viewport size.
type View struct {
	Camera Camera
	Size   float32
	Width  int
	Height int

	modelView  mgl32.Mat4
	projection mgl32.Mat4
}

func NewView(camera Camera, size float32, width, height int) *View {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return &View{
		Camera:     camera,
		Size:       size,
		Width:      width,
		Height:     height,
		modelView:  camera.View(),
		projection: camera.Projection(aspect),
	}
}

// UV returns the plane UV under window position (x, y), with y measured
// upward from the bottom edge as GL does. ok is false when the position does
// not land on the plane.
func (v *View) UV(x, y float32) (uv mgl32.Vec2, ok bool) {
	near, err := mgl32.UnProject(mgl32.Vec3{x, y, 0}, v.modelView, v.projection, 0, 0, v.Width, v.Height)
	if err != nil {
		return uv, false
	}
	mid, err := mgl32.UnProject(mgl32.Vec3{x, y, 0.5}, v.modelView, v.projection, 0, 0, v.Width, v.Height)
	if err != nil {
		return uv, false
	}

	dz := near[2] - mid[2]
	if dz == 0 {
		return uv, false
	}
	p := near.Add(mid.Sub(near).Mul(near[2] / dz))

	uv = mgl32.Vec2{p[0]/v.Size + 0.5, p[1]/v.Size + 0.5}
	ok = uv[0] >= 0 && uv[0] <= 1 && uv[1] >= 0 && uv[1] <= 1
	return uv, ok
}

// PixelUV maps an image pixel (top-left origin) to plane UV at its centre.
func (v *View) PixelUV(px, py int) (mgl32.Vec2, bool) {
	return v.UV(float32(px)+0.5, float32(v.Height)-(float32(py)+0.5))
}

// Scale returns the half-extent of the visible plane region in UV units:
// a window position with normalized device coordinates ndc maps to
// 0.5 + ndc*Scale().
func (v *View) Scale() mgl32.Vec2 {
	uv, _ := v.UV(float32(v.Width), float32(v.Height))
	return uv.Sub(mgl32.Vec2{0.5, 0.5})
}
