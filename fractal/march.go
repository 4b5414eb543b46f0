package fractal

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gomandelbulb/inputs"
)

const (
	MaxSteps     = 128
	HitThreshold = float32(0.001)
	NormalOffset = float32(0.001)
	MaxDistance  = float32(100.0)
)

// Background is the colour of pixels whose ray never reaches the surface.
var Background = mgl32.Vec4{0, 0, 0, 0}

// Hit records how a single ray march ended.
type Hit struct {
	Hit      bool
	Position mgl32.Vec3
	Distance float32 // estimate at the final sample
	Travel   float32 // distance marched before the final sample
	Steps    int
}

// Ray returns the camera ray for a UV coordinate on the shaded plane.
func Ray(uv mgl32.Vec2, u *inputs.Uniforms) (origin, dir mgl32.Vec3) {
	p := uv.Sub(mgl32.Vec2{0.5, 0.5}).Mul(2)
	dir = mgl32.Vec3{p[0] + u.Pan, p[1] + u.Tilt, -1}.Normalize()
	return u.CameraPosition, dir
}

// March steps from origin along dir by the distance estimate until the
// estimate drops below HitThreshold, the ray travels past MaxDistance or
// MaxSteps samples have been taken.
func March(origin, dir mgl32.Vec3, power float32) Hit {
	var total float32
	for i := 0; i < MaxSteps; i++ {
		p := origin.Add(dir.Mul(total))
		d := DistanceEstimate(p, power)
		if d < HitThreshold {
			return Hit{Hit: true, Position: p, Distance: d, Travel: total, Steps: i + 1}
		}
		total += d
		if total > MaxDistance {
			return Hit{Position: p, Distance: d, Travel: total, Steps: i + 1}
		}
	}
	return Hit{Position: origin.Add(dir.Mul(total)), Travel: total, Steps: MaxSteps}
}

// AmbientColor is the time-varying base colour at p.
func AmbientColor(p mgl32.Vec3, time float32) mgl32.Vec3 {
	rho := p.Len() * 2
	return mgl32.Vec3{
		0.5 + 0.5*math32.Sin(rho-time),
		0.1 + 0.5*math32.Sin(rho+time),
		0.9 + 0.1*math32.Cos(rho),
	}
}

// Normal estimates the surface normal at p, where d is the estimate at p.
func Normal(p mgl32.Vec3, d, power float32) mgl32.Vec3 {
	return mgl32.Vec3{
		DistanceEstimate(p.Add(mgl32.Vec3{NormalOffset, 0, 0}), power) - d,
		DistanceEstimate(p.Add(mgl32.Vec3{0, NormalOffset, 0}), power) - d,
		DistanceEstimate(p.Add(mgl32.Vec3{0, 0, NormalOffset}), power) - d,
	}.Normalize()
}

// Light shades base by the diffuse term toward the light. The product of
// diffuse and light colour is clamped to [0.5, 1] per channel so lit
// surfaces never go fully dark.
func Light(base, p, normal mgl32.Vec3, u *inputs.Uniforms) mgl32.Vec3 {
	toLight := u.LightPosition.Sub(p).Normalize()
	diffuse := math32.Max(normal.Dot(toLight), 0)
	lit := u.LightColor.Mul(diffuse)
	return mgl32.Vec3{
		base[0] * mgl32.Clamp(lit[0], 0.5, 1),
		base[1] * mgl32.Clamp(lit[1], 0.5, 1),
		base[2] * mgl32.Clamp(lit[2], 0.5, 1),
	}
}

// Shade returns the RGBA colour for a plane UV in [0,1]².
func Shade(uv mgl32.Vec2, u *inputs.Uniforms) mgl32.Vec4 {
	origin, dir := Ray(uv, u)
	h := March(origin, dir, u.Power)
	if !h.Hit {
		return Background
	}

	n := Normal(h.Position, h.Distance, u.Power)
	c := Light(AmbientColor(h.Position, u.Time), h.Position, n, u)
	return c.Vec4(1)
}
