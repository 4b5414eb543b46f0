// Package fractal evaluates the Mandelbulb on the CPU with the same float32
// arithmetic the fragment shader uses.
package fractal

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	Iterations = 12
	Bailout    = float32(2.0)
)

// Sample is the outcome of one distance estimate.
type Sample struct {
	Distance   float32
	Radius     float32 // radius measured at the start of the last iteration
	Derivative float32
	Iterations int // iterations entered, including the one that bailed out
}

// Estimate runs the escape-time iteration z <- z^power + pos and returns the
// logarithmic distance bound 0.5*ln(r)*r/dr together with the loop state.
//
// A radius of zero is not guarded; the returned distance is then NaN.
func Estimate(pos mgl32.Vec3, power float32) Sample {
	z := pos
	dr := float32(1.0)
	r := float32(0.0)

	n := 0
	for n < Iterations {
		n++
		r = z.Len()
		if r > Bailout {
			break
		}

		theta := math32.Acos(z[2] / r)
		phi := math32.Atan2(z[1], z[0])
		dr = math32.Pow(r, power-1)*power*dr + 1

		zr := math32.Pow(r, power)
		theta *= power
		phi *= power

		z = mgl32.Vec3{
			math32.Sin(theta) * math32.Cos(phi),
			math32.Sin(phi) * math32.Sin(theta),
			math32.Cos(theta),
		}.Mul(zr).Add(pos)
	}

	return Sample{
		Distance:   0.5 * math32.Log(r) * r / dr,
		Radius:     r,
		Derivative: dr,
		Iterations: n,
	}
}

// DistanceEstimate returns a lower bound on the distance from pos to the
// Mandelbulb of the given power.
func DistanceEstimate(pos mgl32.Vec3, power float32) float32 {
	return Estimate(pos, power).Distance
}
