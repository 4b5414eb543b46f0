package fractal

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEstimateOutsideBailoutStopsOnFirstIteration(t *testing.T) {
	tests := []struct {
		name string
		pos  mgl32.Vec3
	}{
		{"on z axis", mgl32.Vec3{0, 0, 3}},
		{"on x axis", mgl32.Vec3{-2.5, 0, 0}},
		{"diagonal", mgl32.Vec3{2, 2, 2}},
		{"far away", mgl32.Vec3{0, 0, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Estimate(tt.pos, 8)
			if s.Iterations != 1 {
				t.Errorf("expected escape on iteration 1, got %d", s.Iterations)
			}
			if s.Derivative != 1 {
				t.Errorf("expected untouched derivative 1, got %f", s.Derivative)
			}
			if math.IsNaN(float64(s.Distance)) || math.IsInf(float64(s.Distance), 0) || s.Distance <= 0 {
				t.Errorf("expected finite positive distance, got %f", s.Distance)
			}

			r := tt.pos.Len()
			want := 0.5 * math.Log(float64(r)) * float64(r)
			if math.Abs(float64(s.Distance)-want) > 1e-4 {
				t.Errorf("expected distance %f, got %f", want, s.Distance)
			}
		})
	}
}

func TestEstimateIsDeterministic(t *testing.T) {
	points := []mgl32.Vec3{
		{0.3, -0.2, 0.7},
		{1.1, 0.4, -0.3},
		{0, 0, 0.9},
		{-0.5, 0.5, 0.5},
	}

	for _, p := range points {
		for _, power := range []float32{7, 8, 12, 17} {
			a := DistanceEstimate(p, power)
			b := DistanceEstimate(p, power)
			if math.Float32bits(a) != math.Float32bits(b) {
				t.Errorf("DE(%v, %v) not repeatable: %x vs %x", p, power, math.Float32bits(a), math.Float32bits(b))
			}
		}
	}
}

func TestEstimateInsideIsBelowThreshold(t *testing.T) {
	// On the z axis the iteration stays one dimensional: 0.5 -> 0.5^8 + 0.5 ...
	// converges, so the point never escapes.
	s := Estimate(mgl32.Vec3{0, 0, 0.5}, 8)
	if s.Iterations != Iterations {
		t.Fatalf("expected all %d iterations, got %d", Iterations, s.Iterations)
	}
	if s.Distance >= HitThreshold {
		t.Errorf("expected interior estimate below threshold, got %f", s.Distance)
	}
}

func TestEstimateDecreasesTowardSurface(t *testing.T) {
	far := DistanceEstimate(mgl32.Vec3{0, 0, 4}, 8)
	near := DistanceEstimate(mgl32.Vec3{0, 0, 2.5}, 8)
	if !(near < far) {
		t.Errorf("expected estimate to shrink approaching the fractal: near=%f far=%f", near, far)
	}
}
