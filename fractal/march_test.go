package fractal

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gomandelbulb/inputs"
)

func frameZero() inputs.Uniforms {
	u := inputs.DefaultUniforms()
	u.CameraPosition = mgl32.Vec3{0, 0, 5}
	u.Power = 12
	u.LightPosition = mgl32.Vec3{5, 5, 5}
	u.Resolution = mgl32.Vec3{64, 48, 1}
	return u
}

func TestMarchAwayFromFractalNeverHits(t *testing.T) {
	tests := []struct {
		name   string
		origin mgl32.Vec3
		dir    mgl32.Vec3
	}{
		{"behind camera", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}},
		{"sideways out", mgl32.Vec3{10, 0, 0}, mgl32.Vec3{1, 0, 0}},
		{"diagonal out", mgl32.Vec3{3, 3, 3}, mgl32.Vec3{1, 1, 1}.Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := March(tt.origin, tt.dir, 8)
			if h.Hit {
				t.Fatalf("expected miss, got hit at %v after %d steps", h.Position, h.Steps)
			}
			if h.Travel <= MaxDistance && h.Steps < MaxSteps {
				t.Errorf("march stopped early: travel=%f steps=%d", h.Travel, h.Steps)
			}
		})
	}
}

func TestShadeMissIsTransparent(t *testing.T) {
	u := frameZero()
	u.CameraPosition = mgl32.Vec3{40, 40, 5}

	c := Shade(mgl32.Vec2{0.5, 0.5}, &u)
	if c != Background {
		t.Errorf("expected background, got %v", c)
	}
}

func TestCentreRayHitsOpaque(t *testing.T) {
	u := frameZero()

	origin, dir := Ray(mgl32.Vec2{0.5, 0.5}, &u)
	if dir != (mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("expected straight-ahead ray, got %v", dir)
	}

	h := March(origin, dir, u.Power)
	if !h.Hit {
		t.Fatalf("expected centre ray to hit, travelled %f in %d steps", h.Travel, h.Steps)
	}
	if h.Position[2] <= 0 || h.Position[2] >= 2 {
		t.Errorf("expected hit between origin and bailout sphere, got z=%f", h.Position[2])
	}

	c := Shade(mgl32.Vec2{0.5, 0.5}, &u)
	if c[3] != 1 {
		t.Errorf("expected opaque hit colour, got alpha %f", c[3])
	}
}

func TestRayAppliesPanAndTilt(t *testing.T) {
	u := frameZero()
	u.Pan = 0.25
	u.Tilt = -0.5

	_, dir := Ray(mgl32.Vec2{0.5, 0.5}, &u)
	want := mgl32.Vec3{0.25, -0.5, -1}.Normalize()
	if !dir.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("expected %v, got %v", want, dir)
	}
}

func TestLightClampsProductNotDiffuse(t *testing.T) {
	u := frameZero()
	base := mgl32.Vec3{1, 1, 1}
	p := mgl32.Vec3{0, 0, 0}

	// Facing away from the light: diffuse is 0, lighting floors at 0.5.
	away := u.LightPosition.Normalize().Mul(-1)
	if got := Light(base, p, away, &u); !got.ApproxEqualThreshold(mgl32.Vec3{0.5, 0.5, 0.5}, 1e-5) {
		t.Errorf("expected floor of 0.5, got %v", got)
	}

	// Facing the light: diffuse is 1, lighting caps at 1.
	toward := u.LightPosition.Normalize()
	if got := Light(base, p, toward, &u); !got.ApproxEqualThreshold(base, 1e-5) {
		t.Errorf("expected full intensity, got %v", got)
	}

	// A dim light leaves every channel on the floor.
	u.LightColor = mgl32.Vec3{0.2, 0, 0}
	if got := Light(base, p, toward, &u); !got.ApproxEqualThreshold(mgl32.Vec3{0.5, 0.5, 0.5}, 1e-5) {
		t.Errorf("expected floored channels, got %v", got)
	}
}

func TestAmbientColor(t *testing.T) {
	c := AmbientColor(mgl32.Vec3{0, 0, 0}, 0)
	want := mgl32.Vec3{0.5, 0.1, 1.0}
	if !c.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("expected %v at origin and t=0, got %v", want, c)
	}
}

func TestRenderFrame(t *testing.T) {
	u := frameZero()
	img, err := Render(context.Background(), u, 64, 48, 2)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	if a := img.NRGBAAt(32, 24).A; a != 255 {
		t.Errorf("expected centre pixel opaque, got alpha %d", a)
	}
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("expected corner pixel transparent, got alpha %d", a)
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Render(ctx, frameZero(), 32, 32, 1); err == nil {
		t.Error("expected cancellation error")
	}
}
